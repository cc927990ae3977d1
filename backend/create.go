package backend

import (
	"mime/multipart"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var createTmpl = tmpl(`<h1>Upload asset</h1>

	<p>
		<a class="btn btn-secondary" href="assets/1">Cancel</a>
	</p>

	<form method="post" enctype="multipart/form-data">

		<div class="form-group row">
			<label class="col-sm-2 col-form-label">Name</label>
			<div class="col-sm-10">
				<input class="form-control" name="name" value="{{ .Name }}">
			</div>
		</div>

		<div class="form-group row">
			<label class="col-sm-2 col-form-label">Description</label>
			<div class="col-sm-10">
				<textarea class="form-control" name="description" rows="6">{{ .Description }}</textarea>
			</div>
		</div>

		<div class="form-group row">
			<label class="col-sm-2 col-form-label">Visibility</label>
			<div class="col-sm-5">
				<select class="form-control" name="visibility">
					{{ range .Visibilities }}
						<option value="{{ .Num }}"{{ if eq .Num $.VisibilityNum }} selected{{ end }}>{{ .Name }}</option>
					{{ end }}
				</select>
			</div>
			<div class="col-sm-5">
				<select class="form-control" name="allowedRole">
					<option value="0">no role restriction</option>
					{{ range .Roles }}
						<option value="{{ .Num }}"{{ if eq .Num $.RoleNum }} selected{{ end }}>{{ .Name }}</option>
					{{ end }}
				</select>
			</div>
		</div>

		<div class="form-group row">
			<label class="col-sm-2 col-form-label">Files</label>
			<div class="col-sm-10">
				<input type="file" name="upload[]" multiple>
			</div>
		</div>

		<button type="submit" class="btn btn-primary" name="create">Upload</button>
	</form>`)

type createData struct {
	*context
	Name        string
	Description string
	Visibility  core.Visibility
	AllowedRole core.Role
}

func (data *createData) VisibilityNum() int {
	return int(data.Visibility)
}

func (data *createData) RoleNum() int {
	return int(data.AllowedRole)
}

func (data *createData) Visibilities() []enumOption {
	var opts = []enumOption{}
	for _, v := range core.Visibilities {
		opts = append(opts, enumOption{int(v), v.String()})
	}
	return opts
}

func (data *createData) Roles() []enumOption {
	var opts = []enumOption{}
	for _, r := range core.Roles {
		opts = append(opts, enumOption{int(r), r.String()})
	}
	return opts
}

func create(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	var data = &createData{
		context:    ctx,
		Visibility: core.UploaderOnly,
	}

	if req.Method == http.MethodPost {

		data.Name = req.PostFormValue("name")
		data.Description = req.PostFormValue("description")
		data.Visibility, data.AllowedRole = parseVisibility(req.PostFormValue("visibility"), req.PostFormValue("allowedRole"))

		var uploadFiles []*multipart.FileHeader
		if req.MultipartForm != nil {
			uploadFiles = req.MultipartForm.File["upload[]"]
			defer req.MultipartForm.RemoveAll()
		}

		if a, err := doCreate(ctx, data, uploadFiles); err == nil {
			ctx.SeeOther("/asset/%d", a.ID)
			return nil
		} else {
			ctx.Danger(err)
			// keep user input, don't redirect
		}
	}

	return createTmpl.Execute(w, data)
}

func doCreate(ctx *context, data *createData, uploadFiles []*multipart.FileHeader) (*core.Asset, error) {

	a, err := ctx.db.CreateAsset(ctx.User, data.Name, data.Description, data.Visibility, data.AllowedRole)
	if err != nil {
		return nil, err
	}

	// upload files (MultipartReader won't work because the form has already been parsed)

	var folder = ctx.db.Uploads.Folder(a.ID)
	for _, fileheader := range uploadFiles {
		file, err := fileheader.Open()
		if err != nil {
			return nil, err
		}
		if err = folder.Upload(fileheader.Filename, file); err != nil {
			return nil, err
		}
	}

	return a, nil
}
