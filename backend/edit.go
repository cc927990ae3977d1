package backend

import (
	"fmt"
	"html/template"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var editTmpl = tmpl(`<h1>Edit: {{ .Selected.Name }}</h1>

	<p>
		<a class="btn btn-secondary" href="asset/{{ .Selected.ID }}">Cancel</a>
	</p>

	{{ .RenderVisibilityForm }}

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
			<label class="col-sm-2 col-form-label">Files</label>
			<div class="col-sm-10">
				{{ range .Files }}
					<div class="form-check">
						<input class="form-check-input" type="checkbox" name="deleteFiles[]" value="{{ .Name }}" id="delete-{{ .Name }}">
						<label class="form-check-label" for="delete-{{ .Name }}">delete {{ .Name }}</label>
					</div>
				{{ end }}
				<input type="file" name="upload[]" multiple>
			</div>
		</div>

		<button type="submit" class="btn btn-primary" name="save">Save</button>
	</form>`)

// We use a separate form for visibility because having multiple submit
// buttons in one form is tricky.
var visibilityFormTmpl = tmpl(`
	<form method="post" action="edit/{{ .Selected.ID }}" class="form-inline mb-3">
		<label class="mr-sm-2">Visibility</label>
		<select class="form-control mr-sm-2" name="visibility">
			{{ range .Visibilities }}
				<option value="{{ .Num }}"{{ if eq .Num $.VisibilityNum }} selected{{ end }}>{{ .Name }}</option>
			{{ end }}
		</select>
		<select class="form-control mr-sm-2" name="allowedRole">
			<option value="0">no role restriction</option>
			{{ range .Roles }}
				<option value="{{ .Num }}"{{ if eq .Num $.RoleNum }} selected{{ end }}>{{ .Name }}</option>
			{{ end }}
		</select>
		<button type="submit" class="btn btn-primary" name="setVisibility" value="1">Set</button>
	</form>`)

type editData struct {
	*context
	Selected    *core.Asset
	Name        string
	Description string
}

func (data *editData) Files() []os.FileInfo {
	files, err := data.db.Uploads.Folder(data.Selected.ID).Files()
	if err != nil {
		return nil
	}
	return files
}

func (data *editData) VisibilityNum() int {
	return int(data.Selected.Visibility)
}

func (data *editData) RoleNum() int {
	return int(data.Selected.AllowedRole)
}

func (data *editData) Visibilities() []enumOption {
	var opts = []enumOption{}
	for _, v := range core.Visibilities {
		opts = append(opts, enumOption{int(v), v.String()})
	}
	return opts
}

func (data *editData) Roles() []enumOption {
	var opts = []enumOption{}
	for _, r := range core.Roles {
		opts = append(opts, enumOption{int(r), r.String()})
	}
	return opts
}

func (data *editData) RenderVisibilityForm() (template.HTML, error) {
	var w strings.Builder
	err := visibilityFormTmpl.Lookup("content").Execute(&w, data)
	return template.HTML(w.String()), err
}

func edit(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	if err := ctx.db.RequireEdit(ctx.User, selected); err != nil {
		return ErrAuth
	}

	var data = &editData{
		context:     ctx,
		Selected:    selected,
		Name:        selected.Name,
		Description: selected.Description,
	}

	if req.Method == http.MethodPost {

		// visibility form

		if req.PostFormValue("setVisibility") != "" {
			visibility, allowedRole := parseVisibility(req.PostFormValue("visibility"), req.PostFormValue("allowedRole"))
			if _, err := ctx.db.SetVisibility(ctx.User, selected, visibility, allowedRole); err == nil {
				ctx.Success("visibility has been updated")
				ctx.SeeOther("/edit/%d", selected.ID)
				return nil
			} else {
				ctx.Danger(err)
				return editTmpl.Execute(w, data)
			}
		}

		// main form

		data.Name = req.PostFormValue("name")
		data.Description = req.PostFormValue("description")

		var deleteFiles = req.Form["deleteFiles[]"]
		var uploadFiles []*multipart.FileHeader
		if req.MultipartForm != nil {
			deleteFiles = req.MultipartForm.Value["deleteFiles[]"]
			uploadFiles = req.MultipartForm.File["upload[]"]
			defer req.MultipartForm.RemoveAll()
		}

		if err := doEdit(ctx, selected, data.Name, data.Description, deleteFiles, uploadFiles); err == nil {
			ctx.SeeOther("/asset/%d", selected.ID)
			return nil
		} else {
			ctx.Danger(err)
			// keep user input, don't redirect
		}
	}

	return editTmpl.Execute(w, data)
}

func doEdit(ctx *context, selected *core.Asset, name, description string, deleteFiles []string, uploadFiles []*multipart.FileHeader) error {

	// delete files

	var folder = ctx.db.Uploads.Folder(selected.ID)
	for _, filename := range deleteFiles {
		if strings.Contains(description, "("+filename+")") { // markdown syntax for image and href
			ctx.Danger(fmt.Errorf("%s has not been deleted because it is referenced in the description", filename))
			continue
		}
		if err := folder.Delete(filename); err != nil {
			return err
		}
	}

	// upload files (MultipartReader won't work because the form has already been parsed)

	for _, fileheader := range uploadFiles {
		file, err := fileheader.Open()
		if err != nil {
			return err
		}
		if err = folder.Upload(fileheader.Filename, file); err != nil {
			return err
		}
	}

	// edit metadata

	if name != selected.Name || description != selected.Description {
		if _, err := ctx.db.UpdateMeta(ctx.User, selected, name, description); err != nil {
			return err
		}
	}

	return nil
}
