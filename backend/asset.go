package backend

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var assetTmpl = tmpl(`<h1>{{ .Selected.Name }} {{ .StatusBadge }}</h1>

	<p>
		<a class="btn btn-secondary btn-sm" href="assets/1">Back</a>
		{{ if CanEdit .User .Selected }}
			<a class="btn btn-primary btn-sm" href="edit/{{ .Selected.ID }}">Edit</a>
		{{ end }}
		{{ if or .IsOwner .IsAdmin }}
			<a class="btn btn-primary btn-sm" href="share/{{ .Selected.ID }}">Sharing</a>
		{{ end }}
		{{ if CanDelete .User .Selected }}
			<a class="btn btn-danger btn-sm" href="delete/{{ .Selected.ID }}">Delete</a>
		{{ end }}
	</p>

	<table class="table table-sm">
		<tr>
			<th>Visibility</th>
			<td>{{ .Selected.Visibility }}{{ if .Selected.AllowedRole.Valid }} ({{ .Selected.AllowedRole }}){{ end }}</td>
		</tr>
		<tr>
			<th>Uploaded</th>
			<td>{{ .FormatDateTime .Selected.TsCreated }}</td>
		</tr>
		{{ if .Selected.ApprovedAt }}
			<tr>
				<th>Approved</th>
				<td>{{ .FormatDateTime .Selected.ApprovedAt }}</td>
			</tr>
		{{ end }}
		{{ if .Selected.RejectionReason }}
			<tr>
				<th>Rejection reason</th>
				<td>{{ .Selected.RejectionReason }}</td>
			</tr>
		{{ end }}
	</table>

	{{ .Description }}

	<h2>Files</h2>

	<table class="table table-sm">
		{{ range .Files }}
			<tr>
				<td><a href="{{ $.FileHref .Name }}">{{ .Name }}</a></td>
				<td>{{ $.Thumbnail .Name }}</td>
			</tr>
		{{ else }}
			<tr>
				<td>none</td>
			</tr>
		{{ end }}
	</table>

	{{ if .CanSubmit }}
		<form method="post" action="submit/{{ .Selected.ID }}">
			<button type="submit" class="btn btn-primary" name="submit">Submit for review</button>
		</form>
	{{ end }}

	{{ if CanApprove .User .Selected }}

		<h2>Review</h2>

		<form method="post" action="approve/{{ .Selected.ID }}" class="form-inline">
			<label class="mr-sm-2">Visibility</label>
			<select class="form-control mr-sm-2" name="visibility">
				<option value="0">keep: {{ .Selected.Visibility }}</option>
				{{ range .Visibilities }}
					<option value="{{ .Num }}">{{ .Name }}</option>
				{{ end }}
			</select>
			<select class="form-control mr-sm-2" name="allowedRole">
				<option value="0"></option>
				{{ range .Roles }}
					<option value="{{ .Num }}">{{ .Name }}</option>
				{{ end }}
			</select>
			<button type="submit" class="btn btn-success" name="approve">Approve</button>
		</form>

		<form method="post" action="reject/{{ .Selected.ID }}" class="form-inline mt-2">
			<input type="text" class="form-control mr-sm-2" name="reason" placeholder="Rejection reason">
			<button type="submit" class="btn btn-danger" name="reject">Reject</button>
		</form>

	{{ end }}`)

type enumOption struct {
	Num  int
	Name string
}

type assetData struct {
	*context
	Selected *core.Asset
}

func (data *assetData) IsOwner() bool {
	return data.Selected.Owner(data.User)
}

func (data *assetData) StatusBadge() template.HTML {
	return statusBadge(data.Selected.Status)
}

func (data *assetData) Description() template.HTML {
	return renderDescription(data.Selected.Description)
}

func (data *assetData) Files() ([]os.FileInfo, error) {
	return data.db.Uploads.Folder(data.Selected.ID).Files()
}

func (data *assetData) FileHref(filename string) string {
	return fmt.Sprintf("/upload/%d/%s", data.Selected.ID, url.PathEscape(filename))
}

// Thumbnail returns an img tag with a signed resize URL for JPEG files.
func (data *assetData) Thumbnail(filename string) template.HTML {
	if !strings.HasSuffix(filename, ".jpg") && !strings.HasSuffix(filename, ".jpeg") {
		return ""
	}
	var ts = time.Now().Unix()
	var sig = data.db.Uploads.HMAC(data.Selected.ID, filename, 200, 0, ts)
	return template.HTML(fmt.Sprintf(
		`<img src="/upload/%d/%s?w=200&ts=%d&sig=%s" alt="">`,
		data.Selected.ID, url.PathEscape(filename), ts, url.QueryEscape(sig),
	))
}

// CanSubmit is true if the user could take the asset into review.
func (data *assetData) CanSubmit() bool {
	return data.IsOwner() && (data.Selected.Status == core.Draft || data.Selected.Status == core.Rejected)
}

func (data *assetData) Visibilities() []enumOption {
	var opts = []enumOption{}
	for _, v := range core.Visibilities {
		opts = append(opts, enumOption{int(v), v.String()})
	}
	return opts
}

func (data *assetData) Roles() []enumOption {
	var opts = []enumOption{}
	for _, r := range core.Roles {
		opts = append(opts, enumOption{int(r), r.String()})
	}
	return opts
}

func asset(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	return assetTmpl.Execute(w, &assetData{
		context:  ctx,
		Selected: selected,
	})
}
