package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var reviewTmpl = tmpl(`<h1>Review queue</h1>

	<div class="table-responsive">
		<table class="table">
			<thead>
				<tr>
					<th>Name</th>
					<th>Visibility</th>
					<th>Submitted by</th>
					<th>Uploaded</th>
				</tr>
			</thead>
			<tbody>
				{{ range .Assets }}
					<tr>
						<td><a href="asset/{{ .ID }}">{{ .Name }}</a></td>
						<td>{{ .Visibility }}{{ if .AllowedRole.Valid }} ({{ .AllowedRole }}){{ end }}</td>
						<td>{{ $.UploaderName . }}</td>
						<td>{{ FormatTs .TsCreated }}</td>
					</tr>
				{{ else }}
					<tr>
						<td colspan="4">nothing to review</td>
					</tr>
				{{ end }}
			</tbody>
		</table>
	</div>`)

type reviewData struct {
	*context
	Assets []*core.Asset
}

func (data *reviewData) UploaderName(a *core.Asset) string {
	if u, err := data.db.GetUser(a.UploaderID); err == nil {
		return u.Name
	}
	return ""
}

func review(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.IsAdmin() {
		return ErrAuth
	}

	pending, err := ctx.db.GetAssetsByStatus(core.PendingReview, 100, 0)
	if err != nil {
		return err
	}

	return reviewTmpl.Execute(w, &reviewData{
		context: ctx,
		Assets:  pending,
	})
}
