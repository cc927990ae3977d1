package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var auditTmpl = tmpl(`<h1>Audit log</h1>

	<div class="table-responsive">
		<table class="table table-sm">
			<thead>
				<tr>
					<th>Time</th>
					<th>Actor</th>
					<th>Asset</th>
					<th>Action</th>
					<th>Transition</th>
				</tr>
			</thead>
			<tbody>
				{{ range .Entries }}
					<tr{{ if .Denied }} class="table-danger"{{ end }}>
						<td>{{ FormatTs .Ts }}</td>
						<td>{{ $.ActorName .ActorID }}</td>
						<td><a href="asset/{{ .AssetID }}">{{ .AssetID }}</a></td>
						<td>{{ .Action }}{{ if .Denied }} (denied){{ end }}</td>
						<td>{{ $.Transition . }}</td>
					</tr>
				{{ else }}
					<tr>
						<td colspan="5">empty</td>
					</tr>
				{{ end }}
			</tbody>
		</table>
	</div>`)

type auditData struct {
	*context
	Entries []core.AuditEntry
}

func (data *auditData) ActorName(id int) string {
	if u, err := data.db.GetUser(id); err == nil {
		return u.Name
	}
	return ""
}

func (data *auditData) Transition(e core.AuditEntry) string {
	if e.OldStatus == e.NewStatus {
		return ""
	}
	return e.OldStatus.String() + " to " + e.NewStatus.String()
}

func audit(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.IsAdmin() {
		return ErrAuth
	}

	entries, err := ctx.db.GetAuditEntries(200, 0)
	if err != nil {
		return err
	}

	return auditTmpl.Execute(w, &auditData{
		context: ctx,
		Entries: entries,
	})
}
