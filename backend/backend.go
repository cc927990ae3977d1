package backend

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var ErrAuth = errors.New("unauthorized")

// we need the CoreDB in the backend
type context struct {
	*core.Request
	Prefix string // with trailing slash
	db     *core.CoreDB
}

func (ctx *context) UsersWriteable() bool {
	return ctx.db.UserDB.Writeable()
}

func middleware(db *core.CoreDB, prefix string, requireLoggedIn bool, f func(http.ResponseWriter, *http.Request, *context, httprouter.Params) error) func(http.ResponseWriter, *http.Request, httprouter.Params) {
	return func(w http.ResponseWriter, req *http.Request, params httprouter.Params) {

		var request = db.NewRequest(w, req)

		var ctx = &context{
			Prefix:  prefix + "/backend/",
			Request: request,
			db:      db,
		}
		defer ctx.Cleanup()

		if requireLoggedIn && !ctx.LoggedIn() {
			ctx.SeeOther("/login")
			return
		}

		if err := f(w, req, ctx, params); err != nil {
			// probably no template has been executed, so execute error template
			errorTmpl.Execute(w, struct {
				*context
				Err error
			}{
				context: ctx,
				Err:     err,
			})
		}
	}
}

var errorTmpl = tmpl(`
	<div class="alert alert-danger" role="alert">
		{{ .Err }}
	</div>`)

func NewBackendRouter(db *core.CoreDB, prefix string) http.Handler {

	var router = httprouter.New()

	var GETAndPOST = func(path string, handle httprouter.Handle) {
		router.GET(path, handle)
		router.POST(path, handle)
	}

	// public
	router.GET("/", middleware(db, prefix, false, root))
	GETAndPOST("/login", middleware(db, prefix, false, login))

	// private
	router.GET("/assets/:page", middleware(db, prefix, true, assets))
	router.GET("/asset/:id", middleware(db, prefix, true, asset))
	GETAndPOST("/create", middleware(db, prefix, true, create))
	GETAndPOST("/delete/:id", middleware(db, prefix, true, del))
	GETAndPOST("/edit/:id", middleware(db, prefix, true, edit))
	router.GET("/logout", middleware(db, prefix, true, logout))
	router.POST("/approve/:id", middleware(db, prefix, true, approve))
	router.POST("/reject/:id", middleware(db, prefix, true, reject))
	router.POST("/submit/:id", middleware(db, prefix, true, submit))
	router.GET("/review", middleware(db, prefix, true, review))
	GETAndPOST("/share/:id", middleware(db, prefix, true, share))
	router.GET("/audit", middleware(db, prefix, true, audit))
	GETAndPOST("/users", middleware(db, prefix, true, users))
	GETAndPOST("/user/:id", middleware(db, prefix, true, user))

	return router
}

func tmpl(text string) *template.Template {
	t := template.Must(backendTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var backendTmpl = template.Must(template.New("backend").Funcs(
	template.FuncMap{
		"CanApprove":  core.CanApprove,
		"CanDelete":   core.CanDelete,
		"CanEdit":     core.CanEdit,
		"FormatTs":    FormatTs,
		"StatusBadge": statusBadge,
	}).Parse(`
<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<link rel="stylesheet" type="text/css" href="/static/bootstrap-4.4.1.min.css">
		<meta charset="utf-8">
		<title>Depot</title>

		<style>

			.alert-inline {
				display: inline-block;
				border: 1px solid transparent;
				border-radius: .2rem;
				padding: .15rem .3rem;
			}

			.bg-light, .table-light, .table-light > td, .table-light > th {
				background-color: #f4f5f6 !important;
			}

			.col-form-label {
				text-align: right;
			}

			body {
				padding-bottom: 1rem;
			}

			h1 {
				font-size: 1.5rem !important;
				margin: 1rem 0 0.7rem !important;
			}

			h2 {
				font-size: 1.3rem !important;
				margin: 0.2rem 0 0.5rem !important;
			}

			table {
				margin-top: 0.5rem;
				border-bottom: 1px solid #dee2e6;
			}

			textarea {
				tab-size: 4;
				-moz-tab-size: 4;
			}

		</style>
	</head>
	<body>

		{{ if .LoggedIn }}

			<nav class="navbar navbar-expand-md bg-light">
				<ul class="navbar-nav">
					<li class="nav-item">
						<a class="nav-link" href="assets/1">Assets</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="create">Upload</a>
					</li>
					<li class="nav-item">
						<a class="nav-link" href="user/{{ .User.ID }}">{{ .User.Name }}</a>
					</li>

					{{ if .IsAdmin }}

						<li class="nav-item">
							<a class="nav-link" href="review">Review</a>
						</li>

						{{ if .UsersWriteable }}
							<li class="nav-item">
								<a class="nav-link" href="users">Users</a>
							</li>
						{{ end }}

						<li class="nav-item">
							<a class="nav-link" href="audit">Audit</a>
						</li>

					{{ end }}

					<li class="nav-item">
						<a class="nav-link" href="logout">Logout</a>
					</li>
				</ul>
			</nav>

		{{ end }}

		<div class="container pt-3">
			<div class="starter-template">
				{{ .RenderNotifications }}
				{{ template "content" . }}
			</div>
		</div>
	</body>
</html>`))

func FormatTs(ts int64) string {
	// ignores the user timezone
	if ts == 0 {
		return ""
	}
	return time.Unix(ts, 0).Format("_2.1.2006 15:04:05")
}

// statusBadge maps a workflow status to a bootstrap badge style.
func statusBadge(s core.Status) template.HTML {
	var style = "secondary"
	switch s {
	case core.PendingReview:
		style = "warning"
	case core.Approved:
		style = "success"
	case core.Rejected:
		style = "danger"
	}
	return template.HTML(`<span class="badge badge-` + style + `">` + template.HTMLEscapeString(s.String()) + `</span>`)
}
