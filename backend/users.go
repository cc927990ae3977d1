package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var usersTmpl = tmpl(`<h1>Users</h1>

	<div class="table-responsive">
		<table class="table table-sm">
			<thead>
				<tr>
					<th>Name</th>
					<th>Role</th>
					<th>Company</th>
					<th>Active</th>
				</tr>
			</thead>
			<tbody>
				{{ range .Users }}
					<tr>
						<td><a href="user/{{ .ID }}">{{ .Name }}</a></td>
						<td>{{ .Role }}</td>
						<td>{{ if .CompanyID }}{{ .CompanyID }}{{ end }}</td>
						<td>{{ if .Active }}yes{{ else }}no{{ end }}</td>
					</tr>
				{{ end }}
			</tbody>
		</table>
	</div>

	<h2>Create User</h2>

	<form method="post" class="form-inline">
		<div class="form-group">
			<input type="email" class="form-control" name="mail_user" placeholder="Email address">
			<select class="form-control mx-sm-3" name="role">
				{{ range .Roles }}
					<option value="{{ .Num }}">{{ .Name }}</option>
				{{ end }}
			</select>
			<button type="submit" class="btn btn-primary" name="submit_add">Create user</button>
		</div>
	</form>`)

type usersData struct {
	*context
}

func (data *usersData) Users() ([]core.User, error) {
	return data.db.GetAllUsers(100000, 0) // assuming there are not more than 100k users
}

func (data *usersData) Roles() []enumOption {
	var opts = []enumOption{}
	for _, r := range core.Roles {
		opts = append(opts, enumOption{int(r), r.String()})
	}
	return opts
}

func users(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	if !ctx.IsAdmin() {
		return ErrAuth
	}

	if req.Method == http.MethodPost {

		newUserMail := strings.TrimSpace(req.PostFormValue("mail_user"))

		if newUserMail == "" {
			return errors.New("missing email address")
		}

		role, _ := strconv.Atoi(req.PostFormValue("role"))

		if _, err := ctx.db.InsertUser(newUserMail, core.Role(role)); err != nil {
			return err
		}

		ctx.Success("user %s has been created", newUserMail)
		ctx.SeeOther("/users")
		return nil
	}

	return usersTmpl.Execute(w, &usersData{
		context: ctx,
	})
}
