package backend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var userTmpl = tmpl(`<h1>User &raquo;{{ .Selected.Name }}&laquo;</h1>

	<table class="table table-sm">
		<tr>
			<th>Role</th>
			<td>{{ .Selected.Role }}</td>
		</tr>
		<tr>
			<th>Company</th>
			<td>{{ if .Selected.CompanyID }}{{ .Selected.CompanyID }}{{ else }}none{{ end }}</td>
		</tr>
		<tr>
			<th>Active</th>
			<td>{{ if .Selected.Active }}yes{{ else }}no{{ end }}</td>
		</tr>
	</table>

	{{ if and .IsAdmin .UsersWriteable }}

		<h2>Role</h2>

		<form method="post" class="form-inline">
			<select class="form-control mr-sm-2" name="role">
				{{ range .Roles }}
					<option value="{{ .Num }}"{{ if eq .Num $.RoleNum }} selected{{ end }}>{{ .Name }}</option>
				{{ end }}
			</select>
			<button type="submit" class="btn btn-primary" name="submit_role" value="1">Set role</button>
		</form>

		<h2 class="mt-3">Company</h2>

		<form method="post" class="form-inline">
			<input type="number" class="form-control mr-sm-2" name="company" min="0" value="{{ .Selected.CompanyID }}">
			<button type="submit" class="btn btn-primary" name="submit_company" value="1">Set company</button>
		</form>

		<h2 class="mt-3">Account</h2>

		<form method="post">
			{{ if .Selected.Active }}
				<button type="submit" class="btn btn-warning" name="submit_active" value="0">Deactivate</button>
			{{ else }}
				<button type="submit" class="btn btn-success" name="submit_active" value="1">Activate</button>
			{{ end }}
			<button type="submit" class="btn btn-danger" name="submit_delete" value="1">Delete</button>
		</form>

	{{ end }}

	<h2 class="mt-3">Change Password</h2>

	<form method="post">

		{{ if not .IsAdmin }}
			<div class="form-group row">
				<label class="col-sm-6 col-form-label">Current password</label>
				<div class="col-sm-6">
					<input type="password" class="form-control" name="old">
				</div>
			</div>
		{{ end }}

		<div class="form-group row">
			<label class="col-sm-6 col-form-label">New password</label>
			<div class="col-sm-6">
				<input type="password" class="form-control" name="new1">
			</div>
		</div>

		<div class="form-group row">
			<label class="col-sm-6 col-form-label">Repeat new password</label>
			<div class="col-sm-6">
				<input type="password" class="form-control" name="new2">
			</div>
		</div>

		<button type="submit" class="btn btn-primary" name="submit_password" value="1">Change password</button>

	</form>`)

type userData struct {
	*context
	Selected core.User
}

func (data *userData) RoleNum() int {
	return int(data.Selected.Role)
}

func (data *userData) Roles() []enumOption {
	var opts = []enumOption{}
	for _, r := range core.Roles {
		opts = append(opts, enumOption{int(r), r.String()})
	}
	return opts
}

func user(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selectedID, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return err
	}

	selected, err := ctx.db.GetUser(selectedID)
	if err != nil {
		return err
	}

	if !(ctx.IsAdmin() || selected.ID == ctx.User.ID) {
		return ErrAuth
	}

	if req.Method == http.MethodPost {

		switch {

		case req.PostFormValue("submit_role") != "":

			if !ctx.IsAdmin() {
				return ErrAuth
			}
			role, _ := strconv.Atoi(req.PostFormValue("role"))
			if err := ctx.db.SetRole(selected, core.Role(role)); err != nil {
				return err
			}
			ctx.Success("role of %s has been changed", selected.Name)

		case req.PostFormValue("submit_company") != "":

			if !ctx.IsAdmin() {
				return ErrAuth
			}
			companyID, err := strconv.Atoi(req.PostFormValue("company"))
			if err != nil {
				return err
			}
			if err := ctx.db.SetCompany(selected, companyID); err != nil {
				return err
			}
			ctx.Success("company of %s has been changed", selected.Name)

		case req.PostFormValue("submit_delete") != "":

			if !ctx.IsAdmin() || selected.ID == ctx.User.ID {
				return ErrAuth
			}
			if err := ctx.db.UserDB.Delete(selected); err != nil {
				return err
			}
			ctx.Success("%s has been deleted", selected.Name)
			ctx.SeeOther("/users")
			return nil

		case req.PostFormValue("submit_active") != "":

			if !ctx.IsAdmin() {
				return ErrAuth
			}
			var active = req.PostFormValue("submit_active") == "1"
			if err := ctx.db.SetActive(selected, active); err != nil {
				return err
			}
			if active {
				ctx.Success("%s has been activated", selected.Name)
			} else {
				ctx.Success("%s has been deactivated", selected.Name)
			}

		case req.PostFormValue("submit_password") != "":

			var new1 = req.PostFormValue("new1")
			var new2 = req.PostFormValue("new2")

			if new1 != new2 {
				return errors.New("new passwords don't match")
			}

			if strings.TrimSpace(new1) == "" {
				return core.ErrEmptyPassword
			}

			if ctx.IsAdmin() {
				err = ctx.db.SetPassword(selected, new1)
			} else {
				err = ctx.db.ChangePassword(selected, req.PostFormValue("old"), new1)
			}
			if err != nil {
				return err
			}
			ctx.Success("password of %s has been changed", selected.Name)
		}

		ctx.SeeOther("/user/%d", selected.ID)
		return nil
	}

	return userTmpl.Execute(w, &userData{
		context:  ctx,
		Selected: selected,
	})
}
