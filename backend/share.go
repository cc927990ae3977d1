package backend

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var shareTmpl = tmpl(`<h1>Sharing: {{ .Selected.Name }}</h1>

	<p>
		<a class="btn btn-secondary btn-sm" href="asset/{{ .Selected.ID }}">Back</a>
	</p>

	<p>Grants give a role or a single user access regardless of the visibility setting.</p>

	<table class="table table-sm">
		{{ range .GrantRows }}
			<tr>
				<td>{{ .Name }}</td>
				<td>
					<form method="post">
						<input type="hidden" name="role" value="{{ .RoleNum }}">
						<input type="hidden" name="user" value="{{ .UserID }}">
						<button type="submit" class="btn btn-sm btn-danger" name="remove" value="1">Remove</button>
					</form>
				</td>
			</tr>
		{{ else }}
			<tr>
				<td>no grants</td>
			</tr>
		{{ end }}
	</table>

	<h2>Share with a role</h2>

	<form method="post" class="form-inline">
		<select class="form-control mr-sm-2" name="role">
			{{ range .Roles }}
				<option value="{{ .Num }}">{{ .Name }}</option>
			{{ end }}
		</select>
		<button type="submit" class="btn btn-primary" name="add" value="1">Share</button>
	</form>

	<h2 class="mt-3">Share with a user</h2>

	<form method="post" class="form-inline">
		<select class="form-control mr-sm-2" name="user">
			{{ range .Users }}
				<option value="{{ .ID }}">{{ .Name }}</option>
			{{ end }}
		</select>
		<button type="submit" class="btn btn-primary" name="add" value="1">Share</button>
	</form>`)

type shareData struct {
	*context
	Selected *core.Asset
	Grants   []core.ShareGrant
}

type grantRow struct {
	Name    string
	RoleNum int
	UserID  int
}

func (data *shareData) GrantRows() []grantRow {
	var rows = []grantRow{}
	for _, g := range data.Grants {
		var name string
		if g.UserID != 0 {
			name = "user: " + strconv.Itoa(g.UserID)
			if u, err := data.db.GetUser(g.UserID); err == nil {
				name = "user: " + u.Name
			}
		} else {
			name = "role: " + g.Role.String()
		}
		rows = append(rows, grantRow{name, int(g.Role), g.UserID})
	}
	return rows
}

func (data *shareData) Roles() []enumOption {
	var opts = []enumOption{}
	for _, r := range core.Roles {
		opts = append(opts, enumOption{int(r), r.String()})
	}
	return opts
}

func (data *shareData) Users() ([]core.User, error) {
	return data.db.GetAllUsers(1000, 0)
}

func share(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	if !selected.Owner(ctx.User) && !ctx.IsAdmin() {
		return ErrAuth
	}

	if req.Method == http.MethodPost {

		role, _ := strconv.Atoi(req.PostFormValue("role"))
		userID, _ := strconv.Atoi(req.PostFormValue("user"))
		var grant = core.ShareGrant{
			AssetID: selected.ID,
			Role:    core.Role(role),
			UserID:  userID,
		}

		switch {
		case req.PostFormValue("add") != "":
			err = ctx.db.Share(ctx.User, selected, grant)
		case req.PostFormValue("remove") != "":
			err = ctx.db.Unshare(ctx.User, selected, grant)
		}

		if err == nil {
			ctx.SeeOther("/share/%d", selected.ID)
			return nil
		}
		ctx.Danger(err)
	}

	grants, err := ctx.db.GetGrants(selected.ID)
	if err != nil {
		return err
	}

	return shareTmpl.Execute(w, &shareData{
		context:  ctx,
		Selected: selected,
		Grants:   grants,
	})
}
