package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var deleteTmpl = tmpl(`<h1>Delete: {{ .Selected.Name }}</h1>

	<p>This removes the asset, its sharing grants and all uploaded files.</p>

	<form method="post">
		<a class="btn btn-secondary" href="asset/{{ .Selected.ID }}">Cancel</a>
		<button type="submit" class="btn btn-danger" name="delete">Delete</button>
	</form>`)

func del(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	if !core.CanDelete(ctx.User, selected) {
		return ErrAuth
	}

	if req.Method == http.MethodPost {
		if err := ctx.db.DeleteAsset(ctx.User, selected); err == nil {
			ctx.Success("%s has been deleted", selected.Name)
			ctx.SeeOther("/assets/1")
			return nil
		} else {
			ctx.Danger(err)
		}
	}

	return deleteTmpl.Execute(w, struct {
		*context
		Selected *core.Asset
	}{
		context:  ctx,
		Selected: selected,
	})
}
