package backend

import (
	"errors"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
)

var ErrNotFound = errors.New("asset not found")

// openAsset loads the asset from the :id route parameter and checks view
// permission. Assets the user may not view are indistinguishable from
// assets that don't exist.
func openAsset(ctx *context, params httprouter.Params) (*core.Asset, error) {

	id, err := strconv.Atoi(params.ByName("id"))
	if err != nil {
		return nil, ErrNotFound
	}

	a, err := ctx.db.GetAsset(id)
	if err != nil {
		if ctx.db.AssetDB.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := ctx.db.RequireView(ctx.User, a); err != nil {
		return nil, ErrNotFound
	}

	return a, nil
}

// parseVisibility reads visibility and allowed role from POSTed form values.
func parseVisibility(visibilityValue, roleValue string) (core.Visibility, core.Role) {
	v, _ := strconv.Atoi(visibilityValue)
	r, _ := strconv.Atoi(roleValue)
	return core.Visibility(v), core.Role(r)
}
