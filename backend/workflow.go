package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// The workflow handlers are POST-only. They redirect back to the asset
// page and report errors as notifications.

func submit(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	if _, err := ctx.db.Submit(selected, ctx.User); err == nil {
		ctx.Success("%s has been submitted for review", selected.Name)
	} else {
		ctx.Danger(err)
	}

	ctx.SeeOther("/asset/%d", selected.ID)
	return nil
}

func approve(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	visibility, allowedRole := parseVisibility(req.PostFormValue("visibility"), req.PostFormValue("allowedRole"))

	if _, err := ctx.db.Approve(selected, ctx.User, visibility, allowedRole); err == nil {
		ctx.Success("%s has been approved", selected.Name)
	} else {
		ctx.Danger(err)
	}

	ctx.SeeOther("/asset/%d", selected.ID)
	return nil
}

func reject(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	selected, err := openAsset(ctx, params)
	if err != nil {
		return err
	}

	if _, err := ctx.db.Reject(selected, ctx.User, req.PostFormValue("reason")); err == nil {
		ctx.Success("%s has been rejected", selected.Name)
	} else {
		ctx.Danger(err)
	}

	ctx.SeeOther("/asset/%d", selected.ID)
	return nil
}
