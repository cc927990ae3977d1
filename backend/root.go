package backend

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func root(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {
	if ctx.LoggedIn() {
		ctx.SeeOther("/assets/1")
	} else {
		ctx.SeeOther("/login")
	}
	return nil
}
