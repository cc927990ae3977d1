package backend

import (
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/seodeck/depot/core"
	"github.com/seodeck/depot/util"
)

const AssetsPerPage = 20

var assetsTmpl = tmpl(`<h1>Assets</h1>

	<div class="table-responsive">
		<table class="table">
			<thead>
				<tr>
					<th>Status</th>
					<th>Name</th>
					<th>Visibility</th>
					<th>Uploaded</th>
					<th></th>
				</tr>
			</thead>
			<tbody>
				{{ range .Assets }}
					<tr>
						<td>{{ StatusBadge .Status }}</td>
						<td><a href="asset/{{ .ID }}">{{ .Name }}</a></td>
						<td>{{ .Visibility }}</td>
						<td>{{ FormatTs .TsCreated }}</td>
						<td>{{ $.Excerpt . }}</td>
					</tr>
				{{ else }}
					<tr>
						<td colspan="5">none</td>
					</tr>
				{{ end }}
			</tbody>
		</table>
	</div>
	<nav>
		<ul class="pagination justify-content-center">
			{{ range .PageLinks }}
				{{ . }}
			{{ end }}
		</ul>
	</nav>`)

type assetsData struct {
	*context
	page   int
	Assets []*core.Asset
}

func (data *assetsData) Excerpt(a *core.Asset) string {
	return excerpt(a.Description, 80)
}

func (data *assetsData) PageLinks() []template.HTML {

	pagesTotal := 1

	if assetCount, err := data.db.CountAssets(); err == nil {
		pagesTotal = int(math.Ceil(float64(assetCount) / AssetsPerPage))
	}

	return util.PageLinks(
		data.page,
		pagesTotal,
		func(page int, name string) string {
			return fmt.Sprintf(`<li class="page-item"><a class="page-link" href="assets/%d">%s</a></li>`, page, name)
		},
		func(page int, name string) string {
			return fmt.Sprintf(`<li class="page-item active"><a class="page-link" href="assets/%d">%s</a></li>`, page, name)
		},
	)
}

// assets lists what the user may view. The listing goes through the same
// per-item check as the detail page, so the two can't disagree.
func assets(w http.ResponseWriter, req *http.Request, ctx *context, params httprouter.Params) error {

	page, err := strconv.Atoi(params.ByName("page"))
	if err != nil || page < 1 {
		page = 1
	}

	all, err := ctx.db.GetAllAssets(AssetsPerPage, (page-1)*AssetsPerPage)
	if err != nil {
		return err
	}

	visible, err := ctx.db.FilterVisible(ctx.User, all)
	if err != nil {
		return err
	}

	return assetsTmpl.Execute(w, &assetsData{
		context: ctx,
		page:    page,
		Assets:  visible,
	})
}
