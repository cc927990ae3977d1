package backend

import (
	"html/template"
	"strings"

	"github.com/seodeck/depot/util"
	"gitlab.com/golang-commonmark/markdown"
)

var markdownParser *markdown.Markdown = markdown.New(markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

// renderDescription translates an asset description from CommonMark to
// HTML. Raw HTML embedded in the description is not passed through.
func renderDescription(description string) template.HTML {
	return template.HTML(markdownParser.RenderToString([]byte(description)))
}

// excerpt renders the description and boils it down to a short plain
// text line for listings.
func excerpt(description string, maxRunes int) string {
	var rendered = string(renderDescription(description))
	return util.Trunc(util.StripTags(strings.NewReader(rendered)), maxRunes)
}
