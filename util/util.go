package util

import (
	"html/template"
	"sort"
	"strconv"
)

// Pages returns a thinned-out selection of page numbers between 1 and
// numPages for a pagination bar: the first and last page, the current
// page, and neighbors at exponentially growing distances. The result is
// sorted and duplicate-free.
func Pages(currentPage int, numPages int) []int {

	pages := map[int]interface{}{}

	pages[1] = struct{}{}
	pages[currentPage] = struct{}{}
	pages[numPages] = struct{}{}

	delta := 1 // distance to currentPage
	watchdog := 1

	for (currentPage-delta > 1 || currentPage+delta < numPages) && watchdog < 20 {

		if currentPage-delta > 0 {
			pages[currentPage-delta] = struct{}{}
		}

		if currentPage+delta < numPages {
			pages[currentPage+delta] = struct{}{}
		}

		delta *= 2
		watchdog++
	}

	sorted := []int{}
	for page := range pages {
		sorted = append(sorted, page)
	}
	sort.Ints(sorted)

	return sorted
}

// PageLinks renders the Pages selection into link markup, with prev/next
// arrows around it. The caller provides the markup: link for an ordinary
// page, activeLink for the current one.
func PageLinks(currentPage int, numPages int, link func(page int, name string) string, activeLink func(page int, name string) string) []template.HTML {

	links := []template.HTML{}

	if currentPage < 1 || numPages < 1 {
		return links
	}

	if currentPage > 1 {
		links = append(links, template.HTML(link(currentPage-1, `&laquo;`)))
	}

	for _, page := range Pages(currentPage, numPages) {
		if page == currentPage {
			links = append(links, template.HTML(activeLink(page, strconv.Itoa(page))))
		} else {
			links = append(links, template.HTML(link(page, strconv.Itoa(page))))
		}
	}

	if currentPage < numPages {
		links = append(links, template.HTML(link(currentPage+1, `&raquo;`)))
	}

	return links
}
