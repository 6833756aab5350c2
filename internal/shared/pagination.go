package shared

import (
	"net/http"
	"strconv"
)

// PageRequest carries listing offsets parsed from query parameters.
type PageRequest struct {
	Page     int
	PageSize int
}

// ParsePage reads page/pageSize query parameters with defaults.
func ParsePage(r *http.Request) PageRequest {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if size <= 0 {
		size = 10
	}
	if size > 200 {
		size = 200
	}
	return PageRequest{Page: page, PageSize: size}
}

// Offset returns the SQL offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}
