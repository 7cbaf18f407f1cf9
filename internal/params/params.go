package params

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Page holds a fixed-size pagination window plus the metadata computed
// from a separate count query over the same filter.
//
// URL: /lugares?page=2
// → ParsePage(q, 10) → Page{Size:10, Number:2, Offset:10}
// → SQL: SELECT ... LIMIT 10 OFFSET 10, plus SELECT COUNT(*)
// → ComputeMeta(count) fills TotalPages.
type Page struct {
	Size       int `json:"-"`
	Number     int `json:"page"`
	Offset     int `json:"-"`
	Total      int `json:"-"`
	TotalPages int `json:"pages"`
}

// ParsePage reads ?page=... safely. The page size is fixed by the
// caller, never by the client.
func ParsePage(q url.Values, size int) Page {
	p := Page{
		Size:   size,
		Number: 1,
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Number = page
		}
	}

	p.Offset = (p.Number - 1) * p.Size
	return p
}

// ComputeMeta updates the page metadata after fetching the total count.
func (p *Page) ComputeMeta(total int) {
	p.Total = total
	if p.Size > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Size)))
	}
}
