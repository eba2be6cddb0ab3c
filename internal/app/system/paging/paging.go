// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size when the request names none.
const DefaultLimit = 50

// MaxLimit caps the requested page size.
const MaxLimit = 200

// Params is a parsed ?start=&limit= pair. Start is 1-based.
type Params struct {
	Start int
	Limit int
}

// Parse reads start and limit from the query string. Missing or invalid
// values fall back to 1 and DefaultLimit; limit is capped at MaxLimit.
func Parse(r *http.Request) Params {
	p := Params{Start: 1, Limit: DefaultLimit}
	if n, err := strconv.Atoi(query.Get(r, "start")); err == nil && n >= 1 {
		p.Start = n
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n >= 1 {
		p.Limit = min(n, MaxLimit)
	}
	return p
}

// Result describes the page returned alongside the rows.
type Result struct {
	Start     int  `json:"start"`
	Limit     int  `json:"limit"`
	Total     int  `json:"total"`
	HasNext   bool `json:"has_next"`
	NextStart int  `json:"next_start,omitempty"`
}

// Page slices rows to the window p describes.
func Page[T any](rows []T, p Params) ([]T, Result) {
	res := Result{Start: p.Start, Limit: p.Limit, Total: len(rows)}
	from := p.Start - 1
	if from >= len(rows) {
		return []T{}, res
	}
	to := min(from+p.Limit, len(rows))
	if to < len(rows) {
		res.HasNext = true
		res.NextStart = to + 1
	}
	return rows[from:to], res
}
