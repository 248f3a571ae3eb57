package pagination

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Zero-based page defaults applied when the query string omits them.
const (
	DefaultPage = 0
	DefaultSize = 4
)

// ErrInvalidParams is returned when page or size is not a 32-bit integer.
var ErrInvalidParams = errors.New("invalid pagination parameters")

// Params holds zero-based pagination parameters extracted from query strings.
// Range checks are left to the caller.
type Params struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// DefaultParams returns the catalog's pagination defaults.
func DefaultParams() Params {
	return Params{Page: DefaultPage, Size: DefaultSize}
}

// FromRequest extracts page and size from the request's query string.
func FromRequest(r *http.Request) (Params, error) {
	p := DefaultParams()
	q := r.URL.Query()

	var err error
	if p.Page, err = intParam(q.Get("page"), p.Page); err != nil {
		return p, fmt.Errorf("page: %w", err)
	}
	if p.Size, err = intParam(q.Get("size"), p.Size); err != nil {
		return p, fmt.Errorf("size: %w", err)
	}
	return p, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return def, ErrInvalidParams
	}
	return int(v), nil
}

// Offset returns the index of the first element on the page.
func (p Params) Offset() int {
	return p.Page * p.Size
}

// TotalPages returns ceil(total/size). A non-positive size yields zero.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	pages := total / size
	if total%size > 0 {
		pages++
	}
	return pages
}

// Window returns the [start, end) slice bounds of page p over total elements,
// clamped to the collection.
func Window(total int, p Params) (start, end int) {
	start = p.Offset()
	if start > total || start < 0 {
		start = total
	}
	end = start + p.Size
	if end > total || end < start {
		end = total
	}
	return start, end
}
