// Package pagination turns page/limit request parameters into query
// bounds and page counts.
package pagination

import (
	"math"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 5
)

// Window is the slice of a result set a page covers. Page and Limit are
// the coerced request values.
type Window struct {
	Page       int
	Limit      int
	Offset     int
	TotalPages int
}

// Parse coerces raw page and limit values to positive integers. Absent,
// non-numeric or non-positive values fall back to the defaults.
func Parse(rawPage, rawLimit string) (page, limit int) {
	return positiveOr(rawPage, DefaultPage), positiveOr(rawLimit, DefaultLimit)
}

// Compute returns the window of page for count rows. Pages and limits
// below 1 fall back to the defaults. An empty result still has one (empty)
// page, and an offset that would overflow saturates at math.MaxInt.
func Compute(count, page, limit int) Window {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	offset := math.MaxInt
	if page-1 <= math.MaxInt/limit {
		offset = (page - 1) * limit
	}

	return Window{
		Page:       page,
		Limit:      limit,
		Offset:     offset,
		TotalPages: max(1, count/limit+min(1, count%limit)),
	}
}

// PastEnd reports whether the window starts after the last of count rows.
func (w Window) PastEnd(count int) bool {
	return w.Offset >= count
}

func positiveOr(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
