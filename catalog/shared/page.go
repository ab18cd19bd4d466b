package shared

import (
	"strconv"
)

// DefaultPageSize is applied when a listing request carries no usable limit
const DefaultPageSize = 100

// Page is one bounded slice of an ordered listing. NextToken is empty exactly
// when no further pages exist.
type Page struct {
	Items     []string
	NextToken string
}

// NormalizePageSize clamps a caller-supplied limit to a positive page size
func NormalizePageSize(pageSize int) int {
	if pageSize <= 0 {
		return DefaultPageSize
	}
	return pageSize
}

// SplitPage returns the sub-sequence of items starting at the offset encoded
// in token, up to pageSize entries, plus the token for the following page.
//
// An absent or unparseable token means offset 0. An offset at or past the end
// yields an empty page and no next token rather than an error. Tokens are not
// stable across concurrent mutation of the underlying collection; listing is
// not snapshot-isolated.
func SplitPage(items []string, token string, pageSize int) Page {
	start := 0
	if token != "" {
		if parsed, err := strconv.Atoi(token); err == nil && parsed > 0 {
			start = parsed
		}
	}

	if start >= len(items) {
		return Page{Items: []string{}}
	}

	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}

	page := Page{Items: items[start:end]}
	if end < len(items) {
		page.NextToken = strconv.Itoa(end)
	}
	return page
}
