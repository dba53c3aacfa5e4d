package mapify

const (
	NoLimit      = -1
	MaxLimit     = 100
	DefaultLimit = 10
	FirstPage    = 1
)

func IsNormalizedLimitMax(limit int, maxLimit int) (int, bool) {
	if limit <= 0 {
		return DefaultLimit, false
	} else if limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit int, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, MaxLimit)
}

// NormalizePage returns FirstPage for non-positive page numbers.
func NormalizePage(page int) int {
	if page < FirstPage {
		return FirstPage
	}

	return page
}

// PageRequest is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging PageRequest `json:",inline"`
//	}
type PageRequest struct {
	// Page - 1-based number of the requested page.
	Page int `json:"page"`
	// PageSize - maximum number of records to return in the response.
	PageSize int `json:"pageSize"`
	// Filter - textual filter, see Where.
	Filter string `json:"filter,omitempty"`
	// OrderBy - textual ordering, see SortBy.
	OrderBy string `json:"orderBy,omitempty"`
}

// Normalize returns a copy of the request with Page and PageSize brought into
// range: a non-positive page becomes FirstPage, PageSize is passed through
// NormalizeLimit.
func (r PageRequest) Normalize() PageRequest {
	r.Page = NormalizePage(r.Page)
	r.PageSize = NormalizeLimit(r.PageSize)

	return r
}

// Window returns the page window of the request as is.
func (r PageRequest) Window() Window {
	return NewWindow(r.Page, r.PageSize)
}
