package mapify

import (
	"encoding/json"
	"slices"
)

// PagedResult is a page of items together with its pagination metadata.
// It is immutable once constructed.
type PagedResult[T any] struct {
	items       []T
	currentPage int
	pageSize    int
	totalCount  int64
}

// NewPagedResult bundles a materialized page. A nil items slice is stored as
// an empty one.
func NewPagedResult[T any](items []T, currentPage, pageSize int, totalCount int64) PagedResult[T] {
	if items == nil {
		items = []T{}
	}

	return PagedResult[T]{
		items:       items,
		currentPage: currentPage,
		pageSize:    pageSize,
		totalCount:  totalCount,
	}
}

// Items returns a copy of the page items.
func (r PagedResult[T]) Items() []T {
	if r.items == nil {
		return []T{}
	}

	return slices.Clone(r.items)
}

// Len returns the number of items in the page.
func (r PagedResult[T]) Len() int {
	return len(r.items)
}

func (r PagedResult[T]) CurrentPage() int {
	return r.currentPage
}

func (r PagedResult[T]) PageSize() int {
	return r.pageSize
}

// TotalCount returns the number of records matching the filter, regardless of
// the page window.
func (r PagedResult[T]) TotalCount() int64 {
	return r.totalCount
}

// TotalPages returns ceil(TotalCount / PageSize), or 0 when PageSize is not
// positive.
func (r PagedResult[T]) TotalPages() int {
	if r.pageSize <= 0 || r.totalCount <= 0 {
		return 0
	}

	size := int64(r.pageSize)

	return int((r.totalCount + size - 1) / size)
}

func (r PagedResult[T]) HasPrevious() bool {
	return r.currentPage > 1
}

func (r PagedResult[T]) HasNext() bool {
	return r.currentPage < r.TotalPages()
}

type pagedResultJSON[T any] struct {
	Items       []T   `json:"items"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// MarshalJSON - implements json.Marshaler. Derived values are included.
func (r PagedResult[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(pagedResultJSON[T]{
		Items:       r.Items(),
		CurrentPage: r.currentPage,
		PageSize:    r.pageSize,
		TotalCount:  r.totalCount,
		TotalPages:  r.TotalPages(),
		HasPrevious: r.HasPrevious(),
		HasNext:     r.HasNext(),
	})
}

// UnmarshalJSON - implements json.Unmarshaler. Derived values are recomputed
// from the stored ones and the payload values are ignored.
func (r *PagedResult[T]) UnmarshalJSON(data []byte) error {
	var raw pagedResultJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = NewPagedResult(raw.Items, raw.CurrentPage, raw.PageSize, raw.TotalCount)

	return nil
}

var (
	_ json.Marshaler   = PagedResult[any]{}
	_ json.Unmarshaler = (*PagedResult[any])(nil)
)
