package mapify

import (
	"fmt"
	"math"

	"gorm.io/gorm"
)

// Window is a 1-based page window over a dataset.
//
// A window is honored only when both Page and PageSize are strictly positive;
// otherwise it is empty and the whole dataset is returned.
type Window struct {
	Page     int
	PageSize int
}

func NewWindow(page, pageSize int) Window {
	return Window{
		Page:     page,
		PageSize: pageSize,
	}
}

// IsEmpty reports whether the window is skipped.
func (w Window) IsEmpty() bool {
	return w.Page <= 0 || w.PageSize <= 0
}

// Validate reports ErrInvalidWindow when the offset of the window does not fit
// into an int. An empty window is always valid.
func (w Window) Validate() error {
	if w.IsEmpty() || !w.overflows() {
		return nil
	}

	return fmt.Errorf("page %d of size %d: %w", w.Page, w.PageSize, ErrInvalidWindow)
}

// Offset returns the number of rows preceding the window. It saturates at
// math.MaxInt, see Validate.
func (w Window) Offset() int {
	if w.IsEmpty() {
		return 0
	}

	if w.overflows() {
		return math.MaxInt
	}

	return (w.Page - 1) * w.PageSize
}

// Limit returns the maximum number of rows in the window, or NoLimit for an
// empty window.
func (w Window) Limit() int {
	if w.IsEmpty() {
		return NoLimit
	}

	return w.PageSize
}

// Apply applies the window to a gorm query as LIMIT/OFFSET. An empty window
// leaves the query unchanged.
func (w Window) Apply(db *gorm.DB) *gorm.DB {
	if w.IsEmpty() {
		return db
	}

	return db.Offset(w.Offset()).Limit(w.Limit())
}

func (w Window) overflows() bool {
	return w.Page-1 > math.MaxInt/w.PageSize
}
