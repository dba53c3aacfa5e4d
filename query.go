package mapify

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Query composes projection, filter, order and page window over the target
// shape T. It never alters the *gorm.DB it is applied to: every call starts a
// fresh session, so one Query (and one source) can be reused freely.
//
// The zero value and a nil *Query are valid and select every row of T.
type Query[T any] struct {
	filter  Filter[T]
	order   Order[T]
	window  Window
	mapping ColumnMapping
}

func NewQuery[T any]() *Query[T] {
	return new(Query[T])
}

// FromRequest builds a Query from an API payload. The request is normalized,
// so the query is always windowed.
func FromRequest[T any](req PageRequest) *Query[T] {
	req = req.Normalize()

	return NewQuery[T]().
		WithFilter(Where[T](req.Filter)).
		WithOrder(SortBy[T](req.OrderBy)).
		WithWindow(req.Window())
}

// WithFilter sets the filter. A nil filter matches every row.
func (q *Query[T]) WithFilter(filter Filter[T]) *Query[T] {
	if q == nil {
		q = new(Query[T])
	}

	q.filter = filter

	return q
}

// WithOrder sets the ordering. A nil order keeps the store order.
func (q *Query[T]) WithOrder(order Order[T]) *Query[T] {
	if q == nil {
		q = new(Query[T])
	}

	q.order = order

	return q
}

// WithPage sets the page window. See Window for when it is honored.
func (q *Query[T]) WithPage(page, pageSize int) *Query[T] {
	return q.WithWindow(NewWindow(page, pageSize))
}

func (q *Query[T]) WithWindow(window Window) *Query[T] {
	if q == nil {
		q = new(Query[T])
	}

	q.window = window

	return q
}

// WithColumnMapping restricts textual filters and orderings to the aliases of
// mapping and resolves them to the mapped columns.
//
// IMPORTANT:
// Typed predicates and orderings address T's fields directly and are not
// affected by the mapping.
func (q *Query[T]) WithColumnMapping(mapping ColumnMapping) *Query[T] {
	if q == nil {
		q = new(Query[T])
	}

	q.mapping = mapping

	return q
}

// GetWindow returns the page window as it is stored in Query.
func (q *Query[T]) GetWindow() Window {
	if q == nil {
		return Window{}
	}

	return q.window
}

// Filtered projects db onto T and applies the filter.
func (q *Query[T]) Filtered(db *gorm.DB) (*gorm.DB, error) {
	tx, _, err := q.filtered(db)

	return tx, err
}

// Apply projects db onto T and applies the filter, the ordering and the page
// window. Returns an error if any of them cannot be applied.
func (q *Query[T]) Apply(db *gorm.DB) (*gorm.DB, error) {
	q = q.orEmpty()

	tx, s, err := q.filtered(db)
	if err != nil {
		return nil, err
	}

	return q.arrange(tx, s)
}

// Count returns the number of rows matching the filter. Ordering and the page
// window do not affect it.
func (q *Query[T]) Count(db *gorm.DB) (int64, error) {
	tx, err := q.Filtered(db)
	if err != nil {
		return 0, err
	}

	var total int64
	if err = tx.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("cannot count records: %w", err)
	}

	return total, nil
}

// Find materializes the rows of the query.
func (q *Query[T]) Find(db *gorm.DB) ([]T, error) {
	tx, err := q.Apply(db)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	if err = tx.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot find records: %w", err)
	}

	return items, nil
}

// First returns the first row matching the filter, or the zero T when none
// does. Several matching rows are tolerated. The page window is ignored.
func (q *Query[T]) First(db *gorm.DB) (T, error) {
	items, err := q.take(db, 1)
	if err != nil {
		return lo.Empty[T](), err
	}

	return lo.FirstOrEmpty(items), nil
}

// Single returns the only row matching the filter, or the zero T when none
// does. More than one matching row yields ErrMultipleMatches. The page window
// is ignored.
func (q *Query[T]) Single(db *gorm.DB) (T, error) {
	items, err := q.take(db, 2)
	if err != nil {
		return lo.Empty[T](), err
	}

	if len(items) > 1 {
		return lo.Empty[T](), ErrMultipleMatches
	}

	return lo.FirstOrEmpty(items), nil
}

// PagedList returns the rows within the page window together with the total
// number of rows matching the filter. The total is counted before ordering and
// windowing.
func (q *Query[T]) PagedList(db *gorm.DB) ([]T, int64, error) {
	q = q.orEmpty()

	tx, s, err := q.filtered(db)
	if err != nil {
		return nil, 0, err
	}

	// Both branches get their own session, so the ordering never leaks into
	// the count.
	arranged, err := q.arrange(tx.Session(&gorm.Session{}), s)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err = tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("cannot count records: %w", err)
	}

	items := make([]T, 0)
	if err = arranged.Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("cannot find records: %w", err)
	}

	return items, total, nil
}

// Paged is PagedList wrapped into a PagedResult.
func (q *Query[T]) Paged(db *gorm.DB) (PagedResult[T], error) {
	items, total, err := q.PagedList(db)
	if err != nil {
		return PagedResult[T]{}, err
	}

	window := q.GetWindow()

	return NewPagedResult(items, window.Page, window.PageSize, total), nil
}

func (q *Query[T]) filtered(db *gorm.DB) (*gorm.DB, *shape[T], error) {
	q = q.orEmpty()

	s, err := bindShape[T](db, q.mapping)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot project query: %w", err)
	}

	// A new session makes every following chain call work on a copy of the
	// statement, leaving db untouched.
	tx, err := applyFilter(db.Session(&gorm.Session{}), s, q.filter)
	if err != nil {
		return nil, nil, err
	}

	return tx, s, nil
}

func (q *Query[T]) arrange(tx *gorm.DB, s *shape[T]) (*gorm.DB, error) {
	if err := q.window.Validate(); err != nil {
		return nil, fmt.Errorf("cannot apply window: %w", err)
	}

	tx, err := applyOrder(tx, s, q.order)
	if err != nil {
		return nil, err
	}

	return q.window.Apply(tx), nil
}

func (q *Query[T]) take(db *gorm.DB, limit int) ([]T, error) {
	q = q.orEmpty()

	tx, s, err := q.filtered(db)
	if err != nil {
		return nil, err
	}

	tx, err = applyOrder(tx, s, q.order)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, limit)
	if err = tx.Limit(limit).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("cannot find records: %w", err)
	}

	return items, nil
}

func (q *Query[T]) orEmpty() *Query[T] {
	if q == nil {
		return new(Query[T])
	}

	return q
}
