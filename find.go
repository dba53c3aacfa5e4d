package mapify

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindByID returns the record of T whose identifier equals id, or the zero T
// when there is none.
//
// The identifier is T's prioritized primary field; by GORM convention a field
// named ID. db must carry the source model or table:
//
//	view, err := mapify.FindByID[UserView](db.Model(&User{}), 42)
func FindByID[T any, ID any](db *gorm.DB, id ID) (T, error) {
	return NewQuery[T]().WithFilter(byID[T](id)).First(db)
}

// FindByIDContext is FindByID bound to ctx.
func FindByIDContext[T any, ID any](ctx context.Context, db *gorm.DB, id ID) (T, error) {
	return FindByID[T](db.WithContext(ctx), id)
}

// FindFirst returns the first record of T matching filter, or the zero T when
// none does. Several matches are tolerated; which one is first is up to the
// store.
func FindFirst[T any](db *gorm.DB, filter Filter[T]) (T, error) {
	return NewQuery[T]().WithFilter(filter).First(db)
}

// FindFirstContext is FindFirst bound to ctx.
func FindFirstContext[T any](ctx context.Context, db *gorm.DB, filter Filter[T]) (T, error) {
	return FindFirst(db.WithContext(ctx), filter)
}

// FindSingle returns the only record of T matching filter, or the zero T when
// none does. It fails with ErrMultipleMatches when more than one matches.
func FindSingle[T any](db *gorm.DB, filter Filter[T]) (T, error) {
	return NewQuery[T]().WithFilter(filter).Single(db)
}

// FindSingleContext is FindSingle bound to ctx.
func FindSingleContext[T any](ctx context.Context, db *gorm.DB, filter Filter[T]) (T, error) {
	return FindSingle(db.WithContext(ctx), filter)
}

// FindList returns the records of T matching filter, sorted by order. Both are
// optional. No match yields an empty slice.
func FindList[T any](db *gorm.DB, filter Filter[T], order Order[T]) ([]T, error) {
	return NewQuery[T]().WithFilter(filter).WithOrder(order).Find(db)
}

// FindListContext is FindList bound to ctx.
func FindListContext[T any](ctx context.Context, db *gorm.DB, filter Filter[T], order Order[T]) ([]T, error) {
	return FindList(db.WithContext(ctx), filter, order)
}

func byID[T any, ID any](id ID) Predicate[T] {
	return Predicate[T]{
		build: func(s *shape[T]) (clause.Expression, error) {
			col, err := s.identifier()
			if err != nil {
				return nil, err
			}

			return clause.Eq{Column: col.clause(), Value: id}, nil
		},
	}
}
