package mapify

import (
	"context"

	"gorm.io/gorm"
)

// GetPagedList returns one page of the records of T matching filter, sorted by
// order, together with the number of all matching records.
//
// The page window is honored only when both page and pageSize are positive;
// otherwise every matching record is returned. The total is counted before
// ordering and paging.
func GetPagedList[T any](db *gorm.DB, page, pageSize int, filter Filter[T], order Order[T]) ([]T, int64, error) {
	return NewQuery[T]().
		WithFilter(filter).
		WithOrder(order).
		WithPage(page, pageSize).
		PagedList(db)
}

// GetPagedListContext is GetPagedList bound to ctx.
func GetPagedListContext[T any](ctx context.Context, db *gorm.DB, page, pageSize int, filter Filter[T], order Order[T]) ([]T, int64, error) {
	return GetPagedList(db.WithContext(ctx), page, pageSize, filter, order)
}

// GetPagedResult is GetPagedList wrapped into a PagedResult carrying page and
// pageSize as given.
func GetPagedResult[T any](db *gorm.DB, page, pageSize int, filter Filter[T], order Order[T]) (PagedResult[T], error) {
	return NewQuery[T]().
		WithFilter(filter).
		WithOrder(order).
		WithPage(page, pageSize).
		Paged(db)
}

// GetPagedResultContext is GetPagedResult bound to ctx.
func GetPagedResultContext[T any](ctx context.Context, db *gorm.DB, page, pageSize int, filter Filter[T], order Order[T]) (PagedResult[T], error) {
	return GetPagedResult(db.WithContext(ctx), page, pageSize, filter, order)
}

// GetPaged serves an API payload: the request is normalized (see
// PageRequest.Normalize) and its textual filter and ordering are applied.
func GetPaged[T any](db *gorm.DB, req PageRequest) (PagedResult[T], error) {
	return FromRequest[T](req).Paged(db)
}

// GetPagedContext is GetPaged bound to ctx.
func GetPagedContext[T any](ctx context.Context, db *gorm.DB, req PageRequest) (PagedResult[T], error) {
	return GetPaged[T](db.WithContext(ctx), req)
}
