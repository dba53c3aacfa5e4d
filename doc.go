// Package mapify provides typed query helpers for GORM: projection into a
// target shape, textual and typed filters, ordering, page windows and paged
// results with total counts.
//
// # Overview
//
// Every helper is parameterized by the target shape T, a struct type. The
// *gorm.DB passed in carries the source model (db.Model(&User{})) or table;
// the helpers project it onto T, so only T's columns are selected and filters
// and orderings address T's fields. The source *gorm.DB is never altered:
// each call composes its own session.
//
// Key concepts
//   - Filter: Where (textual), Predicate (typed, built from Field selectors)
//     or Match (equality on an example value).
//   - Order: SortBy (textual) or FieldRef.Sort (typed key selector).
//   - Window: 1-based page and page size, honored only when both are positive.
//   - Query: the builder composing all of the above; the package level
//     functions are shortcuts over it.
//   - PagedResult: a page of items with current page, page size, total count,
//     total pages and previous/next flags.
//
// Operations
//
//	FindByID      equality on T's identifier, first or zero value
//	FindFirst     first match or zero value, several matches tolerated
//	FindSingle    only match or zero value, ErrMultipleMatches otherwise
//	FindList      all matches, optionally ordered
//	GetPagedList  one page and the total count of matches
//	GetPagedResult, GetPaged  the same wrapped into a PagedResult
//
// Each operation has a Context variant binding the query to a context.
package mapify
