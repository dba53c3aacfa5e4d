package mapify

import (
	"fmt"
	"reflect"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter restricts the rows of a query over the target shape T.
//
// A Filter is one of:
//   - Where: a textual predicate, e.g. "age>=18,name^jo/i";
//   - Predicate: a typed predicate built from Field selectors;
//   - Match: equality on the non-zero fields of an example value.
//
// A nil or empty Filter matches every row.
type Filter[T any] interface {
	IsEmpty() bool
	apply(tx *gorm.DB, s *shape[T]) (*gorm.DB, error)
}

// Where returns a textual filter over T.
//
// Grammar:
//
//	','  AND, binds tighter than OR
//	'|'  OR
//	'( )' grouping
//	=  !=  <  >  <=  >=   comparison
//	=* !*                 contains, does not contain
//	^  !^                 starts with, does not start with
//	$  !$                 ends with, does not end with
//
// A trailing "/i" on a value compares case-insensitively. An empty value or
// the word null matches NULL (and the empty string for string fields).
// A backslash escapes the next character of a value.
//
// Field names are T's field or column names, matched case-insensitively, or
// the aliases of a ColumnMapping when the query has one.
func Where[T any](filter string) Filter[T] {
	return textFilter[T](filter)
}

type textFilter[T any] string

// IsEmpty - implements Filter.
func (f textFilter[T]) IsEmpty() bool {
	return strings.TrimSpace(string(f)) == ""
}

func (f textFilter[T]) apply(tx *gorm.DB, s *shape[T]) (*gorm.DB, error) {
	node, err := parseFilter(string(f))
	if err != nil {
		return nil, err
	}

	if node == nil {
		return tx, nil
	}

	exp, err := node.toGORMExpression(s)
	if err != nil {
		return nil, err
	}

	return where(tx, exp), nil
}

// Match returns a filter comparing T's non-zero fields of example for
// equality. GORM builds the conditions from the struct.
func Match[T any](example T) Filter[T] {
	return matchFilter[T]{example: example}
}

type matchFilter[T any] struct {
	example T
}

// IsEmpty - implements Filter.
func (f matchFilter[T]) IsEmpty() bool {
	return reflect.ValueOf(&f.example).Elem().IsZero()
}

func (f matchFilter[T]) apply(tx *gorm.DB, _ *shape[T]) (*gorm.DB, error) {
	if f.IsEmpty() {
		return tx, nil
	}

	example := f.example

	return tx.Where(&example), nil
}

// Predicate is a typed filter over T. The zero Predicate matches every row.
type Predicate[T any] struct {
	build func(s *shape[T]) (clause.Expression, error)
}

// IsEmpty - implements Filter.
func (p Predicate[T]) IsEmpty() bool {
	return p.build == nil
}

func (p Predicate[T]) apply(tx *gorm.DB, s *shape[T]) (*gorm.DB, error) {
	exp, err := p.expression(s)
	if err != nil {
		return nil, err
	}

	return where(tx, exp), nil
}

func (p Predicate[T]) expression(s *shape[T]) (clause.Expression, error) {
	if p.build == nil {
		return nil, nil
	}

	return p.build(s)
}

// And matches rows satisfying every predicate.
func And[T any](predicates ...Predicate[T]) Predicate[T] {
	return junction(junctionAnd, predicates)
}

// Or matches rows satisfying at least one predicate.
func Or[T any](predicates ...Predicate[T]) Predicate[T] {
	return junction(junctionOr, predicates)
}

// Not negates a predicate. Negating the zero Predicate still matches every row.
func Not[T any](predicate Predicate[T]) Predicate[T] {
	if predicate.IsEmpty() {
		return predicate
	}

	return Predicate[T]{
		build: func(s *shape[T]) (clause.Expression, error) {
			exp, err := predicate.expression(s)
			if err != nil || exp == nil {
				return exp, err
			}

			return clause.Not(exp), nil
		},
	}
}

func junction[T any](j tJunction, predicates []Predicate[T]) Predicate[T] {
	return Predicate[T]{
		build: func(s *shape[T]) (clause.Expression, error) {
			expressions := make([]clause.Expression, 0, len(predicates))
			for _, predicate := range predicates {
				exp, err := predicate.expression(s)
				if err != nil {
					return nil, err
				}

				if exp == nil {
					continue
				}

				expressions = append(expressions, exp)
			}

			if len(expressions) == 1 {
				return expressions[0], nil
			} else if len(expressions) > 1 {
				if j == junctionOr {
					return clause.Or(expressions...), nil
				}

				return clause.And(expressions...), nil
			}

			return nil, nil
		},
	}
}

func where(tx *gorm.DB, exp clause.Expression) *gorm.DB {
	if exp == nil {
		return tx
	}

	return tx.Where(exp)
}

func applyFilter[T any](tx *gorm.DB, s *shape[T], filter Filter[T]) (*gorm.DB, error) {
	if filter == nil || filter.IsEmpty() {
		return tx, nil
	}

	tx, err := filter.apply(tx, s)
	if err != nil {
		return nil, fmt.Errorf("cannot apply filter: %w", err)
	}

	return tx, nil
}
