package mapify

import (
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Direction defines the sort direction for the requested dataset.
type Direction string

const (
	DirectionASC  Direction = "ASC"
	DirectionDESC Direction = "DESC"
)

func (o Direction) Valid() bool {
	return o == DirectionASC || o == DirectionDESC
}

type (
	Orderings []OrderBy
	OrderBy   struct {
		Column    string
		Direction Direction
	}

	ColumnAlias = string

	// ColumnMapping maps external column aliases to fully qualified column names.
	// Use it when bare column names could cause an "ambiguous column name" error,
	// or to restrict which fields a textual filter or ordering may address.
	// Key is an external alias, value is an internal column name.
	ColumnMapping = map[ColumnAlias]string
)

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

func (o OrderBy) validate() error {
	if !o.Direction.Valid() {
		return fmt.Errorf("%w: invalid ordering direction '%s'", ErrInvalidOrder, o.Direction)
	}

	// Guard against SQL injection by restricting allowed characters in column names.
	if o.Column == "" || !lo.Every(_availableColumnNameSymbols, []rune(o.Column)) {
		return fmt.Errorf("%w: ordering column name contains forbidden symbols '%s'", ErrInvalidOrder, o.Column)
	}

	return nil
}

// ToSQLSlice converts Orderings to a slice of strings in the form
// "<order_column> <order_direction>" suitable for SQL query builders.
//
// Example: for Orderings: [{"a", "ASC"}, {"b", "DESC"}] returns ["a ASC", "b DESC"].
func (o Orderings) ToSQLSlice() []string {
	ret := make([]string, 0, len(o))
	for _, ordering := range o {
		ret = append(ret, fmt.Sprintf("%s %s", ordering.Column, ordering.Direction))
	}

	return ret
}

// ToSQL converts Orderings to a single string
// "<order_column_1> <order_direction_1>, <order_column_2> <order_direction_2>"
// suitable for embedding into an SQL query.
// Example: for [{"a", "ASC"}, {"b", "DESC"}] returns "a ASC, b DESC".
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table ORDER BY %s", orderings.ToSQL())
func (o Orderings) ToSQL() string {
	return strings.Join(o.ToSQLSlice(), ", ")
}

// Apply applies the ordering to a gorm query. Column names are quoted by the
// dialect.
func (o Orderings) Apply(db *gorm.DB) *gorm.DB {
	for _, ordering := range o {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: ordering.Column},
			Desc:   ordering.Direction == DirectionDESC,
		})
	}

	return db
}

func (o Orderings) validate() error {
	if len(o) == 0 {
		return fmt.Errorf("%w: empty ordering list", ErrInvalidOrder)
	}

	var err error
	for _, ordering := range o {
		err = ordering.validate()
		if err != nil {
			return err
		}
	}

	return nil
}

// ParseSort builds Orderings from a list of strings in the format
// "column [asc|desc]". Column aliases are resolved via ColumnMapping.
// Returns an error if an alias is not found in the mapping.
func ParseSort(stringsOrderings []string, columnMapping ColumnMapping) (Orderings, error) {
	return parseSort(stringsOrderings, mappingResolver(columnMapping))
}

type mappingResolver ColumnMapping

func (m mappingResolver) lookup(alias string) (column, error) {
	columnName := m[alias]
	if columnName == "" {
		return column{}, &UnknownFieldError{Name: alias, Closest: closestAlias(alias, lo.Keys(m))}
	}

	return column{name: columnName}, nil
}

func parseSort(stringsOrderings []string, r columnResolver) (Orderings, error) {
	ret := make([]OrderBy, 0, len(stringsOrderings))

	for _, stringOrdering := range stringsOrderings {
		cutStringOrdering := strings.Fields(stringOrdering)
		if len(cutStringOrdering) == 0 || len(cutStringOrdering) > 2 {
			return nil, fmt.Errorf("%w: invalid ordering string format '%s'", ErrInvalidOrder, stringOrdering)
		}

		direction := DirectionASC
		if len(cutStringOrdering) == 2 {
			direction = Direction(strings.ToUpper(cutStringOrdering[1]))
		}

		col, err := r.lookup(cutStringOrdering[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
		}

		ordering := OrderBy{
			Column:    col.name,
			Direction: direction,
		}
		if err = ordering.validate(); err != nil {
			return nil, err
		}

		ret = append(ret, ordering)
	}

	return ret, nil
}

func closestAlias(input ColumnAlias, dataSet []ColumnAlias) ColumnAlias {
	minDist := math.MaxInt
	closest := ""

	for _, dataSetAlias := range dataSet {
		dist := levenshtein([]rune(dataSetAlias), []rune(input))
		// Ties go to the lexically smallest alias.
		if dist < minDist || (dist == minDist && dataSetAlias < closest) {
			minDist = dist
			closest = dataSetAlias
		}
	}

	return closest
}

// Order sorts the rows of a query over the target shape T.
//
// An Order is either SortBy, a textual ordering, or FieldRef.Sort, a typed key
// selector with a descending flag. A nil Order keeps the store order.
type Order[T any] interface {
	IsEmpty() bool
	orderings(s *shape[T]) (Orderings, error)
}

// SortBy returns a textual ordering over T of the form "name desc, age".
// The direction defaults to ascending.
func SortBy[T any](orderBy string) Order[T] {
	return textOrder[T](orderBy)
}

type textOrder[T any] string

// IsEmpty - implements Order.
func (o textOrder[T]) IsEmpty() bool {
	return strings.TrimSpace(string(o)) == ""
}

func (o textOrder[T]) orderings(s *shape[T]) (Orderings, error) {
	return parseSort(strings.Split(string(o), ","), s)
}

type fieldOrder[T, V any] struct {
	ref        FieldRef[T, V]
	descending bool
}

// IsEmpty - implements Order.
func (o fieldOrder[T, V]) IsEmpty() bool {
	return o.ref.selector == nil
}

func (o fieldOrder[T, V]) orderings(s *shape[T]) (Orderings, error) {
	col, err := o.ref.resolve(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrder, err)
	}

	return Orderings{{
		Column:    col.name,
		Direction: lo.Ternary(o.descending, DirectionDESC, DirectionASC),
	}}, nil
}

func applyOrder[T any](tx *gorm.DB, s *shape[T], order Order[T]) (*gorm.DB, error) {
	if order == nil || order.IsEmpty() {
		return tx, nil
	}

	orderings, err := order.orderings(s)
	if err != nil {
		return nil, fmt.Errorf("cannot apply ordering: %w", err)
	}

	if err = orderings.validate(); err != nil {
		return nil, fmt.Errorf("cannot apply ordering: %w", err)
	}

	return orderings.Apply(tx), nil
}
