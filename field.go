package mapify

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

// FieldRef is a typed reference to a field of T, addressed by a selector:
//
//	mapify.Field(func(u *UserView) *int { return &u.Age })
//
// The selector is called once per query on a zero T; the returned address
// identifies the field, which must be a column of T's schema.
type FieldRef[T, V any] struct {
	selector func(*T) *V
}

// Field returns a typed reference to the field of T the selector addresses.
func Field[T, V any](selector func(*T) *V) FieldRef[T, V] {
	return FieldRef[T, V]{selector: selector}
}

// Eq matches rows where the field equals value. A nil pointer value matches NULL.
func (f FieldRef[T, V]) Eq(value V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Eq{Column: c, Value: value}
	})
}

// Ne matches rows where the field differs from value.
func (f FieldRef[T, V]) Ne(value V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Neq{Column: c, Value: value}
	})
}

func (f FieldRef[T, V]) Gt(value V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Gt{Column: c, Value: value}
	})
}

func (f FieldRef[T, V]) Gte(value V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Gte{Column: c, Value: value}
	})
}

func (f FieldRef[T, V]) Lt(value V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Lt{Column: c, Value: value}
	})
}

func (f FieldRef[T, V]) Lte(value V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Lte{Column: c, Value: value}
	})
}

// In matches rows where the field equals one of values.
func (f FieldRef[T, V]) In(values ...V) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.IN{Column: c, Values: lo.ToAnySlice(values)}
	})
}

func (f FieldRef[T, V]) IsNull() Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Eq{Column: c, Value: nil}
	})
}

func (f FieldRef[T, V]) IsNotNull() Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return clause.Neq{Column: c, Value: nil}
	})
}

// Contains matches rows where the field contains substr. LIKE wildcards in
// substr are matched literally.
func (f FieldRef[T, V]) Contains(substr string) Predicate[T] {
	return f.like(OperatorContains, substr)
}

func (f FieldRef[T, V]) StartsWith(prefix string) Predicate[T] {
	return f.like(OperatorStartsWith, prefix)
}

func (f FieldRef[T, V]) EndsWith(suffix string) Predicate[T] {
	return f.like(OperatorEndsWith, suffix)
}

// Sort orders by the field, descending when descending is set.
func (f FieldRef[T, V]) Sort(descending bool) Order[T] {
	return fieldOrder[T, V]{ref: f, descending: descending}
}

func (f FieldRef[T, V]) like(op Operator, value string) Predicate[T] {
	return f.compare(func(c clause.Column) clause.Expression {
		return tCondition{Operator: op, Value: value}.toLikeExpression(c)
	})
}

func (f FieldRef[T, V]) compare(build func(c clause.Column) clause.Expression) Predicate[T] {
	return Predicate[T]{
		build: func(s *shape[T]) (clause.Expression, error) {
			col, err := f.resolve(s)
			if err != nil {
				return nil, err
			}

			return build(col.clause()), nil
		},
	}
}

// resolve finds the column the selector addresses in T's schema.
func (f FieldRef[T, V]) resolve(s *shape[T]) (column, error) {
	if f.selector == nil {
		return column{}, fmt.Errorf("%w: nil selector", ErrInvalidSelector)
	}

	var sample T
	ptr := f.selector(&sample)
	if ptr == nil {
		return column{}, fmt.Errorf("%w: selector returned nil", ErrInvalidSelector)
	}

	return s.fieldAt(
		reflect.ValueOf(&sample).Elem(),
		reflect.ValueOf(ptr).Pointer(),
		reflect.TypeOf(ptr).Elem(),
	)
}
