package mapify

import (
	"context"
	"encoding"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

var (
	_timeType            = reflect.TypeOf(time.Time{})
	_textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// shape binds the target type T to the GORM schema describing it. Filters and
// orderings address T's fields; the schema maps them onto columns.
type shape[T any] struct {
	schema  *schema.Schema
	mapping ColumnMapping
}

// bindShape parses T with the naming strategy and schema cache of db. It is the
// same parse GORM performs when it narrows a SELECT to a smaller struct.
func bindShape[T any](db *gorm.DB, mapping ColumnMapping) (*shape[T], error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return nil, fmt.Errorf("cannot parse target shape %T: %w", lo.Empty[T](), err)
	}

	return &shape[T]{
		schema:  stmt.Schema,
		mapping: mapping,
	}, nil
}

// column is a resolved filter or ordering target.
type column struct {
	// name is the column name, possibly qualified ("u.name") when it comes
	// from a ColumnMapping.
	name string
	// field is the schema field of T backing the column. Nil when the column
	// comes from a mapping that T does not describe.
	field *schema.Field
}

func (c column) clause() clause.Column {
	return clause.Column{Name: c.name}
}

func (c column) isString() bool {
	return c.field != nil && c.field.IndirectFieldType.Kind() == reflect.String
}

// convert turns a textual filter value into the Go type of the backing field.
func (c column) convert(raw string) (any, error) {
	if c.field == nil {
		return parseAnyValue(raw), nil
	}

	t := c.field.IndirectFieldType
	if t == _timeType {
		return cast.ToTimeE(raw)
	}

	if reflect.PointerTo(t).Implements(_textUnmarshalerType) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return nil, err
		}

		return v.Elem().Interface(), nil
	}

	switch t.Kind() {
	case reflect.String:
		return raw, nil
	case reflect.Bool:
		return cast.ToBoolE(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cast.ToInt64E(raw)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return cast.ToUint64E(raw)
	case reflect.Float32, reflect.Float64:
		return cast.ToFloat64E(raw)
	default:
		return raw, nil
	}
}

// lookup resolves a field name used in filter or ordering text.
//
// With a mapping only its aliases are accepted. Without one, the name is
// matched against T's fields by Go name or column name, case-insensitively.
func (s *shape[T]) lookup(name string) (column, error) {
	if s.mapping != nil {
		mapped, ok := s.mapping[name]
		if !ok || mapped == "" {
			return column{}, &UnknownFieldError{Name: name, Closest: closestAlias(name, lo.Keys(s.mapping))}
		}

		return column{name: mapped, field: s.fieldByColumn(mapped)}, nil
	}

	if field := s.fieldByName(name); field != nil {
		return column{name: field.DBName, field: field}, nil
	}

	return column{}, &UnknownFieldError{Name: name, Closest: closestAlias(name, s.columnNames())}
}

// identifier resolves the field FindByID compares against.
func (s *shape[T]) identifier() (column, error) {
	field := s.schema.PrioritizedPrimaryField
	if field == nil {
		field = s.fieldByName("id")
	}

	if field == nil || field.DBName == "" {
		return column{}, fmt.Errorf("%w: %s", ErrNoIdentifier, s.schema.Name)
	}

	return column{name: field.DBName, field: field}, nil
}

// fieldAt finds the field of sample whose address is target. sample must be an
// addressable value of T.
func (s *shape[T]) fieldAt(sample reflect.Value, target uintptr, typ reflect.Type) (column, error) {
	for _, field := range s.schema.Fields {
		if field.DBName == "" || field.FieldType != typ {
			continue
		}

		fv := field.ReflectValueOf(context.Background(), sample)
		if fv.CanAddr() && fv.Addr().Pointer() == target {
			return column{name: field.DBName, field: field}, nil
		}
	}

	return column{}, fmt.Errorf("%w: no %s field of %s at the selected address", ErrInvalidSelector, typ, s.schema.Name)
}

func (s *shape[T]) fieldByName(name string) *schema.Field {
	if field := s.schema.LookUpField(name); field != nil && field.DBName != "" {
		return field
	}

	for _, field := range s.schema.Fields {
		if field.DBName == "" {
			continue
		}

		if strings.EqualFold(field.Name, name) || strings.EqualFold(field.DBName, name) {
			return field
		}
	}

	return nil
}

func (s *shape[T]) fieldByColumn(name string) *schema.Field {
	if idx := strings.LastIndexByte(name, '.'); idx != -1 {
		name = name[idx+1:]
	}

	return s.schema.FieldsByDBName[name]
}

func (s *shape[T]) columnNames() []string {
	return lo.FilterMap(s.schema.Fields, func(field *schema.Field, _ int) (string, bool) {
		return field.DBName, field.DBName != ""
	})
}
