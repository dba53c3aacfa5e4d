package mapify

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type (
	// tCondition is a single "Field Operator Value" term of a textual filter.
	tCondition struct {
		Field    string
		Operator Operator
		Value    string
		// Null is set when the value is empty or the unescaped word "null".
		Null bool
		// CaseInsensitive is set by the "/i" value suffix.
		CaseInsensitive bool
	}

	tJunction int

	// tGroup is a list of nodes joined by the same junction. Nested groups
	// come from parentheses and from the precedence of AND over OR, so
	//
	//	a=1,b=2|c=3
	//
	// is the OR group of (AND group of a=1, b=2) and c=3.
	tGroup struct {
		Junction tJunction
		Nodes    []tNode
	}

	tNode interface {
		toGORMExpression(r columnResolver) (clause.Expression, error)
	}

	columnResolver interface {
		lookup(name string) (column, error)
	}
)

const (
	junctionAnd tJunction = iota
	junctionOr
)

var _likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// toGORMExpression converts a condition into a clause.Expression over the
// column the field resolves to.
//
// Example:
//
//	tCondition{Field: "age", Operator: ">", Value: "18"}
//
// Result (for an int field):
//
//	clause.Gt{Column: "age", Value: int64(18)}
func (c tCondition) toGORMExpression(r columnResolver) (clause.Expression, error) {
	col, err := r.lookup(c.Field)
	if err != nil {
		return nil, err
	}
	target := col.clause()

	if c.Null {
		return c.toNullExpression(col)
	}

	if c.Operator.IsPattern() {
		return c.toLikeExpression(target), nil
	}

	if c.CaseInsensitive {
		switch c.Operator {
		case OperatorEq, OperatorNe:
			return clause.Expr{
				SQL:  lo.Ternary(c.Operator == OperatorEq, "LOWER(?) = ?", "LOWER(?) <> ?"),
				Vars: []any{target, strings.ToLower(c.Value)},
			}, nil
		default:
			return nil, fmt.Errorf("%w: operator '%s' does not support case-insensitive comparison", ErrInvalidFilter, c.Operator)
		}
	}

	value, err := col.convert(c.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot convert value '%s' of field '%s': %v", ErrInvalidFilter, c.Value, c.Field, err)
	}

	switch c.Operator {
	case OperatorEq:
		return clause.Eq{Column: target, Value: value}, nil
	case OperatorNe:
		return clause.Neq{Column: target, Value: value}, nil
	case OperatorGT:
		return clause.Gt{Column: target, Value: value}, nil
	case OperatorGE:
		return clause.Gte{Column: target, Value: value}, nil
	case OperatorLT:
		return clause.Lt{Column: target, Value: value}, nil
	case OperatorLE:
		return clause.Lte{Column: target, Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported operator '%s'", ErrInvalidFilter, c.Operator)
	}
}

// toNullExpression handles an empty value. For string fields the empty string
// counts as empty as well:
//
//	name=   ->  (name IS NULL OR name = '')
//	name!=  ->  (name IS NOT NULL AND name <> '')
func (c tCondition) toNullExpression(col column) (clause.Expression, error) {
	target := col.clause()

	switch c.Operator {
	case OperatorEq:
		if col.isString() {
			return clause.Or(clause.Eq{Column: target, Value: nil}, clause.Eq{Column: target, Value: ""}), nil
		}

		return clause.Eq{Column: target, Value: nil}, nil
	case OperatorNe:
		if col.isString() {
			return clause.And(clause.Neq{Column: target, Value: nil}, clause.Neq{Column: target, Value: ""}), nil
		}

		return clause.Neq{Column: target, Value: nil}, nil
	default:
		return nil, fmt.Errorf("%w: operator '%s' requires a value for field '%s'", ErrInvalidFilter, c.Operator, c.Field)
	}
}

// toLikeExpression builds a LIKE comparison. The value is escaped with '!'
// which every supported dialect accepts in an ESCAPE clause.
func (c tCondition) toLikeExpression(target clause.Column) clause.Expression {
	pattern := c.Operator.likePattern(_likeEscaper.Replace(c.Value))
	left := "?"
	if c.CaseInsensitive {
		left = "LOWER(?)"
		pattern = strings.ToLower(pattern)
	}

	return clause.Expr{
		SQL:  left + lo.Ternary(c.Operator.IsNegated(), " NOT LIKE ", " LIKE ") + "? ESCAPE '!'",
		Vars: []any{target, pattern},
	}
}

// toGORMExpression joins the expressions of the group nodes with the group
// junction. Empty nodes are skipped; a group of one node collapses to it.
func (g tGroup) toGORMExpression(r columnResolver) (clause.Expression, error) {
	expressions := make([]clause.Expression, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		exp, err := node.toGORMExpression(r)
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
		if g.Junction == junctionOr {
			return clause.Or(expressions...), nil
		}

		return clause.And(expressions...), nil
	}

	return nil, nil
}

func parseAnyValue(v any) any {
	// Try parsing a value as time.Time. If it succeeds, return time.Time.
	// Otherwise return the original value.
	fnParseBytesToTimeOrValue := func(vBytes []byte) any {
		dst := time.Time{}
		err := dst.UnmarshalText(vBytes)
		if err == nil {
			return dst
		}

		return v
	}

	switch vt := v.(type) {
	case string:
		return fnParseBytesToTimeOrValue([]byte(vt))
	case []byte:
		return fnParseBytesToTimeOrValue(vt)
	default:
		return v
	}
}
