package mapify

// Operator defines a comparison operator of the textual filter grammar.
type Operator string

const (
	OperatorEq Operator = "="
	OperatorNe Operator = "!="
	OperatorGT Operator = ">"
	OperatorLT Operator = "<"
	OperatorGE Operator = ">="
	OperatorLE Operator = "<="

	OperatorContains      Operator = "=*"
	OperatorNotContains   Operator = "!*"
	OperatorStartsWith    Operator = "^"
	OperatorNotStartsWith Operator = "!^"
	OperatorEndsWith      Operator = "$"
	OperatorNotEndsWith   Operator = "!$"
)

// _operators is ordered so that two-symbol operators are matched before their
// one-symbol prefixes.
var _operators = []Operator{
	OperatorNe,
	OperatorGE,
	OperatorLE,
	OperatorContains,
	OperatorNotContains,
	OperatorNotStartsWith,
	OperatorNotEndsWith,
	OperatorEq,
	OperatorGT,
	OperatorLT,
	OperatorStartsWith,
	OperatorEndsWith,
}

func (o Operator) Valid() bool {
	for _, op := range _operators {
		if o == op {
			return true
		}
	}

	return false
}

// IsPattern reports whether the operator compares by LIKE pattern.
func (o Operator) IsPattern() bool {
	switch o {
	case OperatorContains, OperatorNotContains,
		OperatorStartsWith, OperatorNotStartsWith,
		OperatorEndsWith, OperatorNotEndsWith:
		return true
	default:
		return false
	}
}

// IsNegated reports whether the operator is the negation of another one.
func (o Operator) IsNegated() bool {
	switch o {
	case OperatorNe, OperatorNotContains, OperatorNotStartsWith, OperatorNotEndsWith:
		return true
	default:
		return false
	}
}

// likePattern wraps an already escaped value into the LIKE pattern of a
// pattern operator.
func (o Operator) likePattern(escaped string) string {
	switch o {
	case OperatorContains, OperatorNotContains:
		return "%" + escaped + "%"
	case OperatorStartsWith, OperatorNotStartsWith:
		return escaped + "%"
	case OperatorEndsWith, OperatorNotEndsWith:
		return "%" + escaped
	default:
		return escaped
	}
}
