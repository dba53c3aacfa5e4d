package mapify

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFilter is returned when a textual filter cannot be parsed or
	// its values cannot be converted to the target field types.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidOrder is returned when an ordering cannot be parsed or validated.
	ErrInvalidOrder = errors.New("invalid ordering")

	// ErrUnknownField is returned when a filter or ordering names a field that
	// the target shape (or the column mapping) does not define.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidSelector is returned when a typed field selector does not
	// address a mapped field of the target shape.
	ErrInvalidSelector = errors.New("invalid field selector")

	// ErrInvalidWindow is returned when the page window addresses rows beyond
	// the representable offset.
	ErrInvalidWindow = errors.New("page window is out of range")

	// ErrNoIdentifier is returned by FindByID when the target shape has no
	// identifier field.
	ErrNoIdentifier = errors.New("target shape has no identifier field")

	// ErrMultipleMatches is returned by FindSingle when more than one record
	// satisfies the filter.
	ErrMultipleMatches = errors.New("more than one record matches the filter")
)

// SyntaxError describes a malformed textual filter.
type SyntaxError struct {
	// Input is the full filter text.
	Input string
	// Offset is the byte offset in Input where the problem was detected.
	Offset int
	// Message is a short description of the problem.
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter syntax error at offset %d: %s (filter %q)", e.Offset, e.Message, e.Input)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrInvalidFilter
}

// UnknownFieldError reports an unresolved field name together with the
// closest name that would have been accepted.
type UnknownFieldError struct {
	Name    string
	Closest string
}

func (e *UnknownFieldError) Error() string {
	if e.Closest == "" {
		return fmt.Sprintf("unknown field '%s'", e.Name)
	}

	return fmt.Sprintf("unknown field '%s'. closest: '%s'", e.Name, e.Closest)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}
