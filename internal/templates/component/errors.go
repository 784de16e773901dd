package component

import (
	"fmt"
	"sort"
	"strings"

	dErrors "appforms/pkg/domain-errors"
)

// ParseError is the single failure kind raised while building a component
// tree. Type is empty when the failing node's type is not yet known.
type ParseError struct {
	Type   Type
	Fields []string
	Reason string
}

// Errorf builds a ParseError for component type t.
func Errorf(t Type, format string, args ...any) *ParseError {
	return &ParseError{Type: t, Reason: fmt.Sprintf(format, args...)}
}

// FieldError reports a malformed field of a component of type t.
func FieldError(t Type, field, format string, args ...any) *ParseError {
	return &ParseError{
		Type:   t,
		Fields: []string{field},
		Reason: fmt.Sprintf("the %s field of the %s component %s", field, t, fmt.Sprintf(format, args...)),
	}
}

// MissingKeys reports that a component of type t lacks required keys. The full
// required set is listed so callers can fix every problem at once.
func MissingKeys(t Type, missing, required []string) *ParseError {
	sorted := append([]string(nil), required...)
	sort.Strings(sorted)
	return &ParseError{
		Type:   t,
		Fields: missing,
		Reason: fmt.Sprintf("the %s component is missing keys %s, required keys are: [%s]",
			t, strings.Join(missing, ", "), strings.Join(sorted, ", ")),
	}
}

func (e *ParseError) Error() string {
	return "template parse error: " + e.Reason
}

// ErrorCode implements dErrors.Coder.
func (e *ParseError) ErrorCode() dErrors.Code {
	return dErrors.CodeInvalidInput
}
