// Package domainerrors carries the error codes shared by every layer of the
// service. Domain and template code returns *Error values (optionally wrapping
// an infrastructure cause) and the transport maps the code to a status.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure. Codes are stable and appear on the wire.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal_error"
)

// Coder is implemented by any error that reports a domain code. *Error
// implements it, as do richer error types such as template parse errors.
type Coder interface {
	ErrorCode() Code
}

// Error is the general-purpose coded error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New creates a coded error with a human readable message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode implements Coder.
func (e *Error) ErrorCode() Code {
	return e.Code
}

// CodeOf returns the code of the first Coder in the chain, or CodeInternal
// when the chain carries none.
func CodeOf(err error) Code {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	return CodeInternal
}

// HasCode reports whether the first Coder in err's chain carries code.
func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	var c Coder
	if !errors.As(err, &c) {
		return false
	}
	return c.ErrorCode() == code
}

// ToHTTPStatus maps a code to the HTTP status the transport responds with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeInvalidInput:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
