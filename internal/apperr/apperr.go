// Package apperr defines the typed failure taxonomy shared by the analyzer
// and renderer call paths.
package apperr

import (
	"errors"
	"fmt"
)

// Code classifies a failure.
type Code string

const (
	// CodeTransport covers network and timeout failures before a response
	// was received.
	CodeTransport Code = "transport_error"

	// CodeService covers non-2xx responses from a remote API.
	CodeService Code = "service_error"

	// CodeProtocol covers responses missing expected fields.
	CodeProtocol Code = "protocol_error"

	// CodeParse covers payloads that are not valid JSON.
	CodeParse Code = "parse_error"

	// CodeConfig covers missing or invalid credentials and settings.
	CodeConfig Code = "config_error"
)

// Error is a tagged failure. Status and Body are populated for CodeService.
type Error struct {
	Code    Code
	Message string
	Status  int
	Body    string
	cause   error
}

func (e *Error) Error() string {
	if e.Code == CodeService && e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a tagged error with a formatted message.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error without losing it.
func Wrap(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: cause}
}

// Service creates a CodeService error carrying the response status and body.
func Service(status int, body string) *Error {
	return &Error{
		Code:    CodeService,
		Message: body,
		Status:  status,
		Body:    body,
	}
}

// CodeOf returns err's code, or "" if err is not a tagged error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err is a tagged error with the given code.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
