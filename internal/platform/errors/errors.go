// Package errors classifies failures so handlers can decide between showing
// a message next to the form and answering with a JSON error body.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	TypeValidation ErrorType = "validation" // bad upload, empty field, wrong password
	TypeNotFound   ErrorType = "not_found"  // expired map id, missing stored data
	TypeConflict   ErrorType = "conflict"   // username already taken
	TypeInternal   ErrorType = "internal"   // unreadable store, bug
	TypeExternal   ErrorType = "external"   // model, news or geocoding provider failed
)

var statusByType = map[ErrorType]int{
	TypeValidation: http.StatusBadRequest,
	TypeNotFound:   http.StatusNotFound,
	TypeConflict:   http.StatusConflict,
	TypeInternal:   http.StatusInternalServerError,
	TypeExternal:   http.StatusBadGateway,
}

// Error is a classified failure. Context holds per-field messages for
// validation errors and free-form diagnostics otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause, Context: map[string]any{}}
}

func ValidationError(message string) *Error { return newError(TypeValidation, message, nil) }
func NotFoundError(message string) *Error   { return newError(TypeNotFound, message, nil) }
func ConflictError(message string) *Error   { return newError(TypeConflict, message, nil) }

func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

func ExternalError(message string, cause error) *Error {
	return newError(TypeExternal, message, cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) HTTPStatus() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// UserFacing reports whether the user can fix the problem by changing their
// input. Such errors are rendered inline on the page.
func (e *Error) UserFacing() bool {
	switch e.Type {
	case TypeValidation, TypeNotFound, TypeConflict:
		return true
	default:
		return false
	}
}

// WithField attaches a diagnostic, typically a form field name and its problem.
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// WithContext is WithField for non-field diagnostics.
func (e *Error) WithContext(key string, value any) *Error {
	return e.WithField(key, value)
}

type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Context: e.Context}
}

// AsStructuredError returns the *Error in err's chain, or wraps err as an
// internal error. A nil err stays nil.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}
	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}
	return InternalError("internal server error", err)
}

// Is reports whether err carries a structured error of type t.
func Is(err error, t ErrorType) bool {
	var structured *Error
	return errors.As(err, &structured) && structured.Type == t
}
