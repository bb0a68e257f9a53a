package apperrors

import (
	"fmt"
	"net/http"
)

// Stable machine-readable codes carried in the error envelope.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is the domain error type surfaced by services and handlers.
// Status and Code drive the HTTP rendering; Err keeps the underlying
// cause for logs and is never exposed outside development.
type Error struct {
	Code    string
	Status  int
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, details any) *Error {
	return &Error{Code: CodeValidation, Status: http.StatusBadRequest, Message: message, Details: details}
}

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Status: http.StatusBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Status: http.StatusNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Status: http.StatusConflict, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: message, Err: err}
}

// CodeForStatus maps an HTTP status to the closest envelope code. Used for
// errors that did not originate as *Error, e.g. router-level failures.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	default:
		if status >= 400 && status < 500 {
			return CodeBadRequest
		}
		return CodeInternal
	}
}
