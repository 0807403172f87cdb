package apperr

import (
	"fmt"
	"net/http"
)

// Error is a handler-level failure with the HTTP status it should render as.
type Error struct {
	Status  int
	Message string
	Details []string
}

func (e *Error) Error() string { return e.Message }

func New(status int, msg string) *Error { return &Error{Status: status, Message: msg} }

func Newf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(msg string) *Error   { return New(http.StatusBadRequest, msg) }
func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }
func Forbidden(msg string) *Error    { return New(http.StatusForbidden, msg) }
func NotFound(msg string) *Error     { return New(http.StatusNotFound, msg) }
func Conflict(msg string) *Error     { return New(http.StatusConflict, msg) }
func Unavailable(msg string) *Error  { return New(http.StatusServiceUnavailable, msg) }

func Validation(details []string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "Validation failed", Details: details}
}
