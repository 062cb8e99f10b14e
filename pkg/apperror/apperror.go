package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	ErrInternal       = NewAppError(http.StatusInternalServerError, "Internal Server Error", nil)
	ErrRouteNotFound  = NewAppError(http.StatusNotFound, "Not Found", nil)
	ErrMethodNotAllow = NewAppError(http.StatusMethodNotAllowed, "Method Not Allowed", nil)
	ErrTooManyRequest = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
)

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is an error carrying the HTTP status it should be reported with
type AppError struct {
	Code    int          `json:"-"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// NewAppError creates a new application error
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches two AppErrors on status code and message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewNotFoundError creates a 404 error for the named resource, e.g. "Invoice not found"
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found", nil)
}

// NewBadRequestError creates a 400 error
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// NewValidationError creates a 422 error listing the offending fields
func NewValidationError(fields []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fields,
	}
}

// NewInternalError wraps an unexpected error as a 500
func NewInternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "Internal Server Error", err)
}

// IsAppError reports whether err is (or wraps) an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts any error to an AppError. Unknown errors become a 500.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}
