package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetAppError(t *testing.T) {
	notFound := NewNotFoundError("Invoice")
	wrapped := fmt.Errorf("pay: %w", notFound)

	got := GetAppError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.Code)
	assert.Equal(t, "Invoice not found", got.Message)

	unknown := GetAppError(errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, unknown.Code)
	assert.Equal(t, "Internal Server Error", unknown.Message)
	assert.EqualError(t, unknown, "Internal Server Error: disk on fire")
}

func TestAppErrorIs(t *testing.T) {
	assert.ErrorIs(t, NewAppError(http.StatusNotFound, "Not Found", nil), ErrRouteNotFound)
	assert.NotErrorIs(t, NewNotFoundError("Invoice"), ErrRouteNotFound)
	assert.True(t, IsAppError(fmt.Errorf("x: %w", ErrTooManyRequest)))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError([]FieldError{{Field: "amount", Message: "must be >= 0"}})
	assert.Equal(t, http.StatusUnprocessableEntity, err.Code)
	assert.Equal(t, "Validation failed", err.Message)
	assert.Len(t, err.Errors, 1)
}
