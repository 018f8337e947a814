package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", Invalid("title", "Title is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped validation", fmt.Errorf("create: %w", Invalid("image", "Image is required")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate user", ErrUserAlreadyExists, http.StatusBadRequest, "USER_ALREADY_EXISTS"},
		{"bad credentials", ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS"},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"menu not found", fmt.Errorf("get: %w", ErrMenuItemNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"booking not found", ErrBookingNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"contact not found", ErrContactNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unexpected", fmt.Errorf("dial tcp: connection refused"), http.StatusInternalServerError, "SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("password for root@db rejected"))
	assert.Equal(t, "Server error", httpErr.Message)
	assert.Empty(t, httpErr.Fields)
}

func TestValidationErrorResponse(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "title", Msg: "Title is required"},
		{Field: "price", Msg: "Price cannot be negative"},
	}}
	resp := MapErrorToHTTP(err).ToErrorResponse()
	assert.Equal(t, "Title is required", resp.Msg)
	assert.Len(t, resp.Errors, 2)
	assert.Contains(t, err.Error(), "price: Price cannot be negative")
}
