package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrUnauthenticated is returned when a request carries no valid identity.
	ErrUnauthenticated = errors.New("token is not valid")
	// ErrForbidden is returned when the identity lacks the admin role.
	ErrForbidden = errors.New("access denied. Admin privileges required")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when trying to register an existing email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrMenuItemNotFound is returned when a menu item is not found.
	ErrMenuItemNotFound = errors.New("menu item not found")
	// ErrBookingNotFound is returned when a booking is not found.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrContactNotFound is returned when a contact submission is not found.
	ErrContactNotFound = errors.New("contact not found")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

// ValidationError carries field-level detail for rejected input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Invalid builds a ValidationError for one field.
func Invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Msg: msg}}}
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrMenuItemNotFound) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrContactNotFound)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Msg    string       `json:"msg"`
	Code   string       `json:"code"`
	Errors []FieldError `json:"errors,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Msg:    e.Message,
		Code:   e.Code,
		Errors: e.Fields,
	}
}

// CodeForStatus returns the error code used for a bare HTTP status.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_ERROR"
	case http.StatusUnauthorized:
		return "UNAUTHENTICATED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		if status >= 500 {
			return "SERVER_ERROR"
		}
		return "REQUEST_ERROR"
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognised
// becomes a generic server error so no internal detail reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		msg := "Invalid input"
		if len(verr.Fields) > 0 {
			msg = verr.Fields[0].Msg
		}
		return &HTTPError{StatusCode: http.StatusBadRequest, Message: msg, Code: "VALIDATION_ERROR", Fields: verr.Fields}
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, "User already exists", "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, "Invalid Credentials", "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, "Token is not valid", "UNAUTHENTICATED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, "Access denied. Admin privileges required.", "FORBIDDEN")
	case errors.Is(err, ErrMenuItemNotFound):
		return NewHTTPError(http.StatusNotFound, "Menu item not found", "NOT_FOUND")
	case errors.Is(err, ErrBookingNotFound):
		return NewHTTPError(http.StatusNotFound, "Booking not found", "NOT_FOUND")
	case errors.Is(err, ErrContactNotFound):
		return NewHTTPError(http.StatusNotFound, "Contact not found", "NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, "User not found", "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "Server error", "SERVER_ERROR")
	}
}
