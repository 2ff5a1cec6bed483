package errors

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong password alike.
	ErrInvalidCredentials = errors.New("Invalid credentials")
	// ErrDuplicatePrincipal is returned when the email is already registered for the same kind.
	ErrDuplicatePrincipal = errors.New("principal already exists")
	// ErrCourseNotFound is returned when a referenced course does not exist.
	ErrCourseNotFound = errors.New("Course not found")
	// ErrMissingToken is returned when the Authorization header is absent or not a bearer header.
	ErrMissingToken = errors.New("Unauthorized, JWT token is required")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = errors.New("Unauthorized, JWT token is invalid")
	// ErrInvalidImage is returned when an uploaded course image is missing or of an unsupported type.
	ErrInvalidImage = errors.New("Invalid file format. Only PNG and JPG are allowed")
)

// ValidationError lists every violated input rule.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// DuplicateError names the principal kind that already holds the email.
type DuplicateError struct {
	Label string
}

func (e *DuplicateError) Error() string {
	return e.Label + " already exists"
}

// Unwrap lets errors.Is match ErrDuplicatePrincipal.
func (e *DuplicateError) Unwrap() error {
	return ErrDuplicatePrincipal
}

// ErrorResponse represents a standardized error response.
// Errors holds either a single message or a list of messages.
type ErrorResponse struct {
	Errors interface{} `json:"errors"`
	Code   string      `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    interface{}
	Code       string
}

func (e *HTTPError) Error() string {
	switch m := e.Message.(type) {
	case string:
		return m
	case []string:
		return strings.Join(m, "; ")
	default:
		return http.StatusText(e.StatusCode)
	}
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message interface{}, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Errors: e.Message,
		Code:   e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return NewHTTPError(http.StatusBadRequest, validationErr.Messages, "VALIDATION_ERROR")
	}

	var duplicateErr *DuplicateError
	if errors.As(err, &duplicateErr) {
		return NewHTTPError(http.StatusBadRequest, duplicateErr.Error(), "DUPLICATE_PRINCIPAL")
	}

	switch {
	case errors.Is(err, ErrDuplicatePrincipal):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_PRINCIPAL")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusForbidden, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrMissingToken):
		return NewHTTPError(http.StatusForbidden, ErrMissingToken.Error(), "MISSING_TOKEN")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrCourseNotFound):
		return NewHTTPError(http.StatusNotFound, ErrCourseNotFound.Error(), "COURSE_NOT_FOUND")
	case errors.Is(err, ErrInvalidImage):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidImage.Error(), "INVALID_IMAGE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
