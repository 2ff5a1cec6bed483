package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    interface{}
	}{
		{
			name:       "validation lists every message",
			err:        NewValidationError("a", "b"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantMsg:    []string{"a", "b"},
		},
		{
			name:       "duplicate admin",
			err:        fmt.Errorf("signup: %w", &DuplicateError{Label: "Admin"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "DUPLICATE_PRINCIPAL",
			wantMsg:    "Admin already exists",
		},
		{
			name:       "invalid credentials",
			err:        ErrInvalidCredentials,
			wantStatus: http.StatusForbidden,
			wantCode:   "INVALID_CREDENTIALS",
			wantMsg:    "Invalid credentials",
		},
		{
			name:       "missing token",
			err:        ErrMissingToken,
			wantStatus: http.StatusForbidden,
			wantCode:   "MISSING_TOKEN",
			wantMsg:    ErrMissingToken.Error(),
		},
		{
			name:       "invalid token wrapped",
			err:        fmt.Errorf("verify: %w", ErrInvalidToken),
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_TOKEN",
			wantMsg:    ErrInvalidToken.Error(),
		},
		{
			name:       "course not found",
			err:        fmt.Errorf("buy: %w", ErrCourseNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "COURSE_NOT_FOUND",
			wantMsg:    "Course not found",
		},
		{
			name:       "unknown error does not leak",
			err:        errors.New("dial tcp 10.0.0.1:3306: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
			assert.Equal(t, tt.wantMsg, httpErr.ToErrorResponse().Errors)
		})
	}
}

func TestDuplicateError_IsDuplicatePrincipal(t *testing.T) {
	err := &DuplicateError{Label: "User"}
	assert.True(t, errors.Is(err, ErrDuplicatePrincipal))
	assert.Equal(t, "User already exists", err.Error())
}

func TestHTTPError_PassesThrough(t *testing.T) {
	in := NewHTTPError(http.StatusTeapot, "short and stout", "TEAPOT")
	assert.Same(t, in, MapErrorToHTTP(fmt.Errorf("wrapped: %w", in)))
	assert.Equal(t, "short and stout", in.Error())
}
