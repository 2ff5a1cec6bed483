package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "coursehub/internal/errors"
)

// HTTPErrorHandler renders every error as an ErrorResponse. Domain errors go
// through MapErrorToHTTP; echo's own errors keep their status. Unexpected
// faults are logged here and reach the client only as a generic 500.
func HTTPErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			httpErr = fromEchoError(echoErr)
		} else {
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"route", c.Path(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"error", err,
			)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(httpErr.StatusCode)
		} else {
			writeErr = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if writeErr != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", writeErr)
		}
	}
}

func fromEchoError(he *echo.HTTPError) *apperrors.HTTPError {
	message, ok := he.Message.(string)
	if !ok || message == "" {
		message = http.StatusText(he.Code)
	}
	if he.Code >= http.StatusInternalServerError {
		message = "internal server error"
	}
	code := strings.ToUpper(strings.ReplaceAll(http.StatusText(he.Code), " ", "_"))
	return apperrors.NewHTTPError(he.Code, message, code)
}

// errInvalidBody is returned when a request body cannot be decoded.
var errInvalidBody = apperrors.NewHTTPError(http.StatusBadRequest, "invalid request body", "INVALID_BODY")
