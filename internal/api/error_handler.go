package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// knownErrors maps domain errors to HTTP codes. Order matters: the first
// match wins, and the response carries the sentinel's own message so wrapped
// upstream details never reach the client.
var knownErrors = []struct {
	err  error
	code int
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrLoginFailed, http.StatusUnauthorized},
	{domain.ErrSessionExpired, http.StatusUnauthorized},
	{domain.ErrNotLoggedIn, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrFieldsRequired, http.StatusBadRequest},
	{domain.ErrPasswordMismatch, http.StatusBadRequest},
	{domain.ErrInvalidReportPeriod, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusUnprocessableEntity},
	{domain.ErrInvalidPayment, http.StatusUnprocessableEntity},
	{domain.ErrInvalidVerdict, http.StatusUnprocessableEntity},
	{domain.ErrMenuItemUnavailable, http.StatusUnprocessableEntity},
	{domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable},
	{domain.ErrUpstreamStatus, http.StatusBadGateway},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, known := range knownErrors {
		if errors.Is(err, known.err) {
			if known.code >= http.StatusInternalServerError {
				log.Warn().
					Err(err).
					Str("method", c.Request().Method).
					Str("path", c.Path()).
					Msg("upstream failure")
			}
			return known.code, known.err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
