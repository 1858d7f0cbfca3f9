package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
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
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrAuthMissing),
		errors.Is(err, domain.ErrAuthMalformed),
		errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrBiometricMismatch):
		return http.StatusUnauthorized, "face verification failed"

	case errors.Is(err, domain.ErrVoterInactive):
		return http.StatusForbidden, "voter account is not active"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"

	case errors.Is(err, domain.ErrElectionNotFound):
		return http.StatusNotFound, "election not found"
	case errors.Is(err, domain.ErrVoterNotFound):
		return http.StatusNotFound, "voter not found"
	case errors.Is(err, domain.ErrCandidateNotFound):
		return http.StatusNotFound, "candidate not found"

	case errors.Is(err, domain.ErrElectionInactive),
		errors.Is(err, domain.ErrElectionNotStarted),
		errors.Is(err, domain.ErrElectionEnded),
		errors.Is(err, domain.ErrCandidateMismatch),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrInvalidAadhaar),
		errors.Is(err, domain.ErrNoFaceDetected):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrImageDecode):
		return http.StatusBadRequest, "could not decode face image"

	case errors.Is(err, domain.ErrVoterExists):
		return http.StatusConflict, "voter already registered"

	case errors.Is(err, domain.ErrBiometricTimeout):
		return http.StatusServiceUnavailable, "face verification timed out"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
