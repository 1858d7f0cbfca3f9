package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/smartballot/voting-api/internal/core/domain"
)

// ctxClaims extracts the session claims injected by the Auth middleware.
// A missing role or subject means the middleware did not run on this route;
// treat it as an unauthenticated request rather than panic downstream.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get("role").(string)
	userID, _ = c.Get("user_id").(string)
	if role == "" || userID == "" {
		return "", "", domain.ErrAuthMissing
	}
	return userID, role, nil
}
