package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// Auth validates the bearer token through the identity gate and injects the
// session claims into the request context.
func Auth(identity ports.IdentityGate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return domain.ErrAuthMissing
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return domain.ErrAuthMalformed
			}

			claim, err := identity.Authenticate(parts[1])
			if err != nil {
				return err
			}

			c.Set("user_id", claim.SubjectID)
			c.Set("email", claim.Email)
			c.Set("role", claim.Role)

			return next(c)
		}
	}
}
