package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/api/metrics"
	"github.com/userhub/account-service/internal/core/token"
)

// HeaderAuthToken is the request header carrying the bearer credential.
const HeaderAuthToken = "x-auth-token"

// Auth validates the auth token and injects the caller identity into context.
// A missing header and an unverifiable token are both 401; no permission
// concept exists at this layer, so 403 is never produced here.
func Auth(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderAuthToken)
			if raw == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "access denied, no token provided")
			}

			claims, err := issuer.Verify(raw)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("user_id", claims.UserID)
			c.Set("is_admin", claims.IsAdmin)

			return next(c)
		}
	}
}
