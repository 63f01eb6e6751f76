package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// callerID extracts the caller identity injected by the Auth middleware and
// performs a fast-fail check before any service call: an empty user_id means
// the middleware did not run or the token carried no identity.
func callerID(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}
