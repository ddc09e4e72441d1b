package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/api/middleware"
)

// ctxEmail extracts the identity bound by the authorization gate. An empty
// value means the gate never ran for this route, which is a wiring bug;
// fail closed with 401 rather than proceed without an identity.
func ctxEmail(c echo.Context) (string, error) {
	email, _ := c.Get(middleware.ContextKeyEmail).(string)
	if email == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, nil
}
