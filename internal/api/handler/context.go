package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/messagely/messagely-api/internal/api/middleware"
	"github.com/messagely/messagely-api/internal/core/domain"
)

// ctxUsername returns the caller injected by the auth middleware. Its absence
// means the route was mounted without the middleware; reject with 401.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.ContextUsername).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}

func ctxClaims(c echo.Context) (domain.Claims, error) {
	claims, ok := c.Get(middleware.ContextClaims).(domain.Claims)
	if !ok || claims.Username == "" {
		return domain.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
