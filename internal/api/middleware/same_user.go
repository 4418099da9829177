package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireSameUser only lets the caller through when they are the user named
// by the path parameter param. Mount after RequireAuth.
func RequireSameUser(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, _ := c.Get(ContextUsername).(string)
			if username == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}
			if username != c.Param(param) {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
