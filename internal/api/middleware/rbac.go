package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC enforces a coarse role gate on a route. Callers holding any of the
// allowed roles pass; the service layer still re-evaluates the full guard,
// so this middleware is a fast reject, not the source of truth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			roles, _ := c.Get("roles").([]string)
			for _, r := range roles {
				if _, ok := allowed[r]; ok {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
