package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RBAC narrows access further than the tier guard for routes that only some
// portal roles may use (e.g. master-data APIs are ADMIN-only even though
// AGENT passes the admin tier). Expects the guard to have run first.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
