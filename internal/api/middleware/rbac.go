package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bennati/checklist-bff/internal/core/domain"
)

// RBAC enforces role-based access control. It reads the role that Session
// copied from the restored user, so a stale token claim cannot widen access.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(KeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden", "code": "forbidden"})
			}
			return next(c)
		}
	}
}
