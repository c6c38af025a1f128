package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/api/handler"
)

// RBAC enforces role-based access control.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, handler.Response{
					Success: false,
					Message: "Forbidden",
					Kind:    "forbidden",
				})
			}
			return next(c)
		}
	}
}
