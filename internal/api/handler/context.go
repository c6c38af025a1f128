package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/core/domain"
)

// Context keys set by the Auth middleware.
const (
	CtxAdminID = "admin_id"
	CtxEmail   = "email"
	CtxRole    = "role"
)

// ctxAdmin extracts the claims injected by the Auth middleware. The role
// must be present; its presence proves the middleware ran.
func ctxAdmin(c echo.Context) (adminResponse, error) {
	role, _ := c.Get(CtxRole).(string)
	if role == "" {
		return adminResponse{}, domain.NewError(domain.KindUnauthorized, "Missing authentication claims", nil)
	}
	id, _ := c.Get(CtxAdminID).(string)
	email, _ := c.Get(CtxEmail).(string)
	return adminResponse{ID: id, Email: email, Role: role}, nil
}
