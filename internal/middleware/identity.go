// Package middleware holds the Echo middleware shared by the API routes.
package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/model"
)

const (
	userIDKey = "user_id"
	roleKey   = "role"
)

// UserID returns the authenticated user's id, or "" on public routes.
func UserID(c echo.Context) string {
	s, _ := c.Get(userIDKey).(string)
	return s
}

// Role returns the role set by ResolveRole. Requests that never passed
// through it are treated as broadcasters.
func Role(c echo.Context) model.Role {
	if r, ok := c.Get(roleKey).(model.Role); ok {
		return r
	}
	return model.RoleBroadcaster
}
