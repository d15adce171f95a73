package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/model"
)

type RoleResolver interface {
	Resolve(ctx context.Context, userID string) model.Role
}

// ResolveRole looks up the marketplace role of the authenticated user on
// every request and stores it under "role". It must run after JWTAuth.
func ResolveRole(r RoleResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if uid := UserID(c); uid != "" {
				c.Set(roleKey, r.Resolve(c.Request().Context(), uid))
			}
			return next(c)
		}
	}
}

// RequireRole rejects with 403 a request whose resolved role is not one of
// roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(roleKey).(model.Role)
			if !ok || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
