package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/utils"
)

// JWTAuth requires a valid Bearer access token and stores its subject under
// "user_id".
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			uid, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(userIDKey, uid)
			return next(c)
		}
	}
}
