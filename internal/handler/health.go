package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health reports that the process is serving.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports whether the database answers within two seconds.
func Ready(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "database unavailable"})
		}
		return c.String(http.StatusOK, "ok")
	}
}
