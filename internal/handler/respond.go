package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/lib/logger/sl"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// problem maps a service error to its HTTP status and a client message.
// Unknown errors are 500 with a generic message.
func problem(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrScreenNotFound),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotPending):
		return http.StatusConflict, service.ErrNotPending.Error()
	case errors.Is(err, service.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, service.ErrFileTooLarge.Error()
	case errors.Is(err, service.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, service.ErrUnsupportedMedia.Error()
	case errors.Is(err, service.ErrPaymentFailed):
		return http.StatusPaymentRequired, service.ErrPaymentFailed.Error()
	case errors.Is(err, service.ErrInvalidSchedule),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest, withoutOp(err.Error())
	}
	return http.StatusInternalServerError, "internal error"
}

// withoutOp drops the leading "pkg.Type.Method: " of a wrapped error.
func withoutOp(msg string) string {
	head, rest, ok := strings.Cut(msg, ": ")
	if ok && strings.HasPrefix(head, "service.") {
		return rest
	}
	return msg
}

// fail writes err as {"error": ...}. Server errors are logged.
func fail(c echo.Context, log *slog.Logger, err error) error {
	status, msg := problem(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", slog.String("path", c.Path()), sl.Err(err))
	}
	return c.JSON(status, echo.Map{"error": msg})
}
