package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/repository"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

type MeService interface {
	Me(ctx context.Context, userID string) service.Me
}

type NotificationStore interface {
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}

// AccountHandler serves the caller's identity and notifications.
type AccountHandler struct {
	log           *slog.Logger
	me            MeService
	notifications NotificationStore
}

func NewAccountHandler(log *slog.Logger, me MeService, notifications NotificationStore) *AccountHandler {
	return &AccountHandler{log: log, me: me, notifications: notifications}
}

func (h *AccountHandler) Me(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	return c.JSON(http.StatusOK, h.me.Me(ctx, middleware.UserID(c)))
}

// Notifications lists the caller's notifications, newest first. ?unread=true
// keeps only unread ones.
func (h *AccountHandler) Notifications(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.notifications.ListByUser(ctx, middleware.UserID(c), c.QueryParam("unread") == "true")
	if err != nil {
		return fail(c, h.log, err)
	}
	if list == nil {
		list = []model.Notification{}
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": list})
}

func (h *AccountHandler) MarkRead(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.notifications.MarkRead(ctx, c.Param("id"), middleware.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
