package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

type AdminService interface {
	Stats(ctx context.Context) (model.AdminStats, error)
	Users(ctx context.Context, q string) ([]model.Profile, error)
	Screens(ctx context.Context, q string) ([]service.AdminScreen, error)
	Bookings(ctx context.Context, q string) ([]service.AdminBooking, error)
	SetUserRole(ctx context.Context, userID, role string) error
	SetBookingStatus(ctx context.Context, bookingID, status string) error
	ToggleScreen(ctx context.Context, screenID string) (bool, error)
}

type AdminHandler struct {
	log   *slog.Logger
	admin AdminService
}

func NewAdminHandler(log *slog.Logger, admin AdminService) *AdminHandler {
	return &AdminHandler{log: log, admin: admin}
}

type roleReq struct {
	Role string `json:"role" validate:"required"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.admin.Stats(ctx)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *AdminHandler) Users(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.admin.Users(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"users": list})
}

func (h *AdminHandler) Screens(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.admin.Screens(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"screens": list})
}

func (h *AdminHandler) Bookings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.admin.Bookings(ctx, c.QueryParam("q"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

func (h *AdminHandler) SetUserRole(c echo.Context) error {
	var req roleReq
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.admin.SetUserRole(ctx, c.Param("id"), req.Role); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user_id": c.Param("id"), "role": req.Role})
}

func (h *AdminHandler) SetBookingStatus(c echo.Context) error {
	var req statusReq
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.admin.SetBookingStatus(ctx, c.Param("id"), req.Status); err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": c.Param("id"), "status": req.Status})
}

func (h *AdminHandler) ToggleScreen(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	active, err := h.admin.ToggleScreen(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"screen_id": c.Param("id"), "is_active": active})
}
