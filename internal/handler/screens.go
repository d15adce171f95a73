package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

type ScreenService interface {
	Discover(ctx context.Context, f model.ScreenFilter) ([]model.Screen, error)
	Get(ctx context.Context, id string) (model.Screen, error)
	Slots(ctx context.Context, id string) ([]string, error)
	Create(ctx context.Context, ownerID string, in service.ScreenInput) (model.Screen, error)
	Update(ctx context.Context, actorID string, actorRole model.Role, id string, p service.ScreenPatch) (model.Screen, error)
	Owned(ctx context.Context, ownerID string) ([]model.Screen, error)
}

type ScreenHandler struct {
	log     *slog.Logger
	screens ScreenService
}

func NewScreenHandler(log *slog.Logger, screens ScreenService) *ScreenHandler {
	return &ScreenHandler{log: log, screens: screens}
}

type screenReq struct {
	Name              string   `json:"screen_name" validate:"required,max=200"`
	Address           string   `json:"address" validate:"max=500"`
	City              string   `json:"city" validate:"max=120"`
	Lat               *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng               *float64 `json:"lng" validate:"omitempty,longitude"`
	PricePerHour      int64    `json:"price_per_hour" validate:"required,gt=0"`
	AvailabilityStart string   `json:"availability_start" validate:"required,clock"`
	AvailabilityEnd   string   `json:"availability_end" validate:"required,clock"`
}

type screenPatchReq struct {
	Name              *string  `json:"screen_name" validate:"omitempty,min=1,max=200"`
	Address           *string  `json:"address" validate:"omitempty,max=500"`
	City              *string  `json:"city" validate:"omitempty,max=120"`
	Lat               *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng               *float64 `json:"lng" validate:"omitempty,longitude"`
	PricePerHour      *int64   `json:"price_per_hour" validate:"omitempty,gt=0"`
	AvailabilityStart *string  `json:"availability_start" validate:"omitempty,clock"`
	AvailabilityEnd   *string  `json:"availability_end" validate:"omitempty,clock"`
}

// List serves discovery: city, q, max_price (cents) and limit.
func (h *ScreenHandler) List(c echo.Context) error {
	f := model.ScreenFilter{
		City:  strings.TrimSpace(c.QueryParam("city")),
		Query: strings.TrimSpace(c.QueryParam("q")),
	}
	if v := c.QueryParam("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return badRequest(c, "invalid max_price")
		}
		f.MaxPrice = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return badRequest(c, "invalid limit")
		}
		f.Limit = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.screens.Discover(ctx, f)
	if err != nil {
		return fail(c, h.log, err)
	}
	if list == nil {
		list = []model.Screen{}
	}
	return c.JSON(http.StatusOK, echo.Map{"screens": list})
}

func (h *ScreenHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.screens.Get(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ScreenHandler) Slots(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	slots, err := h.screens.Slots(ctx, c.Param("id"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"screen_id": c.Param("id"), "time_slots": slots})
}

// Create lists a new screen owned by the caller.
func (h *ScreenHandler) Create(c echo.Context) error {
	var req screenReq
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.screens.Create(ctx, middleware.UserID(c), service.ScreenInput{
		Name:              req.Name,
		Address:           req.Address,
		City:              req.City,
		Lat:               req.Lat,
		Lng:               req.Lng,
		PricePerHour:      req.PricePerHour,
		AvailabilityStart: req.AvailabilityStart,
		AvailabilityEnd:   req.AvailabilityEnd,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *ScreenHandler) Update(c echo.Context) error {
	var req screenPatchReq
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.screens.Update(ctx, middleware.UserID(c), middleware.Role(c), c.Param("id"), service.ScreenPatch{
		Name:              req.Name,
		Address:           req.Address,
		City:              req.City,
		Lat:               req.Lat,
		Lng:               req.Lng,
		PricePerHour:      req.PricePerHour,
		AvailabilityStart: req.AvailabilityStart,
		AvailabilityEnd:   req.AvailabilityEnd,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Owned lists the caller's screens, inactive ones included.
func (h *ScreenHandler) Owned(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.screens.Owned(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	if list == nil {
		list = []model.Screen{}
	}
	return c.JSON(http.StatusOK, echo.Map{"screens": list})
}
