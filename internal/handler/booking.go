package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/middleware"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

type Uploader interface {
	Upload(ctx context.Context, in service.UploadInput) (model.ContentUpload, error)
}

type BookingService interface {
	Preview(ctx context.Context, userID, screenID, contentID string) (service.SchedulePreview, error)
	CreatePending(ctx context.Context, userID, screenID, contentID string, req booking.ScheduleRequest) (model.Booking, error)
	PaymentSummary(ctx context.Context, actorID string, actorRole model.Role, bookingID string) (service.PaymentView, error)
	Pay(ctx context.Context, userID, bookingID string) (service.PayResult, error)
	Detail(ctx context.Context, actorID string, actorRole model.Role, bookingID string) (model.BookingDetail, error)
	Dashboard(ctx context.Context, userID string) (service.BroadcasterDashboard, error)
}

// BookingHandler serves the upload, schedule, payment and confirmation
// steps. Each step answers with the path of the next one.
type BookingHandler struct {
	log      *slog.Logger
	uploads  Uploader
	bookings BookingService
	// payTimeout bounds a payment attempt; simulated charges sleep inside it.
	payTimeout time.Duration
}

func NewBookingHandler(log *slog.Logger, uploads Uploader, bookings BookingService, payTimeout time.Duration) *BookingHandler {
	if payTimeout < requestTimeout {
		payTimeout = requestTimeout
	}
	return &BookingHandler{log: log, uploads: uploads, bookings: bookings, payTimeout: payTimeout}
}

type scheduleReq struct {
	Date      string `json:"date" validate:"required,isodate"`
	StartTime string `json:"start_time" validate:"required,clock"`
	Duration  int    `json:"duration" validate:"required,gt=0"`
}

func schedulePath(screenID, contentID string) string {
	return "/book/" + url.PathEscape(screenID) + "/schedule?contentId=" + url.QueryEscape(contentID)
}

func paymentPath(screenID, bookingID string) string {
	return "/book/" + url.PathEscape(screenID) + "/payment?bookingId=" + url.QueryEscape(bookingID)
}

func confirmationPath(bookingID string) string {
	return "/confirmation/" + url.PathEscape(bookingID)
}

// Upload stores the multipart "file" for a screen.
func (h *BookingHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable file")
	}
	defer f.Close()

	ctx, cancel := reqCtx(c)
	defer cancel()

	screenID := c.Param("screenId")
	content, err := h.uploads.Upload(ctx, service.UploadInput{
		UserID:      middleware.UserID(c),
		ScreenID:    screenID,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"content": content, "next": schedulePath(screenID, content.ID)})
}

func (h *BookingHandler) SchedulePreview(c echo.Context) error {
	contentID := c.QueryParam("contentId")
	if contentID == "" {
		return badRequest(c, "contentId required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.bookings.Preview(ctx, middleware.UserID(c), c.Param("screenId"), contentID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Schedule creates the pending booking.
func (h *BookingHandler) Schedule(c echo.Context) error {
	contentID := c.QueryParam("contentId")
	if contentID == "" {
		return badRequest(c, "contentId required")
	}
	var req scheduleReq
	if err := bindValid(c, &req); err != nil {
		return badRequest(c, validationMessage(err))
	}
	date, err := time.Parse(booking.DateLayout, req.Date)
	if err != nil {
		return badRequest(c, "invalid date")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	screenID := c.Param("screenId")
	b, err := h.bookings.CreatePending(ctx, middleware.UserID(c), screenID, contentID, booking.ScheduleRequest{
		Date:      date,
		StartTime: req.StartTime,
		Duration:  req.Duration,
	})
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b, "next": paymentPath(screenID, b.ID)})
}

func (h *BookingHandler) PaymentSummary(c echo.Context) error {
	bookingID := c.QueryParam("bookingId")
	if bookingID == "" {
		return badRequest(c, "bookingId required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.bookings.PaymentSummary(ctx, middleware.UserID(c), middleware.Role(c), bookingID)
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, v)
}

// Pay charges the booking. A hosted checkout answers with the checkout page
// as the next step; the booking is confirmed later by the Stripe webhook.
func (h *BookingHandler) Pay(c echo.Context) error {
	bookingID := c.QueryParam("bookingId")
	if bookingID == "" {
		return badRequest(c, "bookingId required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.payTimeout)
	defer cancel()

	res, err := h.bookings.Pay(ctx, middleware.UserID(c), bookingID)
	if err != nil {
		return fail(c, h.log, err)
	}
	if res.CheckoutURL != "" {
		return c.JSON(http.StatusOK, echo.Map{"payment": res, "next": res.CheckoutURL})
	}
	return c.JSON(http.StatusOK, echo.Map{"payment": res, "next": confirmationPath(res.BookingID)})
}

func (h *BookingHandler) Confirmation(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.bookings.Detail(ctx, middleware.UserID(c), middleware.Role(c), c.Param("bookingId"))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, d)
}

// Dashboard lists the caller's bookings with summary stats.
func (h *BookingHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.bookings.Dashboard(ctx, middleware.UserID(c))
	if err != nil {
		return fail(c, h.log, err)
	}
	return c.JSON(http.StatusOK, d)
}
