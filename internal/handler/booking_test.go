package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/service"
)

type fakeUploader struct {
	got  service.UploadInput
	body []byte
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, in service.UploadInput) (model.ContentUpload, error) {
	f.got = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return model.ContentUpload{}, f.err
	}
	return model.ContentUpload{ID: "cnt-9", UserID: in.UserID, FileName: in.FileName, FileType: "video"}, nil
}

type fakeBookings struct {
	created     booking.ScheduleRequest
	createBy    string
	checkoutURL string
	err         error
}

func (f *fakeBookings) Preview(_ context.Context, _, screenID, contentID string) (service.SchedulePreview, error) {
	if f.err != nil {
		return service.SchedulePreview{}, f.err
	}
	return service.SchedulePreview{
		Screen:    model.Screen{ID: screenID},
		Content:   model.ContentUpload{ID: contentID},
		Slots:     []string{"09:00", "10:00"},
		Durations: booking.Durations,
	}, nil
}

func (f *fakeBookings) CreatePending(_ context.Context, userID, screenID, contentID string, req booking.ScheduleRequest) (model.Booking, error) {
	f.created, f.createBy = req, userID
	if f.err != nil {
		return model.Booking{}, f.err
	}
	return model.Booking{ID: "bk-1", UserID: userID, ScreenID: screenID, ContentID: contentID, Status: booking.StatusPending}, nil
}

func (f *fakeBookings) PaymentSummary(_ context.Context, actorID string, _ model.Role, bookingID string) (service.PaymentView, error) {
	if f.err != nil {
		return service.PaymentView{}, f.err
	}
	return service.PaymentView{
		Booking:     model.BookingDetail{Booking: model.Booking{ID: bookingID, UserID: actorID, TotalAmount: 2100}},
		Hours:       2,
		BaseAmount:  1995,
		PlatformFee: 105,
		TotalAmount: 2100,
	}, nil
}

func (f *fakeBookings) Pay(_ context.Context, _, bookingID string) (service.PayResult, error) {
	if f.err != nil {
		return service.PayResult{}, f.err
	}
	if f.checkoutURL != "" {
		return service.PayResult{BookingID: bookingID, SessionID: "cs_test_1", Status: booking.StatusPending, CheckoutURL: f.checkoutURL}, nil
	}
	return service.PayResult{BookingID: bookingID, SessionID: "sim_1", Status: booking.StatusConfirmed}, nil
}

func (f *fakeBookings) Detail(_ context.Context, actorID string, role model.Role, bookingID string) (model.BookingDetail, error) {
	if f.err != nil {
		return model.BookingDetail{}, f.err
	}
	if actorID != "u1" && role != model.RoleAdmin {
		return model.BookingDetail{}, service.ErrForbidden
	}
	return model.BookingDetail{Booking: model.Booking{ID: bookingID, Status: booking.StatusConfirmed}, Screen: model.ScreenSummary{Name: "Arbat"}}, nil
}

func (f *fakeBookings) Dashboard(_ context.Context, _ string) (service.BroadcasterDashboard, error) {
	return service.BroadcasterDashboard{
		Bookings: []model.BookingDetail{},
		Stats:    model.BroadcasterStats{TotalBookings: 3, TotalSpent: 6300},
	}, nil
}

func newBookingEcho(up *fakeUploader, b *fakeBookings) *echo.Echo {
	e, g := newTestEcho(fixedRoles{"admin": model.RoleAdmin})
	h := NewBookingHandler(discard(), up, b, time.Second)
	g.POST("/book/:screenId/upload", h.Upload)
	g.GET("/book/:screenId/schedule", h.SchedulePreview)
	g.POST("/book/:screenId/schedule", h.Schedule)
	g.GET("/book/:screenId/payment", h.PaymentSummary)
	g.POST("/book/:screenId/payment", h.Pay)
	g.GET("/confirmation/:bookingId", h.Confirmation)
	g.GET("/dashboard/bookings", h.Dashboard)
	return e
}

func TestUpload_Multipart(t *testing.T) {
	up := &fakeUploader{}
	e := newBookingEcho(up, &fakeBookings{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="promo.mp4"`)
	hdr.Set("Content-Type", "video/mp4")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("0123456789"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/book/scr-1/upload", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, "u1"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "/book/scr-1/schedule?contentId=cnt-9", gjson.Get(rec.Body.String(), "next").String())
	assert.Equal(t, "u1", up.got.UserID)
	assert.Equal(t, "scr-1", up.got.ScreenID)
	assert.Equal(t, "video/mp4", up.got.ContentType)
	assert.Equal(t, int64(10), up.got.Size)
	assert.Equal(t, "0123456789", string(up.body))
}

func TestUpload_MissingFile(t *testing.T) {
	e := newBookingEcho(&fakeUploader{}, &fakeBookings{})
	rec := call(t, e, http.MethodPost, "/v1/book/scr-1/upload", "u1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file required", gjson.Get(rec.Body.String(), "error").String())
}

func TestSchedule_CreatesPendingAndPointsToPayment(t *testing.T) {
	b := &fakeBookings{}
	e := newBookingEcho(&fakeUploader{}, b)

	rec := call(t, e, http.MethodPost, "/v1/book/scr-1/schedule?contentId=cnt-9", "u1", `{"date":"2026-03-11","start_time":"10:00","duration":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Equal(t, "/book/scr-1/payment?bookingId=bk-1", gjson.Get(body, "next").String())
	assert.Equal(t, "pending", gjson.Get(body, "booking.status").String())
	assert.Equal(t, "u1", b.createBy)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), b.created.Date)
	assert.Equal(t, 2, b.created.Duration)
}

func TestSchedule_Rejections(t *testing.T) {
	b := &fakeBookings{}
	e := newBookingEcho(&fakeUploader{}, b)

	rec := call(t, e, http.MethodPost, "/v1/book/scr-1/schedule", "u1", `{"date":"2026-03-11","start_time":"10:00","duration":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "contentId required", gjson.Get(rec.Body.String(), "error").String())

	rec = call(t, e, http.MethodPost, "/v1/book/scr-1/schedule?contentId=c", "u1", `{"date":"11-03-2026","start_time":"10:00","duration":2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "date isodate", gjson.Get(rec.Body.String(), "error").String())

	rec = call(t, e, http.MethodPost, "/v1/book/scr-1/schedule?contentId=c", "", `{"date":"2026-03-11","start_time":"10:00","duration":2}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	b.err = fmt.Errorf("service.Bookings.CreatePending: %w: %w", service.ErrInvalidSchedule, booking.ErrStartTimeNotOpen)
	rec = call(t, e, http.MethodPost, "/v1/book/scr-1/schedule?contentId=c", "u1", `{"date":"2026-03-11","start_time":"22:00","duration":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, gjson.Get(rec.Body.String(), "error").String(), "outside the screen's availability")
}

func TestSchedulePreview(t *testing.T) {
	b := &fakeBookings{}
	e := newBookingEcho(&fakeUploader{}, b)

	rec := call(t, e, http.MethodGet, "/v1/book/scr-1/schedule?contentId=cnt-9", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(2), gjson.Get(rec.Body.String(), "time_slots.#").Int())

	b.err = service.ErrContentNotFound
	rec = call(t, e, http.MethodGet, "/v1/book/scr-1/schedule?contentId=nope", "u1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", gjson.Get(rec.Body.String(), "error").String())
}

func TestPayment_SummaryAndPay(t *testing.T) {
	b := &fakeBookings{}
	e := newBookingEcho(&fakeUploader{}, b)

	rec := call(t, e, http.MethodGet, "/v1/book/scr-1/payment?bookingId=bk-1", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1995), gjson.Get(rec.Body.String(), "base_amount").Int())
	assert.Equal(t, int64(105), gjson.Get(rec.Body.String(), "platform_fee").Int())

	rec = call(t, e, http.MethodPost, "/v1/book/scr-1/payment?bookingId=bk-1", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/confirmation/bk-1", gjson.Get(rec.Body.String(), "next").String())
	assert.Equal(t, "sim_1", gjson.Get(rec.Body.String(), "payment.session_id").String())

	b.err = fmt.Errorf("service.Bookings.Pay: %w", service.ErrNotPending)
	rec = call(t, e, http.MethodPost, "/v1/book/scr-1/payment?bookingId=bk-1", "u1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = call(t, e, http.MethodPost, "/v1/book/scr-1/payment", "u1", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPay_HostedCheckoutPointsToCheckout(t *testing.T) {
	b := &fakeBookings{checkoutURL: "https://checkout.stripe.com/c/pay/cs_test_1"}
	e := newBookingEcho(&fakeUploader{}, b)

	rec := call(t, e, http.MethodPost, "/v1/book/scr-1/payment?bookingId=bk-1", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, b.checkoutURL, gjson.Get(body, "next").String())
	assert.Equal(t, "pending", gjson.Get(body, "payment.status").String())
	assert.Equal(t, b.checkoutURL, gjson.Get(body, "payment.checkout_url").String())
}

func TestConfirmation_Visibility(t *testing.T) {
	e := newBookingEcho(&fakeUploader{}, &fakeBookings{})

	rec := call(t, e, http.MethodGet, "/v1/confirmation/bk-1", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Arbat", gjson.Get(rec.Body.String(), "screen.screen_name").String())

	assert.Equal(t, http.StatusForbidden, call(t, e, http.MethodGet, "/v1/confirmation/bk-1", "stranger", "").Code)
	assert.Equal(t, http.StatusOK, call(t, e, http.MethodGet, "/v1/confirmation/bk-1", "admin", "").Code)
}

func TestDashboard(t *testing.T) {
	e := newBookingEcho(&fakeUploader{}, &fakeBookings{})

	rec := call(t, e, http.MethodGet, "/v1/dashboard/bookings", "u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gjson.Get(rec.Body.String(), "bookings").IsArray())
	assert.Equal(t, int64(3), gjson.Get(rec.Body.String(), "stats.total_bookings").Int())
}
