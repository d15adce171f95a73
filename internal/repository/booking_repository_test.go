package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmarinek/red-square-broadcast/internal/booking"
	"github.com/cmarinek/red-square-broadcast/internal/model"
)

var day = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

func TestBookingRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), "u1", "s1", "c1", "2026-03-12", "10:00", "12:00", int64(2100), "pending", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id=?")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("b1", "u1", "s1", "c1", day, "10:00:00", "12:00:00", 2100, "pending", "pending", nil, fixedNow, fixedNow))

	b := &model.Booking{
		UserID: "u1", ScreenID: "s1", ContentID: "c1", ScheduledDate: day,
		StartTime: "10:00", EndTime: "12:00", TotalAmount: 2100,
		Status: booking.StatusPending, PaymentStatus: booking.PaymentPending,
	}
	require.NoError(t, NewBookingRepo(db).Create(context.Background(), b))
	assert.Equal(t, "b1", b.ID)
	assert.Equal(t, "10:00", b.StartTime)
	assert.Equal(t, "12:00", b.EndTime)
	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Nil(t, b.StripeSessionID)
}

func TestBookingRepo_GetDetailWithoutContent(t *testing.T) {
	db, mock := newMock(t)
	cols := append(append([]string{}, bookingCols...), "screen_name", "address", "city", "file_name", "file_type", "file_url")
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN content_uploads c ON c.id = b.content_id WHERE b.id=?")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("b1", "u1", "s1", "c1", day, "10:00:00", "12:00:00", 2100, "confirmed", "paid", "sim_1",
				fixedNow, fixedNow, "Main", "1 Red Square", "Moscow", nil, nil, nil))

	d, err := NewBookingRepo(db).GetDetail(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Main", d.Screen.Name)
	assert.Nil(t, d.Content)
	require.NotNil(t, d.StripeSessionID)
	assert.Equal(t, "sim_1", *d.StripeSessionID)
}

func TestBookingRepo_Confirm(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status=?, stripe_session_id=?")).
		WithArgs("confirmed", "sim_42", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status=?, stripe_session_id=?")).
		WithArgs("confirmed", "sim_43", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewBookingRepo(db)
	require.NoError(t, repo.Confirm(context.Background(), "b1", "sim_42"))
	assert.ErrorIs(t, repo.Confirm(context.Background(), "missing", "sim_43"), ErrNotFound)
}

func TestBookingRepo_CompleteElapsed(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("TIMESTAMP(scheduled_date, scheduled_end_time) <= ?")).
		WithArgs("completed", "confirmed", fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewBookingRepo(db).CompleteElapsed(context.Background(), fixedNow)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestBookingRepo_CreateOverlappingBothSucceed(t *testing.T) {
	db, mock := newMock(t)
	for _, id := range []string{"b1", "b2"} {
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO bookings")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b WHERE b.id=?")).
			WillReturnRows(sqlmock.NewRows(bookingCols).
				AddRow(id, "u1", "s1", "c1", day, "10:00:00", "12:00:00", 2100, "pending", "pending", nil, fixedNow, fixedNow))
	}

	repo := NewBookingRepo(db)
	for range 2 {
		b := &model.Booking{UserID: "u1", ScreenID: "s1", ContentID: "c1", ScheduledDate: day,
			StartTime: "10:00", EndTime: "12:00", TotalAmount: 2100,
			Status: booking.StatusPending, PaymentStatus: booking.PaymentPending}
		require.NoError(t, repo.Create(context.Background(), b))
	}
}

func TestPaymentRepo_Settle(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WithArgs(sqlmock.AnyArg(), "b1", int64(2100), int64(105), int64(1995), "usd", "completed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET payment_status=?")).
		WithArgs("paid", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE profiles SET total_earnings = total_earnings + ?")).
		WithArgs(int64(1995), "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notifications")).
		WithArgs(sqlmock.AnyArg(), "u1", "Booking confirmed", sqlmock.AnyArg(), "booking").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	session := "sim_1"
	err := NewPaymentRepo(db).Settle(context.Background(), Settlement{
		Payment: model.Payment{BookingID: "b1", Amount: 2100, PlatformFee: 105, ScreenOwnerAmount: 1995,
			Currency: "usd", Status: "completed", StripeSessionID: &session},
		OwnerID:      "owner-1",
		Notification: model.Notification{UserID: "u1", Title: "Booking confirmed", Message: "m", Type: "booking"},
	})
	require.NoError(t, err)
}

func TestPaymentRepo_SettleDuplicate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO payments")).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'b1' for key 'uq_payments_booking'"))
	mock.ExpectRollback()

	err := NewPaymentRepo(db).Settle(context.Background(), Settlement{Payment: model.Payment{BookingID: "b1"}})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestNotificationRepo_MarkReadOtherUser(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET `read` = TRUE WHERE id=? AND user_id=?")).
		WithArgs("n1", "intruder").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewNotificationRepo(db).MarkRead(context.Background(), "n1", "intruder")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsRepo_Admin(t *testing.T) {
	db, mock := newMock(t)
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM profiles")).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta("FROM screens")).
		WillReturnRows(sqlmock.NewRows([]string{"n", "active"}).AddRow(4, 3))
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(month, month).
		WillReturnRows(sqlmock.NewRows([]string{"n", "rev", "pending", "mrev", "mn"}).AddRow(10, 21000, 2, 4200, 2))

	s, err := NewStatsRepo(db).Admin(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, model.AdminStats{
		TotalUsers: 7, TotalScreens: 4, ActiveScreens: 3, TotalBookings: 10,
		TotalRevenue: 21000, PendingBookings: 2, MonthlyRevenue: 4200, MonthlyBookings: 2,
	}, s)
}
