package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

var screenCols = []string{"id", "owner_id", "screen_name", "address", "city", "location_lat", "location_lng",
	"price_per_hour", "availability_start", "availability_end", "is_active", "created_at", "updated_at"}

var bookingCols = []string{"id", "user_id", "screen_id", "content_id", "scheduled_date", "scheduled_start_time",
	"scheduled_end_time", "total_amount", "status", "payment_status", "stripe_session_id", "created_at", "updated_at"}
