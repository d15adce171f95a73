package repository

import (
	"context"
	"database/sql"

	"github.com/cmarinek/red-square-broadcast/internal/model"
)

// NotificationRepo reads a user's in-app notifications.
type NotificationRepo struct{ db *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	q := "SELECT id, user_id, title, message, type, `read`, created_at FROM notifications WHERE user_id=?"
	if unreadOnly {
		q += " AND `read` = FALSE"
	}
	q += " ORDER BY created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkRead flags one of the user's notifications as read. Notifications of
// other users report ErrNotFound.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET `read` = TRUE WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}
