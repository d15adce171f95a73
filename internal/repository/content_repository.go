package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/google/uuid"
)

// ContentRepo stores content upload metadata. Rows are never updated.
type ContentRepo struct{ db *sql.DB }

func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

// Create inserts c. An empty ID is replaced with a fresh one.
func (r *ContentRepo) Create(ctx context.Context, c *model.ContentUpload) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO content_uploads (id, user_id, file_name, file_type, file_url, file_size) VALUES (?,?,?,?,?,?)",
		c.ID, c.UserID, c.FileName, c.FileType, c.FileURL, c.FileSize)
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = stored
	return nil
}

// GetByID returns a content upload or ErrNotFound.
func (r *ContentRepo) GetByID(ctx context.Context, id string) (model.ContentUpload, error) {
	var c model.ContentUpload
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, file_name, file_type, file_url, file_size, created_at FROM content_uploads WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.UserID, &c.FileName, &c.FileType, &c.FileURL, &c.FileSize, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	return c, err
}
