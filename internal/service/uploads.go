package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cmarinek/red-square-broadcast/internal/model"
	"github.com/cmarinek/red-square-broadcast/internal/objectstore"
)

type ContentGetter interface {
	GetByID(ctx context.Context, id string) (model.ContentUpload, error)
}

type ContentStore interface {
	ContentGetter
	Create(ctx context.Context, c *model.ContentUpload) error
}

// Uploads stores broadcaster media ahead of scheduling.
type Uploads struct {
	log      *slog.Logger
	screens  ScreenGetter
	contents ContentStore
	store    objectstore.Store
	maxBytes int64
}

func NewUploads(log *slog.Logger, screens ScreenGetter, contents ContentStore, store objectstore.Store, maxBytes int64) *Uploads {
	return &Uploads{log: log, screens: screens, contents: contents, store: store, maxBytes: maxBytes}
}

// UploadInput is one file received for a screen.
type UploadInput struct {
	UserID      string
	ScreenID    string
	FileName    string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

// MediaKind maps a MIME type to image or video. Anything else is rejected.
func MediaKind(contentType string) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return "image", nil
	case strings.HasPrefix(mt, "video/"):
		return "video", nil
	}
	return "", ErrUnsupportedMedia
}

// Upload checks the target screen exists, writes the file to object storage
// and records it. Nothing is recorded when the write fails.
func (u *Uploads) Upload(ctx context.Context, in UploadInput) (model.ContentUpload, error) {
	const op = "service.Uploads.Upload"
	log := u.log.With(slog.String("op", op), slog.String("user_id", in.UserID))

	var c model.ContentUpload
	if _, err := u.screens.GetByID(ctx, in.ScreenID); err != nil {
		return c, fmt.Errorf("%s: %w", op, screenErr(err))
	}
	kind, err := MediaKind(in.ContentType)
	if err != nil {
		return c, fmt.Errorf("%s: %w", op, err)
	}
	if in.Size <= 0 {
		return c, fmt.Errorf("%s: %w: empty file", op, ErrInvalidInput)
	}
	if u.maxBytes > 0 && in.Size > u.maxBytes {
		return c, fmt.Errorf("%s: %w", op, ErrFileTooLarge)
	}

	id := uuid.NewString()
	key := objectstore.ContentKey(in.UserID, id, in.FileName)
	url, err := u.store.Put(ctx, key, in.ContentType, in.Body, in.Size)
	if err != nil {
		return c, fmt.Errorf("%s: %w", op, err)
	}

	c = model.ContentUpload{
		ID:       id,
		UserID:   in.UserID,
		FileName: in.FileName,
		FileType: kind,
		FileURL:  url,
		FileSize: in.Size,
	}
	if err := u.contents.Create(ctx, &c); err != nil {
		return c, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("content uploaded", slog.String("content_id", c.ID), slog.String("key", key), slog.Int64("size", in.Size))
	return c, nil
}
