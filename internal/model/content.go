package model

import "time"

// ContentUpload is a media file a broadcaster uploaded for display. It is
// immutable once created and referenced by at most the bookings that chose it.
type ContentUpload struct {
	ID        string    `json:"id"`        // content_uploads.id
	UserID    string    `json:"user_id"`   // content_uploads.user_id
	FileName  string    `json:"file_name"` // content_uploads.file_name
	FileType  string    `json:"file_type"` // content_uploads.file_type (image | video)
	FileURL   string    `json:"file_url"`  // content_uploads.file_url
	FileSize  int64     `json:"file_size"` // content_uploads.file_size
	CreatedAt time.Time `json:"created_at"`
}
