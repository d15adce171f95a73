// Package objectstore writes uploaded content to S3 or, without a bucket,
// to the local filesystem.
package objectstore

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

// Store persists an object under key and returns a URL it can be fetched from.
type Store interface {
	Put(ctx context.Context, key, contentType string, body io.ReadSeeker, size int64) (string, error)
}

// ContentKey builds content/<user>/<id>-<slug>.<ext> from the original
// file name. Names that slug to nothing become "file".
func ContentKey(userID, id, fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	base := slug.Make(strings.TrimSuffix(fileName, path.Ext(fileName)))
	if base == "" {
		base = "file"
	}
	key := "content/" + userID + "/" + id + "-" + base
	if ext != "" {
		key += "." + ext
	}
	return key
}
