package objectstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore writes objects below a directory served at baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (d *DiskStore) Put(ctx context.Context, key, _ string, body io.ReadSeeker, _ int64) (string, error) {
	const op = "objectstore.DiskStore.Put"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	dst := filepath.Join(d.dir, filepath.FromSlash(key))
	if !strings.HasPrefix(dst, filepath.Clean(d.dir)+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: key %q escapes store", op, key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return d.baseURL + "/" + key, nil
}

// Dir is the root directory, used to serve stored files.
func (d *DiskStore) Dir() string { return d.dir }
