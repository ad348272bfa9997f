package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalUploader writes images under a directory on disk. It is the
// development fallback when no bucket is configured; the HTTP layer serves
// the directory under /uploads/.
type LocalUploader struct {
	dir  string
	base string
	now  func() time.Time
}

// NewLocalUploader ensures dir exists and returns the uploader.
// baseURL is the public prefix of the served directory, e.g.
// "http://localhost:8080/uploads".
func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if dir == "" {
		return nil, fmt.Errorf("media: upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create upload dir: %w", err)
	}
	return &LocalUploader{
		dir:  dir,
		base: strings.TrimRight(baseURL, "/"),
		now:  time.Now,
	}, nil
}

// Upload writes the image to disk and returns its public URL.
func (u *LocalUploader) Upload(ctx context.Context, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(u.now(), img.Ext)
	path := filepath.Join(u.dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return u.base + "/" + key, nil
}
