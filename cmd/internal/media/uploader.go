package media

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Uploader persists a decoded image and returns its durable public URL.
//
// Implementations must be safe for concurrent use; the auth handler calls
// Upload from request goroutines.
type Uploader interface {
	Upload(ctx context.Context, img Image) (url string, err error)
}

// objectKey builds a collision-free storage key for an image, sharded by
// upload date so buckets and directories stay browsable:
//
//	avatars/2025/06/01/7d9f...c2.png
func objectKey(now time.Time, ext string) string {
	now = now.UTC()
	return fmt.Sprintf("avatars/%04d/%02d/%02d/%s%s",
		now.Year(), now.Month(), now.Day(), uuid.NewString(), ext)
}
