package media

import "errors"

var (
	// ErrInvalidDataURL means the submitted payload is not a decodable
	// base64 image data URL. This is a client error.
	ErrInvalidDataURL = errors.New("media: invalid image data url")

	// ErrImageTooLarge means the decoded image exceeds the configured
	// size limit. Also a client error.
	ErrImageTooLarge = errors.New("media: image too large")

	// ErrUploadFailed wraps a storage-side failure. The profile update
	// must not proceed when the upload fails; there is no URL to persist.
	ErrUploadFailed = errors.New("media: upload failed")
)
