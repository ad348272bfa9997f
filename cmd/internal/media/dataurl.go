package media

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// MaxImageBytes caps the decoded size of an uploaded picture.
// The HTTP layer limits the request body too; this guards the decoded form.
const MaxImageBytes = 5 << 20 // 5 MiB

// extByContentType maps the accepted image content types to file extensions.
// Anything outside this set is rejected before it reaches storage.
var extByContentType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is a decoded, validated profile picture ready for upload.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// DecodeDataURL parses a base64 image data URL of the form
//
//	data:image/png;base64,iVBORw0...
//
// and returns the decoded image. Returns ErrInvalidDataURL for anything
// malformed or of an unaccepted content type, and ErrImageTooLarge when the
// decoded payload exceeds MaxImageBytes.
func DecodeDataURL(s string) (Image, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Image{}, ErrInvalidDataURL
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrInvalidDataURL
	}

	contentType, found := strings.CutSuffix(meta, ";base64")
	if !found {
		return Image{}, ErrInvalidDataURL
	}

	ext, accepted := extByContentType[contentType]
	if !accepted {
		return Image{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidDataURL, contentType)
	}

	// Reject oversized payloads before decoding: base64 inflates by 4/3,
	// so the encoded length bounds the decoded size.
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes {
		return Image{}, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	if len(data) == 0 {
		return Image{}, ErrInvalidDataURL
	}

	return Image{Data: data, ContentType: contentType, Ext: ext}, nil
}
