// Package storage uploads course images to S3-compatible object storage.
package storage

import (
	"context"
	"io"
	mathrand "math/rand"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ImageStore keeps course images and hands back a public URL for each.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// allowedImageTypes maps accepted content types to the extension used in object keys.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
}

// ImageExtension returns the key extension for contentType, or false if the type is not accepted.
func ImageExtension(contentType string) (string, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	ext, ok := allowedImageTypes[strings.ToLower(mediaType)]
	return ext, ok
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewImageKey returns a lexicographically sortable object key under courses/.
func NewImageKey(ext string) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return "courses/" + strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()) + ext
}
