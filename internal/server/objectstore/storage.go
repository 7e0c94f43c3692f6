// Package objectstore is the Object Storage client used by the item form:
// images are streamed into an S3-compatible bucket and handed back to
// callers as public addresses, which are also what Delete accepts.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var (
	// ErrForeignAddress is returned by Delete for addresses that do not point
	// into the configured bucket.
	ErrForeignAddress = errors.New("objectstore: address outside bucket")

	// ErrTooLarge is returned when an upload exceeds the configured limit.
	ErrTooLarge = errors.New("objectstore: object too large")

	// ErrEmptyObject is returned for uploads without a name or content.
	ErrEmptyObject = errors.New("objectstore: empty object")
)

// Progress is one transfer event. TotalBytes is zero when the caller did not
// announce a size.
type Progress struct {
	BytesTransferred int64
	TotalBytes       int64
}

// Percent returns the transferred share in the 0–100 range, or 0 when the
// total is unknown.
func (p Progress) Percent() float64 {
	if p.TotalBytes <= 0 {
		return 0
	}
	pct := float64(p.BytesTransferred) / float64(p.TotalBytes) * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// ProgressFunc receives transfer events in order. It may be nil.
type ProgressFunc func(Progress)

// Storage is the contract the form depends on.
type Storage interface {
	// Upload stores body under key and returns the object's address.
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string, progress ProgressFunc) (string, error)

	// Delete removes the object behind address.
	Delete(ctx context.Context, address string) error
}

// Observer records storage operation metrics.
type Observer interface {
	RecordUpload(duration time.Duration, sizeBytes uint64, err error)
	RecordDelete(duration time.Duration, err error)
}

// ImageKey builds the namespaced key for an uploaded image:
// "<prefix>/<unix millis>-<base name>". Two files with the same name in the
// same millisecond collide; that is accepted.
func ImageKey(prefix, fileName string, now time.Time) string {
	name := strings.ReplaceAll(fileName, "\\", "/")
	name = path.Base(name)
	if name == "." || name == "/" {
		name = "image"
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%d-%s", now.UnixMilli(), name)
	}
	return fmt.Sprintf("%s/%d-%s", prefix, now.UnixMilli(), name)
}

// progressReader reports cumulative bytes read to fn.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.fn != nil {
			p.fn(Progress{BytesTransferred: p.read, TotalBytes: p.total})
		}
	}
	return n, err
}
