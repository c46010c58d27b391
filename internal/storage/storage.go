package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ErrNotExist is returned when a stored object cannot be found.
var ErrNotExist = errors.New("stored object does not exist")

// Store persists generated documents such as tax receipts and exports.
type Store interface {
	// Save writes data under subDir and returns the object's relative path.
	Save(ctx context.Context, data []byte, filename, subDir, contentType string) (string, error)
	Open(ctx context.Context, relativePath string) (io.ReadCloser, error)
	Delete(ctx context.Context, relativePath string) error
}

// objectKey lays files out by year and month, e.g. "receipts/2026/01/<uuid>.pdf".
func objectKey(subDir, filename string, now time.Time) string {
	return path.Join(subDir, now.Format("2006/01"), uuid.NewString()+path.Ext(filename))
}

// New returns the store selected by driver ("local" or "s3").
func New(ctx context.Context, driver, basePath, bucket, region string) (Store, error) {
	switch driver {
	case "", "local":
		return NewLocalStorage(basePath)
	case "s3":
		return NewS3Storage(ctx, bucket, region)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
