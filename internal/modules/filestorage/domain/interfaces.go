package domain

import (
	"context"
	"time"
)

// ObjectStorage is the object-store port for ebook files. Implemented by
// S3/MinIO; a stub is enough for tests.
type ObjectStorage interface {
	// PresignDownload generates a temporary signed URL for downloading the
	// object at key. The URL is valid for expiry and never reused.
	PresignDownload(ctx context.Context, key string, filename string, expiry time.Duration) (string, error)

	// KeyFromLocation resolves the within-bucket key from a stored-file
	// location string.
	KeyFromLocation(location string) (string, error)
}
