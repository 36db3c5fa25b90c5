package storage

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mocks/mock_storage.go -package=mocks teamwork/internal/storage Storage

// Storage defines the object storage operations used for message attachments.
type Storage interface {
	// PresignGet returns a URL that downloads key until expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PresignPut returns a URL that uploads key with contentType until expiry.
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

var _ Storage = (*S3Client)(nil)
