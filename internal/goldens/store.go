package goldens

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// Store serves golden-value baselines out of S3-compatible object storage.
type Store struct {
	client *minio.Client
	bucket string
}

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

func NewStore(client *minio.Client, bucket string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	if bucket == "" {
		return nil, fmt.Errorf("goldens bucket is required")
	}
	return &Store{client: client, bucket: bucket}, nil
}

// Stat reports whether a baseline exists at path and its metadata.
func (s *Store) Stat(ctx context.Context, path string) (ObjectInfo, error) {
	if s == nil || s.client == nil {
		return ObjectInfo{}, fmt.Errorf("goldens store not initialized")
	}
	info, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{})
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          info.Key,
		Size:         info.Size,
		ETag:         info.ETag,
		LastModified: info.LastModified,
	}, nil
}

// Get opens a baseline for reading.
func (s *Store) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("goldens store not initialized")
	}
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// PresignGet returns a time-limited URL the diffing tool can fetch the
// baseline from without holding store credentials.
func (s *Store) PresignGet(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("goldens store not initialized")
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, ttl, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// IsNotExist reports whether err is the store's missing-object error.
func IsNotExist(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
