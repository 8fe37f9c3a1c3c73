package testutil

import (
	"context"

	"github.com/theraswitchrx/backend/pkg/storage"
)

type MockStorage struct {
	UploadFunc   func(ctx context.Context, object *storage.UploadObject) (*storage.UploadResponse, error)
	DownloadFunc func(ctx context.Context, bucket, key string) ([]byte, error)
}

func (s *MockStorage) Upload(
	ctx context.Context, object *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if s.UploadFunc != nil {
		return s.UploadFunc(ctx, object)
	}

	return &storage.UploadResponse{}, nil
}

func (s *MockStorage) Download(ctx context.Context, bucket, key string) ([]byte, error) {
	if s.DownloadFunc != nil {
		return s.DownloadFunc(ctx, bucket, key)
	}

	return nil, nil
}
