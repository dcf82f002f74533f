package minio

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/nail_salon/internal/storage"
	mclient "github.com/minio/minio-go/v7"
)

func (s *FileStorage) UploadFile(ctx context.Context, f storage.File, folder string) (string, error) {
	const op = "storage/minio/UploadFile"

	if err := f.Validate(); err != nil {
		return "", err
	}

	key := storage.ObjectKey(folder, f.Name, s.now())
	_, err := s.client.PutObject(ctx, s.bucket, key, f.Body, f.Size, mclient.PutObjectOptions{
		ContentType: f.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return s.publicURL(key), nil
}

func (s *FileStorage) DeleteFile(ctx context.Context, publicURL string) error {
	const op = "storage/minio/DeleteFile"

	key, err := s.keyFromURL(publicURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *FileStorage) publicURL(key string) string {
	return s.baseURL + "/" + key
}

// keyFromURL maps a URL returned by UploadFile back to its object key. URLs
// outside the public base do not belong to the bucket.
func (s *FileStorage) keyFromURL(publicURL string) (string, error) {
	key, ok := strings.CutPrefix(publicURL, s.baseURL+"/")
	if !ok || key == "" {
		return "", storage.ErrInvalidArgument
	}
	return key, nil
}
