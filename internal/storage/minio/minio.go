// Package minio stores uploaded files in an S3 compatible bucket.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/config"
	"github.com/Skotchmaster/nail_salon/internal/storage"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type FileStorage struct {
	client  *mclient.Client
	bucket  string
	baseURL string
	now     func() time.Time
}

var _ storage.FileStorage = (*FileStorage)(nil)

// New connects to the endpoint and fails fast when the bucket is missing.
func New(ctx context.Context, cfg config.S3Config) (*FileStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")
	scheme := "http"
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}
	if secure {
		scheme = "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.Bucket)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		base = scheme + "://" + endpoint + "/" + cfg.Bucket
	}

	return &FileStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimRight(base, "/"),
		now:     time.Now,
	}, nil
}
