// Package storage defines the object storage used for uploaded images.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidArgument = errors.New("invalid file")
	ErrDisabled        = errors.New("file storage is not configured")
)

// MaxFileSize caps a single upload.
const MaxFileSize = 10 << 20

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// File is an upload as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (f File) Validate() error {
	if f.Body == nil || f.Size <= 0 || f.Size > MaxFileSize {
		return ErrInvalidArgument
	}
	if !allowedContentTypes[f.ContentType] {
		return ErrInvalidArgument
	}
	return nil
}

type FileStorage interface {
	// UploadFile stores f under folder and returns its public URL.
	UploadFile(ctx context.Context, f File, folder string) (string, error)
	// DeleteFile removes the object a URL returned by UploadFile points to.
	DeleteFile(ctx context.Context, publicURL string) error
}

// Disabled is used when no bucket is configured.
type Disabled struct{}

func (Disabled) UploadFile(context.Context, File, string) (string, error) { return "", ErrDisabled }
func (Disabled) DeleteFile(context.Context, string) error                 { return ErrDisabled }

// ObjectKey builds "<folder>/<unix ms>-<name>" with the name reduced to a
// URL-safe base name.
func ObjectKey(folder, name string, now time.Time) string {
	return path.Join(folder, strconv.FormatInt(now.UnixMilli(), 10)+"-"+safeName(name))
}

func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "file"
	}
	return out
}
