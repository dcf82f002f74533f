package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	tests := []struct {
		name string
		file string
		want string
	}{
		{"plain", "nails.jpg", "gallery/1700000000123-nails.jpg"},
		{"spaces", "my nails.png", "gallery/1700000000123-my-nails.png"},
		{"path traversal", "../../etc/passwd", "gallery/1700000000123-passwd"},
		{"windows path", `C:\photos\set 1.webp`, "gallery/1700000000123-set-1.webp"},
		{"empty", "", "gallery/1700000000123-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ObjectKey("gallery", tt.file, now))
		})
	}
}

func TestFileValidate(t *testing.T) {
	ok := File{Name: "a.png", ContentType: "image/png", Size: 3, Body: strings.NewReader("abc")}
	require.NoError(t, ok.Validate())

	bad := []File{
		{Name: "a.png", ContentType: "image/png", Size: 0, Body: strings.NewReader("")},
		{Name: "a.png", ContentType: "image/png", Size: MaxFileSize + 1, Body: strings.NewReader("x")},
		{Name: "a.txt", ContentType: "text/plain", Size: 3, Body: strings.NewReader("abc")},
		{Name: "a.png", ContentType: "image/png", Size: 3},
	}
	for _, f := range bad {
		require.ErrorIs(t, f.Validate(), ErrInvalidArgument, f.Name+" "+f.ContentType)
	}
}

func TestDisabled(t *testing.T) {
	var s FileStorage = Disabled{}
	_, err := s.UploadFile(context.Background(), File{}, "gallery")
	require.ErrorIs(t, err, ErrDisabled)
	require.ErrorIs(t, s.DeleteFile(context.Background(), "http://x/y/z"), ErrDisabled)
}
