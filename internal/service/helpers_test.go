package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/nail_salon/internal/db"
	"github.com/Skotchmaster/nail_salon/internal/hash"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/repo/gormrepo"
	"github.com/Skotchmaster/nail_salon/internal/storage"
	"github.com/Skotchmaster/nail_salon/internal/tokens"
)

var testHashParams = hash.Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func initTestStore(t *testing.T) *gormrepo.GormRepo {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	store, err := gormrepo.New(ctx, gdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })
	return store
}

func newTestIssuer() *tokens.Issuer {
	return tokens.NewIssuer(
		[]byte("access-secret-access-secret-0123456789"),
		[]byte("refresh-secret-refresh-secret-0123456789"),
		15*time.Minute, 7*24*time.Hour,
	)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mykafka.Event
	topics []string
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic string, ev mykafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Type
	}
	return out
}

const fakeStorageBase = "https://cdn.test/"

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) UploadFile(_ context.Context, file storage.File, folder string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	data, err := io.ReadAll(file.Body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	url := fakeStorageBase + storage.ObjectKey(folder, file.Name, time.Now())
	f.objects[url] = data
	return url, nil
}

// DeleteFile only knows URLs it handed out, like the bucket-backed storage.
func (f *fakeStorage) DeleteFile(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !strings.HasPrefix(url, fakeStorageBase) {
		return storage.ErrInvalidArgument
	}
	f.deleted = append(f.deleted, url)
	delete(f.objects, url)
	return nil
}

type fakeIndex struct {
	indexed map[string]models.Service
	deleted []string
	fail    bool
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[string]models.Service{}}
}

func (f *fakeIndex) IndexService(_ context.Context, s *models.Service) error {
	f.indexed[s.ID] = *s
	return nil
}

func (f *fakeIndex) DeleteService(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.indexed, id)
	return nil
}

func (f *fakeIndex) SearchServices(_ context.Context, _ string, _ repo.Page) ([]models.Service, int64, error) {
	if f.fail {
		return nil, 0, errors.New("cluster unavailable")
	}
	out := make([]models.Service, 0, len(f.indexed))
	for _, s := range f.indexed {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func pngFile(name string) storage.File {
	body := []byte("\x89PNG\r\n\x1a\nfake")
	return storage.File{Name: name, ContentType: "image/png", Size: int64(len(body)), Body: bytes.NewReader(body)}
}

func ptr[T any](v T) *T { return &v }
