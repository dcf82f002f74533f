package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"github.com/Skotchmaster/nail_salon/internal/storage"
)

const galleryFolder = "gallery"

type GalleryService struct {
	Repo    repo.GalleryRepository
	Storage storage.FileStorage
	Events  Publisher
}

func NewGalleryService(r repo.GalleryRepository, files storage.FileStorage, events Publisher) *GalleryService {
	if files == nil {
		files = storage.Disabled{}
	}
	return &GalleryService{Repo: r, Storage: files, Events: events}
}

type GalleryInput struct {
	ImageURL    *string                 `json:"imageUrl"`
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Category    *models.GalleryCategory `json:"category"`
	Price       *string                 `json:"price"`
	Duration    *string                 `json:"duration"`
	Featured    *bool                   `json:"featured"`
	IsActive    *bool                   `json:"isActive"`
	SortIndex   *int                    `json:"sortIndex"`
}

func (in GalleryInput) validate(create, needImage bool) error {
	if create {
		if needImage {
			if err := requireText("imageUrl", in.ImageURL); err != nil {
				return err
			}
		}
		if err := requireText("title", in.Title); err != nil {
			return err
		}
		if in.Category == nil {
			return invalid("category is required")
		}
	}
	if err := optionalText("imageUrl", in.ImageURL); err != nil {
		return err
	}
	if err := optionalText("title", in.Title); err != nil {
		return err
	}
	if in.Category != nil && !in.Category.Valid() {
		return invalid("unknown category %q", *in.Category)
	}
	return nil
}

func (in GalleryInput) apply(g *models.GalleryItem) {
	if in.ImageURL != nil {
		g.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Title != nil {
		g.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		g.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		g.Category = *in.Category
	}
	if in.Price != nil {
		g.Price = strings.TrimSpace(*in.Price)
	}
	if in.Duration != nil {
		g.Duration = strings.TrimSpace(*in.Duration)
	}
	g.Featured = deref(in.Featured, g.Featured)
	g.IsActive = deref(in.IsActive, g.IsActive)
	g.SortIndex = deref(in.SortIndex, g.SortIndex)
}

func newGalleryItem(in GalleryInput) *models.GalleryItem {
	now := time.Now().UTC()
	g := &models.GalleryItem{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(g)
	return g
}

func (s *GalleryService) Create(ctx context.Context, in GalleryInput) (*models.GalleryItem, error) {
	if err := in.validate(true, true); err != nil {
		return nil, err
	}

	g := newGalleryItem(in)
	if err := s.Repo.CreateGalleryItem(ctx, g); err != nil {
		return nil, fmt.Errorf("create gallery item: %w", err)
	}

	publish(ctx, s.Events, mykafka.TopicGallery, "gallery_item_created", g.ID, g)
	return g, nil
}

// Upload stores the image and creates the item pointing at it. If the item
// cannot be saved the uploaded object is removed again.
func (s *GalleryService) Upload(ctx context.Context, file storage.File, in GalleryInput) (*models.GalleryItem, error) {
	l := logging.FromContext(ctx).With("svc", "gallery.upload")

	in.ImageURL = nil
	if err := in.validate(true, false); err != nil {
		return nil, err
	}
	if err := file.Validate(); err != nil {
		return nil, invalid("file must be a jpeg, png, webp or gif image up to %d MB", storage.MaxFileSize>>20)
	}

	url, err := s.Storage.UploadFile(ctx, file, galleryFolder)
	if err != nil {
		return nil, storageErr(err)
	}
	in.ImageURL = &url

	g := newGalleryItem(in)
	if err := s.Repo.CreateGalleryItem(ctx, g); err != nil {
		if derr := s.Storage.DeleteFile(ctx, url); derr != nil {
			l.Warn("orphaned_upload", "url", url, "error", derr)
		}
		return nil, fmt.Errorf("create gallery item: %w", err)
	}

	l.Info("gallery_item_uploaded", "gallery_id", g.ID)
	publish(ctx, s.Events, mykafka.TopicGallery, "gallery_item_created", g.ID, g)
	return g, nil
}

func (s *GalleryService) Get(ctx context.Context, id string) (*models.GalleryItem, error) {
	g, err := s.Repo.GalleryItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "gallery item")
	}
	return g, nil
}

func (s *GalleryService) List(ctx context.Context, f repo.GalleryFilter, p repo.Page) ([]models.GalleryItem, int64, error) {
	if f.Category != nil && !f.Category.Valid() {
		return nil, 0, invalid("unknown category %q", *f.Category)
	}
	return s.Repo.ListGalleryItems(ctx, f, p)
}

func (s *GalleryService) Update(ctx context.Context, id string, in GalleryInput) (*models.GalleryItem, error) {
	if err := in.validate(false, false); err != nil {
		return nil, err
	}

	g, err := s.Repo.GalleryItemByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "gallery item")
	}
	in.apply(g)
	g.UpdatedAt = time.Now().UTC()

	if err := s.Repo.UpdateGalleryItem(ctx, g); err != nil {
		return nil, notFound(err, "gallery item")
	}

	publish(ctx, s.Events, mykafka.TopicGallery, "gallery_item_updated", g.ID, g)
	return g, nil
}

// Delete removes the item. Its image is removed best-effort, and only when
// the storage recognises the URL as one of its own objects.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	g, err := s.Repo.GalleryItemByID(ctx, id)
	if err != nil {
		return notFound(err, "gallery item")
	}
	if err := s.Repo.DeleteGalleryItem(ctx, id); err != nil {
		return notFound(err, "gallery item")
	}

	if g.ImageURL != "" {
		err := s.Storage.DeleteFile(ctx, g.ImageURL)
		switch {
		case err == nil, errors.Is(err, storage.ErrDisabled):
		case errors.Is(err, storage.ErrInvalidArgument):
			// image hosted outside the bucket
		default:
			logging.FromContext(ctx).Warn("delete_file_failed", "gallery_id", id, "url", g.ImageURL, "error", err)
		}
	}

	publish(ctx, s.Events, mykafka.TopicGallery, "gallery_item_deleted", id, nil)
	return nil
}

func storageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrDisabled):
		return fmt.Errorf("%w: file storage is not configured", apperr.ErrUnavailable)
	case errors.Is(err, storage.ErrInvalidArgument):
		return invalid("file rejected by storage")
	}
	return fmt.Errorf("upload file: %w", err)
}
