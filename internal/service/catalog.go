package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
	"github.com/Skotchmaster/nail_salon/internal/repo"
)

const minServiceDuration = 15

type ServiceIndexer interface {
	IndexService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id string) error
	SearchServices(ctx context.Context, query string, p repo.Page) ([]models.Service, int64, error)
}

type CatalogService struct {
	Repo   repo.ServiceRepository
	Index  ServiceIndexer
	Events Publisher
}

func NewCatalogService(r repo.ServiceRepository, index ServiceIndexer, events Publisher) *CatalogService {
	return &CatalogService{Repo: r, Index: index, Events: events}
}

// ServiceInput is both the create body and the partial update body.
type ServiceInput struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Price       *float64                `json:"price"`
	Duration    *int                    `json:"duration"`
	Category    *models.ServiceCategory `json:"category"`
	ImageURL    *string                 `json:"imageUrl"`
	Featured    *bool                   `json:"featured"`
	IsActive    *bool                   `json:"isActive"`
	SortIndex   *int                    `json:"sortIndex"`
}

func (in ServiceInput) validate(create bool) error {
	if create {
		if err := requireText("name", in.Name); err != nil {
			return err
		}
		if err := requireText("description", in.Description); err != nil {
			return err
		}
		if in.Price == nil {
			return invalid("price is required")
		}
		if in.Duration == nil {
			return invalid("duration is required")
		}
		if in.Category == nil {
			return invalid("category is required")
		}
	}
	if err := optionalText("name", in.Name); err != nil {
		return err
	}
	if err := optionalText("description", in.Description); err != nil {
		return err
	}
	if in.Price != nil && *in.Price < 0 {
		return invalid("price must be >= 0")
	}
	if in.Duration != nil && *in.Duration < minServiceDuration {
		return invalid("duration must be at least %d minutes", minServiceDuration)
	}
	if in.Category != nil && !in.Category.Valid() {
		return invalid("unknown category %q", *in.Category)
	}
	return nil
}

func (in ServiceInput) apply(s *models.Service) {
	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		s.Price = *in.Price
	}
	if in.Duration != nil {
		s.Duration = *in.Duration
	}
	if in.Category != nil {
		s.Category = *in.Category
	}
	if in.ImageURL != nil {
		s.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Featured != nil {
		s.Featured = *in.Featured
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if in.SortIndex != nil {
		s.SortIndex = *in.SortIndex
	}
}

func (c *CatalogService) Create(ctx context.Context, in ServiceInput) (*models.Service, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	s := &models.Service{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	in.apply(s)

	if err := c.Repo.CreateService(ctx, s); err != nil {
		return nil, err
	}

	c.index(ctx, s)
	publish(ctx, c.Events, mykafka.TopicCatalog, "service_created", s.ID, s)
	return s, nil
}

func (c *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	s, err := c.Repo.ServiceByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "service")
	}
	return s, nil
}

func (c *CatalogService) List(ctx context.Context, f repo.ServiceFilter, p repo.Page) ([]models.Service, int64, error) {
	if f.Category != nil && !f.Category.Valid() {
		return nil, 0, invalid("unknown category %q", *f.Category)
	}
	return c.Repo.ListServices(ctx, f, p)
}

func (c *CatalogService) Update(ctx context.Context, id string, in ServiceInput) (*models.Service, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	s, err := c.Repo.ServiceByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "service")
	}
	in.apply(s)
	s.UpdatedAt = time.Now().UTC()

	if err := c.Repo.UpdateService(ctx, s); err != nil {
		return nil, notFound(err, "service")
	}

	c.index(ctx, s)
	publish(ctx, c.Events, mykafka.TopicCatalog, "service_updated", s.ID, s)
	return s, nil
}

func (c *CatalogService) Delete(ctx context.Context, id string) error {
	if err := c.Repo.DeleteService(ctx, id); err != nil {
		return notFound(err, "service")
	}

	if c.Index != nil {
		if err := c.Index.DeleteService(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "op", "delete", "service_id", id, "error", err)
		}
	}
	publish(ctx, c.Events, mykafka.TopicCatalog, "service_deleted", id, nil)
	return nil
}

// Search looks only at active services. Without a search index, or when the
// index fails, it falls back to a substring match in the repository.
func (c *CatalogService) Search(ctx context.Context, query string, p repo.Page) ([]models.Service, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, invalid("q is required")
	}

	if c.Index != nil {
		items, total, err := c.Index.SearchServices(ctx, query, p)
		if err == nil {
			return items, total, nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "op", "search", "error", err)
	}

	active := true
	return c.Repo.ListServices(ctx, repo.ServiceFilter{IsActive: &active, Search: query}, p)
}

func (c *CatalogService) index(ctx context.Context, s *models.Service) {
	if c.Index == nil {
		return
	}
	if err := c.Index.IndexService(ctx, s); err != nil {
		logging.FromContext(ctx).Warn("search_index_failed", "op", "index", "service_id", s.ID, "error", err)
	}
}
