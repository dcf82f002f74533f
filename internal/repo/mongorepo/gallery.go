package mongorepo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
)

func (m *Mongo) CreateGalleryItem(ctx context.Context, g *models.GalleryItem) error {
	const op = "mongorepo/CreateGalleryItem"

	g.CreatedAt = toMS(g.CreatedAt)
	g.UpdatedAt = toMS(g.UpdatedAt)
	if _, err := m.gallery.InsertOne(ctx, g); err != nil {
		return mapErr(op, err)
	}
	return nil
}

func (m *Mongo) GalleryItemByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	const op = "mongorepo/GalleryItemByID"

	var g models.GalleryItem
	if err := m.gallery.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&g); err != nil {
		return nil, mapErr(op, err)
	}
	return &g, nil
}

func galleryFilter(f repo.GalleryFilter) bson.D {
	filter := bson.D{}
	if f.Category != nil {
		filter = append(filter, bson.E{Key: "category", Value: *f.Category})
	}
	if f.Featured != nil {
		filter = append(filter, bson.E{Key: "featured", Value: *f.Featured})
	}
	if f.IsActive != nil {
		filter = append(filter, bson.E{Key: "isActive", Value: *f.IsActive})
	}
	return filter
}

func (m *Mongo) ListGalleryItems(ctx context.Context, f repo.GalleryFilter, p repo.Page) ([]models.GalleryItem, int64, error) {
	const op = "mongorepo/ListGalleryItems"

	items, total, err := findAll[models.GalleryItem](ctx, m.gallery, galleryFilter(f), p, catalogSort)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

func (m *Mongo) UpdateGalleryItem(ctx context.Context, g *models.GalleryItem) error {
	const op = "mongorepo/UpdateGalleryItem"

	g.CreatedAt = toMS(g.CreatedAt)
	g.UpdatedAt = toMS(g.UpdatedAt)
	res, err := m.gallery.ReplaceOne(ctx, bson.D{{Key: "_id", Value: g.ID}}, g)
	if err != nil {
		return mapErr(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	}
	return nil
}

func (m *Mongo) DeleteGalleryItem(ctx context.Context, id string) error {
	const op = "mongorepo/DeleteGalleryItem"

	if err := deleteByID(ctx, m.gallery, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
