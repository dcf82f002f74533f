package gormrepo

import (
	"context"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateGalleryItem(ctx context.Context, g *models.GalleryItem) error {
	return mapErr(r.DB.WithContext(ctx).Create(g).Error)
}

func (r *GormRepo) GalleryItemByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	var g models.GalleryItem
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, mapErr(err)
	}
	return &g, nil
}

func galleryScope(f repo.GalleryFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Category != nil {
			db = db.Where("category = ?", *f.Category)
		}
		if f.Featured != nil {
			db = db.Where("featured = ?", *f.Featured)
		}
		if f.IsActive != nil {
			db = db.Where("is_active = ?", *f.IsActive)
		}
		return db
	}
}

func (r *GormRepo) ListGalleryItems(ctx context.Context, f repo.GalleryFilter, p repo.Page) ([]models.GalleryItem, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.GalleryItem{}).
		Scopes(galleryScope(f)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.GalleryItem, 0, p.Limit)
	if err := r.DB.WithContext(ctx).Model(&models.GalleryItem{}).
		Scopes(galleryScope(f), paginate(p)).
		Order("sort_index ASC").Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) UpdateGalleryItem(ctx context.Context, g *models.GalleryItem) error {
	res := r.DB.WithContext(ctx).Model(&models.GalleryItem{ID: g.ID}).
		Select("*").Omit("id", "created_at").
		Updates(g)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteGalleryItem(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.GalleryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
