package gormrepo

import (
	"context"
	"strings"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateService(ctx context.Context, s *models.Service) error {
	return mapErr(r.DB.WithContext(ctx).Create(s).Error)
}

func (r *GormRepo) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	var s models.Service
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, mapErr(err)
	}
	return &s, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func serviceScope(f repo.ServiceFilter) func(*gorm.DB) *gorm.DB {
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
		if q := strings.TrimSpace(f.Search); q != "" {
			like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
			db = db.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, like, like)
		}
		return db
	}
}

func (r *GormRepo) ListServices(ctx context.Context, f repo.ServiceFilter, p repo.Page) ([]models.Service, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Service{}).
		Scopes(serviceScope(f)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Service, 0, p.Limit)
	if err := r.DB.WithContext(ctx).Model(&models.Service{}).
		Scopes(serviceScope(f), paginate(p)).
		Order("sort_index ASC").Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) UpdateService(ctx context.Context, s *models.Service) error {
	res := r.DB.WithContext(ctx).Model(&models.Service{ID: s.ID}).
		Select("*").Omit("id", "created_at").
		Updates(s)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GormRepo) DeleteService(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Service{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
