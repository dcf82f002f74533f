package gormrepo

import (
	"context"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
)

func (r *GormRepo) CreateAdmin(ctx context.Context, a *models.Admin) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Admin{}).
		Where("email = ?", a.Email).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return repo.ErrDuplicate
	}
	return mapErr(r.DB.WithContext(ctx).Create(a).Error)
}

func (r *GormRepo) AdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, mapErr(err)
	}
	return &admin, nil
}

func (r *GormRepo) AdminByID(ctx context.Context, id string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&admin).Error; err != nil {
		return nil, mapErr(err)
	}
	return &admin, nil
}

func (r *GormRepo) SetRefreshHash(ctx context.Context, id, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{"refresh_token_hash": hash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GormRepo) RotateRefreshHash(ctx context.Context, id, oldHash, newHash string) error {
	if oldHash == "" {
		return repo.ErrNotFound
	}
	res := r.DB.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldHash).
		Updates(map[string]any{"refresh_token_hash": newHash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *GormRepo) ClearRefreshHash(ctx context.Context, id string) error {
	res := r.DB.WithContext(ctx).Model(&models.Admin{}).
		Where("id = ?", id).
		Updates(map[string]any{"refresh_token_hash": "", "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
