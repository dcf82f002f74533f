package gormrepo

import (
	"context"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	return mapErr(r.DB.WithContext(ctx).Create(b).Error)
}

func (r *GormRepo) BookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func bookingScope(f repo.BookingFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Status != nil {
			db = db.Where("status = ?", *f.Status)
		}
		if f.ServiceID != "" {
			db = db.Where("service_id = ?", f.ServiceID)
		}
		if f.Date != "" {
			db = db.Where("date = ?", f.Date)
		}
		return db
	}
}

func (r *GormRepo) ListBookings(ctx context.Context, f repo.BookingFilter, p repo.Page) ([]models.Booking, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Scopes(bookingScope(f)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]models.Booking, 0, p.Limit)
	if err := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Scopes(bookingScope(f), paginate(p)).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	res := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, repo.ErrNotFound
	}
	return r.BookingByID(ctx, id)
}

func (r *GormRepo) SlotTaken(ctx context.Context, date, timeSlot string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("date = ? AND time_slot = ? AND status <> ?", date, timeSlot, models.BookingCancelled).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
