// Package repo declares the persistence contracts shared by the mongo and
// gorm backends.
package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/nail_salon/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Page is a 1-based page request. Callers validate bounds.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type ServiceFilter struct {
	Category *models.ServiceCategory
	Featured *bool
	IsActive *bool
	// Search is a case-insensitive substring match on name or description.
	Search string
}

type BookingFilter struct {
	Status    *models.BookingStatus
	ServiceID string
	Date      string
}

type GalleryFilter struct {
	Category *models.GalleryCategory
	Featured *bool
	IsActive *bool
}

type AdminRepository interface {
	CreateAdmin(ctx context.Context, a *models.Admin) error
	AdminByEmail(ctx context.Context, email string) (*models.Admin, error)
	AdminByID(ctx context.Context, id string) (*models.Admin, error)
	// SetRefreshHash overwrites whatever session the admin had.
	SetRefreshHash(ctx context.Context, id, hash string) error
	// RotateRefreshHash replaces oldHash with newHash only if oldHash is still
	// the stored value; otherwise it returns ErrNotFound.
	RotateRefreshHash(ctx context.Context, id, oldHash, newHash string) error
	ClearRefreshHash(ctx context.Context, id string) error
}

type ServiceRepository interface {
	CreateService(ctx context.Context, s *models.Service) error
	ServiceByID(ctx context.Context, id string) (*models.Service, error)
	ListServices(ctx context.Context, f ServiceFilter, p Page) ([]models.Service, int64, error)
	UpdateService(ctx context.Context, s *models.Service) error
	DeleteService(ctx context.Context, id string) error
}

type BookingRepository interface {
	CreateBooking(ctx context.Context, b *models.Booking) error
	BookingByID(ctx context.Context, id string) (*models.Booking, error)
	ListBookings(ctx context.Context, f BookingFilter, p Page) ([]models.Booking, int64, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)
	// SlotTaken reports whether a non-cancelled booking holds date+timeSlot.
	SlotTaken(ctx context.Context, date, timeSlot string) (bool, error)
}

type GalleryRepository interface {
	CreateGalleryItem(ctx context.Context, g *models.GalleryItem) error
	GalleryItemByID(ctx context.Context, id string) (*models.GalleryItem, error)
	ListGalleryItems(ctx context.Context, f GalleryFilter, p Page) ([]models.GalleryItem, int64, error)
	UpdateGalleryItem(ctx context.Context, g *models.GalleryItem) error
	DeleteGalleryItem(ctx context.Context, id string) error
}

// Store bundles every repository a backend provides.
type Store interface {
	AdminRepository
	ServiceRepository
	BookingRepository
	GalleryRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
