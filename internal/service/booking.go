package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/logging"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
	"github.com/Skotchmaster/nail_salon/internal/repo"
)

const dateLayout = "2006-01-02"

var (
	timeSlotRe = regexp.MustCompile(`^(09|1[0-7]):(00|30)$`)
	phoneRe    = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
)

type BookingService struct {
	Bookings repo.BookingRepository
	Services repo.ServiceRepository
	Events   Publisher
}

func NewBookingService(bookings repo.BookingRepository, services repo.ServiceRepository, events Publisher) *BookingService {
	return &BookingService{Bookings: bookings, Services: services, Events: events}
}

type BookingInput struct {
	ServiceID    string              `json:"serviceId"`
	Date         string              `json:"date"`
	TimeSlot     string              `json:"timeSlot"`
	CustomerInfo models.CustomerInfo `json:"customerInfo"`
	Notes        string              `json:"notes,omitempty"`
}

// NormalizeDate accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns
// the calendar date.
func NormalizeDate(v string) (string, error) {
	v = strings.TrimSpace(v)
	if d, err := time.Parse(dateLayout, v); err == nil {
		return d.Format(dateLayout), nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		return ts.UTC().Format(dateLayout), nil
	}
	return "", invalid("date must be an ISO date (YYYY-MM-DD)")
}

func (in *BookingInput) validate() error {
	in.ServiceID = strings.TrimSpace(in.ServiceID)
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	in.Notes = strings.TrimSpace(in.Notes)
	ci := &in.CustomerInfo
	ci.FirstName = strings.TrimSpace(ci.FirstName)
	ci.LastName = strings.TrimSpace(ci.LastName)
	ci.Email = normalizeEmail(ci.Email)
	ci.Phone = strings.TrimSpace(ci.Phone)

	if in.ServiceID == "" {
		return invalid("serviceId is required")
	}
	date, err := NormalizeDate(in.Date)
	if err != nil {
		return err
	}
	in.Date = date

	switch {
	case !timeSlotRe.MatchString(in.TimeSlot):
		return invalid("timeSlot must be between 09:00-17:30 in 30-minute intervals")
	case ci.FirstName == "":
		return invalid("customerInfo.firstName is required")
	case ci.LastName == "":
		return invalid("customerInfo.lastName is required")
	case !validEmail(ci.Email):
		return invalid("customerInfo.email must be a valid address")
	case !phoneRe.MatchString(ci.Phone):
		return invalid("customerInfo.phone must be a valid phone number")
	}
	return nil
}

// Create books a slot for a customer. A slot held by any non-cancelled
// booking on the same date is a conflict.
func (b *BookingService) Create(ctx context.Context, in BookingInput) (*models.Booking, error) {
	l := logging.FromContext(ctx).With("svc", "bookings.create")

	if err := in.validate(); err != nil {
		return nil, err
	}

	svc, err := b.Services.ServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service")
	}
	if !svc.IsActive {
		return nil, invalid("service %s is not available for booking", svc.ID)
	}

	taken, err := b.Bookings.SlotTaken(ctx, in.Date, in.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if taken {
		l.Warn("booking_failed", "status", 409, "reason", "slot taken", "date", in.Date, "time_slot", in.TimeSlot)
		return nil, fmt.Errorf("%w: time slot %s on %s is already booked", apperr.ErrConflict, in.TimeSlot, in.Date)
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:           uuid.NewString(),
		ServiceID:    svc.ID,
		Date:         in.Date,
		TimeSlot:     in.TimeSlot,
		CustomerInfo: in.CustomerInfo,
		Notes:        in.Notes,
		Status:       models.BookingPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := b.Bookings.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	l.Info("booking_created", "booking_id", booking.ID, "service_id", svc.ID)
	publish(ctx, b.Events, mykafka.TopicBookings, "booking_created", booking.ID, booking)
	return booking, nil
}

func (b *BookingService) List(ctx context.Context, f repo.BookingFilter, p repo.Page) ([]models.Booking, int64, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, 0, invalid("unknown status %q", *f.Status)
	}
	if f.Date != "" {
		date, err := NormalizeDate(f.Date)
		if err != nil {
			return nil, 0, err
		}
		f.Date = date
	}
	return b.Bookings.ListBookings(ctx, f, p)
}

func (b *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := b.Bookings.BookingByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking")
	}
	return booking, nil
}

func (b *BookingService) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, invalid("status must be one of pending, confirmed, completed, cancelled")
	}

	booking, err := b.Bookings.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, notFound(err, "booking")
	}

	publish(ctx, b.Events, mykafka.TopicBookings, "booking_status_updated", booking.ID, map[string]any{
		"status": booking.Status,
	})
	return booking, nil
}
