package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/nail_salon/internal/apperr"
	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/mykafka"
	"github.com/Skotchmaster/nail_salon/internal/repo"
)

func newTestBookingService(t *testing.T) (*BookingService, *CatalogService, *recordingPublisher) {
	t.Helper()
	store := initTestStore(t)
	pub := &recordingPublisher{}
	return NewBookingService(store, store, pub), NewCatalogService(store, nil, nil), pub
}

func bookingFor(serviceID, date, slot string) BookingInput {
	return BookingInput{
		ServiceID: serviceID,
		Date:      date,
		TimeSlot:  slot,
		CustomerInfo: models.CustomerInfo{
			FirstName: "Ann",
			LastName:  "Lee",
			Email:     "Ann@Example.com",
			Phone:     "+1 (555) 010-0000",
		},
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2026-03-01", want: "2026-03-01"},
		{in: " 2026-03-01 ", want: "2026-03-01"},
		{in: "2026-03-01T10:00:00Z", want: "2026-03-01"},
		{in: "2026-03-01T01:00:00+03:00", want: "2026-02-28"},
		{in: "01/03/2026", wantErr: true},
		{in: "2026-02-30", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeDate(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, apperr.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookingService_Create(t *testing.T) {
	bookings, catalog, pub := newTestBookingService(t)
	ctx := context.Background()

	s, err := catalog.Create(ctx, gelManicure())
	require.NoError(t, err)

	b, err := bookings.Create(ctx, bookingFor(s.ID, "2026-03-01T12:00:00Z", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, b.Status)
	assert.Equal(t, "2026-03-01", b.Date)
	assert.Equal(t, "ann@example.com", b.CustomerInfo.Email)

	got, err := bookings.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ServiceID, got.ServiceID)

	assert.Equal(t, []string{"booking_created"}, pub.types())
	assert.Equal(t, []string{mykafka.TopicBookings}, pub.topics)
}

func TestBookingService_Create_SlotConflict(t *testing.T) {
	bookings, catalog, _ := newTestBookingService(t)
	ctx := context.Background()

	s, err := catalog.Create(ctx, gelManicure())
	require.NoError(t, err)

	first, err := bookings.Create(ctx, bookingFor(s.ID, "2026-03-01", "10:00"))
	require.NoError(t, err)

	_, err = bookings.Create(ctx, bookingFor(s.ID, "2026-03-01", "10:00"))
	require.ErrorIs(t, err, apperr.ErrConflict)

	// other date, same slot is fine
	_, err = bookings.Create(ctx, bookingFor(s.ID, "2026-03-02", "10:00"))
	require.NoError(t, err)

	// cancelling frees the slot
	_, err = bookings.UpdateStatus(ctx, first.ID, models.BookingCancelled)
	require.NoError(t, err)
	_, err = bookings.Create(ctx, bookingFor(s.ID, "2026-03-01", "10:00"))
	require.NoError(t, err)
}

func TestBookingService_Create_Rejections(t *testing.T) {
	bookings, catalog, _ := newTestBookingService(t)
	ctx := context.Background()

	s, err := catalog.Create(ctx, gelManicure())
	require.NoError(t, err)
	inactive := gelManicure()
	inactive.IsActive = ptr(false)
	off, err := catalog.Create(ctx, inactive)
	require.NoError(t, err)

	_, err = bookings.Create(ctx, bookingFor("missing", "2026-03-01", "10:00"))
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = bookings.Create(ctx, bookingFor(off.ID, "2026-03-01", "10:00"))
	require.ErrorIs(t, err, apperr.ErrValidation)

	tests := []struct {
		name   string
		mutate func(in *BookingInput)
	}{
		{name: "slot before opening", mutate: func(in *BookingInput) { in.TimeSlot = "08:30" }},
		{name: "slot after closing", mutate: func(in *BookingInput) { in.TimeSlot = "18:00" }},
		{name: "slot off grid", mutate: func(in *BookingInput) { in.TimeSlot = "10:15" }},
		{name: "bad date", mutate: func(in *BookingInput) { in.Date = "tomorrow" }},
		{name: "no service", mutate: func(in *BookingInput) { in.ServiceID = " " }},
		{name: "no first name", mutate: func(in *BookingInput) { in.CustomerInfo.FirstName = "" }},
		{name: "no last name", mutate: func(in *BookingInput) { in.CustomerInfo.LastName = "" }},
		{name: "bad email", mutate: func(in *BookingInput) { in.CustomerInfo.Email = "ann" }},
		{name: "bad phone", mutate: func(in *BookingInput) { in.CustomerInfo.Phone = "call me" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := bookingFor(s.ID, "2026-03-01", "11:00")
			tt.mutate(&in)
			_, err := bookings.Create(ctx, in)
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestBookingService_ListAndUpdateStatus(t *testing.T) {
	bookings, catalog, pub := newTestBookingService(t)
	ctx := context.Background()

	s, err := catalog.Create(ctx, gelManicure())
	require.NoError(t, err)
	a, err := bookings.Create(ctx, bookingFor(s.ID, "2026-03-01", "09:00"))
	require.NoError(t, err)
	_, err = bookings.Create(ctx, bookingFor(s.ID, "2026-03-02", "09:00"))
	require.NoError(t, err)

	updated, err := bookings.UpdateStatus(ctx, a.ID, models.BookingConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, updated.Status)

	confirmed := models.BookingConfirmed
	items, total, err := bookings.List(ctx, repo.BookingFilter{Status: &confirmed}, repo.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.ID, items[0].ID)

	_, total, err = bookings.List(ctx, repo.BookingFilter{Date: "2026-03-02T00:00:00Z"}, repo.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	bad := models.BookingStatus("lost")
	_, _, err = bookings.List(ctx, repo.BookingFilter{Status: &bad}, repo.Page{Page: 1, Limit: 10})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = bookings.UpdateStatus(ctx, a.ID, "lost")
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = bookings.UpdateStatus(ctx, "missing", models.BookingCompleted)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = bookings.Get(ctx, "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{"booking_created", "booking_created", "booking_status_updated"}, pub.types())
}
