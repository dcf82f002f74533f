package mongorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *Mongo) CreateBooking(ctx context.Context, b *models.Booking) error {
	const op = "mongorepo/CreateBooking"

	b.CreatedAt = toMS(b.CreatedAt)
	b.UpdatedAt = toMS(b.UpdatedAt)
	if _, err := m.bookings.InsertOne(ctx, b); err != nil {
		return mapErr(op, err)
	}
	return nil
}

func (m *Mongo) BookingByID(ctx context.Context, id string) (*models.Booking, error) {
	const op = "mongorepo/BookingByID"

	var b models.Booking
	if err := m.bookings.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&b); err != nil {
		return nil, mapErr(op, err)
	}
	return &b, nil
}

func bookingFilter(f repo.BookingFilter) bson.D {
	filter := bson.D{}
	if f.Status != nil {
		filter = append(filter, bson.E{Key: "status", Value: *f.Status})
	}
	if f.ServiceID != "" {
		filter = append(filter, bson.E{Key: "serviceId", Value: f.ServiceID})
	}
	if f.Date != "" {
		filter = append(filter, bson.E{Key: "date", Value: f.Date})
	}
	return filter
}

func (m *Mongo) ListBookings(ctx context.Context, f repo.BookingFilter, p repo.Page) ([]models.Booking, int64, error) {
	const op = "mongorepo/ListBookings"

	items, total, err := findAll[models.Booking](ctx, m.bookings, bookingFilter(f), p, bson.D{{Key: "createdAt", Value: -1}})
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

func (m *Mongo) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	const op = "mongorepo/UpdateBookingStatus"

	var b models.Booking
	err := m.bookings.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: status},
			{Key: "updatedAt", Value: toMS(time.Now())},
		}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return &b, nil
}

func (m *Mongo) SlotTaken(ctx context.Context, date, timeSlot string) (bool, error) {
	const op = "mongorepo/SlotTaken"

	n, err := m.bookings.CountDocuments(ctx, bson.D{
		{Key: "date", Value: date},
		{Key: "timeSlot", Value: timeSlot},
		{Key: "status", Value: bson.D{{Key: "$ne", Value: models.BookingCancelled}}},
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
