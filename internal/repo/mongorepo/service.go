package mongorepo

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var catalogSort = bson.D{{Key: "sortIndex", Value: 1}, {Key: "createdAt", Value: -1}}

func (m *Mongo) CreateService(ctx context.Context, s *models.Service) error {
	const op = "mongorepo/CreateService"

	s.CreatedAt = toMS(s.CreatedAt)
	s.UpdatedAt = toMS(s.UpdatedAt)
	if _, err := m.services.InsertOne(ctx, s); err != nil {
		return mapErr(op, err)
	}
	return nil
}

func (m *Mongo) ServiceByID(ctx context.Context, id string) (*models.Service, error) {
	const op = "mongorepo/ServiceByID"

	var s models.Service
	if err := m.services.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&s); err != nil {
		return nil, mapErr(op, err)
	}
	return &s, nil
}

func serviceFilter(f repo.ServiceFilter) bson.D {
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
	if q := strings.TrimSpace(f.Search); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}
	return filter
}

func (m *Mongo) ListServices(ctx context.Context, f repo.ServiceFilter, p repo.Page) ([]models.Service, int64, error) {
	const op = "mongorepo/ListServices"

	items, total, err := findAll[models.Service](ctx, m.services, serviceFilter(f), p, catalogSort)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return items, total, nil
}

func (m *Mongo) UpdateService(ctx context.Context, s *models.Service) error {
	const op = "mongorepo/UpdateService"

	s.CreatedAt = toMS(s.CreatedAt)
	s.UpdatedAt = toMS(s.UpdatedAt)
	res, err := m.services.ReplaceOne(ctx, bson.D{{Key: "_id", Value: s.ID}}, s)
	if err != nil {
		return mapErr(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	}
	return nil
}

func (m *Mongo) DeleteService(ctx context.Context, id string) error {
	const op = "mongorepo/DeleteService"

	if err := deleteByID(ctx, m.services, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
