package mongorepo

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/models"
	"github.com/Skotchmaster/nail_salon/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
)

func (m *Mongo) CreateAdmin(ctx context.Context, a *models.Admin) error {
	const op = "mongorepo/CreateAdmin"

	a.CreatedAt = toMS(a.CreatedAt)
	a.UpdatedAt = toMS(a.UpdatedAt)
	if _, err := m.admins.InsertOne(ctx, a); err != nil {
		return mapErr(op, err)
	}
	return nil
}

func (m *Mongo) AdminByEmail(ctx context.Context, email string) (*models.Admin, error) {
	const op = "mongorepo/AdminByEmail"

	var a models.Admin
	if err := m.admins.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&a); err != nil {
		return nil, mapErr(op, err)
	}
	return &a, nil
}

func (m *Mongo) AdminByID(ctx context.Context, id string) (*models.Admin, error) {
	const op = "mongorepo/AdminByID"

	var a models.Admin
	if err := m.admins.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&a); err != nil {
		return nil, mapErr(op, err)
	}
	return &a, nil
}

func (m *Mongo) SetRefreshHash(ctx context.Context, id, hash string) error {
	const op = "mongorepo/SetRefreshHash"

	res, err := m.admins.UpdateByID(ctx, id, bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "refreshTokenHash", Value: hash},
			{Key: "updatedAt", Value: toMS(time.Now())},
		}},
	})
	if err != nil {
		return mapErr(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	}
	return nil
}

func (m *Mongo) RotateRefreshHash(ctx context.Context, id, oldHash, newHash string) error {
	const op = "mongorepo/RotateRefreshHash"

	if oldHash == "" {
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	}

	res, err := m.admins.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}, {Key: "refreshTokenHash", Value: oldHash}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "refreshTokenHash", Value: newHash},
			{Key: "updatedAt", Value: toMS(time.Now())},
		}}},
	)
	if err != nil {
		return mapErr(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	}
	return nil
}

func (m *Mongo) ClearRefreshHash(ctx context.Context, id string) error {
	const op = "mongorepo/ClearRefreshHash"

	res, err := m.admins.UpdateByID(ctx, id, bson.D{
		{Key: "$unset", Value: bson.D{{Key: "refreshTokenHash", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: toMS(time.Now())}}},
	})
	if err != nil {
		return mapErr(op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	}
	return nil
}
