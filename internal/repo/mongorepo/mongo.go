// Package mongorepo implements repo.Store on MongoDB.
package mongorepo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Skotchmaster/nail_salon/internal/repo"
	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	adminsCollection   = "admins"
	servicesCollection = "services"
	bookingsCollection = "bookings"
	galleryCollection  = "gallery"
	defaultDBName      = "nail_salon"
)

type Mongo struct {
	client   *mongodriver.Client
	db       *mongodriver.Database
	admins   *mongodriver.Collection
	services *mongodriver.Collection
	bookings *mongodriver.Collection
	gallery  *mongodriver.Collection
}

var _ repo.Store = (*Mongo)(nil)

// New connects, pings the primary and makes sure the indexes exist.
func New(ctx context.Context, uri string, maxPoolSize uint64) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty uri")
	}

	opts := options.Client().ApplyURI(uri)
	if maxPoolSize > 0 {
		opts.SetMaxPoolSize(maxPoolSize)
	}

	cli, err := mongodriver.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))
	m := &Mongo{
		client:   cli,
		db:       db,
		admins:   db.Collection(adminsCollection),
		services: db.Collection(servicesCollection),
		bookings: db.Collection(bookingsCollection),
		gallery:  db.Collection(galleryCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}
	return m, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	byCollection := map[*mongodriver.Collection][]mongodriver.IndexModel{
		m.admins: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique").SetUnique(true),
			},
		},
		m.services: {
			{
				Keys:    bson.D{{Key: "sortIndex", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("sort_created"),
			},
			{
				Keys:    bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}},
				Options: options.Index().SetName("category_active"),
			},
		},
		m.bookings: {
			{
				Keys:    bson.D{{Key: "date", Value: 1}, {Key: "timeSlot", Value: 1}},
				Options: options.Index().SetName("date_slot"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_desc"),
			},
		},
		m.gallery: {
			{
				Keys:    bson.D{{Key: "sortIndex", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("sort_created"),
			},
		},
	}

	for coll, models := range byCollection {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo ensure indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// databaseFromURI takes the database name from the URI path, falling back to
// defaultDBName.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

// toMS matches the millisecond precision of BSON dates.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

func mapErr(op string, err error) error {
	switch {
	case errors.Is(err, mongodriver.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, repo.ErrNotFound)
	case mongodriver.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, repo.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func findPage(p repo.Page, sort bson.D) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
}

func findAll[T any](ctx context.Context, coll *mongodriver.Collection, filter bson.D, p repo.Page, sort bson.D) ([]T, int64, error) {
	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	cur, err := coll.Find(ctx, filter, findPage(p, sort))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := make([]T, 0, p.Limit)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func deleteByID(ctx context.Context, coll *mongodriver.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}
