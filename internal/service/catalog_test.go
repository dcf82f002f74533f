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

func gelManicure() ServiceInput {
	return ServiceInput{
		Name:        ptr("Gel manicure"),
		Description: ptr("Long lasting gel polish"),
		Price:       ptr(35.0),
		Duration:    ptr(60),
		Category:    ptr(models.ServiceManicure),
	}
}

func TestCatalogService_Create(t *testing.T) {
	store := initTestStore(t)
	pub := &recordingPublisher{}
	idx := newFakeIndex()
	svc := NewCatalogService(store, idx, pub)
	ctx := context.Background()

	s, err := svc.Create(ctx, gelManicure())
	require.NoError(t, err)
	require.NotEmpty(t, s.ID)
	assert.True(t, s.IsActive, "new services default to active")
	assert.False(t, s.Featured)
	assert.Equal(t, 60, s.Duration)

	got, err := svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gel manicure", got.Name)

	assert.Contains(t, idx.indexed, s.ID)
	assert.Equal(t, []string{"service_created"}, pub.types())
	assert.Equal(t, []string{mykafka.TopicCatalog}, pub.topics)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	svc := NewCatalogService(initTestStore(t), nil, nil)

	tests := []struct {
		name   string
		mutate func(in *ServiceInput)
	}{
		{name: "missing name", mutate: func(in *ServiceInput) { in.Name = nil }},
		{name: "blank description", mutate: func(in *ServiceInput) { in.Description = ptr("  ") }},
		{name: "negative price", mutate: func(in *ServiceInput) { in.Price = ptr(-1.0) }},
		{name: "short duration", mutate: func(in *ServiceInput) { in.Duration = ptr(10) }},
		{name: "missing category", mutate: func(in *ServiceInput) { in.Category = nil }},
		{name: "unknown category", mutate: func(in *ServiceInput) { in.Category = ptr(models.ServiceCategory("waxing")) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := gelManicure()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), in)
			require.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestCatalogService_Update_IsPartial(t *testing.T) {
	store := initTestStore(t)
	pub := &recordingPublisher{}
	svc := NewCatalogService(store, nil, pub)
	ctx := context.Background()

	s, err := svc.Create(ctx, gelManicure())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, s.ID, ServiceInput{Price: ptr(40.0), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.Price)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Gel manicure", updated.Name)

	got, err := svc.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 40.0, got.Price)
	assert.False(t, got.IsActive)

	_, err = svc.Update(ctx, s.ID, ServiceInput{Duration: ptr(5)})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Update(ctx, "missing", ServiceInput{Price: ptr(1.0)})
	require.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, []string{"service_created", "service_updated"}, pub.types())
}

func TestCatalogService_Delete(t *testing.T) {
	store := initTestStore(t)
	idx := newFakeIndex()
	pub := &recordingPublisher{}
	svc := NewCatalogService(store, idx, pub)
	ctx := context.Background()

	s, err := svc.Create(ctx, gelManicure())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, s.ID))
	_, err = svc.Get(ctx, s.ID)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, []string{s.ID}, idx.deleted)

	require.ErrorIs(t, svc.Delete(ctx, s.ID), apperr.ErrNotFound)
	assert.Equal(t, []string{"service_created", "service_deleted"}, pub.types())
}

func TestCatalogService_List_Filters(t *testing.T) {
	svc := NewCatalogService(initTestStore(t), nil, nil)
	ctx := context.Background()

	for _, in := range []ServiceInput{
		gelManicure(),
		{Name: ptr("Spa pedicure"), Description: ptr("Relaxing"), Price: ptr(50.0), Duration: ptr(90), Category: ptr(models.ServicePedicure), Featured: ptr(true)},
		{Name: ptr("Nail art"), Description: ptr("Hand painted"), Price: ptr(20.0), Duration: ptr(30), Category: ptr(models.ServiceNailArt), IsActive: ptr(false)},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, total, err := svc.List(ctx, repo.ServiceFilter{}, repo.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	cat := models.ServicePedicure
	items, total, err := svc.List(ctx, repo.ServiceFilter{Category: &cat}, repo.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Spa pedicure", items[0].Name)

	active := true
	_, total, err = svc.List(ctx, repo.ServiceFilter{IsActive: &active}, repo.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	bad := models.ServiceCategory("waxing")
	_, _, err = svc.List(ctx, repo.ServiceFilter{Category: &bad}, repo.Page{Page: 1, Limit: 10})
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCatalogService_Search(t *testing.T) {
	ctx := context.Background()
	page := repo.Page{Page: 1, Limit: 10}

	t.Run("repository fallback sees only active services", func(t *testing.T) {
		svc := NewCatalogService(initTestStore(t), nil, nil)
		_, err := svc.Create(ctx, gelManicure())
		require.NoError(t, err)
		in := gelManicure()
		in.Name = ptr("Gel removal")
		in.IsActive = ptr(false)
		_, err = svc.Create(ctx, in)
		require.NoError(t, err)

		items, total, err := svc.Search(ctx, "GEL", page)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Gel manicure", items[0].Name)
	})

	t.Run("index answers when healthy", func(t *testing.T) {
		idx := newFakeIndex()
		svc := NewCatalogService(initTestStore(t), idx, nil)
		s, err := svc.Create(ctx, gelManicure())
		require.NoError(t, err)

		items, total, err := svc.Search(ctx, "anything", page)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, s.ID, items[0].ID)
	})

	t.Run("index failure falls back", func(t *testing.T) {
		idx := newFakeIndex()
		svc := NewCatalogService(initTestStore(t), idx, nil)
		_, err := svc.Create(ctx, gelManicure())
		require.NoError(t, err)
		idx.fail = true

		_, total, err := svc.Search(ctx, "polish", page)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)

		_, total, err = svc.Search(ctx, "pedicure", page)
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})

	t.Run("empty query", func(t *testing.T) {
		svc := NewCatalogService(initTestStore(t), nil, nil)
		_, _, err := svc.Search(ctx, "   ", page)
		require.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestCatalogService_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := initTestStore(t)
	pub := &recordingPublisher{err: assert.AnError}
	svc := NewCatalogService(store, nil, pub)

	s, err := svc.Create(context.Background(), gelManicure())
	require.NoError(t, err)
	_, err = store.ServiceByID(context.Background(), s.ID)
	require.NoError(t, err)
}
