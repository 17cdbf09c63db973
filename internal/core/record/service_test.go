// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/kumiko/internal/core/collection"
	"github.com/taibuivan/kumiko/internal/core/record"
	"github.com/taibuivan/kumiko/internal/platform/apperr"
	"github.com/taibuivan/kumiko/internal/platform/dberr"
)

// # Stub Collaborators

type stubRepository struct {
	byID    map[string]*record.Record
	created []*record.Record
	updated []*record.Record
}

func (s *stubRepository) List(_ context.Context, _, _ string, _, _ int) ([]*record.Record, int, error) {
	return nil, 0, nil
}

func (s *stubRepository) FindByID(_ context.Context, _, _, id string) (*record.Record, error) {
	if entity, ok := s.byID[id]; ok {
		return entity, nil
	}
	return nil, dberr.ErrNotFound
}

func (s *stubRepository) Create(_ context.Context, entity *record.Record) error {
	s.created = append(s.created, entity)
	return nil
}

func (s *stubRepository) Update(_ context.Context, entity *record.Record) error {
	s.updated = append(s.updated, entity)
	return nil
}

func (s *stubRepository) Delete(_ context.Context, _, _, _ string) error {
	return nil
}

type stubSchemas struct {
	schema *collection.Collection
}

func (s *stubSchemas) FindByID(_ context.Context, _, id string) (*collection.Collection, error) {
	if s.schema != nil && s.schema.ID == id {
		return s.schema, nil
	}
	return nil, dberr.ErrNotFound
}

// expenseSchema declares a required text field, an optional number, and a
// text field with a default.
func expenseSchema() *collection.Collection {
	return &collection.Collection{
		ID:          "col-456",
		WorkspaceID: "ws-123",
		Slug:        "expenses",
		Fields: []collection.Field{
			{Slug: "title", Type: collection.TypeText, IsRequired: true},
			{Slug: "amount", Type: collection.TypeNumber},
			{Slug: "status", Type: collection.TypeText, Default: "draft"},
		},
	}
}

func newService(repo *stubRepository) *record.Service {
	return record.NewService(repo, &stubSchemas{schema: expenseSchema()}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// # Create

/*
TestService_Create_Normalizes checks that a valid document is persisted with
defaults applied and authorship stamped.
*/
func TestService_Create_Normalizes(t *testing.T) {
	repo := &stubRepository{}
	service := newService(repo)

	entity, err := service.Create(context.Background(), "ws-123", "col-456",
		map[string]any{"title": "Coffee", "amount": "4.50"}, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, entity.ID)
	assert.Equal(t, "col-456", entity.CollectionID)
	assert.Equal(t, "Coffee", entity.Data["title"])
	assert.Equal(t, 4.5, entity.Data["amount"])
	assert.Equal(t, "draft", entity.Data["status"])
	require.NotNil(t, entity.CreatedBy)
	assert.Equal(t, "user-1", *entity.CreatedBy)
	assert.Len(t, repo.created, 1)
}

/*
TestService_Create_AccumulatesFailures checks that every schema violation is
reported in one validation error and nothing is persisted.
*/
func TestService_Create_AccumulatesFailures(t *testing.T) {
	repo := &stubRepository{}
	service := newService(repo)

	_, err := service.Create(context.Background(), "ws-123", "col-456",
		map[string]any{"amount": "not-a-number", "ghost": true}, "user-1")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)

	// Missing required title, uncoercible amount, unknown key.
	assert.Len(t, appError.Details, 3)
	assert.Empty(t, repo.created)
}

// # Patch

/*
TestService_Patch_MergesDocument checks that a partial update overwrites only
the provided keys and never applies defaults.
*/
func TestService_Patch_MergesDocument(t *testing.T) {
	repo := &stubRepository{
		byID: map[string]*record.Record{
			"rec-1": {
				ID:           "rec-1",
				WorkspaceID:  "ws-123",
				CollectionID: "col-456",
				Data:         map[string]any{"title": "Coffee", "amount": 4.5, "status": "submitted"},
			},
		},
	}
	service := newService(repo)

	entity, err := service.Patch(context.Background(), "ws-123", "col-456", "rec-1",
		map[string]any{"amount": 6}, "user-2")
	require.NoError(t, err)

	assert.Equal(t, "Coffee", entity.Data["title"])
	assert.Equal(t, 6.0, entity.Data["amount"])
	assert.Equal(t, "submitted", entity.Data["status"])
	require.NotNil(t, entity.UpdatedBy)
	assert.Equal(t, "user-2", *entity.UpdatedBy)
	assert.Len(t, repo.updated, 1)
}

/*
TestService_Patch_UnknownRecord checks the not-found path before validation.
*/
func TestService_Patch_UnknownRecord(t *testing.T) {
	service := newService(&stubRepository{})

	_, err := service.Patch(context.Background(), "ws-123", "col-456", "ghost",
		map[string]any{"amount": 1}, "user-2")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
