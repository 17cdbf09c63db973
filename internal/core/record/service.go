// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kumiko/internal/core/collection"
	"github.com/taibuivan/kumiko/internal/platform/apperr"
	"github.com/taibuivan/kumiko/pkg/uuidv7"
)

// # Collaborator Contracts

// SchemaProvider loads the field definitions a document is validated
// against. The collection package provides the production implementation.
type SchemaProvider interface {
	FindByID(context context.Context, workspaceID, id string) (*collection.Collection, error)
}

// # Service Layer

// Service orchestrates record writes through schema validation.
type Service struct {
	repo    Repository
	schemas SchemaProvider
	logger  *slog.Logger
}

// NewService constructs a new record [Service].
func NewService(repo Repository, schemas SchemaProvider, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		schemas: schemas,
		logger:  logger,
	}
}

// # Record Reads

/*
List retrieves a paginated list of a collection's records.

Parameters:
  - context: context.Context
  - workspaceID, collectionID: string
  - limit, offset: int

Returns:
  - []*Record: Newest records first
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) List(context context.Context, workspaceID, collectionID string, limit, offset int) ([]*Record, int, error) {
	return service.repo.List(context, workspaceID, collectionID, limit, offset)
}

/*
Get retrieves a single record.

Parameters:
  - context: context.Context
  - workspaceID, collectionID, id: string

Returns:
  - *Record: Hydrated entity
  - error: ErrNotFound if missing
*/
func (service *Service) Get(context context.Context, workspaceID, collectionID, id string) (*Record, error) {
	return service.repo.FindByID(context, workspaceID, collectionID, id)
}

// # Record Writes

/*
Create validates a candidate document against the collection's schema and
persists it.

Description: The document is validated in create mode: required fields must
be present, defaults fill absent keys, and unknown keys are rejected. All
field failures are accumulated into one validation error rather than
reported one at a time.

Parameters:
  - context: context.Context
  - workspaceID, collectionID: string
  - document: map[string]any (candidate document keyed by field slug)
  - authorID: string (creating principal)

Returns:
  - *Record: The persisted record with the normalized document
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, workspaceID, collectionID string, document map[string]any, authorID string) (*Record, error) {
	schema, err := service.schemas.FindByID(context, workspaceID, collectionID)
	if err != nil {
		return nil, err
	}

	normalized, failures := ValidateDocument(schema.Fields, document, ModeCreate)
	if len(failures) > 0 {
		return nil, apperr.ValidationError("Record validation failed", failures...)
	}

	entity := &Record{
		ID:           uuidv7.New(),
		WorkspaceID:  workspaceID,
		CollectionID: schema.ID,
		Data:         normalized,
		CreatedBy:    &authorID,
		UpdatedBy:    &authorID,
	}

	if err := service.repo.Create(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("record_created",
		slog.String("record_id", entity.ID),
		slog.String("collection_id", schema.ID),
		slog.String("workspace_id", workspaceID),
	)

	return entity, nil
}

/*
Patch validates a partial document and merges it into an existing record.

Description: Update mode validates only the provided keys; defaults never
apply and unknown keys pass through untouched. Provided keys overwrite the
stored document key-by-key, so omitting a field leaves its value intact.

Parameters:
  - context: context.Context
  - workspaceID, collectionID, id: string
  - document: map[string]any (partial document)
  - editorID: string (mutating principal)

Returns:
  - *Record: The persisted record with the merged document
  - error: Validation or persistence failures
*/
func (service *Service) Patch(context context.Context, workspaceID, collectionID, id string, document map[string]any, editorID string) (*Record, error) {
	schema, err := service.schemas.FindByID(context, workspaceID, collectionID)
	if err != nil {
		return nil, err
	}

	entity, err := service.repo.FindByID(context, workspaceID, schema.ID, id)
	if err != nil {
		return nil, err
	}

	normalized, failures := ValidateDocument(schema.Fields, document, ModeUpdate)
	if len(failures) > 0 {
		return nil, apperr.ValidationError("Record validation failed", failures...)
	}

	if entity.Data == nil {
		entity.Data = make(map[string]any, len(normalized))
	}
	for key, value := range normalized {
		entity.Data[key] = value
	}
	entity.UpdatedBy = &editorID

	if err := service.repo.Update(context, entity); err != nil {
		return nil, err
	}

	service.logger.Info("record_updated",
		slog.String("record_id", entity.ID),
		slog.String("collection_id", schema.ID),
	)

	return entity, nil
}

/*
Delete removes a record.

Parameters:
  - context: context.Context
  - workspaceID, collectionID, id: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Delete(context context.Context, workspaceID, collectionID, id string) error {
	if err := service.repo.Delete(context, workspaceID, collectionID, id); err != nil {
		return err
	}

	service.logger.Info("record_deleted",
		slog.String("record_id", id),
		slog.String("collection_id", collectionID),
	)

	return nil
}
