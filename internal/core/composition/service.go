// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package composition

import (
	"context"
	"log/slog"

	"github.com/taibuivan/kumiko/internal/core/workspace"
	"github.com/taibuivan/kumiko/internal/engine"
	"github.com/taibuivan/kumiko/internal/platform/constants"
	"github.com/taibuivan/kumiko/internal/platform/validate"
	"github.com/taibuivan/kumiko/pkg/slug"
	"github.com/taibuivan/kumiko/pkg/uuidv7"
)

// # Collaborator Contracts

// WorkspaceResolver maps public workspace slugs to tenants. The workspace
// package provides the production implementation.
type WorkspaceResolver interface {
	GetBySlug(context context.Context, slug string) (*workspace.Workspace, error)
}

// CollectionResolver maps collection slugs to ids inside one workspace. The
// collection package provides the production implementation.
type CollectionResolver interface {
	ResolveSlugs(context context.Context, workspaceID string, slugs []string) (map[string]string, error)
}

// # Service Layer

// Service orchestrates composition lifecycle and execution.
type Service struct {
	repo        Repository
	workspaces  WorkspaceResolver
	collections CollectionResolver
	querier     engine.RowQuerier
	cache       LookupCache
	logger      *slog.Logger
}

// NewService constructs a new composition [Service].
func NewService(
	repo Repository,
	workspaces WorkspaceResolver,
	collections CollectionResolver,
	querier engine.RowQuerier,
	cache LookupCache,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:        repo,
		workspaces:  workspaces,
		collections: collections,
		querier:     querier,
		cache:       cache,
		logger:      logger,
	}
}

// # Cache Keys

// workspaceCacheKey addresses the slug-resolution entry for a workspace.
func workspaceCacheKey(slug string) string {
	return constants.RedisPrefixWorkspace + slug
}

// compositionCacheKey addresses a composition's hot-path entry.
func compositionCacheKey(workspaceID, slug string) string {
	return constants.RedisPrefixComposition + workspaceID + ":" + slug
}

// # Composition Management

/*
List retrieves a paginated list of a workspace's compositions.

Parameters:
  - context: context.Context
  - workspaceID: string
  - limit, offset: int

Returns:
  - []*Composition: List of compositions
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) List(context context.Context, workspaceID string, limit, offset int) ([]*Composition, int, error) {
	return service.repo.List(context, workspaceID, limit, offset)
}

/*
Get retrieves a composition by its UUID or slug identifier.

Parameters:
  - context: context.Context
  - workspaceID: string
  - identifier: string

Returns:
  - *Composition: Hydrated entity including Config
  - error: ErrNotFound if missing
*/
func (service *Service) Get(context context.Context, workspaceID, identifier string) (*Composition, error) {

	// Discriminator: ID vs Slug
	// UUIDs have a fixed length of 36 characters in standard hyphenated format.
	if len(identifier) == 36 {
		return service.repo.FindByID(context, workspaceID, identifier)
	}

	return service.repo.FindBySlug(context, workspaceID, identifier)
}

/*
Create registers a new composition.

Description: The slug is derived from the name in lower-kebab form, making it
URL-addressable via the public execute endpoint. The access level defaults to
private so a half-built composition is never publicly reachable, and the
config is compiled once against placeholder ids to reject specs the engine
cannot build.

Parameters:
  - context: context.Context
  - entity: *Composition (Name, Config, and optionally AccessLevel supplied)
  - authorID: string (creating principal)

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, entity *Composition, authorID string) error {
	if entity.AccessLevel == "" {
		entity.AccessLevel = AccessPrivate
	}

	if err := service.validateSpec(entity); err != nil {
		return err
	}

	entity.Slug = slug.From(entity.Name)
	if entity.Slug == "" {
		return validate.RequiredError(FieldSlug, "Name must contain at least one usable character")
	}

	entity.ID = uuidv7.New()
	entity.IsActive = true
	entity.CreatedBy = &authorID
	entity.UpdatedBy = &authorID

	if err := service.repo.Create(context, entity); err != nil {
		return err
	}

	service.logger.Info("composition_created",
		slog.String("composition_id", entity.ID),
		slog.String("workspace_id", entity.WorkspaceID),
		slog.String("slug", entity.Slug),
	)

	return nil
}

/*
Update overwrites a composition's attributes and config. The slug is
immutable: external callers address the composition by it.

Parameters:
  - context: context.Context
  - entity: *Composition
  - editorID: string (mutating principal)

Returns:
  - error: Validation or persistence failures
*/
func (service *Service) Update(context context.Context, entity *Composition, editorID string) error {
	if err := service.validateSpec(entity); err != nil {
		return err
	}

	entity.UpdatedBy = &editorID

	if err := service.repo.Update(context, entity); err != nil {
		return err
	}

	// The repo backfills the immutable slug, so invalidation runs after.
	service.cache.Delete(context, compositionCacheKey(entity.WorkspaceID, entity.Slug))

	service.logger.Info("composition_updated",
		slog.String("composition_id", entity.ID),
		slog.String("workspace_id", entity.WorkspaceID),
	)

	return nil
}

/*
Delete removes a composition and drops its hot-path cache entry.

Parameters:
  - context: context.Context
  - workspaceID: string
  - id: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Delete(context context.Context, workspaceID, id string) error {

	// The slug is needed for cache invalidation, so load before deleting.
	entity, err := service.repo.FindByID(context, workspaceID, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, workspaceID, id); err != nil {
		return err
	}

	service.cache.Delete(context, compositionCacheKey(workspaceID, entity.Slug))

	service.logger.Info("composition_deleted",
		slog.String("composition_id", id),
		slog.String("workspace_id", workspaceID),
	)

	return nil
}

// # Spec Validation

// validateSpec checks the composition's own attributes and dry-compiles the
// config so unbuildable specs are rejected at write time, not at first
// execution. The dry run binds placeholder ids and maps every join slug, so
// only the spec's shape is exercised.
func (service *Service) validateSpec(entity *Composition) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, entity.Name).MaxLen(FieldName, entity.Name, 120)
	validator.Required(FieldFrom, entity.Config.From)
	validator.Custom(FieldAccessLevel, !entity.AccessLevel.Valid(),
		"Access level must be one of private, internal, public")

	if err := validator.Err(); err != nil {
		return err
	}

	joins := make(map[string]string, len(entity.Config.Joins))
	for _, join := range entity.Config.Joins {
		joins[join.Collection] = "dry-run"
	}

	if _, err := engine.Build(entity.Config, engine.BuildContext{
		WorkspaceID:     "dry-run",
		CollectionID:    "dry-run",
		JoinCollections: joins,
	}); err != nil {
		return translateBuildError(err)
	}

	return nil
}
