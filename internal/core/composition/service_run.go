// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package composition

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/kumiko/internal/core/workspace"
	"github.com/taibuivan/kumiko/internal/engine"
	"github.com/taibuivan/kumiko/internal/platform/apperr"
	"github.com/taibuivan/kumiko/internal/platform/constants"
	"github.com/taibuivan/kumiko/internal/platform/dberr"
	"github.com/taibuivan/kumiko/internal/platform/sec"
)

// # Execution Path

/*
Execute runs a stored composition addressed by workspace and composition slug.

Description: This is the public hot path. Both slug resolutions consult the
lookup cache before the database. Access is enforced from the composition's
access level and active bit; the caller's principal may be nil for anonymous
requests. The built statement runs under [constants.ExecuteTimeout], and when
the spec declares no limit the row scan is capped at
[constants.DefaultRowCeiling].

Parameters:
  - context: context.Context (caller deadline propagates to the statement)
  - workspaceSlug: string
  - compositionSlug: string
  - params: map[string]any (parameter bag for param-driven filters)
  - principal: *sec.AuthClaims (nil when anonymous)

Returns:
  - *ResultSet: Ordered rows plus execution metadata
  - error: apperr taxonomy; SQL and driver details never included
*/
func (service *Service) Execute(
	context context.Context,
	workspaceSlug, compositionSlug string,
	params map[string]any,
	principal *sec.AuthClaims,
) (*ResultSet, error) {

	// ── 1. Workspace Resolution ───────────────────────────────────────────
	tenant, err := service.lookupWorkspace(context, workspaceSlug)
	if err != nil {
		return nil, err
	}

	// ── 2. Composition Resolution ─────────────────────────────────────────
	entity, err := service.lookupComposition(context, tenant.ID, compositionSlug)
	if err != nil {
		return nil, err
	}

	// ── 3. Access Enforcement ─────────────────────────────────────────────
	if err := checkAccess(entity, principal); err != nil {
		return nil, err
	}

	// ── 4. Compile & Run ──────────────────────────────────────────────────
	result, err := service.run(context, tenant.ID, entity.Config, params)
	if err != nil {
		return nil, err
	}
	result.Metadata.CompositionID = entity.ID

	service.logger.Info("composition_executed",
		slog.String("composition_id", entity.ID),
		slog.String("workspace_id", tenant.ID),
		slog.Int("row_count", result.Metadata.Count),
	)

	return result, nil
}

/*
Preview compiles and runs an in-flight spec that has not been persisted.

Description: The editor path. Access and active checks are skipped: the
caller already passed the management surface's authorization. The result is
always a success envelope; compile and run failures are folded into it so the
builder UI renders them inline instead of handling error statuses.

Parameters:
  - context: context.Context
  - workspaceID: string (the editor's workspace, already authorized)
  - spec: engine.QuerySpec (the draft configuration)
  - params: map[string]any (parameter bag)

Returns:
  - *PreviewResult: Success with rows, or failure with message and the
    offending identifier when the engine can name one
*/
func (service *Service) Preview(
	context context.Context,
	workspaceID string,
	spec engine.QuerySpec,
	params map[string]any,
) *PreviewResult {
	result, err := service.run(context, workspaceID, spec, params)
	if err != nil {
		message := "An unexpected error occurred"
		if appError := apperr.As(err); appError != nil {
			message = appError.Message
		}

		return &PreviewResult{
			Success: false,
			Error: &PreviewError{
				Message: message,
				Field:   engine.FieldName(err),
			},
		}
	}

	return &PreviewResult{
		Success:  true,
		Data:     result.Rows,
		Metadata: &result.Metadata,
	}
}

// # Shared Run Pipeline

// run resolves collections, builds the query, and executes it. Both Execute
// and Preview funnel through here so error translation happens exactly once.
func (service *Service) run(
	context context.Context,
	workspaceID string,
	spec engine.QuerySpec,
	params map[string]any,
) (*ResultSet, error) {
	buildContext, err := service.resolveBuildContext(context, workspaceID, spec, params)
	if err != nil {
		return nil, err
	}

	built, err := engine.Build(spec, *buildContext)
	if err != nil {
		return nil, translateBuildError(err)
	}

	// A spec without its own limit accepts the engine-imposed row ceiling.
	maxRows := constants.DefaultRowCeiling
	if spec.Limit > 0 {
		maxRows = 0
	}

	runContext, cancel := withRunDeadline(context)
	defer cancel()

	rows, err := service.querier.QueryRows(runContext, built.SQL, built.Values, maxRows)
	if err != nil {
		return nil, dberr.Wrap(err, "execute_composition")
	}

	return &ResultSet{
		Rows: rows,
		Metadata: ResultMetadata{
			Count:      len(rows),
			ExecutedAt: time.Now().UTC(),
		},
	}, nil
}

// resolveBuildContext maps the spec's collection slugs to ids in one round
// trip and assembles the engine's build context.
func (service *Service) resolveBuildContext(
	context context.Context,
	workspaceID string,
	spec engine.QuerySpec,
	params map[string]any,
) (*engine.BuildContext, error) {
	slugs := make([]string, 0, 1+len(spec.Joins))
	slugs = append(slugs, spec.From)
	for _, join := range spec.Joins {
		slugs = append(slugs, join.Collection)
	}

	resolved, err := service.collections.ResolveSlugs(context, workspaceID, slugs)
	if err != nil {
		return nil, err
	}

	sourceID, ok := resolved[spec.From]
	if !ok {
		return nil, apperr.NotFound(fmt.Sprintf("Source collection %q", spec.From))
	}

	joins := make(map[string]string, len(spec.Joins))
	for _, join := range spec.Joins {
		joinID, ok := resolved[join.Collection]
		if !ok {
			return nil, apperr.NotFound(fmt.Sprintf("Joined collection %q", join.Collection))
		}
		joins[join.Collection] = joinID
	}

	return &engine.BuildContext{
		WorkspaceID:     workspaceID,
		CollectionID:    sourceID,
		JoinCollections: joins,
		Params:          params,
	}, nil
}

// withRunDeadline bounds a statement run, keeping a tighter caller deadline
// when one is already set.
func withRunDeadline(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, constants.ExecuteTimeout)
}

// # Access Rules

// checkAccess applies the composition's access level to the caller.
//
// Private compositions never execute on this path regardless of principal;
// editors exercise them through preview until they flip the level. Internal
// requires any authenticated principal. Inactive always refuses.
func checkAccess(entity *Composition, principal *sec.AuthClaims) error {
	if !entity.IsActive {
		return apperr.Forbidden("Composition is not active")
	}

	switch entity.AccessLevel {
	case AccessPublic:
		return nil
	case AccessInternal:
		if principal == nil {
			return apperr.Unauthorized("Authentication required")
		}
		return nil
	default:
		return apperr.Forbidden("Composition is private")
	}
}

// # Lookup Helpers

// lookupWorkspace resolves a workspace slug, cache first.
func (service *Service) lookupWorkspace(context context.Context, slug string) (*workspace.Workspace, error) {
	key := workspaceCacheKey(slug)

	cached := &workspace.Workspace{}
	if service.cache.Get(context, key, cached) {
		return cached, nil
	}

	tenant, err := service.workspaces.GetBySlug(context, slug)
	if err != nil {
		return nil, apperr.NotFound("Workspace")
	}

	service.cache.Set(context, key, tenant)
	return tenant, nil
}

// lookupComposition resolves a composition slug within a workspace, cache
// first.
func (service *Service) lookupComposition(context context.Context, workspaceID, slug string) (*Composition, error) {
	key := compositionCacheKey(workspaceID, slug)

	cached := &Composition{}
	if service.cache.Get(context, key, cached) {
		return cached, nil
	}

	entity, err := service.repo.FindBySlug(context, workspaceID, slug)
	if err != nil {
		return nil, apperr.NotFound("Composition")
	}

	service.cache.Set(context, key, entity)
	return entity, nil
}

// # Error Translation

// translateBuildError converts the engine's typed build failures into the
// API taxonomy. Unresolved joins are addressing errors, so they map to
// not-found; everything the parser or sanitizer refuses is a validation
// error carrying the offending identifier as a field detail.
func translateBuildError(err error) error {
	if engine.IsBuildError(err) {
		appError := apperr.ValidationError("Composition query is invalid", apperr.FieldError{
			Field:   engine.FieldName(err),
			Message: err.Error(),
		})
		appError.Cause = err
		return appError
	}

	if name := engine.FieldName(err); name != "" {
		// Only JoinNotFoundError remains among the named engine errors.
		appError := apperr.NotFound(fmt.Sprintf("Joined collection %q", name))
		appError.Cause = err
		return appError
	}

	return apperr.Internal(err)
}
