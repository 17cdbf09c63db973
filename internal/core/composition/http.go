// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package composition

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kumiko/internal/engine"
	"github.com/taibuivan/kumiko/internal/platform/middleware"
	requestutil "github.com/taibuivan/kumiko/internal/platform/request"
	"github.com/taibuivan/kumiko/internal/platform/respond"
	"github.com/taibuivan/kumiko/internal/platform/sec"
	"github.com/taibuivan/kumiko/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for composition operations.
//
// It exposes two route sets: [Handler.PublicRoutes] for slug-addressed
// execution, and [Handler.Routes] for authenticated management including the
// editor preview.
type Handler struct {
	service *Service
}

// NewHandler constructs a new composition [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// PublicRoutes returns the slug-addressed execution endpoints. These are
// mounted outside the management tree and admit anonymous callers; the
// service decides per composition whether anonymity is acceptable.
func (handler *Handler) PublicRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{workspaceSlug}/{compositionSlug}", handler.executeGet)
	router.Post("/{workspaceSlug}/{compositionSlug}", handler.executePost)

	return router
}

// Routes returns the management endpoints, mounted under
// /workspaces/{workspaceID}/compositions.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Reads & Preview
	router.Get("/", handler.listCompositions)
	router.Get("/{compositionID}", handler.getComposition)
	router.Post("/preview", handler.previewComposition)

	// ## Writes (Editor+)
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Post("/", handler.createComposition)
		protected.Patch("/{compositionID}", handler.updateComposition)
		protected.Delete("/{compositionID}", handler.deleteComposition)
	})

	return router
}

// # Execution Endpoints

/*
GET /api/v1/c/{workspaceSlug}/{compositionSlug}.

Description: Executes a stored composition. Every query-string item becomes a
single string entry in the parameter bag; filters declared with a param key
resolve against it, and filters whose key is absent are dropped.

Request:
  - workspaceSlug, compositionSlug: string
  - query string: parameter bag (single values)

Response:
  - 200: { data: [row...], metadata: { count, compositionId, executedAt } }
  - 401: ErrUnauthorized: Internal composition without principal
  - 403: ErrForbidden: Private or inactive composition
  - 404: ErrNotFound: Workspace, composition, or collection missing
  - 504: DeadlineExceeded: Statement ran past the execution deadline
*/
func (handler *Handler) executeGet(writer http.ResponseWriter, request *http.Request) {
	params := make(map[string]any)
	for key, values := range request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	handler.execute(writer, request, params)
}

/*
POST /api/v1/c/{workspaceSlug}/{compositionSlug}.

Description: Executes a stored composition with a JSON parameter bag. The
body form exists for array-valued parameters feeding 'in' filters, which a
query string cannot carry.

Request (Body):
  - { "params": { key: value | [value...], ... } }

Response:
  - 200: { data, metadata } as for GET
  - 400: ErrInvalidJSON: Malformed body
*/
func (handler *Handler) executePost(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Params map[string]any `json:"params"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.execute(writer, request, input.Params)
}

// execute runs the shared execution flow for both parameter-bag transports.
func (handler *Handler) execute(writer http.ResponseWriter, request *http.Request, params map[string]any) {
	workspaceSlug := requestutil.Param(request, "workspaceSlug")
	compositionSlug := requestutil.Param(request, "compositionSlug")

	result, err := handler.service.Execute(
		request.Context(),
		workspaceSlug, compositionSlug,
		params,
		requestutil.Claims(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// The execute envelope carries metadata beside data, not the standard
	// single-resource wrapper.
	respond.JSON(writer, http.StatusOK, result)
}

// # Management Endpoints

/*
GET /api/v1/workspaces/{workspaceID}/compositions.

Description: Retrieves a paginated list of the workspace's compositions.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Composition: Paginated list
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Principal outside this workspace
*/
func (handler *Handler) listCompositions(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	compositions, total, err := handler.service.List(request.Context(), workspaceID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, compositions, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/workspaces/{workspaceID}/compositions/{compositionID}.

Description: Retrieves a composition with its stored config, addressed by
UUID or slug.

Request:
  - compositionID: string (UUID or slug)

Response:
  - 200: Composition: Success
  - 404: ErrNotFound: Composition not found
*/
func (handler *Handler) getComposition(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identifier := requestutil.Param(request, "compositionID")

	entity, err := handler.service.Get(request.Context(), workspaceID, identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
POST /api/v1/workspaces/{workspaceID}/compositions/preview.

Description: Compiles and runs a draft configuration that has not been
persisted. Always answers 200; compile and run failures arrive inside the
envelope so the editor UI renders them inline.

Request (Body):
  - { "config": QuerySpec, "params": { ... } }

Response:
  - 200: { success: true, data, metadata } or { success: false, error: { message, field? } }
  - 400: ErrInvalidJSON: Malformed body
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Principal outside this workspace
*/
func (handler *Handler) previewComposition(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Config engine.QuerySpec `json:"config"`
		Params map[string]any   `json:"params"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result := handler.service.Preview(request.Context(), workspaceID, input.Config, input.Params)

	respond.JSON(writer, http.StatusOK, result)
}

/*
POST /api/v1/workspaces/{workspaceID}/compositions.

Description: Creates a composition. The slug is derived from the name in
lower-kebab form and becomes the public execution address.

Request (Body):
  - Composition JSON object (name, description, access_level, config)

Response:
  - 201: Composition: Created object
  - 400: ErrInvalidJSON/Validation: Invalid input or unbuildable config
  - 403: ErrForbidden: Editor role required
  - 409: ErrConflict: Slug already taken in this workspace
*/
func (handler *Handler) createComposition(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	claims, err := requestutil.RequiredWorkspaceAccess(request, workspaceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Composition
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.WorkspaceID = workspaceID

	if err := handler.service.Create(request.Context(), &input, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
PATCH /api/v1/workspaces/{workspaceID}/compositions/{compositionID}.

Description: Overwrites a composition's attributes and config. The slug is
immutable; versioning is by overwrite.

Request:
  - compositionID: string (Target UUID)
  - body: Composition (JSON)

Response:
  - 200: Composition: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input or unbuildable config
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Composition not found
*/
func (handler *Handler) updateComposition(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	claims, err := requestutil.RequiredWorkspaceAccess(request, workspaceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Composition
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = requestutil.ID(request, "compositionID")
	input.WorkspaceID = workspaceID

	if err := handler.service.Update(request.Context(), &input, claims.UserID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
DELETE /api/v1/workspaces/{workspaceID}/compositions/{compositionID}.

Description: Deletes a composition and drops its hot-path cache entry.

Request:
  - compositionID: string (Target UUID)

Response:
  - 204: No Content: Success
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Composition not found
*/
func (handler *Handler) deleteComposition(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	compositionID := requestutil.ID(request, "compositionID")

	if err := handler.service.Delete(request.Context(), workspaceID, compositionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
