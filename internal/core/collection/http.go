/*
Package collection provides the HTTP interface for collection management.

It exposes endpoints for defining, inspecting, and deleting the typed field
schemas that record documents are validated against.

# Routing Strategy

  - Reads: Listing and detail views for any workspace principal.
  - Writes: Creation, schema replacement, and deletion for editors and above.

All routes are mounted under /workspaces/{workspaceID} and every handler
verifies that the authenticated principal belongs to that workspace.
*/
package collection

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/kumiko/internal/platform/middleware"
	requestutil "github.com/taibuivan/kumiko/internal/platform/request"
	"github.com/taibuivan/kumiko/internal/platform/respond"
	"github.com/taibuivan/kumiko/internal/platform/sec"
	"github.com/taibuivan/kumiko/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for collection operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new collection [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with collection endpoints. The
// record subrouter is nested here so records stay addressed through their
// owning collection.
func (handler *Handler) Routes(records chi.Router) chi.Router {
	router := chi.NewRouter()

	// ## Schema Reads
	router.Get("/", handler.listCollections)
	router.Get("/{collectionID}", handler.getCollection)

	// ## Nested Documents
	router.Mount("/{collectionID}/records", records)

	// ## Schema Writes (Editor+)
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Post("/", handler.createCollection)
		protected.Patch("/{collectionID}", handler.updateCollection)
		protected.Put("/{collectionID}/fields", handler.replaceFields)
		protected.Delete("/{collectionID}", handler.deleteCollection)
	})

	return router
}

// # Collection Endpoints

/*
GET /api/v1/workspaces/{workspaceID}/collections.

Description: Retrieves a paginated list of the workspace's collections.
Field definitions are omitted from list views.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Collection: Paginated list
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Principal outside this workspace
*/
func (handler *Handler) listCollections(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	collections, total, err := handler.service.List(request.Context(), workspaceID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, collections, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/workspaces/{workspaceID}/collections/{collectionID}.

Description: Retrieves a collection with its ordered field definitions,
addressed by UUID or slug.

Request:
  - collectionID: string (UUID or slug)

Response:
  - 200: Collection: Success
  - 404: ErrNotFound: Collection not found
*/
func (handler *Handler) getCollection(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identifier := requestutil.Param(request, "collectionID")

	entity, err := handler.service.Get(request.Context(), workspaceID, identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
POST /api/v1/workspaces/{workspaceID}/collections.

Description: Creates a collection with its field definitions. The slug is
derived from the name in identifier form so compositions can join it.

Request (Body):
  - Collection JSON object (name, description, fields)

Response:
  - 201: Collection: Created object
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrForbidden: Editor role required
  - 409: ErrConflict: Slug already taken in this workspace
*/
func (handler *Handler) createCollection(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Collection
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.WorkspaceID = workspaceID

	if err := handler.service.Create(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, input)
}

/*
PATCH /api/v1/workspaces/{workspaceID}/collections/{collectionID}.

Description: Updates a collection's name and description. The slug is
immutable because stored compositions reference it.

Request:
  - collectionID: string (Target UUID)
  - body: Collection Partial (JSON)

Response:
  - 200: Collection: Updated entity
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Collection not found
*/
func (handler *Handler) updateCollection(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Collection
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.ID = requestutil.ID(request, "collectionID")
	input.WorkspaceID = workspaceID

	if err := handler.service.Update(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, input)
}

/*
PUT /api/v1/workspaces/{workspaceID}/collections/{collectionID}/fields.

Description: Replaces the collection's field definitions atomically.
Existing records are not revalidated; the new schema applies to subsequent
writes.

Request:
  - collectionID: string (Target UUID)
  - body: { "fields": [Field, ...] }

Response:
  - 200: Collection: Entity with the new schema
  - 400: ErrInvalidJSON/Validation: Invalid schema
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Collection not found
*/
func (handler *Handler) replaceFields(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Fields []Field `json:"fields"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	collectionID := requestutil.ID(request, "collectionID")

	entity, err := handler.service.ReplaceFields(request.Context(), workspaceID, collectionID, input.Fields)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/workspaces/{workspaceID}/collections/{collectionID}.

Description: Deletes a collection together with its fields and records.

Request:
  - collectionID: string (Target UUID)

Response:
  - 204: No Content: Success
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Collection not found
*/
func (handler *Handler) deleteCollection(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	collectionID := requestutil.ID(request, "collectionID")

	if err := handler.service.Delete(request.Context(), workspaceID, collectionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
