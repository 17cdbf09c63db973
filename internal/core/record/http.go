// Copyright (c) 2026 Kumiko. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package record

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

// Handler implements the HTTP layer for record operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new record [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with record endpoints, mounted
// under /workspaces/{workspaceID}/collections/{collectionID}/records.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Document Reads
	router.Get("/", handler.listRecords)
	router.Get("/{recordID}", handler.getRecord)

	// ## Document Writes (Editor+)
	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireRole(sec.RoleEditor))
		protected.Post("/", handler.createRecord)
		protected.Patch("/{recordID}", handler.patchRecord)
		protected.Delete("/{recordID}", handler.deleteRecord)
	})

	return router
}

// # Record Endpoints

/*
GET /api/v1/workspaces/{workspaceID}/collections/{collectionID}/records.

Description: Retrieves a paginated list of the collection's records, newest
first.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Record: Paginated list
  - 401: ErrUnauthorized: Authentication required
  - 403: ErrForbidden: Principal outside this workspace
*/
func (handler *Handler) listRecords(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	collectionID := requestutil.ID(request, "collectionID")
	paginationParams := pagination.FromRequest(request)

	records, total, err := handler.service.List(request.Context(), workspaceID, collectionID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, records, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/workspaces/{workspaceID}/collections/{collectionID}/records/{recordID}.

Description: Retrieves one record with its full document.

Request:
  - recordID: string (UUID)

Response:
  - 200: Record: Success
  - 404: ErrNotFound: Record not found
*/
func (handler *Handler) getRecord(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Get(request.Context(),
		workspaceID,
		requestutil.ID(request, "collectionID"),
		requestutil.ID(request, "recordID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
POST /api/v1/workspaces/{workspaceID}/collections/{collectionID}/records.

Description: Creates a record. The body is validated against the
collection's field definitions in create mode; all field failures are
reported together.

Request (Body):
  - { "data": { fieldSlug: value, ... } }

Response:
  - 201: Record: Created record with the normalized document
  - 400: ErrInvalidJSON/Validation: Malformed body or schema violations
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Collection not found
*/
func (handler *Handler) createRecord(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	claims, err := requestutil.RequiredWorkspaceAccess(request, workspaceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Data map[string]any `json:"data"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Create(request.Context(),
		workspaceID,
		requestutil.ID(request, "collectionID"),
		input.Data,
		claims.UserID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

/*
PATCH /api/v1/workspaces/{workspaceID}/collections/{collectionID}/records/{recordID}.

Description: Merges a partial document into a record. Only provided keys
are validated and overwritten.

Request:
  - recordID: string (Target UUID)
  - body: { "data": { fieldSlug: value, ... } }

Response:
  - 200: Record: Updated record with the merged document
  - 400: ErrInvalidJSON/Validation: Malformed body or schema violations
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Record not found
*/
func (handler *Handler) patchRecord(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	claims, err := requestutil.RequiredWorkspaceAccess(request, workspaceID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input struct {
		Data map[string]any `json:"data"`
	}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.service.Patch(request.Context(),
		workspaceID,
		requestutil.ID(request, "collectionID"),
		requestutil.ID(request, "recordID"),
		input.Data,
		claims.UserID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/workspaces/{workspaceID}/collections/{collectionID}/records/{recordID}.

Description: Deletes a record.

Request:
  - recordID: string (Target UUID)

Response:
  - 204: No Content: Success
  - 403: ErrForbidden: Editor role required
  - 404: ErrNotFound: Record not found
*/
func (handler *Handler) deleteRecord(writer http.ResponseWriter, request *http.Request) {
	workspaceID := requestutil.ID(request, "workspaceID")
	if _, err := requestutil.RequiredWorkspaceAccess(request, workspaceID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err := handler.service.Delete(request.Context(),
		workspaceID,
		requestutil.ID(request, "collectionID"),
		requestutil.ID(request, "recordID"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
