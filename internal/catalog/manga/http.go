// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package manga

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hikawa/tankobon/internal/platform/middleware"
	requestutil "github.com/hikawa/tankobon/internal/platform/request"
	"github.com/hikawa/tankobon/internal/platform/respond"
	"github.com/hikawa/tankobon/internal/platform/sec"
	"github.com/hikawa/tankobon/internal/platform/validate"
	"github.com/hikawa/tankobon/pkg/pagination"
	"github.com/hikawa/tankobon/pkg/query"
)

// # Handler Implementation

// Handler implements the HTTP layer for catalog browsing and management.
// It translates web requests into domain service calls.
type Handler struct {
	service *Service
}

// NewHandler constructs a new manga [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalog's endpoints.
//
// # Routing Strategy
//
//   - Discovery (Public): Accessible by all visitors for browsing.
//   - Management (Restricted): Requires [sec.RoleAdmin] for imports and edits.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery Endpoints
	router.Get("/", handler.listManga)
	router.Get("/{identifier}", handler.getManga)

	// ## Catalog Management (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Post("/import", handler.importManga)
		admin.Post("/{id}/resync", handler.resyncManga)
		admin.Patch("/{id}", handler.updateManga)
		admin.Delete("/{id}", handler.deleteManga)

		// Cover image ownership
		admin.Put("/{id}/cover", handler.setCover)
		admin.Post("/{id}/cover/reset", handler.resetCover)
	})

	return router
}

// # Discovery Endpoints

/*
GET /api/v1/manga.

Description: Retrieves a paginated list of the catalog. A single text query
matches against title, author, and genres; sort order is stable across
identical requests.

Request:
  - q: string (Matches title/author substrings and whole genres)
  - genres: string (Comma-separated list; keeps records sharing any listed genre)
  - sort: string (title, price, popularity, score)
  - dir: string (asc, desc)
  - limit: int
  - page: int

Response:
  - 200: []Manga: Paginated list of manga
*/
func (handler *Handler) listManga(writer http.ResponseWriter, request *http.Request) {
	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	// Query filter assembly
	queryParams := request.URL.Query()

	params := SearchParams{
		Query:   queryParams.Get("q"),
		Genres:  query.StringSlice(queryParams.Get("genres")),
		Sort:    queryParams.Get("sort"),
		SortDir: queryParams.Get("dir"),
		Limit:   paginationParams.Limit,
		Offset:  paginationParams.Offset(),
	}

	// Domain Logic Execution
	records, total, err := handler.service.Search(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Paginated(writer, records, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/manga/{identifier}.

Description: Retrieves a single manga using either its UUID or unique title slug.
UUID lookups take precedence.

Request:
  - identifier: string (UUID or Slug)

Response:
  - 200: Manga: Success
  - 404: 404: ErrNotFound: Manga not found
*/
func (handler *Handler) getManga(writer http.ResponseWriter, request *http.Request) {
	// Extract identifier from URL
	identifier := requestutil.ID(request, "identifier")

	// Domain Logic Execution
	record, err := handler.service.Get(request.Context(), identifier)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, record)
}

// # Request Payloads

// importMangaRequest defines the inbound JSON schema for provider imports.
type importMangaRequest struct {
	ExternalID int `json:"external_id"`
}

// updateMangaRequest defines the inbound JSON schema for administrative edits.
// All fields are optional; absent fields are left untouched.
type updateMangaRequest struct {
	Title       *string   `json:"title"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	Genres      *[]string `json:"genres"`
}

// setCoverRequest defines the inbound JSON schema for custom cover overrides.
type setCoverRequest struct {
	ImageURL string `json:"image_url"`
}

// # Management Endpoints

/*
POST /api/v1/manga/import.

Description: Imports a manga from the metadata provider by its external id.
The external id may also arrive as the "external_id" query parameter, which
takes precedence over the body.

Request (Body):
  - importMangaRequest: JSON object

Response:
  - 201: Manga: Created catalog record
  - 400: 400: ErrInvalidIdentifier: Non-positive external id
  - 404: 404: ErrNotFound: Provider has no such manga
  - 409: 409: ErrConflict: Already in the catalog
  - 422: 422: ErrWrongMediaType: Provider record is not a manga
  - 502: 502: ErrUpstream/ErrTransport: Provider unreachable or malformed
*/
func (handler *Handler) importManga(writer http.ResponseWriter, request *http.Request) {
	var input importMangaRequest

	// Query parameter shortcut for tooling and scripts
	if raw := request.URL.Query().Get("external_id"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, validate.RequiredError(FieldExternalID, "Must be a positive integer"))
			return
		}
		input.ExternalID = parsed
	} else if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Domain Logic Execution
	record, err := handler.service.ImportByExternalID(request.Context(), input.ExternalID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.Created(writer, record)
}

/*
POST /api/v1/manga/{id}/resync.

Description: Re-fetches the provider record and refreshes the upstream-owned
fields. Price, title, and display image are never modified.

Request:
  - id: string (UUID)

Response:
  - 200: Manga: Record after reconciliation
  - 404: 404: ErrNotFound: Manga not found locally or at the provider
  - 502: 502: ErrUpstream/ErrTransport: Provider unreachable or malformed
*/
func (handler *Handler) resyncManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	// Domain Logic Execution
	record, err := handler.service.Resync(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, record)
}

/*
PATCH /api/v1/manga/{id}.

Description: Applies partial updates to the locally-owned fields (title, price,
description, genres). Clients should only provide the fields that need to change.

Request:
  - id: string (UUID)
  - body: updateMangaRequest (Partial JSON)

Response:
  - 200: Manga: Updated record
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 404: 404: ErrNotFound: Manga not found
*/
func (handler *Handler) updateManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	// Strict JSON decoding
	var input updateMangaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Map DTO to domain patch
	patch := AdminPatch{
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Genres:      input.Genres,
	}

	// Domain Logic Execution
	record, err := handler.service.Update(request.Context(), mangaID, patch)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Structured API Response
	respond.OK(writer, record)
}

/*
DELETE /api/v1/manga/{id}.

Description: Permanently removes a manga from the catalog. Cart and wishlist
entries referencing it are removed by the database cascade.

Response:
  - 204: No Content
  - 404: 404: ErrNotFound: Manga not found
*/
func (handler *Handler) deleteManga(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	if err := handler.service.Delete(request.Context(), mangaID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Cover Endpoints

/*
PUT /api/v1/manga/{id}/cover.

Description: Overrides the display image with a custom URL. The stored
provider image is untouched and remains available for reset.

Request (Body):
  - setCoverRequest: JSON object

Response:
  - 200: Manga: Updated record
  - 400: 400: ErrInvalidJSON/Validation: Missing image URL
  - 404: 404: ErrNotFound: Manga not found
*/
func (handler *Handler) setCover(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	var input setCoverRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.service.SetImage(request.Context(), mangaID, input.ImageURL)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

/*
POST /api/v1/manga/{id}/cover/reset.

Description: Restores the display image to the stored provider image,
discarding any custom cover.

Response:
  - 200: Manga: Updated record
  - 404: 404: ErrNotFound: Manga not found
*/
func (handler *Handler) resetCover(writer http.ResponseWriter, request *http.Request) {
	mangaID := requestutil.ID(request, "id")

	record, err := handler.service.ResetImage(request.Context(), mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}
