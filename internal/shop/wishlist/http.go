// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package wishlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hikawa/tankobon/internal/platform/middleware"
	requestutil "github.com/hikawa/tankobon/internal/platform/request"
	"github.com/hikawa/tankobon/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the wishlist.
type Handler struct {
	service *Service
}

// NewHandler constructs a new wishlist [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the wishlist endpoints. Every route
// requires an authenticated user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listWishlist)
	router.Post("/items", handler.addItem)
	router.Delete("/items/{mangaID}", handler.removeItem)

	return router
}

// # Request Payloads

// addItemRequest defines the inbound JSON schema for wishlist additions.
type addItemRequest struct {
	MangaID string `json:"manga_id"`
}

// # Wishlist Endpoints

/*
GET /api/v1/wishlist.

Description: Retrieves the caller's wishlist, newest addition first.

Response:
  - 200: []Entry: The wishlist (possibly empty)
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) listWishlist(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.List(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
POST /api/v1/wishlist/items.

Description: Adds a manga to the wishlist.

Request (Body):
  - addItemRequest: JSON object

Response:
  - 200: []Entry: The wishlist after the addition
  - 404: 404: ErrNotFound: Manga not in the catalog
  - 409: 409: ErrConflict: Already on the wishlist
*/
func (handler *Handler) addItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addItemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.service.Add(request.Context(), userID, input.MangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

/*
DELETE /api/v1/wishlist/items/{mangaID}.

Description: Removes a manga from the wishlist.

Response:
  - 204: No Content
  - 404: 404: ErrNotFound: Manga not on the wishlist
*/
func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	mangaID := requestutil.ID(request, "mangaID")

	if err := handler.service.Remove(request.Context(), userID, mangaID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
