// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package cart

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hikawa/tankobon/internal/platform/middleware"
	requestutil "github.com/hikawa/tankobon/internal/platform/request"
	"github.com/hikawa/tankobon/internal/platform/respond"
)

// # Handler Implementation

// Handler implements the HTTP layer for the shopping cart.
type Handler struct {
	service *Service
}

// NewHandler constructs a new cart [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the cart endpoints. Every route requires
// an authenticated user; the cart is always the caller's own.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getCart)
	router.Delete("/", handler.clearCart)

	router.Post("/items", handler.addItem)
	router.Put("/items/{mangaID}", handler.setQuantity)
	router.Delete("/items/{mangaID}", handler.removeItem)

	return router
}

// # Request Payloads

// addItemRequest defines the inbound JSON schema for cart additions.
type addItemRequest struct {
	MangaID  string `json:"manga_id"`
	Quantity int    `json:"quantity"`
}

// setQuantityRequest defines the inbound JSON schema for quantity changes.
type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// # Cart Endpoints

/*
GET /api/v1/cart.

Description: Retrieves the caller's cart with per-line catalog details,
item count, and subtotal.

Response:
  - 200: Cart: The caller's cart (possibly empty)
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) getCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /api/v1/cart/items.

Description: Adds a manga to the cart. Adding a manga already in the cart
increments its quantity instead of creating a duplicate line.

Request (Body):
  - addItemRequest: JSON object

Response:
  - 200: Cart: The cart after the addition
  - 400: 400: ErrInvalidJSON/Validation: Invalid input data
  - 404: 404: ErrNotFound: Manga not in the catalog
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

	result, err := handler.service.Add(request.Context(), userID, input.MangaID, input.Quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
PUT /api/v1/cart/items/{mangaID}.

Description: Sets the quantity of an existing cart line. A quantity of zero
removes the line.

Response:
  - 200: Cart: The cart after the change
  - 404: 404: ErrNotFound: Line not in the cart
*/
func (handler *Handler) setQuantity(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	mangaID := requestutil.ID(request, "mangaID")

	var input setQuantityRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.SetQuantity(request.Context(), userID, mangaID, input.Quantity)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
DELETE /api/v1/cart/items/{mangaID}.

Description: Removes a single line from the cart regardless of quantity.

Response:
  - 200: Cart: The cart after the removal
  - 404: 404: ErrNotFound: Line not in the cart
*/
func (handler *Handler) removeItem(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	mangaID := requestutil.ID(request, "mangaID")

	result, err := handler.service.Remove(request.Context(), userID, mangaID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
DELETE /api/v1/cart.

Description: Empties the caller's cart.

Response:
  - 204: No Content
*/
func (handler *Handler) clearCart(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Clear(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
