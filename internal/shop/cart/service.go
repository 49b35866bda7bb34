// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package cart

import (
	"context"
	"log/slog"

	"github.com/hikawa/tankobon/internal/platform/validate"
)

// # Service Layer

// Service implements the business rules for cart management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new cart [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Get assembles the user's cart with item count and subtotal.

Description: Totals are derived from the catalog's current prices at read
time; an empty cart returns an empty item list, never nil.
*/
func (service *Service) Get(context context.Context, userID string) (*Cart, error) {
	lines, err := service.repo.List(context, userID)
	if err != nil {
		return nil, err
	}

	result := &Cart{Items: lines}
	for _, line := range lines {
		result.ItemCount += line.Quantity
		result.Subtotal += line.Price * float64(line.Quantity)
	}

	return result, nil
}

/*
Add puts a manga into the cart, incrementing the quantity if already present.

Parameters:
  - context: context.Context
  - userID: string
  - mangaID: string (catalog UUID)
  - quantity: int (amount to add; 0 defaults to 1)

Returns:
  - *Cart: The cart after the addition
  - error: Validation failures, NotFound for unknown manga
*/
func (service *Service) Add(context context.Context, userID, mangaID string, quantity int) (*Cart, error) {
	if quantity == 0 {
		quantity = 1
	}

	validator := &validate.Validator{}
	validator.UUID("manga_id", mangaID)
	validator.Range("quantity", quantity, 1, MaxQuantityPerLine)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Upsert(context, userID, mangaID, quantity); err != nil {
		return nil, err
	}

	service.logger.Info("cart_item_added",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
		slog.Int("quantity", quantity),
	)

	return service.Get(context, userID)
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// removes the line, matching store-front stepper semantics.
func (service *Service) SetQuantity(context context.Context, userID, mangaID string, quantity int) (*Cart, error) {
	validator := &validate.Validator{}
	validator.UUID("manga_id", mangaID)
	validator.Range("quantity", quantity, 0, MaxQuantityPerLine)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	var err error
	if quantity == 0 {
		err = service.repo.Remove(context, userID, mangaID)
	} else {
		err = service.repo.SetQuantity(context, userID, mangaID, quantity)
	}
	if err != nil {
		return nil, err
	}

	return service.Get(context, userID)
}

// Remove deletes a single line from the cart.
func (service *Service) Remove(context context.Context, userID, mangaID string) (*Cart, error) {
	if err := service.repo.Remove(context, userID, mangaID); err != nil {
		return nil, err
	}

	service.logger.Info("cart_item_removed",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
	)

	return service.Get(context, userID)
}

// Clear empties the user's cart.
func (service *Service) Clear(context context.Context, userID string) error {
	if err := service.repo.Clear(context, userID); err != nil {
		return err
	}

	service.logger.Info("cart_cleared", slog.String("user_id", userID))
	return nil
}
