// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package wishlist

import (
	"context"
	"log/slog"

	"github.com/hikawa/tankobon/internal/platform/validate"
)

// # Service Layer

// Service implements the business rules for wishlist management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new wishlist [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns the user's wishlist, newest addition first.
func (service *Service) List(context context.Context, userID string) ([]*Entry, error) {
	return service.repo.List(context, userID)
}

// Add puts a manga on the wishlist. Listing the same manga twice is a conflict.
func (service *Service) Add(context context.Context, userID, mangaID string) ([]*Entry, error) {
	validator := &validate.Validator{}
	validator.UUID("manga_id", mangaID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Add(context, userID, mangaID); err != nil {
		return nil, err
	}

	service.logger.Info("wishlist_item_added",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
	)

	return service.repo.List(context, userID)
}

// Remove takes a manga off the wishlist.
func (service *Service) Remove(context context.Context, userID, mangaID string) error {
	if err := service.repo.Remove(context, userID, mangaID); err != nil {
		return err
	}

	service.logger.Info("wishlist_item_removed",
		slog.String("user_id", userID),
		slog.String("manga_id", mangaID),
	)

	return nil
}
