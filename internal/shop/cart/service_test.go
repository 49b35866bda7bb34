// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package cart_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/shop/cart"
)

const (
	testUserID  = "01912aaf-0000-7000-8000-00000000aaaa"
	testMangaID = "01912aaf-0000-7000-8000-000000000001"
	otherManga  = "01912aaf-0000-7000-8000-000000000002"
)

// fakeRepository is an in-memory [cart.Repository] keyed by (user, manga).
type fakeRepository struct {
	lines  map[string]map[string]*cart.Line // userID → mangaID → line
	prices map[string]float64               // catalog prices by manga id
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		lines: map[string]map[string]*cart.Line{},
		prices: map[string]float64{
			testMangaID: 9.99,
			otherManga:  24.99,
		},
	}
}

func (r *fakeRepository) List(_ context.Context, userID string) ([]*cart.Line, error) {
	result := make([]*cart.Line, 0)
	for _, line := range r.lines[userID] {
		result = append(result, line)
	}
	return result, nil
}

func (r *fakeRepository) Upsert(_ context.Context, userID, mangaID string, quantity int) error {
	price, ok := r.prices[mangaID]
	if !ok {
		return apperr.NotFound("Manga")
	}

	if r.lines[userID] == nil {
		r.lines[userID] = map[string]*cart.Line{}
	}
	if line, exists := r.lines[userID][mangaID]; exists {
		line.Quantity += quantity
		return nil
	}

	r.lines[userID][mangaID] = &cart.Line{
		MangaID:  mangaID,
		Price:    price,
		Quantity: quantity,
		AddedAt:  time.Now(),
	}
	return nil
}

func (r *fakeRepository) SetQuantity(_ context.Context, userID, mangaID string, quantity int) error {
	line, ok := r.lines[userID][mangaID]
	if !ok {
		return apperr.NotFound("Cart item")
	}
	line.Quantity = quantity
	return nil
}

func (r *fakeRepository) Remove(_ context.Context, userID, mangaID string) error {
	if _, ok := r.lines[userID][mangaID]; !ok {
		return apperr.NotFound("Cart item")
	}
	delete(r.lines[userID], mangaID)
	return nil
}

func (r *fakeRepository) Clear(_ context.Context, userID string) error {
	delete(r.lines, userID)
	return nil
}

func newTestService(repo cart.Repository) *cart.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cart.NewService(repo, logger)
}

/*
TestService_Add covers the upsert-increment behavior and totals.
*/
func TestService_Add(t *testing.T) {
	t.Run("first_add_creates_line", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		result, err := service.Add(context.Background(), testUserID, testMangaID, 0)

		require.NoError(t, err)
		require.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Items[0].Quantity, "zero quantity defaults to one")
		assert.Equal(t, 1, result.ItemCount)
		assert.InDelta(t, 9.99, result.Subtotal, 0.001)
	})

	t.Run("re_add_increments_quantity", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		_, err := service.Add(context.Background(), testUserID, testMangaID, 2)
		require.NoError(t, err)

		result, err := service.Add(context.Background(), testUserID, testMangaID, 1)
		require.NoError(t, err)

		require.Len(t, result.Items, 1, "no duplicate line is created")
		assert.Equal(t, 3, result.Items[0].Quantity)
		assert.InDelta(t, 3*9.99, result.Subtotal, 0.001)
	})

	t.Run("unknown_manga", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		result, err := service.Add(context.Background(), testUserID, "01912aaf-0000-7000-8000-00000000ffff", 1)

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("invalid_manga_id", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		result, err := service.Add(context.Background(), testUserID, "not-a-uuid", 1)

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})

	t.Run("quantity_over_cap", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		result, err := service.Add(context.Background(), testUserID, testMangaID, cart.MaxQuantityPerLine+1)

		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
	})
}

/*
TestService_SetQuantity covers replacement and the zero-removes rule.
*/
func TestService_SetQuantity(t *testing.T) {
	t.Run("replaces_quantity", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo)

		_, err := service.Add(context.Background(), testUserID, testMangaID, 2)
		require.NoError(t, err)

		result, err := service.SetQuantity(context.Background(), testUserID, testMangaID, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, result.Items[0].Quantity)
	})

	t.Run("zero_removes_line", func(t *testing.T) {
		repo := newFakeRepository()
		service := newTestService(repo)

		_, err := service.Add(context.Background(), testUserID, testMangaID, 2)
		require.NoError(t, err)

		result, err := service.SetQuantity(context.Background(), testUserID, testMangaID, 0)
		require.NoError(t, err)
		assert.Empty(t, result.Items)
	})

	t.Run("missing_line", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		result, err := service.SetQuantity(context.Background(), testUserID, testMangaID, 3)
		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Get verifies the aggregate totals over multiple lines.
*/
func TestService_Get(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.Add(context.Background(), testUserID, testMangaID, 2)
	require.NoError(t, err)
	_, err = service.Add(context.Background(), testUserID, otherManga, 1)
	require.NoError(t, err)

	result, err := service.Get(context.Background(), testUserID)
	require.NoError(t, err)

	assert.Len(t, result.Items, 2)
	assert.Equal(t, 3, result.ItemCount)
	assert.InDelta(t, 2*9.99+24.99, result.Subtotal, 0.001)
}

/*
TestService_Clear checks cart emptying.
*/
func TestService_Clear(t *testing.T) {
	service := newTestService(newFakeRepository())

	_, err := service.Add(context.Background(), testUserID, testMangaID, 1)
	require.NoError(t, err)

	require.NoError(t, service.Clear(context.Background(), testUserID))

	result, err := service.Get(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Zero(t, result.ItemCount)
	assert.Zero(t, result.Subtotal)
}
