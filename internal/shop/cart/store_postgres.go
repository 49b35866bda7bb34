// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/platform/database/schema"
	"github.com/hikawa/tankobon/internal/platform/dberr"
)

// # PostgreSQL Implementation

// PostgresRepository implements [Repository] backed by PostgreSQL.
//
// Every write is a single statement, so a canceled request either applied
// fully or not at all.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a cart repository using the shared connection pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List retrieves every cart line for a user, joined with the catalog.
func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Line, error) {
	sql := fmt.Sprintf(`
		SELECT c.%s, m.%s, m.%s, m.%s, m.%s, m.%s, c.%s, c.%s
		FROM %s c
		JOIN %s m ON m.%s = c.%s
		WHERE c.%s = $1
		ORDER BY c.%s ASC, c.%s ASC`,
		schema.ShopCartItem.MangaID,
		schema.CatalogManga.Title,
		schema.CatalogManga.Slug,
		schema.CatalogManga.Author,
		schema.CatalogManga.Price,
		schema.CatalogManga.DisplayImage,
		schema.ShopCartItem.Quantity,
		schema.ShopCartItem.CreatedAt,
		schema.ShopCartItem.Table,
		schema.CatalogManga.Table,
		schema.CatalogManga.ID,
		schema.ShopCartItem.MangaID,
		schema.ShopCartItem.UserID,
		schema.ShopCartItem.CreatedAt,
		schema.ShopCartItem.MangaID,
	)

	rows, err := repository.db.Query(context, sql, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "cart.List")
	}
	defer rows.Close()

	lines := make([]*Line, 0)
	for rows.Next() {
		line := &Line{}
		if err := rows.Scan(
			&line.MangaID,
			&line.Title,
			&line.Slug,
			&line.Author,
			&line.Price,
			&line.DisplayImage,
			&line.Quantity,
			&line.AddedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "cart.List.scan")
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Upsert adds a manga to the cart or increments its existing quantity.
func (repository *PostgresRepository) Upsert(context context.Context, userID, mangaID string, quantity int) error {
	table := schema.ShopCartItem

	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO UPDATE
		SET %s = LEAST(%s.%s + EXCLUDED.%s, %d), %s = now()`,
		table.Table, table.UserID, table.MangaID, table.Quantity,
		table.UserID, table.MangaID,
		table.Quantity, table.Table, table.Quantity, table.Quantity, MaxQuantityPerLine,
		table.UpdatedAt,
	)

	if _, err := repository.db.Exec(context, sql, userID, mangaID, quantity); err != nil {
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Manga")
		}
		return dberr.Wrap(err, "cart.Upsert")
	}

	return nil
}

// SetQuantity replaces the quantity of an existing line.
func (repository *PostgresRepository) SetQuantity(context context.Context, userID, mangaID string, quantity int) error {
	table := schema.ShopCartItem

	sql := fmt.Sprintf(`
		UPDATE %s SET %s = $3, %s = now()
		WHERE %s = $1 AND %s = $2`,
		table.Table, table.Quantity, table.UpdatedAt,
		table.UserID, table.MangaID,
	)

	tag, err := repository.db.Exec(context, sql, userID, mangaID, quantity)
	if err != nil {
		return dberr.Wrap(err, "cart.SetQuantity")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cart item")
	}

	return nil
}

// Remove deletes a single line from the cart.
func (repository *PostgresRepository) Remove(context context.Context, userID, mangaID string) error {
	table := schema.ShopCartItem

	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		table.Table, table.UserID, table.MangaID)

	tag, err := repository.db.Exec(context, sql, userID, mangaID)
	if err != nil {
		return dberr.Wrap(err, "cart.Remove")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Cart item")
	}

	return nil
}

// Clear removes every line from a user's cart.
func (repository *PostgresRepository) Clear(context context.Context, userID string) error {
	table := schema.ShopCartItem

	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.UserID)

	if _, err := repository.db.Exec(context, sql, userID); err != nil {
		return dberr.Wrap(err, "cart.Clear")
	}

	return nil
}
