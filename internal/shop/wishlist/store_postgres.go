// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package wishlist

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
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a wishlist repository using the shared connection pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List retrieves a user's wishlist joined with the catalog, newest first.
func (repository *PostgresRepository) List(context context.Context, userID string) ([]*Entry, error) {
	sql := fmt.Sprintf(`
		SELECT w.%s, m.%s, m.%s, m.%s, m.%s, m.%s, m.%s, w.%s
		FROM %s w
		JOIN %s m ON m.%s = w.%s
		WHERE w.%s = $1
		ORDER BY w.%s DESC, w.%s ASC`,
		schema.ShopWishlistItem.MangaID,
		schema.CatalogManga.Title,
		schema.CatalogManga.Slug,
		schema.CatalogManga.Author,
		schema.CatalogManga.Price,
		schema.CatalogManga.DisplayImage,
		schema.CatalogManga.Status,
		schema.ShopWishlistItem.CreatedAt,
		schema.ShopWishlistItem.Table,
		schema.CatalogManga.Table,
		schema.CatalogManga.ID,
		schema.ShopWishlistItem.MangaID,
		schema.ShopWishlistItem.UserID,
		schema.ShopWishlistItem.CreatedAt,
		schema.ShopWishlistItem.MangaID,
	)

	rows, err := repository.db.Query(context, sql, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "wishlist.List")
	}
	defer rows.Close()

	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(
			&entry.MangaID,
			&entry.Title,
			&entry.Slug,
			&entry.Author,
			&entry.Price,
			&entry.DisplayImage,
			&entry.Status,
			&entry.AddedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "wishlist.List.scan")
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Add puts a manga on the wishlist.
func (repository *PostgresRepository) Add(context context.Context, userID, mangaID string) error {
	table := schema.ShopWishlistItem

	sql := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		table.Table, table.UserID, table.MangaID)

	if _, err := repository.db.Exec(context, sql, userID, mangaID); err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Manga is already on the wishlist")
		}
		if dberr.IsForeignKeyViolation(err) {
			return apperr.NotFound("Manga")
		}
		return dberr.Wrap(err, "wishlist.Add")
	}

	return nil
}

// Remove takes a manga off the wishlist.
func (repository *PostgresRepository) Remove(context context.Context, userID, mangaID string) error {
	table := schema.ShopWishlistItem

	sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		table.Table, table.UserID, table.MangaID)

	tag, err := repository.db.Exec(context, sql, userID, mangaID)
	if err != nil {
		return dberr.Wrap(err, "wishlist.Remove")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Wishlist item")
	}

	return nil
}
