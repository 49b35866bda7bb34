// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

/*
Package manga provides the PostgreSQL implementation for the catalog's data access.

It relies on a handful of Postgres features to keep the read and write paths simple:
  - Window Functions: COUNT(*) OVER() yields the total result count without a
    second round trip, keeping filter, sort, and pagination in one statement.
  - Array Operators: genre membership checks run against a text[] column via
    unnest, avoiding a junction table for what is a small, provider-owned list.
  - Unique Constraints: the external_id unique index is what serializes two
    concurrent imports of the same provider record down to exactly one row.

Every write is a single statement, so a cancelled import or resync never leaves
a partially-written record behind.
*/
package manga

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/platform/database/schema"
	"github.com/hikawa/tankobon/internal/platform/dberr"
)

// # PostgreSQL Repository

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed catalog store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// mangaColumns is the canonical select list, kept in schema declaration order
// so every scan site stays aligned with one definition.
var mangaColumns = strings.Join(schema.CatalogManga.Columns(), ", ")

// scanManga hydrates one record from a row using the [mangaColumns] order.
func scanManga(row pgx.Row, record *Manga) error {
	return row.Scan(
		&record.ID,
		&record.ExternalID,
		&record.Title,
		&record.Slug,
		&record.Author,
		&record.Genres,
		&record.Price,
		&record.DisplayImage,
		&record.ProviderImage,
		&record.Description,
		&record.PopularityScore,
		&record.QualityScore,
		&record.Status,
		&record.VolumeCount,
		&record.ChapterCount,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
}

// # Read Path

/*
Search returns a filtered, sorted, paginated page plus the total match count.

Description: Filter, sort, and paginate happen in a single statement, in that
order, so the ordering of a fixed query is stable across pages. The text
filter is an OR across a case-insensitive title substring, author substring,
and exact genre element match; the genre filter additionally narrows to
records sharing at least one of the requested genres. Ties always break on ascending id; ids are
time-sortable UUIDv7 values, so the tiebreak follows insertion order.

Parameters:
  - context: context.Context
  - params: SearchParams

Returns:
  - []*Manga: The requested page (empty past the last page)
  - int: Total count matching the filter
  - error: Database execution errors
*/
func (repository *PostgresRepository) Search(context context.Context, params SearchParams) ([]*Manga, int, error) {
	table := schema.CatalogManga

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE ($1 = ''
			OR %s ILIKE '%%' || $1 || '%%'
			OR %s ILIKE '%%' || $1 || '%%'
			OR EXISTS (SELECT 1 FROM unnest(%s) AS genre WHERE LOWER(genre) = LOWER($1)))
		AND (cardinality($2::text[]) = 0 OR %s && $2::text[])
		ORDER BY %s %s, %s ASC
		LIMIT $3 OFFSET $4
	`,
		mangaColumns, table.Table,
		table.Title, table.Author, table.Genres,
		table.Genres,
		sortColumn(params.Sort), sortDirection(params.SortDir), table.ID,
	)

	genres := params.Genres
	if genres == nil {
		genres = []string{}
	}

	rows, err := repository.db.Query(context, query, params.Query, genres, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "search_manga")
	}
	defer rows.Close()

	records := make([]*Manga, 0)
	totalCount := 0

	for rows.Next() {
		record := &Manga{}
		err := rows.Scan(
			&record.ID,
			&record.ExternalID,
			&record.Title,
			&record.Slug,
			&record.Author,
			&record.Genres,
			&record.Price,
			&record.DisplayImage,
			&record.ProviderImage,
			&record.Description,
			&record.PopularityScore,
			&record.QualityScore,
			&record.Status,
			&record.VolumeCount,
			&record.ChapterCount,
			&record.CreatedAt,
			&record.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_manga")
		}
		records = append(records, record)
	}

	return records, totalCount, nil
}

// sortColumn whitelists the sortable columns; anything unrecognized falls back
// to title so a malformed request degrades instead of failing.
func sortColumn(sort string) string {
	table := schema.CatalogManga
	switch sort {
	case SortPrice:
		return table.Price
	case SortPopularity:
		return table.PopularityScore
	case SortScore:
		return table.QualityScore
	case SortTitle:
		return table.Title
	}
	return table.Title
}

// sortDirection whitelists the sort direction, defaulting to ascending.
func sortDirection(direction string) string {
	if strings.EqualFold(direction, "desc") {
		return "DESC"
	}
	return "ASC"
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Manga, error) {
	return repository.findByColumn(context, schema.CatalogManga.ID, id)
}

func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Manga, error) {
	return repository.findByColumn(context, schema.CatalogManga.Slug, slug)
}

func (repository *PostgresRepository) FindByExternalID(context context.Context, externalID int) (*Manga, error) {
	return repository.findByColumn(context, schema.CatalogManga.ExternalID, externalID)
}

// findByColumn runs a single-row lookup keyed on a unique column.
func (repository *PostgresRepository) findByColumn(context context.Context, column string, value any) (*Manga, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		mangaColumns, schema.CatalogManga.Table, column)

	record := &Manga{}
	if err := scanManga(repository.db.QueryRow(context, query, value), record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Manga")
		}
		return nil, dberr.Wrap(err, "find_manga")
	}

	return record, nil
}

// # Write Path

/*
Insert persists a brand new catalog record.

Description: A single INSERT with RETURNING; either the whole row lands or
nothing does. The external_id unique index turns a concurrent duplicate import
into a Conflict for exactly one of the two callers.

Parameters:
  - context: context.Context
  - record: *Manga (fully populated except timestamps)

Returns:
  - error: apperr.Conflict on external-id/slug collision, storage errors otherwise
*/
func (repository *PostgresRepository) Insert(context context.Context, record *Manga) error {
	table := schema.CatalogManga

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING %s, %s
	`,
		table.Table,
		table.ID, table.ExternalID, table.Title, table.Slug, table.Author,
		table.Genres, table.Price, table.DisplayImage, table.ProviderImage,
		table.Description, table.PopularityScore, table.QualityScore,
		table.Status, table.VolumeCount, table.ChapterCount,
		table.CreatedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		record.ID, record.ExternalID, record.Title, record.Slug, record.Author,
		record.Genres, record.Price, record.DisplayImage, record.ProviderImage,
		record.Description, record.PopularityScore, record.QualityScore,
		record.Status, record.VolumeCount, record.ChapterCount,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			conflict := apperr.Conflict("Manga is already in the catalog")
			conflict.Cause = err
			return conflict
		}
		return dberr.Wrap(err, "insert_manga")
	}

	return nil
}

/*
Patch applies a minimal upstream-owned field delta.

Description: Builds the SET clause dynamically from the non-nil delta fields
only, so untouched columns keep their last write — in particular the
user-owned price, title, and display_image columns can never appear here.

Parameters:
  - context: context.Context
  - id: string (local id)
  - delta: SyncDelta

Returns:
  - *Manga: The record after the patch
  - error: apperr.NotFound if the id is unknown
*/
func (repository *PostgresRepository) Patch(context context.Context, id string, delta SyncDelta) (*Manga, error) {
	table := schema.CatalogManga

	sets := make([]string, 0, 10)
	args := make([]any, 0, 10)
	argID := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if delta.Author != nil {
		appendSet(table.Author, *delta.Author)
	}
	if delta.Genres != nil {
		appendSet(table.Genres, *delta.Genres)
	}
	if delta.Description != nil {
		appendSet(table.Description, *delta.Description)
	}
	if delta.Status != nil {
		appendSet(table.Status, *delta.Status)
	}
	if delta.PopularityScore != nil {
		appendSet(table.PopularityScore, *delta.PopularityScore)
	}
	if delta.QualityScore != nil {
		appendSet(table.QualityScore, *delta.QualityScore)
	}
	if delta.VolumeCount != nil {
		appendSet(table.VolumeCount, *delta.VolumeCount)
	}
	if delta.ChapterCount != nil {
		appendSet(table.ChapterCount, *delta.ChapterCount)
	}
	if delta.ProviderImage != nil {
		appendSet(table.ProviderImage, *delta.ProviderImage)
	}

	sets = append(sets, fmt.Sprintf("%s = now()", table.UpdatedAt))

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		table.Table, strings.Join(sets, ", "), table.ID, argID, mangaColumns)
	args = append(args, id)

	record := &Manga{}
	if err := scanManga(repository.db.QueryRow(context, query, args...), record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Manga")
		}
		return nil, dberr.Wrap(err, "patch_manga")
	}

	return record, nil
}

/*
Update applies an administrator's edits to the user-owned fields.
*/
func (repository *PostgresRepository) Update(context context.Context, id string, patch AdminPatch) (*Manga, error) {
	table := schema.CatalogManga

	sets := make([]string, 0, 5)
	args := make([]any, 0, 5)
	argID := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Title != nil {
		appendSet(table.Title, *patch.Title)
	}
	if patch.Price != nil {
		appendSet(table.Price, *patch.Price)
	}
	if patch.Description != nil {
		appendSet(table.Description, *patch.Description)
	}
	if patch.Genres != nil {
		appendSet(table.Genres, *patch.Genres)
	}

	sets = append(sets, fmt.Sprintf("%s = now()", table.UpdatedAt))

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $%d RETURNING %s`,
		table.Table, strings.Join(sets, ", "), table.ID, argID, mangaColumns)
	args = append(args, id)

	record := &Manga{}
	if err := scanManga(repository.db.QueryRow(context, query, args...), record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Manga")
		}
		return nil, dberr.Wrap(err, "update_manga")
	}

	return record, nil
}

/*
SetDisplayImage overwrites the display image column only.
*/
func (repository *PostgresRepository) SetDisplayImage(context context.Context, id string, imageURL string) (*Manga, error) {
	table := schema.CatalogManga

	query := fmt.Sprintf(`UPDATE %s SET %s = $1, %s = now() WHERE %s = $2 RETURNING %s`,
		table.Table, table.DisplayImage, table.UpdatedAt, table.ID, mangaColumns)

	record := &Manga{}
	if err := scanManga(repository.db.QueryRow(context, query, imageURL, id), record); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Manga")
		}
		return nil, dberr.Wrap(err, "set_manga_display_image")
	}

	return record, nil
}

/*
Delete removes a record permanently. Cart and wishlist rows referencing it are
removed by the ON DELETE CASCADE on their foreign keys.
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.CatalogManga

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	commandTag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_manga")
	}
	if commandTag.RowsAffected() == 0 {
		return apperr.NotFound("Manga")
	}

	return nil
}
