// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package manga

import "context"

// # Catalog Data Access

// Repository defines the persistence contract for the manga catalog.
//
// Implementations must enforce external-id uniqueness at insert time so that
// two concurrent creates for the same external id resolve to exactly one row.
type Repository interface {

	/*
		Search returns a filtered, sorted, paginated slice of manga and the
		total count of records matching the filter.

		Parameters:
		  - context: context.Context
		  - params: SearchParams (query text, sort field/direction, limit, offset)

		Returns:
		  - []*Manga: The requested page, empty (not an error) beyond the last page
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	Search(context context.Context, params SearchParams) ([]*Manga, int, error)

	/*
		FindByID returns the record with the given local id.

		Returns:
		  - *Manga: The hydrated record
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Manga, error)

	/*
		FindBySlug returns the record matching the unique URL slug.
	*/
	FindBySlug(context context.Context, slug string) (*Manga, error)

	/*
		FindByExternalID returns the record imported from the given provider id.

		Returns:
		  - *Manga: The hydrated record
		  - error: apperr.NotFound if the external id was never imported
	*/
	FindByExternalID(context context.Context, externalID int) (*Manga, error)

	/*
		Insert persists a brand new record. The write is a single statement:
		it either lands completely or not at all.

		Returns:
		  - error: apperr.Conflict on an external-id or slug collision
	*/
	Insert(context context.Context, record *Manga) error

	/*
		Patch applies a minimal upstream-owned field delta to an existing
		record. Nil delta fields are left untouched.

		Returns:
		  - *Manga: The record after the patch
		  - error: apperr.NotFound if the local id is unknown
	*/
	Patch(context context.Context, id string, delta SyncDelta) (*Manga, error)

	/*
		Update applies an administrator's edits to the user-owned fields.

		Returns:
		  - *Manga: The record after the update
		  - error: apperr.NotFound if the local id is unknown
	*/
	Update(context context.Context, id string, patch AdminPatch) (*Manga, error)

	/*
		SetDisplayImage overwrites the display image only. Used by both the
		explicit cover override and the reset-to-provider action.
	*/
	SetDisplayImage(context context.Context, id string, imageURL string) (*Manga, error)

	/*
		Delete removes the record permanently.

		Returns:
		  - error: apperr.NotFound if the local id is unknown
	*/
	Delete(context context.Context, id string) error
}

// # Metadata Provider Contract

// MetadataSource yields the normalized upstream snapshot for an external id.
// The AniList adapter is the production implementation; tests substitute fakes.
type MetadataSource interface {
	Snapshot(context context.Context, externalID int) (*Snapshot, error)
}
