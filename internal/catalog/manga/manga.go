// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

/*
Package manga defines the canonical catalog record and the reconciliation
engine that keeps it in sync with the external metadata provider.

Core Responsibility:

  - Catalog: The canonical [Manga] record served to the store-front.
  - Reconciliation: Import, resync, and explicit image-reset flows that decide
    create / reject-duplicate / partial-update against the store.
  - Ownership: Fields are partitioned between the import pipeline
    (upstream-owned) and administrators (user-owned); neither side silently
    overwrites the other.

This package acts as the source of truth for all catalog-related data models.
*/
package manga

import "time"

// # Domain Enums

// Status represents the canonical publication status of a manga.
type Status string

const (
	// StatusCompleted indicates no further volumes are expected.
	StatusCompleted Status = "completed"

	// StatusOngoing indicates the publication is actively releasing.
	StatusOngoing Status = "ongoing"

	// StatusUpcoming indicates the publication has not started releasing yet.
	StatusUpcoming Status = "upcoming"

	// StatusCancelled indicates the publication was permanently discontinued.
	StatusCancelled Status = "cancelled"

	// StatusOnHiatus indicates the publication is paused indefinitely.
	StatusOnHiatus Status = "hiatus"

	// StatusUnknown is the default when upstream status information is
	// missing or unrecognized. Mapping never fails into an error.
	StatusUnknown Status = "unknown"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case
		StatusCompleted,
		StatusOngoing,
		StatusUpcoming,
		StatusCancelled,
		StatusOnHiatus,
		StatusUnknown:
		return true
	}
	return false
}

// # Sentinels & Defaults

const (
	// UnknownAuthor is the sentinel author when no staff credit matches the
	// role priority list.
	UnknownAuthor = "Unknown Author"

	// DefaultImportPrice is the placeholder price assigned at first import.
	// The provider does not supply pricing; administrators edit it afterwards.
	DefaultImportPrice = 9.99
)

// # Core Entity

// Manga is the canonical catalog record.
//
// # Field Ownership
//
// Upstream-owned fields (author, genres, description, status, scores, counts,
// provider image) are refreshed by resync. User-owned fields (title after
// import, price, display image) are only written by administrative actions.
// ExternalID is immutable after creation and unique across the catalog.
type Manga struct {
	ID            string   `json:"id"`
	ExternalID    int      `json:"external_id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"` // URL-safe identifier
	Author        string   `json:"author"`
	Genres        []string `json:"genres"`
	Price         float64  `json:"price"`
	DisplayImage  string   `json:"display_image"`
	ProviderImage string   `json:"provider_image"`
	Description   string   `json:"description"`

	// # Upstream Metrics
	PopularityScore int `json:"popularity_score"`
	QualityScore    int `json:"quality_score"`

	Status       Status `json:"status"`
	VolumeCount  int    `json:"volume_count"`
	ChapterCount int    `json:"chapter_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Provider Snapshot

// Snapshot is the normalized, upstream-owned view of a manga as the metadata
// provider currently reports it. It is the output of the normalizer and the
// input to both the create and resync paths of the reconciler.
type Snapshot struct {
	ExternalID      int
	Title           string
	Author          string
	Genres          []string
	Description     string
	Status          Status
	PopularityScore int
	QualityScore    int
	VolumeCount     int
	ChapterCount    int
	ProviderImage   string
}

// # Partial Updates

// SyncDelta is the minimal set of upstream-owned fields that changed between
// the stored record and a fresh provider snapshot. Nil fields are untouched
// by the patch. Price, display image, and title can never appear here.
type SyncDelta struct {
	Author          *string
	Genres          *[]string
	Description     *string
	Status          *Status
	PopularityScore *int
	QualityScore    *int
	VolumeCount     *int
	ChapterCount    *int
	ProviderImage   *string
}

// IsEmpty reports whether the delta carries no changes at all.
func (d SyncDelta) IsEmpty() bool {
	return d.Author == nil &&
		d.Genres == nil &&
		d.Description == nil &&
		d.Status == nil &&
		d.PopularityScore == nil &&
		d.QualityScore == nil &&
		d.VolumeCount == nil &&
		d.ChapterCount == nil &&
		d.ProviderImage == nil
}

// AdminPatch carries the user-owned fields an administrator may edit directly.
// Display image changes go through the explicit cover actions instead.
type AdminPatch struct {
	Title       *string   `json:"title"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	Genres      *[]string `json:"genres"`
}

// IsEmpty reports whether the patch carries no changes at all.
func (p AdminPatch) IsEmpty() bool {
	return p.Title == nil && p.Price == nil && p.Description == nil && p.Genres == nil
}

// # Search

// Sort field identifiers accepted by [SearchParams].
const (
	SortTitle      = "title"
	SortPrice      = "price"
	SortPopularity = "popularity"
	SortScore      = "score"
)

// SearchParams holds the full query surface of the catalog's read path.
// It is explicit state passed per call; the query engine itself is stateless.
type SearchParams struct {
	// Query matches case-insensitively as a substring of title OR author,
	// OR as an exact (case-insensitive) element of genres. Empty matches all.
	Query string

	// Genres narrows results to records carrying at least one of the listed
	// genres. Empty applies no genre filter.
	Genres []string

	// Sort is one of the Sort* identifiers; ties always break on ascending
	// local id so a fixed query is stable across pages.
	Sort    string
	SortDir string // "asc" or "desc"

	Limit  int
	Offset int
}

// # Field Identifiers

// Global field names for validation and dynamic query mapping.
const (
	FieldID          = "id"
	FieldExternalID  = "external_id"
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldGenres      = "genres"
	FieldPrice       = "price"
	FieldImage       = "image_url"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldSort        = "sort"
)
