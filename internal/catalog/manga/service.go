// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package manga

import (
	"context"
	"log/slog"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/platform/validate"
	"github.com/hikawa/tankobon/pkg/slice"
	"github.com/hikawa/tankobon/pkg/slug"
	"github.com/hikawa/tankobon/pkg/uuid"
)

// # Service Layer

// Service is the catalog's reconciliation engine and query facade.
//
// It decides create / reject-duplicate / partial-update for provider imports,
// and guards the field-ownership split: resync only ever writes
// upstream-owned fields, administrative edits only ever write user-owned ones.
// The service is stateless between calls; every operation is request-scoped.
type Service struct {
	repo   Repository
	source MetadataSource
	logger *slog.Logger
}

// NewService constructs a new catalog [Service].
func NewService(repo Repository, source MetadataSource, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		source: source,
		logger: logger,
	}
}

// # Read Path

/*
Search retrieves a filtered, sorted page of the catalog plus the total count.

Description: The query surface is explicit per-call state — text, sort field,
direction, and page all arrive as parameters, never ambient state. Unknown
sort fields degrade to title ordering rather than failing the request.

Parameters:
  - context: context.Context
  - params: SearchParams

Returns:
  - []*Manga: The requested page
  - int: Total records matching the filter
  - error: Storage failures
*/
func (service *Service) Search(context context.Context, params SearchParams) ([]*Manga, int, error) {
	return service.repo.Search(context, params)
}

// Get fetches a single record by local UUID or URL slug.
func (service *Service) Get(context context.Context, identifier string) (*Manga, error) {
	if isUUID(identifier) {
		return service.repo.FindByID(context, identifier)
	}
	return service.repo.FindBySlug(context, identifier)
}

// # Import Path

/*
ImportByExternalID imports a manga from the metadata provider into the catalog.

Description: The create path of the reconciler. A record whose external id is
already present is rejected outright with a Conflict — there is no partial
merge on create; callers wanting a refresh must use [Service.Resync]. This is
the only path that initializes the display image (to the provider image) and
the placeholder price.

Parameters:
  - context: context.Context
  - externalID: int (provider id; must be positive)

Returns:
  - *Manga: The newly created record
  - error: Conflict on duplicates, otherwise whatever the metadata client or
    normalizer reported, unchanged
*/
func (service *Service) ImportByExternalID(context context.Context, externalID int) (*Manga, error) {

	// Cheap pre-insert duplicate check. The unique index on external_id is
	// what actually closes the concurrent-import race at insert time.
	if _, err := service.repo.FindByExternalID(context, externalID); err == nil {
		return nil, apperr.Conflict("Manga is already in the catalog")
	}

	snapshot, err := service.source.Snapshot(context, externalID)
	if err != nil {
		return nil, err
	}

	record := &Manga{
		ID:         uuid.New(),
		ExternalID: snapshot.ExternalID,
		Title:      snapshot.Title,
		Slug:       slug.From(snapshot.Title),
		Price:      DefaultImportPrice,

		// First import is the only moment the display image tracks the
		// provider image implicitly.
		DisplayImage: snapshot.ProviderImage,
	}
	applySnapshot(record, snapshot)

	if err := service.repo.Insert(context, record); err != nil {
		return nil, err
	}

	service.logger.Info("manga_imported",
		slog.String("manga_id", record.ID),
		slog.Int("external_id", record.ExternalID),
		slog.String("title", record.Title),
	)

	return record, nil
}

/*
Resync refreshes the upstream-owned fields of an existing record.

Description: Re-fetches and re-normalizes the provider record, computes the
minimal delta restricted to upstream-owned fields, and patches only those.
Price, title, and display image are user-owned and are never touched here; an
image refresh is the separate, explicit [Service.ResetImage] operation.

Parameters:
  - context: context.Context
  - localID: string

Returns:
  - *Manga: The record after reconciliation (unchanged if no field drifted)
  - error: NotFound if the local id is unknown; metadata client failures
    propagate unchanged
*/
func (service *Service) Resync(context context.Context, localID string) (*Manga, error) {
	record, err := service.repo.FindByID(context, localID)
	if err != nil {
		return nil, err
	}

	snapshot, err := service.source.Snapshot(context, record.ExternalID)
	if err != nil {
		return nil, err
	}

	delta := computeSyncDelta(record, snapshot)
	if delta.IsEmpty() {
		service.logger.Info("manga_resync_no_drift", slog.String("manga_id", record.ID))
		return record, nil
	}

	updated, err := service.repo.Patch(context, record.ID, delta)
	if err != nil {
		return nil, err
	}

	service.logger.Info("manga_resynced",
		slog.String("manga_id", updated.ID),
		slog.Int("external_id", updated.ExternalID),
	)

	return updated, nil
}

// # Image Ownership

// SetImage is the explicit admin action that overrides the display image with
// a custom URL. The provider image reference copy is left untouched.
func (service *Service) SetImage(context context.Context, localID string, imageURL string) (*Manga, error) {
	validator := &validate.Validator{}
	validator.Required(FieldImage, imageURL)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return service.repo.SetDisplayImage(context, localID, imageURL)
}

/*
ResetImage restores the display image to the stored provider image.

Description: Unconditional and independent of resync — it applies even when
the display image only differs because of a locally-set custom cover, and it
does not refresh the provider image first.
*/
func (service *Service) ResetImage(context context.Context, localID string) (*Manga, error) {
	record, err := service.repo.FindByID(context, localID)
	if err != nil {
		return nil, err
	}

	updated, err := service.repo.SetDisplayImage(context, record.ID, record.ProviderImage)
	if err != nil {
		return nil, err
	}

	service.logger.Info("manga_image_reset", slog.String("manga_id", updated.ID))
	return updated, nil
}

// # Administrative Edits

/*
Update applies an administrator's edits to the user-owned fields.

Description: The patch surface is deliberately restricted to title, price,
description, and genres — upstream-owned metrics and the provider image can
only change through resync, so the two mutation sources cannot clobber each
other without an explicit request.
*/
func (service *Service) Update(context context.Context, localID string, patch AdminPatch) (*Manga, error) {
	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, 500)
	}
	if patch.Price != nil {
		validator.Custom(FieldPrice, *patch.Price < 0, "Must not be negative")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return service.repo.FindByID(context, localID)
	}

	if patch.Genres != nil {
		deduped := slice.Unique(*patch.Genres)
		patch.Genres = &deduped
	}

	updated, err := service.repo.Update(context, localID, patch)
	if err != nil {
		return nil, err
	}

	service.logger.Info("manga_updated", slog.String("manga_id", updated.ID))
	return updated, nil
}

// Delete removes a record from the catalog permanently.
func (service *Service) Delete(context context.Context, localID string) error {
	if err := service.repo.Delete(context, localID); err != nil {
		return err
	}

	service.logger.Info("manga_deleted", slog.String("manga_id", localID))
	return nil
}

// # Internal Helpers

// isUUID returns true if the string matches the standard UUID length.
func isUUID(s string) bool {
	return len(s) == 36
}

// # Reconciliation Helpers

// applySnapshot copies every upstream-owned field of the snapshot onto the record.
func applySnapshot(record *Manga, snapshot *Snapshot) {
	record.Author = snapshot.Author
	record.Genres = snapshot.Genres
	record.Description = snapshot.Description
	record.Status = snapshot.Status
	record.PopularityScore = snapshot.PopularityScore
	record.QualityScore = snapshot.QualityScore
	record.VolumeCount = snapshot.VolumeCount
	record.ChapterCount = snapshot.ChapterCount
	record.ProviderImage = snapshot.ProviderImage
}

// computeSyncDelta diffs the stored record against a fresh snapshot and keeps
// only the upstream-owned fields that actually drifted.
func computeSyncDelta(record *Manga, snapshot *Snapshot) SyncDelta {
	delta := SyncDelta{}

	if record.Author != snapshot.Author {
		delta.Author = &snapshot.Author
	}
	if !equalGenres(record.Genres, snapshot.Genres) {
		delta.Genres = &snapshot.Genres
	}
	if record.Description != snapshot.Description {
		delta.Description = &snapshot.Description
	}
	if record.Status != snapshot.Status {
		delta.Status = &snapshot.Status
	}
	if record.PopularityScore != snapshot.PopularityScore {
		delta.PopularityScore = &snapshot.PopularityScore
	}
	if record.QualityScore != snapshot.QualityScore {
		delta.QualityScore = &snapshot.QualityScore
	}
	if record.VolumeCount != snapshot.VolumeCount {
		delta.VolumeCount = &snapshot.VolumeCount
	}
	if record.ChapterCount != snapshot.ChapterCount {
		delta.ChapterCount = &snapshot.ChapterCount
	}
	if record.ProviderImage != snapshot.ProviderImage {
		delta.ProviderImage = &snapshot.ProviderImage
	}

	return delta
}

// equalGenres compares two genre lists element-wise, order-sensitive.
func equalGenres(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
