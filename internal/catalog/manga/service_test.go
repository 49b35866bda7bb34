// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package manga_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikawa/tankobon/internal/catalog/manga"
	"github.com/hikawa/tankobon/internal/platform/apperr"
)

// # Test Doubles

// fakeRepository is an in-memory [manga.Repository] that records mutations.
type fakeRepository struct {
	records map[string]*manga.Manga // keyed by local id

	inserted    []*manga.Manga
	patches     []manga.SyncDelta
	updates     []manga.AdminPatch
	imageWrites []string
}

func newFakeRepository(seed ...*manga.Manga) *fakeRepository {
	repo := &fakeRepository{records: map[string]*manga.Manga{}}
	for _, record := range seed {
		repo.records[record.ID] = record
	}
	return repo
}

func (r *fakeRepository) Search(_ context.Context, _ manga.SearchParams) ([]*manga.Manga, int, error) {
	results := make([]*manga.Manga, 0, len(r.records))
	for _, record := range r.records {
		results = append(results, record)
	}
	return results, len(results), nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*manga.Manga, error) {
	if record, ok := r.records[id]; ok {
		return record, nil
	}
	return nil, apperr.NotFound("Manga")
}

func (r *fakeRepository) FindBySlug(_ context.Context, slug string) (*manga.Manga, error) {
	for _, record := range r.records {
		if record.Slug == slug {
			return record, nil
		}
	}
	return nil, apperr.NotFound("Manga")
}

func (r *fakeRepository) FindByExternalID(_ context.Context, externalID int) (*manga.Manga, error) {
	for _, record := range r.records {
		if record.ExternalID == externalID {
			return record, nil
		}
	}
	return nil, apperr.NotFound("Manga")
}

func (r *fakeRepository) Insert(_ context.Context, record *manga.Manga) error {
	for _, existing := range r.records {
		if existing.ExternalID == record.ExternalID {
			return apperr.Conflict("Manga is already in the catalog")
		}
	}
	r.records[record.ID] = record
	r.inserted = append(r.inserted, record)
	return nil
}

func (r *fakeRepository) Patch(_ context.Context, id string, delta manga.SyncDelta) (*manga.Manga, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, apperr.NotFound("Manga")
	}
	r.patches = append(r.patches, delta)

	if delta.Author != nil {
		record.Author = *delta.Author
	}
	if delta.Genres != nil {
		record.Genres = *delta.Genres
	}
	if delta.Description != nil {
		record.Description = *delta.Description
	}
	if delta.Status != nil {
		record.Status = *delta.Status
	}
	if delta.PopularityScore != nil {
		record.PopularityScore = *delta.PopularityScore
	}
	if delta.QualityScore != nil {
		record.QualityScore = *delta.QualityScore
	}
	if delta.VolumeCount != nil {
		record.VolumeCount = *delta.VolumeCount
	}
	if delta.ChapterCount != nil {
		record.ChapterCount = *delta.ChapterCount
	}
	if delta.ProviderImage != nil {
		record.ProviderImage = *delta.ProviderImage
	}
	return record, nil
}

func (r *fakeRepository) Update(_ context.Context, id string, patch manga.AdminPatch) (*manga.Manga, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, apperr.NotFound("Manga")
	}
	r.updates = append(r.updates, patch)

	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Price != nil {
		record.Price = *patch.Price
	}
	if patch.Description != nil {
		record.Description = *patch.Description
	}
	if patch.Genres != nil {
		record.Genres = *patch.Genres
	}
	return record, nil
}

func (r *fakeRepository) SetDisplayImage(_ context.Context, id, imageURL string) (*manga.Manga, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, apperr.NotFound("Manga")
	}
	r.imageWrites = append(r.imageWrites, imageURL)
	record.DisplayImage = imageURL
	return record, nil
}

func (r *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return apperr.NotFound("Manga")
	}
	delete(r.records, id)
	return nil
}

// fakeSource serves canned snapshots keyed by external id.
type fakeSource struct {
	snapshots map[int]*manga.Snapshot
	err       error
	calls     int
}

func (s *fakeSource) Snapshot(_ context.Context, externalID int) (*manga.Snapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if snapshot, ok := s.snapshots[externalID]; ok {
		return snapshot, nil
	}
	return nil, apperr.NotFound("Manga")
}

// # Fixtures

const testMangaID = "01912aaf-0000-7000-8000-000000000001"

func berserkSnapshot() *manga.Snapshot {
	return &manga.Snapshot{
		ExternalID:      30002,
		Title:           "Berserk",
		Author:          "Kentarou Miura",
		Genres:          []string{"Action", "Fantasy"},
		Description:     "A dark fantasy.",
		Status:          manga.StatusOngoing,
		PopularityScore: 250000,
		QualityScore:    93,
		VolumeCount:     41,
		ChapterCount:    380,
		ProviderImage:   "https://img.test/berserk-xl.jpg",
	}
}

func storedBerserk() *manga.Manga {
	snapshot := berserkSnapshot()
	return &manga.Manga{
		ID:              testMangaID,
		ExternalID:      snapshot.ExternalID,
		Title:           snapshot.Title,
		Slug:            "berserk",
		Author:          snapshot.Author,
		Genres:          snapshot.Genres,
		Price:           manga.DefaultImportPrice,
		DisplayImage:    snapshot.ProviderImage,
		ProviderImage:   snapshot.ProviderImage,
		Description:     snapshot.Description,
		Status:          snapshot.Status,
		PopularityScore: snapshot.PopularityScore,
		QualityScore:    snapshot.QualityScore,
		VolumeCount:     snapshot.VolumeCount,
		ChapterCount:    snapshot.ChapterCount,
	}
}

func newTestService(repo manga.Repository, source manga.MetadataSource) *manga.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return manga.NewService(repo, source, logger)
}

// # Import

/*
TestService_Import_CreatesRecordWithDefaults checks the create path of the reconciler.
*/
func TestService_Import_CreatesRecordWithDefaults(t *testing.T) {
	repo := newFakeRepository()
	source := &fakeSource{snapshots: map[int]*manga.Snapshot{30002: berserkSnapshot()}}
	service := newTestService(repo, source)

	record, err := service.ImportByExternalID(context.Background(), 30002)
	require.NoError(t, err)
	require.Len(t, repo.inserted, 1)

	assert.Len(t, record.ID, 36, "local id must be a UUID")
	assert.Equal(t, 30002, record.ExternalID)
	assert.Equal(t, "Berserk", record.Title)
	assert.Equal(t, "berserk", record.Slug)
	assert.Equal(t, "Kentarou Miura", record.Author)
	assert.Equal(t, manga.DefaultImportPrice, record.Price)
	assert.Equal(t, record.ProviderImage, record.DisplayImage,
		"first import initializes the display image from the provider image")
	assert.Equal(t, manga.StatusOngoing, record.Status)
	assert.Equal(t, 250000, record.PopularityScore)
}

/*
TestService_Import_RejectsDuplicates checks that re-importing an external id conflicts.
*/
func TestService_Import_RejectsDuplicates(t *testing.T) {
	repo := newFakeRepository(storedBerserk())
	source := &fakeSource{snapshots: map[int]*manga.Snapshot{30002: berserkSnapshot()}}
	service := newTestService(repo, source)

	record, err := service.ImportByExternalID(context.Background(), 30002)

	assert.Nil(t, record)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)

	assert.Zero(t, source.calls, "duplicate check happens before any provider call")
	assert.Empty(t, repo.inserted)
}

/*
TestService_Import_PropagatesSourceErrors verifies provider failures pass through unchanged.
*/
func TestService_Import_PropagatesSourceErrors(t *testing.T) {
	upstreamErr := apperr.Upstream("Metadata provider reported an error", nil)

	repo := newFakeRepository()
	source := &fakeSource{err: upstreamErr}
	service := newTestService(repo, source)

	record, err := service.ImportByExternalID(context.Background(), 30002)

	assert.Nil(t, record)
	assert.Equal(t, upstreamErr, err)
	assert.Empty(t, repo.inserted)
}

// # Resync

/*
TestService_Resync_NoDriftSkipsPatch checks that an unchanged snapshot writes nothing.
*/
func TestService_Resync_NoDriftSkipsPatch(t *testing.T) {
	repo := newFakeRepository(storedBerserk())
	source := &fakeSource{snapshots: map[int]*manga.Snapshot{30002: berserkSnapshot()}}
	service := newTestService(repo, source)

	record, err := service.Resync(context.Background(), testMangaID)

	require.NoError(t, err)
	assert.Equal(t, testMangaID, record.ID)
	assert.Empty(t, repo.patches, "no drift means no patch statement")
}

/*
TestService_Resync_PatchesOnlyDriftedFields checks the minimal-delta computation
and that user-owned fields survive a resync.
*/
func TestService_Resync_PatchesOnlyDriftedFields(t *testing.T) {
	stored := storedBerserk()

	// Admin-edited, user-owned state that resync must preserve.
	stored.Price = 24.99
	stored.DisplayImage = "https://img.test/custom.jpg"
	stored.Title = "Berserk (Deluxe)"

	fresh := berserkSnapshot()
	fresh.PopularityScore = 260000
	fresh.ChapterCount = 385
	fresh.Status = manga.StatusOnHiatus

	repo := newFakeRepository(stored)
	source := &fakeSource{snapshots: map[int]*manga.Snapshot{30002: fresh}}
	service := newTestService(repo, source)

	record, err := service.Resync(context.Background(), testMangaID)
	require.NoError(t, err)
	require.Len(t, repo.patches, 1)

	delta := repo.patches[0]
	require.NotNil(t, delta.PopularityScore)
	assert.Equal(t, 260000, *delta.PopularityScore)
	require.NotNil(t, delta.ChapterCount)
	assert.Equal(t, 385, *delta.ChapterCount)
	require.NotNil(t, delta.Status)
	assert.Equal(t, manga.StatusOnHiatus, *delta.Status)

	// Unchanged upstream fields stay out of the delta.
	assert.Nil(t, delta.Author)
	assert.Nil(t, delta.Genres)
	assert.Nil(t, delta.Description)
	assert.Nil(t, delta.ProviderImage)

	// User-owned fields are untouchable by resync.
	assert.Equal(t, 24.99, record.Price)
	assert.Equal(t, "https://img.test/custom.jpg", record.DisplayImage)
	assert.Equal(t, "Berserk (Deluxe)", record.Title)
}

/*
TestService_Resync_UnknownID checks the local lookup failure path.
*/
func TestService_Resync_UnknownID(t *testing.T) {
	repo := newFakeRepository()
	source := &fakeSource{}
	service := newTestService(repo, source)

	record, err := service.Resync(context.Background(), testMangaID)

	assert.Nil(t, record)
	assertAppCode(t, err, "NOT_FOUND")
	assert.Zero(t, source.calls)
}

// # Cover Ownership

/*
TestService_ResetImage restores the provider image regardless of the current cover.
*/
func TestService_ResetImage(t *testing.T) {
	stored := storedBerserk()
	stored.DisplayImage = "https://img.test/custom.jpg"

	repo := newFakeRepository(stored)
	service := newTestService(repo, &fakeSource{})

	record, err := service.ResetImage(context.Background(), testMangaID)

	require.NoError(t, err)
	assert.Equal(t, stored.ProviderImage, record.DisplayImage)
	assert.Equal(t, []string{stored.ProviderImage}, repo.imageWrites)
}

/*
TestService_SetImage validates the custom cover override.
*/
func TestService_SetImage(t *testing.T) {
	repo := newFakeRepository(storedBerserk())
	service := newTestService(repo, &fakeSource{})

	t.Run("sets_custom_cover", func(t *testing.T) {
		record, err := service.SetImage(context.Background(), testMangaID, "https://img.test/new.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://img.test/new.jpg", record.DisplayImage)
	})

	t.Run("rejects_empty_url", func(t *testing.T) {
		record, err := service.SetImage(context.Background(), testMangaID, "   ")
		assert.Nil(t, record)
		assertAppCode(t, err, "VALIDATION_ERROR")
	})
}

// # Administrative Edits

/*
TestService_Update checks validation and the empty-patch shortcut.
*/
func TestService_Update(t *testing.T) {
	t.Run("applies_user_owned_fields", func(t *testing.T) {
		repo := newFakeRepository(storedBerserk())
		service := newTestService(repo, &fakeSource{})

		price := 19.99
		record, err := service.Update(context.Background(), testMangaID, manga.AdminPatch{Price: &price})

		require.NoError(t, err)
		assert.Equal(t, 19.99, record.Price)
		require.Len(t, repo.updates, 1)
	})

	t.Run("rejects_negative_price", func(t *testing.T) {
		repo := newFakeRepository(storedBerserk())
		service := newTestService(repo, &fakeSource{})

		price := -1.0
		record, err := service.Update(context.Background(), testMangaID, manga.AdminPatch{Price: &price})

		assert.Nil(t, record)
		assertAppCode(t, err, "VALIDATION_ERROR")
		assert.Empty(t, repo.updates)
	})

	t.Run("empty_patch_is_a_read", func(t *testing.T) {
		repo := newFakeRepository(storedBerserk())
		service := newTestService(repo, &fakeSource{})

		record, err := service.Update(context.Background(), testMangaID, manga.AdminPatch{})

		require.NoError(t, err)
		assert.Equal(t, testMangaID, record.ID)
		assert.Empty(t, repo.updates)
	})

	t.Run("deduplicates_genres", func(t *testing.T) {
		repo := newFakeRepository(storedBerserk())
		service := newTestService(repo, &fakeSource{})

		genres := []string{"Action", "Action", "Horror"}
		record, err := service.Update(context.Background(), testMangaID, manga.AdminPatch{Genres: &genres})

		require.NoError(t, err)
		assert.Equal(t, []string{"Action", "Horror"}, record.Genres)
	})
}

// # Lookup

/*
TestService_Get dispatches between UUID and slug identifiers.
*/
func TestService_Get(t *testing.T) {
	repo := newFakeRepository(storedBerserk())
	service := newTestService(repo, &fakeSource{})

	t.Run("by_uuid", func(t *testing.T) {
		record, err := service.Get(context.Background(), testMangaID)
		require.NoError(t, err)
		assert.Equal(t, testMangaID, record.ID)
	})

	t.Run("by_slug", func(t *testing.T) {
		record, err := service.Get(context.Background(), "berserk")
		require.NoError(t, err)
		assert.Equal(t, testMangaID, record.ID)
	})

	t.Run("unknown_slug", func(t *testing.T) {
		record, err := service.Get(context.Background(), "missing-series")
		assert.Nil(t, record)
		assertAppCode(t, err, "NOT_FOUND")
	})
}

// assertAppCode fails the test unless err carries the expected application code.
func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %T", err)
	assert.Equal(t, code, ae.Code)
}
