// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package anilist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikawa/tankobon/internal/catalog/anilist"
	"github.com/hikawa/tankobon/internal/catalog/manga"
	"github.com/hikawa/tankobon/internal/platform/apperr"
)

// staffEdge builds a StaffEdge literal for tests.
func staffEdge(role, name string) anilist.StaffEdge {
	edge := anilist.StaffEdge{Role: role}
	edge.Node.Name.Full = name
	return edge
}

/*
TestNormalize_TitleFallback checks the English-then-romaji locale selection.
*/
func TestNormalize_TitleFallback(t *testing.T) {
	tests := []struct {
		name    string
		english string
		romaji  string
		want    string
		wantErr bool
	}{
		{"english_preferred", "Frieren: Beyond Journey's End", "Sousou no Frieren", "Frieren: Beyond Journey's End", false},
		{"romaji_fallback", "", "Sousou no Frieren", "Sousou no Frieren", false},
		{"no_title_at_all", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &anilist.Manga{ID: 118586}
			raw.Title.English = tt.english
			raw.Title.Romaji = tt.romaji

			snapshot, err := anilist.Normalize(raw)

			if tt.wantErr {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "UNPROCESSABLE", ae.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, snapshot.Title)
			assert.Equal(t, 118586, snapshot.ExternalID)
		})
	}
}

/*
TestAuthorFromStaff verifies the role priority order and the exact-before-substring rule.
*/
func TestAuthorFromStaff(t *testing.T) {
	tests := []struct {
		name  string
		edges []anilist.StaffEdge
		want  string
	}{
		{
			"story_and_art_wins",
			[]anilist.StaffEdge{
				staffEdge("Story", "Writer Person"),
				staffEdge("Story & Art", "Real Author"),
			},
			"Real Author",
		},
		{
			"story_beats_art",
			[]anilist.StaffEdge{
				staffEdge("Art", "Illustrator"),
				staffEdge("Story", "Writer Person"),
			},
			"Writer Person",
		},
		{
			"exact_match_beats_substring",
			[]anilist.StaffEdge{
				staffEdge("Story & Art Assistant", "The Assistant"),
				staffEdge("Art", "Illustrator"),
			},
			"Illustrator",
		},
		{
			"substring_fallback",
			[]anilist.StaffEdge{
				staffEdge("Story & Art (ch 1-20)", "Original Creator"),
			},
			"Original Creator",
		},
		{
			"whitespace_tolerant",
			[]anilist.StaffEdge{
				staffEdge("  story & art  ", "Trimmed Author"),
			},
			"Trimmed Author",
		},
		{
			"no_credited_roles",
			[]anilist.StaffEdge{
				staffEdge("Translator", "Someone Else"),
			},
			manga.UnknownAuthor,
		},
		{
			"empty_staff_list",
			nil,
			manga.UnknownAuthor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anilist.AuthorFromStaff(tt.edges))
		})
	}
}

/*
TestSanitizeDescription covers tag stripping, entity decoding, and idempotence.
*/
func TestSanitizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain_text", "A quiet story.", "A quiet story."},
		{"strips_tags", "An epic <b>adventure</b> begins.<br>", "An epic adventure begins."},
		{"decodes_entities", "Cats &amp; dogs &hellip;", "Cats & dogs …"},
		{"trims_whitespace", "  padded  ", "padded"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := anilist.SanitizeDescription(tt.input)
			assert.Equal(t, tt.want, got)

			// Re-running the sanitizer must not change the output.
			assert.Equal(t, got, anilist.SanitizeDescription(got))
		})
	}
}

/*
TestNormalizeStatus checks the upstream vocabulary mapping and the unknown fallback.
*/
func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		upstream string
		want     manga.Status
	}{
		{anilist.StatusFinished, manga.StatusCompleted},
		{anilist.StatusReleasing, manga.StatusOngoing},
		{anilist.StatusNotYetReleased, manga.StatusUpcoming},
		{anilist.StatusCancelled, manga.StatusCancelled},
		{anilist.StatusHiatus, manga.StatusOnHiatus},
		{"SOMETHING_NEW", manga.StatusUnknown},
		{"", manga.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.upstream, func(t *testing.T) {
			assert.Equal(t, tt.want, anilist.NormalizeStatus(tt.upstream))
		})
	}
}

/*
TestNormalize_Defaults verifies null-numeric coercion, genre dedup, and cover selection.
*/
func TestNormalize_Defaults(t *testing.T) {
	t.Run("null_metrics_become_zero", func(t *testing.T) {
		raw := &anilist.Manga{ID: 30002}
		raw.Title.English = "Berserk"

		snapshot, err := anilist.Normalize(raw)
		require.NoError(t, err)

		assert.Zero(t, snapshot.PopularityScore)
		assert.Zero(t, snapshot.QualityScore)
		assert.Zero(t, snapshot.VolumeCount)
		assert.Zero(t, snapshot.ChapterCount)
	})

	t.Run("present_metrics_carry_over", func(t *testing.T) {
		score, popularity, volumes, chapters := 93, 250000, 41, 380

		raw := &anilist.Manga{
			ID:           30002,
			AverageScore: &score,
			Popularity:   &popularity,
			Volumes:      &volumes,
			Chapters:     &chapters,
		}
		raw.Title.English = "Berserk"

		snapshot, err := anilist.Normalize(raw)
		require.NoError(t, err)

		assert.Equal(t, 93, snapshot.QualityScore)
		assert.Equal(t, 250000, snapshot.PopularityScore)
		assert.Equal(t, 41, snapshot.VolumeCount)
		assert.Equal(t, 380, snapshot.ChapterCount)
	})

	t.Run("genres_deduplicated_in_order", func(t *testing.T) {
		raw := &anilist.Manga{
			ID:     105778,
			Genres: []string{"Action", "Drama", "Action", "Fantasy", "Drama"},
		}
		raw.Title.English = "Chainsaw Man"

		snapshot, err := anilist.Normalize(raw)
		require.NoError(t, err)

		assert.Equal(t, []string{"Action", "Drama", "Fantasy"}, snapshot.Genres)
	})

	t.Run("largest_cover_selected", func(t *testing.T) {
		raw := &anilist.Manga{ID: 105778}
		raw.Title.English = "Chainsaw Man"
		raw.CoverImage.Medium = "https://img.test/medium.jpg"
		raw.CoverImage.Large = "https://img.test/large.jpg"

		snapshot, err := anilist.Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "https://img.test/large.jpg", snapshot.ProviderImage)

		raw.CoverImage.ExtraLarge = "https://img.test/xl.jpg"
		snapshot, err = anilist.Normalize(raw)
		require.NoError(t, err)
		assert.Equal(t, "https://img.test/xl.jpg", snapshot.ProviderImage)
	})
}
