// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package anilist

import (
	"html"
	"regexp"
	"strings"

	"github.com/hikawa/tankobon/internal/catalog/manga"
	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/pkg/pointer"
	"github.com/hikawa/tankobon/pkg/slice"
)

// # Normalization Rules

// authorRolePriority resolves records with separate writer/artist credits to a
// single canonical author, deterministically. Order is significance, not
// position in the staff list.
var authorRolePriority = []string{"Story & Art", "Story", "Art", "Original Story"}

// markupTags matches any markup tag in an upstream description.
var markupTags = regexp.MustCompile(`<[^>]*>`)

// statusTable maps the fixed upstream vocabulary to the canonical enumeration.
// Anything outside the table degrades to [manga.StatusUnknown], never an error.
var statusTable = map[string]manga.Status{
	StatusFinished:       manga.StatusCompleted,
	StatusReleasing:      manga.StatusOngoing,
	StatusNotYetReleased: manga.StatusUpcoming,
	StatusCancelled:      manga.StatusCancelled,
	StatusHiatus:         manga.StatusOnHiatus,
}

/*
Normalize converts a raw AniList payload into the canonical provider snapshot.

Description: Pure transformation, no I/O. Applies, in order: title locale
selection (English, falling back to romanized), staff-credit author
derivation, description sanitization, status table lookup, null-to-zero
numeric coercion, genre deduplication, and largest-cover selection.

Parameters:
  - raw: *Manga (raw provider payload)

Returns:
  - *manga.Snapshot: Canonical upstream-owned field set
  - error: Unprocessable if both title locales are empty
*/
func Normalize(raw *Manga) (*manga.Snapshot, error) {
	title := raw.Title.English
	if title == "" {
		title = raw.Title.Romaji
	}
	if title == "" {
		return nil, apperr.Unprocessable("Manga has no English or romanized title")
	}

	return &manga.Snapshot{
		ExternalID:      raw.ID,
		Title:           title,
		Author:          AuthorFromStaff(raw.Staff.Edges),
		Genres:          slice.Unique(raw.Genres),
		Description:     SanitizeDescription(raw.Description),
		Status:          NormalizeStatus(raw.Status),
		PopularityScore: pointer.Val(raw.Popularity),
		QualityScore:    pointer.Val(raw.AverageScore),
		VolumeCount:     pointer.Val(raw.Volumes),
		ChapterCount:    pointer.Val(raw.Chapters),
		ProviderImage:   largestCover(raw),
	}, nil
}

// AuthorFromStaff scans the staff credit list for the highest-priority role
// and returns that credit's full name.
//
// # Matching Strategy
//
// Exact (case-insensitive) role match is tried for the whole priority list
// first; only then does a substring pass run as a fallback. The substring-only
// scan used by some upstreams lets "Story & Art Assistant" shadow the real
// author, so exact matches always win.
func AuthorFromStaff(edges []StaffEdge) string {
	for _, role := range authorRolePriority {
		for _, edge := range edges {
			if strings.EqualFold(strings.TrimSpace(edge.Role), role) {
				return edge.Node.Name.Full
			}
		}
	}

	for _, role := range authorRolePriority {
		lowerRole := strings.ToLower(role)
		for _, edge := range edges {
			if strings.Contains(strings.ToLower(edge.Role), lowerRole) {
				return edge.Node.Name.Full
			}
		}
	}

	return manga.UnknownAuthor
}

// SanitizeDescription strips markup tags, decodes HTML entities to their
// literal characters, and trims surrounding whitespace.
//
// Sanitizing an already-sanitized string is a no-op, so resync can safely
// re-run it over stored descriptions.
func SanitizeDescription(description string) string {
	clean := markupTags.ReplaceAllString(description, "")
	return strings.TrimSpace(html.UnescapeString(clean))
}

// NormalizeStatus maps an upstream status code into the canonical enumeration.
func NormalizeStatus(upstream string) manga.Status {
	if status, ok := statusTable[upstream]; ok {
		return status
	}
	return manga.StatusUnknown
}

// largestCover picks the biggest cover image the provider made available.
func largestCover(raw *Manga) string {
	if raw.CoverImage.ExtraLarge != "" {
		return raw.CoverImage.ExtraLarge
	}
	if raw.CoverImage.Large != "" {
		return raw.CoverImage.Large
	}
	return raw.CoverImage.Medium
}
