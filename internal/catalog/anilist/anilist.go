// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

/*
Package anilist implements the metadata-provider boundary for the catalog.

It talks to the AniList GraphQL API to resolve a manga by its external id and
normalizes the heterogeneous upstream payload (multi-locale titles, staff credit
edges, HTML-bearing descriptions, enumerated status codes) into the canonical
record shape defined by the manga domain.

Architecture:

  - Client: One GraphQL round trip per call; failures are classified into the
    [apperr] taxonomy instead of leaking transport details upward.
  - Normalize: A pure transformation from the raw payload to [manga.Snapshot].
  - Source: Adapter that satisfies [manga.MetadataSource] for the reconciler.

The package performs no persistence of any kind.
*/
package anilist

// # Raw Provider Payload

// Manga is the raw AniList Media payload for a manga lookup.
//
// Field shapes mirror the GraphQL response one-to-one; normalization into the
// catalog's canonical record happens in [Normalize], never here.
type Manga struct {
	ID    int `json:"id"`
	Title struct {
		Romaji  string `json:"romaji"`
		English string `json:"english"`
	} `json:"title"`
	Staff struct {
		Edges []StaffEdge `json:"edges"`
	} `json:"staff"`
	Genres     []string `json:"genres"`
	CoverImage struct {
		ExtraLarge string `json:"extraLarge"`
		Large      string `json:"large"`
		Medium     string `json:"medium"`
	} `json:"coverImage"`
	Description  string `json:"description"`
	AverageScore *int   `json:"averageScore"`
	Popularity   *int   `json:"popularity"`
	Status       string `json:"status"`
	Format       string `json:"format"`
	Volumes      *int   `json:"volumes"`
	Chapters     *int   `json:"chapters"`
}

// StaffEdge is a single staff credit: a role string plus the credited person.
type StaffEdge struct {
	Node struct {
		Name struct {
			Full string `json:"full"`
		} `json:"name"`
	} `json:"node"`
	Role string `json:"role"`
}

// # GraphQL Documents

// mangaByIDQuery resolves a single Media record constrained to the MANGA type.
// The format field is still requested so the client can reject one-off ids that
// AniList resolves to a non-manga media kind.
const mangaByIDQuery = `
query ($id: Int) {
  Media(id: $id, type: MANGA) {
    id
    title {
      romaji
      english
    }
    staff {
      edges {
        node {
          name {
            full
          }
        }
        role
      }
    }
    genres
    coverImage {
      extraLarge
      large
      medium
    }
    description(asHtml: false)
    averageScore
    popularity
    status
    format
    volumes
    chapters
  }
}`

// # Upstream Vocabulary

// Media formats accepted as manga. AniList also files novels, anime seasons,
// and music under Media, so the kind check is mandatory on every fetch.
const (
	FormatManga   = "MANGA"
	FormatOneShot = "ONE_SHOT"
)

// Publication status codes as AniList reports them.
const (
	StatusFinished       = "FINISHED"
	StatusReleasing      = "RELEASING"
	StatusNotYetReleased = "NOT_YET_RELEASED"
	StatusCancelled      = "CANCELLED"
	StatusHiatus         = "HIATUS"
)
