// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package anilist

import (
	stdctx "context"

	"github.com/hikawa/tankobon/internal/catalog/manga"
)

// Source adapts the AniList [Client] to the [manga.MetadataSource] contract
// consumed by the reconciler: fetch plus normalize in a single call.
type Source struct {
	client *Client
}

// NewSource wraps an AniList client as a metadata source.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// Snapshot fetches and normalizes the provider record for an external id.
// Failures from the client and normalizer propagate unchanged.
func (source *Source) Snapshot(context stdctx.Context, externalID int) (*manga.Snapshot, error) {
	raw, err := source.client.MangaByID(context, externalID)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}
