// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package anilist_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hikawa/tankobon/internal/catalog/anilist"
	"github.com/hikawa/tankobon/internal/platform/apperr"
)

// stubProvider spins up an httptest server that answers every GraphQL POST
// with the given status code and body.
func stubProvider(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))

		var payload struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if assert.NoError(t, json.NewDecoder(request.Body).Decode(&payload)) {
			assert.Contains(t, payload.Query, "Media(id: $id, type: MANGA)")
		}

		writer.Header().Set("Content-Type", "application/json")
		writer.WriteHeader(status)
		_, _ = writer.Write([]byte(body))
	}))

	t.Cleanup(server.Close)
	return server
}

// assertCode fails the test unless err carries the expected application code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %T", err)
	assert.Equal(t, code, ae.Code)
}

/*
TestClient_MangaByID_Success covers the happy path for a manga lookup.
*/
func TestClient_MangaByID_Success(t *testing.T) {
	server := stubProvider(t, http.StatusOK, `{
		"data": {"Media": {
			"id": 30002,
			"title": {"romaji": "Berserk", "english": "Berserk"},
			"staff": {"edges": [
				{"node": {"name": {"full": "Kentarou Miura"}}, "role": "Story & Art"}
			]},
			"genres": ["Action", "Fantasy"],
			"coverImage": {"extraLarge": "https://img.test/xl.jpg", "large": "https://img.test/l.jpg"},
			"description": "A dark fantasy.",
			"averageScore": 93,
			"popularity": 250000,
			"status": "RELEASING",
			"format": "MANGA",
			"volumes": null,
			"chapters": 380
		}}
	}`)

	client := anilist.NewClient(server.URL)
	record, err := client.MangaByID(context.Background(), 30002)

	require.NoError(t, err)
	assert.Equal(t, 30002, record.ID)
	assert.Equal(t, "Berserk", record.Title.English)
	assert.Equal(t, anilist.FormatManga, record.Format)
	assert.Equal(t, "Kentarou Miura", record.Staff.Edges[0].Node.Name.Full)
	require.NotNil(t, record.Chapters)
	assert.Equal(t, 380, *record.Chapters)
	assert.Nil(t, record.Volumes)
}

/*
TestClient_MangaByID_OneShotAccepted verifies one-shot publications pass the kind check.
*/
func TestClient_MangaByID_OneShotAccepted(t *testing.T) {
	server := stubProvider(t, http.StatusOK, `{
		"data": {"Media": {
			"id": 97916,
			"title": {"english": "Look Back"},
			"format": "ONE_SHOT"
		}}
	}`)

	client := anilist.NewClient(server.URL)
	record, err := client.MangaByID(context.Background(), 97916)

	require.NoError(t, err)
	assert.Equal(t, anilist.FormatOneShot, record.Format)
}

/*
TestClient_MangaByID_Failures exercises the error taxonomy end to end.
*/
func TestClient_MangaByID_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{
			"provider_not_found",
			http.StatusNotFound,
			`{"data": {"Media": null}, "errors": [{"message": "Not Found.", "status": 404}]}`,
			"NOT_FOUND",
		},
		{
			"null_media_without_errors",
			http.StatusOK,
			`{"data": {"Media": null}}`,
			"NOT_FOUND",
		},
		{
			"wrong_media_type",
			http.StatusOK,
			`{"data": {"Media": {"id": 1, "title": {"english": "Cowboy Bebop"}, "format": "TV"}}}`,
			"WRONG_MEDIA_TYPE",
		},
		{
			"errors_on_success_status",
			http.StatusOK,
			`{"data": {"Media": null}, "errors": [{"message": "Internal provider failure", "status": 500}]}`,
			"UPSTREAM_ERROR",
		},
		{
			"rate_limited_with_errors",
			http.StatusTooManyRequests,
			`{"errors": [{"message": "Too Many Requests.", "status": 429}]}`,
			"TRANSPORT_ERROR",
		},
		{
			"bad_gateway_no_payload",
			http.StatusBadGateway,
			`upstream exploded`,
			"TRANSPORT_ERROR",
		},
		{
			"malformed_json_on_ok",
			http.StatusOK,
			`{"data": {"Media"`,
			"UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := stubProvider(t, tt.status, tt.body)

			client := anilist.NewClient(server.URL)
			record, err := client.MangaByID(context.Background(), 42)

			assert.Nil(t, record)
			assertCode(t, err, tt.wantCode)
		})
	}
}

/*
TestClient_MangaByID_InvalidIdentifier checks that bad ids never hit the network.
*/
func TestClient_MangaByID_InvalidIdentifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("no request should be made for an invalid id")
	}))
	t.Cleanup(server.Close)

	client := anilist.NewClient(server.URL)

	for _, id := range []int{0, -1, -30002} {
		record, err := client.MangaByID(context.Background(), id)
		assert.Nil(t, record)
		assertCode(t, err, "INVALID_IDENTIFIER")
	}
}

/*
TestClient_MangaByID_Unreachable verifies connection failures map to transport errors.
*/
func TestClient_MangaByID_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // deliberately closed before use

	client := anilist.NewClient(server.URL)
	record, err := client.MangaByID(context.Background(), 30002)

	assert.Nil(t, record)
	assertCode(t, err, "TRANSPORT_ERROR")
}
