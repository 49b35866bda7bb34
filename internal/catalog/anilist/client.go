// Copyright (c) 2026 Tankobon. All rights reserved.
// Author: kenji.hikawa@proton.me

package anilist

import (
	"bytes"
	stdctx "context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hikawa/tankobon/internal/platform/apperr"
	"github.com/hikawa/tankobon/internal/platform/constants"
)

// HTTPDoer is the minimal HTTP client surface the [Client] depends on.
// Accepting an interface keeps the GraphQL plumbing testable with httptest
// or a hand-rolled fake.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// # Failure Taxonomy

// ErrInvalidIdentifier rejects non-positive external ids before any network
// call is made.
var ErrInvalidIdentifier = &apperr.AppError{
	Code:       "INVALID_IDENTIFIER",
	Message:    "External id must be a positive integer",
	HTTPStatus: http.StatusBadRequest,
}

// errWrongMediaType is raised when the upstream record exists but is not a
// manga (AniList files novels and anime under the same Media namespace).
func errWrongMediaType(format string) *apperr.AppError {
	return &apperr.AppError{
		Code:       "WRONG_MEDIA_TYPE",
		Message:    "External id does not designate a manga",
		HTTPStatus: http.StatusUnprocessableEntity,
		Cause:      fmt.Errorf("anilist: media format is %q", format),
	}
}

// # Client

// Client issues single-shot GraphQL queries against the AniList API.
//
// # Concurrency & Retries
//
// The client is stateless and safe for concurrent use. Each call is exactly
// one round trip; retry and timeout policy belong to the caller, which is why
// every method takes a context.
type Client struct {
	endpoint   string
	httpClient HTTPDoer
}

// NewClient constructs an AniList client for the given GraphQL endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	client := &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{Timeout: constants.ProviderRequestTimeout},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the [Client].
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(client *Client) {
		if doer != nil {
			client.httpClient = doer
		}
	}
}

// # Wire Envelopes

// gqlRequest is the standard GraphQL POST body.
type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// gqlError is a structured provider-side failure. AniList reports these both
// on 200-level responses and alongside 4xx statuses (e.g. unknown id → 404).
type gqlError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// gqlResponse is the GraphQL response envelope for a Media lookup.
type gqlResponse struct {
	Data struct {
		Media *Manga `json:"Media"`
	} `json:"data"`
	Errors []gqlError `json:"errors"`
}

// # Lookups

/*
MangaByID fetches the raw AniList record for the given external id.

Description: Performs exactly one GraphQL round trip. All failure modes are
classified into the application error taxonomy:

  - INVALID_IDENTIFIER: id is not a positive integer (no network call made).
  - NOT_FOUND: the provider has no record for the id.
  - WRONG_MEDIA_TYPE: the id resolves to a non-manga media kind.
  - UPSTREAM_ERROR: the provider returned a structured error payload.
  - TRANSPORT_ERROR: network/HTTP failure, including context timeouts.

Parameters:
  - context: context.Context (caller-supplied deadline bounds the round trip)
  - externalID: int (AniList media id)

Returns:
  - *Manga: The raw provider payload
  - error: One of the classified failures above
*/
func (client *Client) MangaByID(context stdctx.Context, externalID int) (*Manga, error) {

	// Fail fast on malformed identifiers; never reaches the network.
	if externalID <= 0 {
		return nil, ErrInvalidIdentifier
	}

	body, err := json.Marshal(gqlRequest{
		Query:     mangaByIDQuery,
		Variables: map[string]any{"id": externalID},
	})
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("anilist: failed to encode query: %w", err))
	}

	request, err := http.NewRequestWithContext(context, http.MethodPost, client.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("anilist: failed to build request: %w", err))
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, apperr.Transport("Metadata provider is unreachable", err)
	}
	defer func() { _ = response.Body.Close() }()

	return client.decodeMedia(response)
}

// decodeMedia interprets the provider response and applies the media-kind check.
func (client *Client) decodeMedia(response *http.Response) (*Manga, error) {
	var envelope gqlResponse
	decodeErr := json.NewDecoder(io.LimitReader(response.Body, 1<<20)).Decode(&envelope)

	// Structured provider errors win over raw HTTP status: AniList delivers
	// "Not Found" as an errors payload on a 404 response.
	if len(envelope.Errors) > 0 {
		return nil, classifyProviderErrors(envelope.Errors, response.StatusCode)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, apperr.Transport(
			"Metadata provider request failed",
			fmt.Errorf("anilist: unexpected status %d", response.StatusCode),
		)
	}

	if decodeErr != nil {
		return nil, apperr.Upstream(
			"Metadata provider returned a malformed response",
			fmt.Errorf("anilist: decode: %w", decodeErr),
		)
	}

	media := envelope.Data.Media
	if media == nil {
		return nil, notFound(nil)
	}

	// Media-kind check: both serialized manga and one-shots are accepted.
	if media.Format != FormatManga && media.Format != FormatOneShot {
		return nil, errWrongMediaType(media.Format)
	}

	return media, nil
}

// classifyProviderErrors maps the provider's structured errors into the taxonomy.
func classifyProviderErrors(gqlErrors []gqlError, httpStatus int) error {
	messages := make([]string, 0, len(gqlErrors))
	for _, gqlErr := range gqlErrors {
		if gqlErr.Status == http.StatusNotFound {
			return notFound(fmt.Errorf("anilist: %s", gqlErr.Message))
		}
		messages = append(messages, gqlErr.Message)
	}

	cause := fmt.Errorf("anilist: provider errors (http %d): %s", httpStatus, strings.Join(messages, "; "))

	// Error payloads on a 200-level response are provider-reported failures;
	// anything else was an HTTP-level problem.
	if httpStatus >= 200 && httpStatus < 300 {
		return apperr.Upstream("Metadata provider reported an error", cause)
	}
	return apperr.Transport("Metadata provider request failed", cause)
}

// notFound builds the upstream not-found failure, keeping the provider message
// for server-side logging.
func notFound(cause error) *apperr.AppError {
	notFoundErr := apperr.NotFound("Manga")
	notFoundErr.Cause = cause
	return notFoundErr
}
