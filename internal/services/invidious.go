// Invidious search mirror client
package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/desertthunder/spdl/internal/shared"
)

const (
	defaultSearchURL    = "https://iv.ggtyler.dev/api/v1/search"
	defaultVideoBaseURL = "https://youtu.be/"
)

// InvidiousService resolves free-text queries to video identifiers through an Invidious instance.
type InvidiousService struct {
	searchURL string
	transport Transport
}

// NewInvidiousService creates a search client for searchURL (the full /api/v1/search endpoint).
func NewInvidiousService(searchURL string, transport Transport) *InvidiousService {
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	return &InvidiousService{searchURL: searchURL, transport: transport}
}

func (s *InvidiousService) Name() string {
	return "Invidious"
}

// Search calls GET {searchURL}?q={query}&sort_by={sortBy}&type={resultType}.
func (s *InvidiousService) Search(ctx context.Context, query, sortBy, resultType string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort_by", sortBy)
	params.Set("type", resultType)

	var results []SearchResult
	if err := s.transport.GetJSON(ctx, s.searchURL+"?"+params.Encode(), nil, &results); err != nil {
		return nil, fmt.Errorf("failed to search for '%s': %w", query, err)
	}
	return results, nil
}

// FirstResult returns the first candidate unconditionally. No ranking or filtering is applied.
func FirstResult(results []SearchResult) (*SearchResult, error) {
	if len(results) == 0 {
		return nil, shared.ErrNoSearchResults
	}
	if results[0].VideoID == "" {
		return nil, fmt.Errorf("%w: first result has no videoId", shared.ErrNoSearchResults)
	}
	return &results[0], nil
}

// VideoURL builds the canonical short URL for a video identifier.
func VideoURL(baseURL, videoID string) string {
	if baseURL == "" {
		baseURL = defaultVideoBaseURL
	}
	return baseURL + videoID
}
