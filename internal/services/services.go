package services

import (
	"context"
	"io"
)

// Service is implemented by every remote client. Name labels its errors and log lines.
type Service interface {
	Name() string
}

// Catalog pages through the entries of a remote playlist.
type Catalog interface {
	Service

	// Page fetches the playlist entries starting at offset, restricted to the fields projection.
	// The remote default page size applies.
	Page(ctx context.Context, accessToken string, offset int, fields, playlistID string) (*PlaylistPage, error)
}

// Searcher maps a free-text query to candidate videos.
type Searcher interface {
	Service

	// Search returns candidates in the order the mirror ranked them.
	Search(ctx context.Context, query, sortBy, resultType string) ([]SearchResult, error)
}

// Converter asks a proxy to turn a video URL into a direct audio download link.
type Converter interface {
	Service
	Convert(ctx context.Context, videoURL string) (*DownloadTarget, error)
}

// Streamer opens the body of a remote file for sequential reading.
type Streamer interface {
	GetStream(ctx context.Context, url string) (io.ReadCloser, error)
}

// Credentials is the result of a client-credentials token exchange.
type Credentials struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SearchResult is a single video candidate from the search mirror.
type SearchResult struct {
	Title   string `json:"title"`
	VideoID string `json:"videoId"`
}

// DownloadTarget is a direct audio link resolved by the conversion proxy.
type DownloadTarget struct {
	URL       string // Direct, time-limited download link
	Source    string // Video URL that was converted
	AudioOnly bool
}
