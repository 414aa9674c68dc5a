// Spotify Web API client: client-credentials auth and playlist pagination
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/get-playlists-tracks
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/spdl/internal/shared"
	"github.com/samber/lo"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// SpotifyArtistRef is an artist as projected by the playlist field filter.
type SpotifyArtistRef struct {
	Name *string `json:"name"`
}

// PlaylistTrack is the track object of a playlist entry.
type PlaylistTrack struct {
	Name    *string            `json:"name"`
	Artists []SpotifyArtistRef `json:"artists"`
	IsLocal *bool              `json:"is_local,omitempty"`
}

// PlaylistItem is one entry of a playlist page. Track is nil for local or unavailable entries.
type PlaylistItem struct {
	AddedAt *string        `json:"added_at,omitempty"`
	IsLocal *bool          `json:"is_local,omitempty"`
	Track   *PlaylistTrack `json:"track"`
}

// PlaylistPage is a single page of playlist entries.
type PlaylistPage struct {
	Href     *string        `json:"href,omitempty"`
	Limit    *int           `json:"limit,omitempty"`
	Next     *string        `json:"next,omitempty"`
	Offset   *int           `json:"offset,omitempty"`
	Previous *string        `json:"previous,omitempty"`
	Total    *int           `json:"total"`
	Items    []PlaylistItem `json:"items"`
}

// TotalCount returns the playlist size reported by the page.
func (p *PlaylistPage) TotalCount() (int, error) {
	if p.Total == nil {
		return 0, shared.ErrMissingTotal
	}
	return *p.Total, nil
}

// Title returns the track name.
func (t *PlaylistTrack) Title() (string, error) {
	if t.Name == nil {
		return "", fmt.Errorf("%w: name", shared.ErrMissingTrackField)
	}
	return *t.Name, nil
}

// ArtistNames returns the artist names in credit order.
func (t *PlaylistTrack) ArtistNames() ([]string, error) {
	if t.Artists == nil {
		return nil, fmt.Errorf("%w: artists", shared.ErrMissingTrackField)
	}
	if lo.ContainsBy(t.Artists, func(a SpotifyArtistRef) bool { return a.Name == nil }) {
		return nil, fmt.Errorf("%w: artist name", shared.ErrMissingTrackField)
	}
	return lo.Map(t.Artists, func(a SpotifyArtistRef, _ int) string { return *a.Name }), nil
}

// SearchQuery builds the free-text search string "Artist1, Artist2 - Title".
func (t *PlaylistTrack) SearchQuery() (string, error) {
	artists, err := t.ArtistNames()
	if err != nil {
		return "", err
	}

	title, err := t.Title()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s - %s", strings.Join(artists, ", "), title), nil
}

// SpotifyAuth performs the OAuth2 client-credentials exchange.
type SpotifyAuth struct {
	config     *clientcredentials.Config
	httpClient *http.Client
}

// NewSpotifyAuth creates an auth client. tokenURL defaults to the Spotify accounts endpoint.
func NewSpotifyAuth(clientID, clientSecret, tokenURL string, client *http.Client) (*SpotifyAuth, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingArgument)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingArgument)
	}
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}

	return &SpotifyAuth{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     tokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: client,
	}, nil
}

// Token exchanges the client ID and secret for a bearer token.
//
// The token is fetched once. Nothing refreshes it if it expires during a long run.
func (a *SpotifyAuth) Token(ctx context.Context) (*Credentials, error) {
	if a.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)
	}

	token, err := a.config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	return &Credentials{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   expiresIn(token),
	}, nil
}

// expiresIn reads expires_in from the raw token response, falling back to the parsed expiry.
func expiresIn(token *oauth2.Token) int {
	switch v := token.Extra("expires_in").(type) {
	case float64:
		return int(v)
	case int64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	if token.Expiry.IsZero() {
		return 0
	}
	return int(time.Until(token.Expiry).Round(time.Second).Seconds())
}

// SpotifyService fetches playlist pages from the Spotify Web API.
type SpotifyService struct {
	baseURL   string
	transport Transport
}

// NewSpotifyService creates a catalog client for baseURL, which defaults to the public Web API.
func NewSpotifyService(baseURL string, transport Transport) *SpotifyService {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	return &SpotifyService{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: transport,
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Page calls GET /playlists/{id}/tracks?offset={offset}&filter={fields}.
func (s *SpotifyService) Page(ctx context.Context, accessToken string, offset int, fields, playlistID string) (*PlaylistPage, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	if fields != "" {
		query.Set("filter", fields)
	}

	endpoint := fmt.Sprintf("%s/playlists/%s/tracks?%s", s.baseURL, url.PathEscape(playlistID), query.Encode())
	header := http.Header{}
	header.Set("Authorization", "Bearer "+accessToken)

	var page PlaylistPage
	if err := s.transport.GetJSON(ctx, endpoint, header, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch playlist page at offset %d: %w", offset, err)
	}
	return &page, nil
}
