package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/spdl/internal/shared"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

func strPtr(s string) *string { return &s }

func TestSpotifyAuth(t *testing.T) {
	t.Run("NewSpotifyAuth", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			auth, err := NewSpotifyAuth("test_client_id", "test_client_secret", "", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if auth.config.TokenURL != spotifyauth.TokenURL {
				t.Errorf("expected default token URL %s, got %s", spotifyauth.TokenURL, auth.config.TokenURL)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			if _, err := NewSpotifyAuth("", "test_client_secret", "", nil); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			if _, err := NewSpotifyAuth("test_client_id", "", "", nil); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})
	})

	t.Run("Token", func(t *testing.T) {
		t.Run("sends client credentials grant as form params", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
					t.Errorf("expected form content type, got %s", ct)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if r.PostForm.Get("grant_type") != "client_credentials" {
					t.Errorf("expected grant_type client_credentials, got %s", r.PostForm.Get("grant_type"))
				}
				if r.PostForm.Get("client_id") != "id123" {
					t.Errorf("expected client_id id123, got %s", r.PostForm.Get("client_id"))
				}
				if r.PostForm.Get("client_secret") != "secret456" {
					t.Errorf("expected client_secret secret456, got %s", r.PostForm.Get("client_secret"))
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"access_token": "BQD-token",
					"token_type":   "Bearer",
					"expires_in":   3600,
				})
			}))
			defer server.Close()

			auth, err := NewSpotifyAuth("id123", "secret456", server.URL, server.Client())
			if err != nil {
				t.Fatalf("failed to create auth: %v", err)
			}

			creds, err := auth.Token(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if creds.AccessToken != "BQD-token" {
				t.Errorf("expected access token BQD-token, got %s", creds.AccessToken)
			}
			if creds.TokenType != "Bearer" {
				t.Errorf("expected token type Bearer, got %s", creds.TokenType)
			}
			if creds.ExpiresIn != 3600 {
				t.Errorf("expected expires_in 3600, got %d", creds.ExpiresIn)
			}
		})

		t.Run("rejected credentials", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_client","error_description":"Invalid client"}`))
			}))
			defer server.Close()

			auth, _ := NewSpotifyAuth("bad", "bad", server.URL, server.Client())
			if _, err := auth.Token(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})

		t.Run("unparseable body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`<html>oops</html>`))
			}))
			defer server.Close()

			auth, _ := NewSpotifyAuth("id", "secret", server.URL, server.Client())
			if _, err := auth.Token(context.Background()); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
		})
	})
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		if svc := NewSpotifyService("", nil); svc.baseURL != spotifyBaseURL {
			t.Errorf("expected baseURL %s, got %s", spotifyBaseURL, svc.baseURL)
		}
		if svc := NewSpotifyService("http://localhost:9000/v1/", nil); svc.baseURL != "http://localhost:9000/v1" {
			t.Errorf("expected trailing slash trimmed, got %s", svc.baseURL)
		}
		if svc := NewSpotifyService("", nil); svc.Name() != "Spotify" {
			t.Errorf("expected name Spotify, got %s", svc.Name())
		}
	})

	t.Run("Page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/playlists/PL123/tracks" {
				t.Errorf("expected path /v1/playlists/PL123/tracks, got %s", r.URL.Path)
			}
			if r.Header.Get("Authorization") != "Bearer tok" {
				t.Errorf("expected bearer header, got %s", r.Header.Get("Authorization"))
			}
			if r.URL.Query().Get("offset") != "100" {
				t.Errorf("expected offset 100, got %s", r.URL.Query().Get("offset"))
			}
			if r.URL.Query().Get("filter") != "items(track(name,artists(name))),total" {
				t.Errorf("unexpected filter %s", r.URL.Query().Get("filter"))
			}
			if r.URL.Query().Has("limit") {
				t.Error("page size must not be sent")
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"total": 102,
				"items": [
					{"track": {"name": "Song", "artists": [{"name": "Band"}, {"name": "Guest"}]}},
					{"track": null},
					{"is_local": true}
				]
			}`))
		}))
		defer server.Close()

		svc := NewSpotifyService(server.URL+"/v1", NewHTTPTransport(server.Client(), TransportOpts{}))
		page, err := svc.Page(context.Background(), "tok", 100, "items(track(name,artists(name))),total", "PL123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		total, err := page.TotalCount()
		if err != nil || total != 102 {
			t.Errorf("expected total 102, got %d (%v)", total, err)
		}
		if len(page.Items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(page.Items))
		}
		if page.Items[1].Track != nil || page.Items[2].Track != nil {
			t.Error("expected absent tracks to decode as nil")
		}

		query, err := page.Items[0].Track.SearchQuery()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if query != "Band, Guest - Song" {
			t.Errorf("expected 'Band, Guest - Song', got %q", query)
		}
	})

	t.Run("Page errors", func(t *testing.T) {
		t.Run("missing playlist id", func(t *testing.T) {
			svc := NewSpotifyService("", nil)
			if _, err := svc.Page(context.Background(), "tok", 0, "", ""); !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("expired token", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer server.Close()

			svc := NewSpotifyService(server.URL, NewHTTPTransport(server.Client(), TransportOpts{}))
			if _, err := svc.Page(context.Background(), "old", 0, "", "PL"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})
	})
}

func TestPlaylistTrack(t *testing.T) {
	tt := []struct {
		name    string
		track   PlaylistTrack
		want    string
		wantErr error
	}{
		{
			name:  "single artist",
			track: PlaylistTrack{Name: strPtr("Song"), Artists: []SpotifyArtistRef{{Name: strPtr("Band")}}},
			want:  "Band - Song",
		},
		{
			name:  "empty artist list",
			track: PlaylistTrack{Name: strPtr("Song"), Artists: []SpotifyArtistRef{}},
			want:  " - Song",
		},
		{
			name:    "missing artists",
			track:   PlaylistTrack{Name: strPtr("Song")},
			wantErr: shared.ErrMissingTrackField,
		},
		{
			name:    "artist without name",
			track:   PlaylistTrack{Name: strPtr("Song"), Artists: []SpotifyArtistRef{{Name: strPtr("A")}, {}}},
			wantErr: shared.ErrMissingTrackField,
		},
		{
			name:    "missing name",
			track:   PlaylistTrack{Artists: []SpotifyArtistRef{{Name: strPtr("Band")}}},
			wantErr: shared.ErrMissingTrackField,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.track.SearchQuery()
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("SearchQuery() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SearchQuery() unexpected error %v", err)
			}
			if got != tc.want {
				t.Errorf("SearchQuery() = %q, want %q", got, tc.want)
			}
		})
	}

	t.Run("page without total", func(t *testing.T) {
		page := PlaylistPage{}
		if _, err := page.TotalCount(); !errors.Is(err, shared.ErrMissingTotal) {
			t.Errorf("expected ErrMissingTotal, got %v", err)
		}
	})
}
