package tasks

import (
	"context"
	"io"
	"strings"

	"github.com/desertthunder/spdl/internal/services"
	tu "github.com/desertthunder/spdl/internal/testing"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func newTrack(name string, artists ...string) *services.PlaylistTrack {
	refs := make([]services.SpotifyArtistRef, len(artists))
	for i, a := range artists {
		refs[i] = services.SpotifyArtistRef{Name: strPtr(a)}
	}
	return &services.PlaylistTrack{Name: strPtr(name), Artists: refs}
}

func itemsOf(tracks ...*services.PlaylistTrack) []services.PlaylistItem {
	items := make([]services.PlaylistItem, len(tracks))
	for i, t := range tracks {
		items[i] = services.PlaylistItem{Track: t}
	}
	return items
}

// fakeCatalog serves a fixed playlist in pages of pageSize starting at the requested offset.
type fakeCatalog struct {
	tracks   []*services.PlaylistTrack
	total    *int
	pageSize int
	err      error
	offsets  []int
	tokens   []string
	fields   []string
}

func newFakeCatalog(pageSize int, tracks ...*services.PlaylistTrack) *fakeCatalog {
	return &fakeCatalog{tracks: tracks, total: intPtr(len(tracks)), pageSize: pageSize}
}

func (f *fakeCatalog) Page(ctx context.Context, accessToken string, offset int, fields, playlistID string) (*services.PlaylistPage, error) {
	f.offsets = append(f.offsets, offset)
	f.tokens = append(f.tokens, accessToken)
	f.fields = append(f.fields, fields)
	if f.err != nil {
		return nil, f.err
	}

	end := min(offset+f.pageSize, len(f.tracks))
	var items []services.PlaylistItem
	if offset < end {
		items = itemsOf(f.tracks[offset:end]...)
	}
	return &services.PlaylistPage{Total: f.total, Offset: intPtr(offset), Items: items}, nil
}

type fakeSearcher struct {
	results []services.SearchResult
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query, sortBy, resultType string) ([]services.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	if f.results != nil {
		return f.results, nil
	}
	id := strings.NewReplacer(" ", "", ",", "").Replace(query)
	return []services.SearchResult{{Title: query, VideoID: id}}, nil
}

type fakeConverter struct {
	err  error
	urls []string
}

func (f *fakeConverter) Convert(ctx context.Context, videoURL string) (*services.DownloadTarget, error) {
	f.urls = append(f.urls, videoURL)
	if f.err != nil {
		return nil, f.err
	}
	return &services.DownloadTarget{URL: "http://host/direct?src=" + videoURL, Source: videoURL, AudioOnly: true}, nil
}

type fakeStreamer struct {
	chunks  [][]byte
	err     error
	urls    []string
	readers []*tu.ChunkedReader
}

func (f *fakeStreamer) GetStream(ctx context.Context, url string) (io.ReadCloser, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}

	chunks := make([][]byte, len(f.chunks))
	for i, c := range f.chunks {
		chunks[i] = append([]byte(nil), c...)
	}
	r := tu.NewChunkedReader(chunks...)
	f.readers = append(f.readers, r)
	return r, nil
}

func (f *fakeCatalog) Name() string { return "fake-catalog" }

func (f *fakeSearcher) Name() string { return "fake-search" }

func (f *fakeConverter) Name() string { return "fake-convert" }

func (f *fakeSearcher) calls() int { return len(f.queries) }

func (f *fakeConverter) calls() int { return len(f.urls) }

func (f *fakeStreamer) calls() int { return len(f.urls) }

// recordingWriter keeps every Write call separately.
type recordingWriter struct {
	writes [][]byte
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	r.writes = append(r.writes, append([]byte(nil), p...))
	return len(p), nil
}
