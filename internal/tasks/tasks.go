package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spdl/internal/services"
	"github.com/desertthunder/spdl/internal/shared"
	"github.com/desertthunder/spdl/internal/ui"
)

// chunkSize is the buffer used when copying a download to disk.
const chunkSize = 32 * 1024

// TrackResult describes what happened to a single playlist track.
type TrackResult struct {
	Path    string        // Output file path
	Query   string        // Search query built from artists and title
	VideoID string        // First search candidate (empty when skipped)
	Skipped bool          // File already existed
	Bytes   int64         // Bytes written
	Elapsed time.Duration // Wall-clock download time
}

// RunResult contains the totals of a full playlist run.
type RunResult struct {
	Total      int      // Playlist size reported by the first page
	Offset     int      // Tracks processed or skipped so far
	Downloaded int      // Tracks written to disk
	Skipped    int      // Tracks whose file already existed
	Pages      int      // Playlist pages fetched
	Files      []string // Paths written, in order
}

// Downloader defines the operations of a download run.
type Downloader interface {
	// Run pages through the playlist and downloads every present track, stopping at the first error.
	Run(ctx context.Context, progress chan<- ProgressUpdate, accessToken, playlistID string) (*RunResult, error)

	// Download fetches a single track into the output directory unless its file already exists.
	Download(ctx context.Context, progress chan<- ProgressUpdate, track *services.PlaylistTrack, step, total int) (*TrackResult, error)
}

// EngineOpts contains the dependencies of a [PlaylistEngine].
type EngineOpts struct {
	Catalog   services.Catalog
	Searcher  services.Searcher
	Converter services.Converter
	Streamer  services.Streamer
	Config    *shared.Config
	Output    io.Writer
	Painter   ui.Painter
	Logger    *log.Logger
}

// PlaylistEngine implements Downloader. It processes one track at a time.
type PlaylistEngine struct {
	catalog   services.Catalog
	searcher  services.Searcher
	converter services.Converter
	streamer  services.Streamer
	config    *shared.Config
	output    io.Writer
	painter   ui.Painter
	logger    *log.Logger
}

// NewPlaylistEngine creates a new PlaylistEngine with the provided services.
func NewPlaylistEngine(opts EngineOpts) *PlaylistEngine {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Painter == nil {
		opts.Painter = ui.Plain()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	return &PlaylistEngine{
		catalog:   opts.Catalog,
		searcher:  opts.Searcher,
		converter: opts.Converter,
		streamer:  opts.Streamer,
		config:    opts.Config,
		output:    opts.Output,
		painter:   opts.Painter,
		logger:    opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *PlaylistEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *PlaylistEngine) writeLine(s string) {
	fmt.Fprintln(e.output, s)
}

// Run pages through the playlist.
//
// The offset counts processed tracks, not fetched items: entries without a track do not advance it,
// and every page after the first is requested at the current offset. The run ends once the offset
// reaches the total reported by the first page.
//
// A page that leaves the offset unchanged before the total is reached fails with [shared.ErrNoProgress].
// This happens when the playlist ends in local or unavailable entries, which count toward the total
// but are never processed.
func (e *PlaylistEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, accessToken, playlistID string) (*RunResult, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrMissingArgument)
	}

	result := &RunResult{}
	offset := 0

	page, err := e.fetchPage(ctx, progress, result, accessToken, playlistID, offset)
	if err != nil {
		return result, err
	}

	total, err := page.TotalCount()
	if err != nil {
		return result, err
	}
	result.Total = total
	e.logger.Debug("playlist loaded", "playlist", playlistID, "total", total)

	for offset < total {
		before := offset
		for _, item := range page.Items {
			if item.Track == nil {
				continue
			}

			res, err := e.Download(ctx, progress, item.Track, offset+1, total)
			if err != nil {
				result.Offset = offset
				return result, err
			}

			if res.Skipped {
				result.Skipped++
			} else {
				result.Downloaded++
				result.Files = append(result.Files, res.Path)
			}
			offset++
		}
		result.Offset = offset

		if offset >= total {
			break
		}
		if offset == before {
			return result, fmt.Errorf("%w: stuck at %d of %d tracks", shared.ErrNoProgress, offset, total)
		}

		if page, err = e.fetchPage(ctx, progress, result, accessToken, playlistID, offset); err != nil {
			return result, err
		}
	}

	e.sendProgress(progress, completeUpdate(result))
	return result, nil
}

func (e *PlaylistEngine) fetchPage(ctx context.Context, progress chan<- ProgressUpdate, result *RunResult, accessToken, playlistID string, offset int) (*services.PlaylistPage, error) {
	result.Pages++
	e.sendProgress(progress, fetchPageUpdate(result.Pages, offset, result.Total))

	page, err := e.catalog.Page(ctx, accessToken, offset, e.config.Spotify.Fields, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.catalog.Name(), err)
	}
	e.logger.Debug("fetched page", "service", e.catalog.Name(), "offset", offset, "items", len(page.Items))
	return page, nil
}

// Download resolves, converts, and streams one track to disk.
//
// The search query and file name are derived first. When the file already exists no network call is made.
func (e *PlaylistEngine) Download(ctx context.Context, progress chan<- ProgressUpdate, track *services.PlaylistTrack, step, total int) (*TrackResult, error) {
	query, err := track.SearchQuery()
	if err != nil {
		return nil, err
	}

	title, err := track.Title()
	if err != nil {
		return nil, err
	}

	name := shared.SanitizeFilename(title, e.config.Download.Extension, e.config.Download.MaxTitleLength)
	res := &TrackResult{
		Path:  filepath.Join(e.config.Download.Dir, name),
		Query: query,
	}

	if _, err := os.Stat(res.Path); err == nil {
		res.Skipped = true
		display := shared.TruncateRunes(title, e.config.Download.MaxTitleLength) + e.config.Download.Extension
		e.writeLine(e.painter.Warn(display + " already exists, skipping"))
		e.sendProgress(progress, skipTrackUpdate(step, total, res.Path))
		return res, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to check %s: %w", res.Path, err)
	}

	if e.searcher == nil || e.converter == nil || e.streamer == nil {
		return nil, fmt.Errorf("%w: download services not initialized", shared.ErrMissingArgument)
	}

	e.sendProgress(progress, searchTrackUpdate(step, total, query))
	results, err := e.searcher.Search(ctx, query, e.config.Search.SortBy, e.config.Search.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.searcher.Name(), err)
	}
	e.logger.Debug("search results", "service", e.searcher.Name(), "query", query, "count", len(results))

	first, err := services.FirstResult(results)
	if err != nil {
		return nil, fmt.Errorf("%w for '%s'", err, query)
	}
	res.VideoID = first.VideoID

	videoURL := services.VideoURL(e.config.Search.VideoBaseURL, first.VideoID)
	e.sendProgress(progress, convertTrackUpdate(step, total, videoURL))

	target, err := e.converter.Convert(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.converter.Name(), err)
	}

	file, err := os.OpenFile(res.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", res.Path, err)
	}
	defer file.Close()

	e.writeLine(e.painter.Help("downloading " + query))
	start := time.Now()

	body, err := e.streamer.GetStream(ctx, target.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	if res.Bytes, err = copyChunks(file, body); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", res.Path, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", res.Path, err)
	}
	res.Elapsed = time.Since(start)

	secs := strconv.FormatFloat(res.Elapsed.Seconds(), 'f', -1, 32)
	e.writeLine(e.painter.OK(fmt.Sprintf("downloaded %s in %ss", res.Path, secs)))
	e.sendProgress(progress, downloadTrackUpdate(step, total, res))

	return res, nil
}

// copyChunks writes each chunk read from src to dst as soon as it arrives.
func copyChunks(dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, chunkSize)
	var written int64

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			w, err := dst.Write(buf[:n])
			written += int64(w)
			if err != nil {
				return written, err
			}
			if w != n {
				return written, io.ErrShortWrite
			}
		}

		if errors.Is(readErr, io.EOF) {
			return written, nil
		}
		if readErr != nil {
			return written, readErr
		}
	}
}
