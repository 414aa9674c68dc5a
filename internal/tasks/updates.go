package tasks

import (
	"fmt"
	"time"
)

// ProgressUpdate represents a progress event during a download run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current track number (offset + 1) or page number
	Total   int    // Playlist size, once known
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchPage Phase = iota
	SkipTrack
	SearchTrack
	ConvertTrack
	DownloadTrack
	Complete
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case SkipTrack:
		return "skip_track"
	case SearchTrack:
		return "search_track"
	case ConvertTrack:
		return "convert_track"
	case DownloadTrack:
		return "download_track"
	case Complete:
		return "complete"
	default:
		return ""
	}
}

func fetchPageUpdate(page, offset, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Total:   total,
		Message: fmt.Sprintf("Fetching playlist page %d at offset %d...", page, offset),
	}
}

func skipTrackUpdate(step, total int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s already exists", step, total, path),
		Data:    path,
	}
}

func searchTrackUpdate(step, total int, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SearchTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Searching: %s", step, total, query),
	}
}

func convertTrackUpdate(step, total int, videoURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ConvertTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Converting %s...", step, total, videoURL),
		Data:    videoURL,
	}
}

func downloadTrackUpdate(step, total int, res *TrackResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadTrack,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d bytes, %s)", step, total, res.Path, res.Bytes, res.Elapsed.Round(time.Millisecond)),
		Data:    res,
	}
}

func completeUpdate(res *RunResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Complete,
		Step:    res.Offset,
		Total:   res.Total,
		Message: fmt.Sprintf("Processed %d tracks (%d downloaded, %d skipped) over %d pages", res.Offset, res.Downloaded, res.Skipped, res.Pages),
		Data:    res,
	}
}
