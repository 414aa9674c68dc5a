// Package tasks downloads a playlist track by track with real-time progress reporting.
//
// # Core Operations
//
// The [Downloader] interface defines two operations:
//
//  1. [Downloader.Run] : Full playlist run
//     - Fetches the first page and reads the playlist total
//     - Downloads every present track of the page, advancing the offset per track
//     - Fetches the next page at the current offset until the offset reaches the total
//
//  2. [Downloader.Download] : Single track
//     - Builds the "Artist1, Artist2 - Title" query and a sanitized file name
//     - Skips the track when the file exists, with no network calls
//     - Searches, takes the first candidate, converts it to an audio link
//     - Opens the destination, then streams the link to disk chunk by chunk
//
// # Failure Policy
//
// Every error ends the run. Nothing is retried, partial files are left on disk, and later
// tracks are not processed. A page that does not advance the offset returns [shared.ErrNoProgress].
//
// # Progress Reporting
//
// Operations use non-blocking channels for progress updates. The [ProgressUpdate] struct contains
// phase, step counters, messages, and optional data. Updates use select with default to prevent blocking,
// so a slow consumer can miss updates. Console lines are written directly to the engine output.
//
// # Implementation
//
// [PlaylistEngine] implements [Downloader] with dependencies on:
//   - [services.Catalog] : playlist pages
//   - [services.Searcher] : video search
//   - [services.Converter] : audio link conversion
//   - [services.Streamer] : download body
package tasks
