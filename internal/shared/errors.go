package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Authentication errors
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrMissingTotal       = fmt.Errorf("playlist page has no total")
	ErrMissingTrackField  = fmt.Errorf("track is missing a required field")
	ErrNoSearchResults    = fmt.Errorf("search returned no results")
	ErrMissingDownloadURL = fmt.Errorf("conversion response has no url")

	// Run errors
	ErrNoProgress = fmt.Errorf("playlist page did not advance the offset")
)
