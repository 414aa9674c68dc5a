// Package services implements the HTTP clients used by a download run.
//
// # Transport
//
// Every client talks through the [Transport] capability (GetJSON, PostJSON, GetStream), so the
// orchestration in package tasks can be tested against fakes. [HTTPTransport] is the production
// implementation. It sets a User-Agent, rejects non-2xx responses, and can throttle requests with
// a [rate.Limiter] (disabled by default).
//
// # Spotify
//
// [SpotifyAuth] exchanges a client ID and secret for a bearer token using the OAuth2
// client-credentials grant. The token is used verbatim for the whole run and is never refreshed.
//
// [SpotifyService] fetches playlist pages with a fixed field projection. Optional fields stay
// pointers so that absent data can be told apart from empty data:
//   - a nil [PlaylistItem.Track] is a local or unavailable entry and is skipped by callers
//   - a nil name or artist list is an error once the track is used ([shared.ErrMissingTrackField])
//   - a nil total is an error ([shared.ErrMissingTotal])
//
// # Invidious
//
// [InvidiousService] queries a search mirror. Callers take the first candidate through
// [FirstResult], which fails with [shared.ErrNoSearchResults] on an empty list.
//
// # Conversion
//
// [CobaltService] posts a video URL to the conversion proxy and returns the direct audio link.
//
// # Error Handling
//
// Services wrap typed errors from the shared package:
//   - [shared.ErrAuthFailed] : token exchange failed
//   - [shared.ErrAPIRequest] : transport failure, non-2xx status, or undecodable body
//   - [shared.ErrMissingDownloadURL] : conversion response carried no url
package services
