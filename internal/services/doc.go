// Package services talks to the two HTTP APIs used to build playlist documents.
//
// # Playlist Fetcher
//
// [SpotifyService] implements [PlaylistFetcher] with the Spotify Web API. It authenticates with the OAuth2 client-credentials
// grant, so only public (or shared) playlists can be read. Pages of playlist items are followed until the "next" link is null
// and items whose track is null (removed from the catalog) are dropped.
//
// # Link Resolver
//
// [YouTubeResolver] implements [LinkResolver]. When an API key is configured it calls the YouTube Data API v3 search
// endpoint; otherwise it requests the public results page and takes the first video id embedded in the page. Both paths
// take the first result only. Calls are paced with a token-bucket limiter and may be served from a [LinkCache].
//
// # Error Handling
//
// Services use sentinel errors from the shared package:
//   - [shared.ErrAuthFailed] : token request rejected or API returned 401
//   - [shared.ErrPlaylistNotFound] : API returned 404 for the playlist
//   - [shared.ErrAPIRequest] : any other failed request
//   - [shared.ErrSearchMiss] : the search produced no video; non-fatal
//   - [shared.ErrInvalidArgument] : the playlist reference could not be parsed
package services
