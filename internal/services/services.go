package services

import (
	"context"

	"github.com/desertthunder/playlist-creator/internal/models"
)

// PlaylistFetcher loads a playlist and all of its tracks from a streaming service.
type PlaylistFetcher interface {
	// FetchPlaylist resolves ref (a URL, URI or bare id) and returns the playlist with every track in order.
	// None of the returned tracks carry a video URL.
	FetchPlaylist(ctx context.Context, ref string) (*models.Playlist, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// LinkResolver guesses a direct video link for a track with a single keyword search.
type LinkResolver interface {
	// Resolve returns the search URL for the track and, when the search found something, the watch URL.
	// A search without a result returns [shared.ErrSearchMiss] together with a usable Resolution.
	Resolve(ctx context.Context, artist, title string) (Resolution, error)
}

// LinkCache remembers video ids found for a normalized search query.
type LinkCache interface {
	Lookup(ctx context.Context, query string) (videoID string, ok bool, err error)
	Store(ctx context.Context, query, videoID string) error
}

// Resolution is the outcome of resolving one track.
type Resolution struct {
	Query     string
	VideoURL  string // Empty on a search miss
	SearchURL string
	Cached    bool
}

// Resolved reports whether a direct video link was found.
func (r Resolution) Resolved() bool {
	return r.VideoURL != ""
}
