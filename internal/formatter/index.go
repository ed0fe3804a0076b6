package formatter

import (
	"bytes"
	"fmt"

	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

// IndexKind selects which URL of each track goes into an index file.
type IndexKind int

const (
	IndexSource IndexKind = iota // Spotify track URLs
	IndexVideo                   // resolved YouTube URLs, search URL when unresolved
	IndexSearch                  // YouTube search-query URLs
)

func (k IndexKind) String() string {
	switch k {
	case IndexSource:
		return "spotify"
	case IndexVideo:
		return "youtube"
	case IndexSearch:
		return "youtube-search"
	default:
		return "unknown"
	}
}

// IndexOptions controls index rendering.
type IndexOptions struct {
	// Extended emits #EXTM3U, #PLAYLIST and #EXTINF lines around the URLs.
	Extended bool
}

// RenderIndex converts a playlist into a line-oriented index: one URL per track, in playlist order, newline-terminated.
//
// Plain output has no header, so an empty playlist renders as zero bytes.
func RenderIndex(p models.Playlist, kind IndexKind, opts IndexOptions) []byte {
	var buf bytes.Buffer

	if opts.Extended {
		buf.WriteString("#EXTM3U\n")
		fmt.Fprintf(&buf, "#PLAYLIST:%s\n", p.Name)
	}

	for _, track := range p.Tracks {
		if opts.Extended {
			fmt.Fprintf(&buf, "#EXTINF:%d,%s - %s\n", track.Duration, track.Artist(), track.Title)
		}
		buf.WriteString(IndexURL(track, kind))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// IndexURL returns the URL that represents track in an index of the given kind.
func IndexURL(track models.Track, kind IndexKind) string {
	switch kind {
	case IndexSource:
		if track.SourceURL != "" {
			return track.SourceURL
		}
		return shared.SpotifySearchURL(shared.SearchQuery(track.Artist(), track.Title))
	case IndexVideo:
		return searchFallback(track, track.PreferredURL())
	default:
		return searchFallback(track, track.SearchURL)
	}
}

func searchFallback(track models.Track, u string) string {
	if u != "" {
		return u
	}
	return shared.YouTubeSearchURL(shared.SearchQuery(track.Artist(), track.Title))
}
