// package models defines the data model for playlist documents and index files
package models

import (
	"strings"
)

const watchURLMarker = "watch?v="

// Track is a single playlist entry.
type Track struct {
	Title     string   `json:"title" yaml:"title"`
	Artists   []string `json:"artists" yaml:"artists"`
	Album     string   `json:"album,omitempty" yaml:"album,omitempty"`
	Duration  int      `json:"duration" yaml:"duration"` // Duration in seconds
	SourceURL string   `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	VideoURL  string   `json:"video_url,omitempty" yaml:"video_url,omitempty"` // Empty until resolved
	SearchURL string   `json:"search_url" yaml:"search_url"`
}

// Artist joins all artist names with ", ".
func (t Track) Artist() string {
	return strings.Join(t.Artists, ", ")
}

// HasVideo reports whether the track carries a direct watch-page URL.
func (t Track) HasVideo() bool {
	return strings.Contains(t.VideoURL, watchURLMarker)
}

// PreferredURL returns the resolved video URL, falling back to the search-query URL.
func (t Track) PreferredURL() string {
	if t.HasVideo() {
		return t.VideoURL
	}
	return t.SearchURL
}

// WithLinks returns a copy of t carrying the given video and search URLs.
func (t Track) WithLinks(videoURL, searchURL string) Track {
	t.Artists = append([]string(nil), t.Artists...)
	t.VideoURL = videoURL
	if searchURL != "" {
		t.SearchURL = searchURL
	}
	return t
}

// Playlist is an ordered collection of tracks with the metadata shown in document headers.
type Playlist struct {
	ID          string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Owner       string  `json:"owner,omitempty" yaml:"owner,omitempty"`
	URL         string  `json:"url,omitempty" yaml:"url,omitempty"`
	Tracks      []Track `json:"tracks" yaml:"tracks"`
}

// TotalDuration sums the durations of all tracks in seconds.
func (p Playlist) TotalDuration() int {
	total := 0
	for _, t := range p.Tracks {
		total += t.Duration
	}
	return total
}

// Resolved counts the tracks that carry a direct video URL.
func (p Playlist) Resolved() int {
	n := 0
	for _, t := range p.Tracks {
		if t.HasVideo() {
			n++
		}
	}
	return n
}
