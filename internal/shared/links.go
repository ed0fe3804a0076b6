package shared

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	YouTubeWatchBase   = "https://www.youtube.com/watch?v="
	YouTubeResultsBase = "https://www.youtube.com/results?search_query="
	SpotifySearchBase  = "https://open.spotify.com/search/"
)

var queryStrip = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// SearchQuery builds the keyword query used to look a track up: "<artist> <title>" without punctuation.
func SearchQuery(artist, title string) string {
	return strings.TrimSpace(queryStrip.ReplaceAllString(fmt.Sprintf("%s %s", artist, title), ""))
}

// YouTubeSearchURL returns the results-page URL that runs query live.
func YouTubeSearchURL(query string) string {
	return YouTubeResultsBase + url.QueryEscape(query)
}

// YouTubeWatchURL returns the canonical watch-page URL for a video id.
func YouTubeWatchURL(videoID string) string {
	return YouTubeWatchBase + videoID
}

// SpotifySearchURL returns the Spotify web search URL for query.
func SpotifySearchURL(query string) string {
	return SpotifySearchBase + url.PathEscape(query)
}
