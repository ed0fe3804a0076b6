// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/services"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

// MockFetcher is a test double for [services.PlaylistFetcher]
type MockFetcher struct {
	Playlist *models.Playlist
	Err      error
	Refs     []string
}

func (m *MockFetcher) FetchPlaylist(ctx context.Context, ref string) (*models.Playlist, error) {
	m.Refs = append(m.Refs, ref)
	if m.Err != nil {
		return nil, m.Err
	}

	p := *m.Playlist
	p.Tracks = append([]models.Track(nil), m.Playlist.Tracks...)
	return &p, nil
}

func (m *MockFetcher) Name() string { return "mock" }

// MockResolver is a test double for [services.LinkResolver].
//
// Titles found in VideoIDs resolve to that id; every other title is a search miss. Err, when set, is returned for every call.
type MockResolver struct {
	VideoIDs map[string]string
	Cached   map[string]bool
	Err      error
	Calls    int
}

func (m *MockResolver) Resolve(ctx context.Context, artist, title string) (services.Resolution, error) {
	m.Calls++

	query := shared.SearchQuery(artist, title)
	res := services.Resolution{Query: query, SearchURL: shared.YouTubeSearchURL(query)}
	if m.Err != nil {
		return res, m.Err
	}

	id, ok := m.VideoIDs[title]
	if !ok {
		return res, shared.ErrSearchMiss
	}

	res.VideoURL = shared.YouTubeWatchURL(id)
	res.Cached = m.Cached[title]
	return res, nil
}

// SamplePlaylist returns a small playlist with Spotify links and no resolved videos.
func SamplePlaylist() *models.Playlist {
	tracks := []models.Track{
		{Title: "Song A", Artists: []string{"Artist X"}, Album: "Album One", Duration: 125, SourceURL: "https://open.spotify.com/track/aaa"},
		{Title: "Song B", Artists: []string{"Artist Y", "Artist Z"}, Album: "Album Two", Duration: 65, SourceURL: "https://open.spotify.com/track/bbb"},
		{Title: "Song C", Artists: []string{"Artist X"}, Duration: 3600, SourceURL: "https://open.spotify.com/track/ccc"},
	}
	for i := range tracks {
		tracks[i].SearchURL = shared.YouTubeSearchURL(shared.SearchQuery(tracks[i].Artist(), tracks[i].Title))
	}

	return &models.Playlist{
		ID:          "abc123",
		Name:        "Road Trip: 2024!",
		Description: "Songs for the drive",
		Owner:       "Owner Name",
		URL:         "https://open.spotify.com/playlist/abc123",
		Tracks:      tracks,
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, creating parent directories.
func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
