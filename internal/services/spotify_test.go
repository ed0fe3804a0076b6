package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

var testCredentials = map[string]string{
	"client_id":     "test_client_id",
	"client_secret": "test_client_secret",
}

func testLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func writeToken(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"access_token":"test_token","token_type":"bearer","expires_in":3600}`))
}

func trackItem(name, artist string, durationMS int) map[string]any {
	return map[string]any{
		"added_at": "2024-01-01T00:00:00Z",
		"track": map[string]any{
			"id":            name,
			"name":          name,
			"artists":       []map[string]any{{"id": artist, "name": artist}},
			"album":         map[string]any{"id": "album", "name": "Album " + name},
			"duration_ms":   durationMS,
			"external_urls": map[string]any{"spotify": "https://open.spotify.com/track/" + name},
		},
	}
}

// newSpotifyServer serves a playlist split across two pages, with one unavailable item on the second page.
func newSpotifyServer(t *testing.T) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/token" {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST for token, got %s", r.Method)
			}
			writeToken(w)
			return
		}

		if got := r.Header.Get("Authorization"); got != "Bearer test_token" {
			t.Errorf("expected bearer token, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/playlists/abc123":
			next := server.URL + "/v1/playlists/abc123/tracks?offset=2&limit=2"
			json.NewEncoder(w).Encode(map[string]any{
				"id":            "abc123",
				"name":          "Road Trip",
				"description":   "Songs for the drive",
				"owner":         map[string]any{"id": "owner", "display_name": "Owner Name"},
				"external_urls": map[string]any{"spotify": "https://open.spotify.com/playlist/abc123"},
				"tracks": map[string]any{
					"items": []any{trackItem("one", "Artist X", 125000), trackItem("two", "Artist Y", 65000)},
					"total": 4,
					"next":  next,
				},
			})
		case "/v1/playlists/abc123/tracks":
			if r.URL.Query().Get("offset") != "2" {
				t.Errorf("expected offset 2, got %s", r.URL.Query().Get("offset"))
			}
			json.NewEncoder(w).Encode(map[string]any{
				"items": []any{trackItem("three", "Artist Z", 3600000), map[string]any{"added_at": "", "track": nil}},
				"total": 4,
				"next":  nil,
			})
		case "/v1/playlists/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"status":404,"message":"Not found."}}`))
		case "/v1/playlists/abc":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"status":400,"message":"Invalid base62 id"}}`))
		case "/v1/playlists/expired":
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"status":401,"message":"The access token expired"}}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestSpotifyService(t *testing.T, server *httptest.Server) *SpotifyService {
	t.Helper()

	svc, err := NewSpotifyService(testCredentials, testLogger(),
		WithSpotifyBaseURL(server.URL+"/v1"),
		WithSpotifyTokenURL(server.URL+"/token"),
		WithSpotifyHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
			if srv.baseURL != spotifyBaseURL || srv.config.TokenURL != spotifyTokenURL {
				t.Errorf("expected default endpoints, got %s and %s", srv.baseURL, srv.config.TokenURL)
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "secret"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "id"}, nil)
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("FetchPlaylist", func(t *testing.T) {
		server := newSpotifyServer(t)
		svc := newTestSpotifyService(t, server)

		playlist, err := svc.FetchPlaylist(context.Background(), "https://open.spotify.com/playlist/abc123?si=xyz")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if playlist.Name != "Road Trip" || playlist.Owner != "Owner Name" {
			t.Errorf("unexpected playlist metadata %+v", playlist)
		}
		if playlist.URL != "https://open.spotify.com/playlist/abc123" {
			t.Errorf("unexpected playlist URL %q", playlist.URL)
		}

		if len(playlist.Tracks) != 3 {
			t.Fatalf("expected 3 tracks (null item dropped), got %d", len(playlist.Tracks))
		}

		names := []string{}
		for _, track := range playlist.Tracks {
			names = append(names, track.Title)
			if track.VideoURL != "" {
				t.Errorf("fetched track %s should not be resolved", track.Title)
			}
		}
		if strings.Join(names, ",") != "one,two,three" {
			t.Errorf("expected tracks in playlist order, got %v", names)
		}

		first := playlist.Tracks[0]
		if first.Duration != 125 {
			t.Errorf("expected duration 125, got %d", first.Duration)
		}
		if first.Artist() != "Artist X" || first.Album != "Album one" {
			t.Errorf("unexpected first track %+v", first)
		}
		if first.SourceURL != "https://open.spotify.com/track/one" {
			t.Errorf("unexpected source URL %q", first.SourceURL)
		}
		if first.SearchURL != shared.YouTubeSearchURL("Artist X one") {
			t.Errorf("unexpected search URL %q", first.SearchURL)
		}
		if playlist.Tracks[2].Duration != 3600 {
			t.Errorf("expected duration 3600, got %d", playlist.Tracks[2].Duration)
		}
	})

	t.Run("Not Found", func(t *testing.T) {
		svc := newTestSpotifyService(t, newSpotifyServer(t))

		_, err := svc.FetchPlaylist(context.Background(), "spotify:playlist:missing")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Malformed Id", func(t *testing.T) {
		svc := newTestSpotifyService(t, newSpotifyServer(t))

		_, err := svc.FetchPlaylist(context.Background(), "abc")
		if !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		svc := newTestSpotifyService(t, newSpotifyServer(t))

		_, err := svc.FetchPlaylist(context.Background(), "expired")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		svc := newTestSpotifyService(t, newSpotifyServer(t))

		_, err := svc.FetchPlaylist(context.Background(), "broken")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Token Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/token" {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":"invalid_client"}`))
				return
			}
			t.Errorf("unexpected API request to %s", r.URL.Path)
		}))
		defer server.Close()

		svc := newTestSpotifyService(t, server)
		_, err := svc.FetchPlaylist(context.Background(), "abc123")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Invalid Reference", func(t *testing.T) {
		svc, _ := NewSpotifyService(testCredentials, nil)

		_, err := svc.FetchPlaylist(context.Background(), "https://example.com/invalid")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestExtractPlaylistID(t *testing.T) {
	tc := []struct {
		name    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "URL", ref: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "URL with query", ref: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M?si=abc", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "URI", ref: "spotify:playlist:37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "bare id", ref: "37i9dQZF1DXcBWIGoYBM5M", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "surrounding whitespace", ref: "  37i9dQZF1DXcBWIGoYBM5M\n", want: "37i9dQZF1DXcBWIGoYBM5M"},
		{name: "other URL", ref: "https://example.com/invalid", wantErr: true},
		{name: "empty", ref: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPlaylistID(tt.ref)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractPlaylistID(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}
