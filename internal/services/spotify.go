// Spotify Web API implementation of [PlaylistFetcher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

var (
	playlistPathPattern = regexp.MustCompile(`playlist/([a-zA-Z0-9]+)`)
	playlistURIPattern  = regexp.MustCompile(`spotify:playlist:([a-zA-Z0-9]+)`)
	playlistIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	errBadRequest = fmt.Errorf("bad request")
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
//
// Track is nil for items that were removed from the catalog.
type SpotifyPlaylistTrack struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks is one page of playlist items.
type SpotifyPaginatedTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

type Owner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// SpotifyPlaylist represents a Spotify playlist with its first page of items.
type SpotifyPlaylist struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Description  string                 `json:"description"`
	Owner        Owner                  `json:"owner"`
	Public       bool                   `json:"public"`
	Tracks       SpotifyPaginatedTracks `json:"tracks"`
	ExternalURLs externalURLs           `json:"external_urls"`
}

// SpotifyService reads playlists from the Spotify Web API with client-credentials authentication.
type SpotifyService struct {
	config     *clientcredentials.Config
	baseURL    string
	baseClient *http.Client
	httpClient *http.Client
	logger     *log.Logger
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithSpotifyBaseURL points the service at a different API root.
func WithSpotifyBaseURL(baseURL string) SpotifyOption {
	return func(s *SpotifyService) { s.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithSpotifyTokenURL points the client-credentials exchange at a different token endpoint.
func WithSpotifyTokenURL(tokenURL string) SpotifyOption {
	return func(s *SpotifyService) { s.config.TokenURL = tokenURL }
}

// WithSpotifyHTTPClient sets the client used for both token and API requests.
func WithSpotifyHTTPClient(client *http.Client) SpotifyOption {
	return func(s *SpotifyService) { s.baseClient = client }
}

// NewSpotifyService creates a Spotify service from "client_id" and "client_secret" credentials.
func NewSpotifyService(credentials map[string]string, logger *log.Logger, opts ...SpotifyOption) (*SpotifyService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	if logger == nil {
		logger = log.Default()
	}

	s := &SpotifyService{
		config: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
		},
		baseURL:    spotifyBaseURL,
		baseClient: http.DefaultClient,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate requests an app access token. Later requests reuse and refresh it automatically.
func (s *SpotifyService) Authenticate(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.baseClient)

	src := s.config.TokenSource(ctx)
	token, err := src.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.httpClient = oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, src))
	s.logger.Debug("authenticated with spotify", "expires", token.Expiry)
	return nil
}

// ExtractPlaylistID accepts a playlist URL, a spotify:playlist: URI or a bare id.
func ExtractPlaylistID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)

	for _, pattern := range []*regexp.Regexp{playlistPathPattern, playlistURIPattern} {
		if m := pattern.FindStringSubmatch(ref); m != nil {
			return m[1], nil
		}
	}

	if playlistIDPattern.MatchString(ref) {
		return ref, nil
	}

	return "", fmt.Errorf("%w: not a Spotify playlist reference: %q", shared.ErrInvalidArgument, ref)
}

// doRequest performs an authenticated GET request. Endpoint is either a path below the base URL or an absolute URL.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.httpClient == nil {
		if err := s.Authenticate(ctx); err != nil {
			return err
		}
	}

	apiURL := endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		apiURL = s.baseURL + endpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: spotify API returned status %d", shared.ErrAuthFailed, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, endpoint)
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %w: %s", shared.ErrAPIRequest, errBadRequest, endpoint)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify API error: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return nil
}

// Playlist retrieves playlist metadata together with the first page of items.
//
// A 400 for a malformed id is reported as [shared.ErrPlaylistNotFound], like a 404.
func (s *SpotifyService) Playlist(ctx context.Context, playlistID string) (*SpotifyPlaylist, error) {
	var playlist SpotifyPlaylist
	if err := s.doRequest(ctx, "/playlists/"+playlistID, &playlist); err != nil {
		if errors.Is(err, errBadRequest) {
			return nil, fmt.Errorf("%w: invalid playlist id %q", shared.ErrPlaylistNotFound, playlistID)
		}
		return nil, err
	}
	return &playlist, nil
}

// FetchPlaylist retrieves a playlist and every page of its items.
func (s *SpotifyService) FetchPlaylist(ctx context.Context, ref string) (*models.Playlist, error) {
	playlistID, err := ExtractPlaylistID(ref)
	if err != nil {
		return nil, err
	}

	sp, err := s.Playlist(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	items := sp.Tracks.Items
	next := sp.Tracks.Next
	for next != nil && *next != "" {
		var page SpotifyPaginatedTracks
		if err := s.doRequest(ctx, *next, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}

	playlist := &models.Playlist{
		ID:          sp.ID,
		Name:        sp.Name,
		Description: sp.Description,
		Owner:       sp.Owner.DisplayName,
		URL:         sp.ExternalURLs.Spotify,
		Tracks:      make([]models.Track, 0, len(items)),
	}

	dropped := 0
	for _, item := range items {
		if item.Track == nil {
			dropped++
			continue
		}
		playlist.Tracks = append(playlist.Tracks, convertTrack(*item.Track))
	}

	if dropped > 0 {
		s.logger.Debug("dropped unavailable playlist items", "playlist", sp.ID, "count", dropped)
	}
	s.logger.Debug("fetched playlist", "playlist", sp.ID, "tracks", len(playlist.Tracks))

	return playlist, nil
}

func convertTrack(st SpotifyTrack) models.Track {
	artists := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, a.Name)
	}

	track := models.Track{
		Title:     st.Name,
		Artists:   artists,
		Album:     st.Album.Name,
		Duration:  st.DurationMS / 1000,
		SourceURL: st.ExternalURLs.Spotify,
	}
	track.SearchURL = shared.YouTubeSearchURL(shared.SearchQuery(track.Artist(), track.Title))
	return track
}
