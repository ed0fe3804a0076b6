// YouTube implementation of [LinkResolver]
//
// Searches with the YouTube Data API v3 when an API key is configured, otherwise reads the public results page.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"golang.org/x/time/rate"
)

const (
	youtubeAPIBaseURL = "https://www.googleapis.com/youtube/v3"
	youtubeWebBaseURL = "https://www.youtube.com"
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxResultsPage    = 4 << 20
)

var videoIDPattern = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})"`)

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

// YouTubeOptions configures a [YouTubeResolver].
type YouTubeOptions struct {
	APIKey    string
	UserAgent string
	RateLimit float64 // Searches per second, zero disables pacing
	Timeout   time.Duration
	Cache     LinkCache

	// Overridable endpoints
	APIBaseURL string
	WebBaseURL string
}

// YouTubeResolver guesses a watch URL for a track from the first search result.
type YouTubeResolver struct {
	apiKey     string
	userAgent  string
	apiBaseURL string
	webBaseURL string
	limiter    *rate.Limiter
	cache      LinkCache
	httpClient *http.Client
	logger     *log.Logger
}

// NewYouTubeResolver creates a resolver with the given options.
func NewYouTubeResolver(opts YouTubeOptions, logger *log.Logger) *YouTubeResolver {
	if logger == nil {
		logger = log.Default()
	}

	r := &YouTubeResolver{
		apiKey:     opts.APIKey,
		userAgent:  opts.UserAgent,
		apiBaseURL: strings.TrimRight(opts.APIBaseURL, "/"),
		webBaseURL: strings.TrimRight(opts.WebBaseURL, "/"),
		cache:      opts.Cache,
		httpClient: &http.Client{Timeout: opts.Timeout},
		logger:     logger,
	}

	if r.userAgent == "" {
		r.userAgent = defaultUserAgent
	}
	if r.apiBaseURL == "" {
		r.apiBaseURL = youtubeAPIBaseURL
	}
	if r.webBaseURL == "" {
		r.webBaseURL = youtubeWebBaseURL
	}
	if opts.RateLimit > 0 {
		r.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return r
}

// Mode names the search backend in use.
func (r *YouTubeResolver) Mode() string {
	if r.apiKey != "" {
		return "data-api"
	}
	return "results-page"
}

// Resolve searches once for "<artist> <title>" and builds the watch URL from the first result.
//
// The returned Resolution always carries the search URL. A missing result, a failed request or an unexpected status is
// reported as [shared.ErrSearchMiss]; only context errors are returned as-is.
func (r *YouTubeResolver) Resolve(ctx context.Context, artist, title string) (Resolution, error) {
	query := shared.SearchQuery(artist, title)
	res := Resolution{Query: query, SearchURL: shared.YouTubeSearchURL(query)}

	if query == "" {
		return res, fmt.Errorf("%w: empty query", shared.ErrSearchMiss)
	}

	key := shared.NormalizeQuery(query)
	if r.cache != nil {
		videoID, ok, err := r.cache.Lookup(ctx, key)
		switch {
		case err != nil:
			r.logger.Warn("link cache lookup failed", "query", key, "error", err)
		case ok:
			res.VideoURL = shared.YouTubeWatchURL(videoID)
			res.Cached = true
			return res, nil
		}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			return res, err
		}
	}

	var videoID string
	var err error
	if r.apiKey != "" {
		videoID, err = r.searchAPI(ctx, query)
	} else {
		videoID, err = r.searchResultsPage(ctx, query)
	}

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, ctxErr
		}
		r.logger.Debug("search miss", "query", query, "mode", r.Mode(), "error", err)
		if errors.Is(err, shared.ErrSearchMiss) {
			return res, err
		}
		return res, fmt.Errorf("%w: %v", shared.ErrSearchMiss, err)
	}

	res.VideoURL = shared.YouTubeWatchURL(videoID)
	if r.cache != nil {
		if err := r.cache.Store(ctx, key, videoID); err != nil {
			r.logger.Warn("link cache store failed", "query", key, "error", err)
		}
	}

	return res, nil
}

func (r *YouTubeResolver) searchAPI(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", "1")
	params.Set("q", query)
	params.Set("key", r.apiKey)

	body, err := r.get(ctx, r.apiBaseURL+"/search?"+params.Encode(), "application/json")
	if err != nil {
		return "", err
	}

	var response youtubeSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, item := range response.Items {
		if item.ID.VideoID != "" {
			return item.ID.VideoID, nil
		}
	}

	return "", fmt.Errorf("%w: no results for %q", shared.ErrSearchMiss, query)
}

func (r *YouTubeResolver) searchResultsPage(ctx context.Context, query string) (string, error) {
	body, err := r.get(ctx, r.webBaseURL+"/results?search_query="+url.QueryEscape(query), "text/html")
	if err != nil {
		return "", err
	}

	if m := videoIDPattern.FindSubmatch(body); m != nil {
		return string(m[1]), nil
	}

	return "", fmt.Errorf("%w: no video id in results page for %q", shared.ErrSearchMiss, query)
}

func (r *YouTubeResolver) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("youtube search error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResultsPage))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
