package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlist-creator/internal/formatter"
	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/services"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

// Format is an output file produced by an export.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatSpotify  Format = "spotify"
	FormatYouTube  Format = "youtube"
	FormatSearch   Format = "search"

	formatAll = "all"
)

// AllFormats lists every format in the order files are written.
var AllFormats = []Format{FormatMarkdown, FormatSpotify, FormatYouTube, FormatSearch}

// ParseFormats validates format names. "all" expands to [AllFormats]; duplicates are dropped and the result follows the
// order of [AllFormats]. No values selects every format.
func ParseFormats(values []string) ([]Format, error) {
	if len(values) == 0 {
		return slices.Clone(AllFormats), nil
	}

	selected := map[Format]bool{}
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.ToLower(strings.TrimSpace(name))
			switch {
			case name == "":
				continue
			case name == formatAll:
				for _, f := range AllFormats {
					selected[f] = true
				}
			case slices.Contains(AllFormats, Format(name)):
				selected[Format(name)] = true
			default:
				return nil, fmt.Errorf("%w: unknown format %q (expected markdown, spotify, youtube, search or all)", shared.ErrInvalidFlag, name)
			}
		}
	}

	formats := make([]Format, 0, len(selected))
	for _, f := range AllFormats {
		if selected[f] {
			formats = append(formats, f)
		}
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no format selected", shared.ErrInvalidFlag)
	}
	return formats, nil
}

// FileName returns the output file name for a playlist slug.
func (f Format) FileName(slug string) string {
	switch f {
	case FormatMarkdown:
		return slug + "-playlist.md"
	case FormatSpotify:
		return slug + "-spotify.m3u"
	case FormatYouTube:
		return slug + "-youtube.m3u"
	default:
		return slug + "-youtube-search.m3u"
	}
}

// needsSearch reports whether any selected format shows resolved video links.
func needsSearch(formats []Format) bool {
	return slices.Contains(formats, FormatMarkdown) || slices.Contains(formats, FormatYouTube)
}

// ExportOpts contains configuration for a playlist export.
type ExportOpts struct {
	OutputDir   string    // Base output directory, files go to OutputDir/<slug>
	Formats     []Format  // Formats to write (default: all)
	Search      bool      // Resolve YouTube links before rendering
	Extended    bool      // Write extended M3U indexes
	GeneratedAt time.Time // Date shown in the Markdown header (default: now)
}

// ExportResult summarizes a finished export.
type ExportResult struct {
	Playlist  *models.Playlist
	Directory string
	Files     []string
	Searched  bool
	Resolved  int // Tracks with a direct video link
	Misses    int // Searches that found nothing
	Cached    int // Links served from the cache
}

// Exporter turns a remote playlist into Markdown and index files.
type Exporter struct {
	fetcher  services.PlaylistFetcher
	resolver services.LinkResolver
	logger   *log.Logger
}

// NewExporter creates an Exporter. A nil resolver disables link resolution.
func NewExporter(fetcher services.PlaylistFetcher, resolver services.LinkResolver, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.Default()
	}
	return &Exporter{fetcher: fetcher, resolver: resolver, logger: logger}
}

// Export fetches the playlist identified by ref, resolves links when requested and writes every selected format.
func (e *Exporter) Export(ctx context.Context, ref string, opts ExportOpts, progress chan<- ProgressUpdate) (*ExportResult, error) {
	if e.fetcher == nil {
		return nil, fmt.Errorf("%w: playlist fetcher not initialized", shared.ErrServiceUnavailable)
	}

	if len(opts.Formats) == 0 {
		opts.Formats = AllFormats
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "output"
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	sendProgress(progress, fetchingPlaylistUpdate(ref))
	playlist, err := e.fetcher.FetchPlaylist(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}
	sendProgress(progress, foundPlaylistUpdate(playlist))
	e.logger.Info("fetched playlist", "name", playlist.Name, "tracks", len(playlist.Tracks))

	result := &ExportResult{Playlist: playlist}

	if opts.Search && needsSearch(opts.Formats) && e.resolver != nil && len(playlist.Tracks) > 0 {
		if err := e.resolveTracks(ctx, playlist, result, progress); err != nil {
			return nil, err
		}
	}

	result.Resolved = playlist.Resolved()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := e.writeFiles(playlist, opts, result, progress); err != nil {
		return result, err
	}

	return result, nil
}

func (e *Exporter) resolveTracks(ctx context.Context, playlist *models.Playlist, result *ExportResult, progress chan<- ProgressUpdate) error {
	total := len(playlist.Tracks)
	result.Searched = true
	sendProgress(progress, searchTracksUpdate(0, total, nil))

	for i, track := range playlist.Tracks {
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := e.resolver.Resolve(ctx, track.Artist(), track.Title)
		switch {
		case errors.Is(err, shared.ErrSearchMiss):
			result.Misses++
			e.logger.Debug("no video found", "artist", track.Artist(), "title", track.Title)
		case err != nil:
			return fmt.Errorf("failed to resolve %s - %s: %w", track.Artist(), track.Title, err)
		case res.Cached:
			result.Cached++
		}

		playlist.Tracks[i] = track.WithLinks(res.VideoURL, res.SearchURL)
		sendProgress(progress, searchTracksUpdate(i+1, total, &playlist.Tracks[i]))
	}

	return nil
}

func (e *Exporter) writeFiles(playlist *models.Playlist, opts ExportOpts, result *ExportResult, progress chan<- ProgressUpdate) error {
	slug := shared.Slugify(playlist.Name)
	dir := filepath.Join(opts.OutputDir, slug)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	result.Directory = dir

	indexOpts := formatter.IndexOptions{Extended: opts.Extended}
	for i, f := range opts.Formats {
		var data []byte
		switch f {
		case FormatMarkdown:
			data = formatter.RenderMarkdown(*playlist, opts.GeneratedAt)
		case FormatSpotify:
			data = formatter.RenderIndex(*playlist, formatter.IndexSource, indexOpts)
		case FormatYouTube:
			data = formatter.RenderIndex(*playlist, formatter.IndexVideo, indexOpts)
		case FormatSearch:
			data = formatter.RenderIndex(*playlist, formatter.IndexSearch, indexOpts)
		default:
			return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
		}

		path := filepath.Join(dir, f.FileName(slug))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		result.Files = append(result.Files, path)
		sendProgress(progress, writeFileUpdate(i+1, len(opts.Formats), path))
		e.logger.Debug("wrote file", "format", f, "path", path, "bytes", len(data))
	}

	return nil
}
