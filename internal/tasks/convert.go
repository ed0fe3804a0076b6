package tasks

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlist-creator/internal/formatter"
	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

const markdownExt = ".md"

// ConvertOpts contains configuration for converting Markdown documents to index files.
type ConvertOpts struct {
	OutputDir    string // Directory for index files (default: next to each document)
	Extended     bool   // Write extended M3U
	ResolvedOnly bool   // Keep only entries with a direct video link
}

// FileResult is the outcome of converting a single document.
type FileResult struct {
	Source     string
	Output     string
	Tracks     int
	Resolved   int
	Mismatches int
	Skipped    bool // Document had no usable entries
	Err        error
}

// ConvertResult summarizes a batch conversion.
type ConvertResult struct {
	Files     []FileResult
	Converted int
	Skipped   int
	Failed    int
}

// Converter turns Markdown playlist documents into YouTube index files.
type Converter struct {
	logger *log.Logger
}

// NewConverter creates a Converter.
func NewConverter(logger *log.Logger) *Converter {
	if logger == nil {
		logger = log.Default()
	}
	return &Converter{logger: logger}
}

// Convert processes a single ".md" file or every ".md" file below a directory.
//
// A missing path or a file that is not Markdown is an error. Failures on individual files are recorded in the result and the
// loop continues.
func (c *Converter) Convert(ctx context.Context, path string, opts ConvertOpts, progress chan<- ProgressUpdate) (*ConvertResult, error) {
	sources, err := collectMarkdownFiles(path)
	if err != nil {
		return nil, err
	}

	result := &ConvertResult{Files: make([]FileResult, 0, len(sources))}
	written := make(map[string]bool, len(sources))
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res := c.convertFile(src, opts, written)
		switch {
		case res.Err != nil:
			result.Failed++
			c.logger.Error("failed to convert file", "path", src, "error", res.Err)
		case res.Skipped:
			result.Skipped++
			c.logger.Warn("no tracks found", "path", src)
		default:
			result.Converted++
		}

		result.Files = append(result.Files, res)
		sendProgress(progress, convertFileUpdate(i+1, len(sources), res))
	}

	return result, nil
}

func (c *Converter) convertFile(src string, opts ConvertOpts, written map[string]bool) FileResult {
	res := FileResult{Source: src}

	content, err := os.ReadFile(src)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		return res
	}

	doc := formatter.ParseMarkdown(content)
	res.Mismatches = len(doc.Mismatches)
	for _, m := range doc.Mismatches {
		c.logger.Warn("skipped entry", "path", src, "line", m.Line, "text", m.Text)
	}

	playlist := doc.Playlist
	if opts.ResolvedOnly {
		playlist.Tracks = resolvedTracks(playlist.Tracks)
	}

	res.Tracks = len(playlist.Tracks)
	res.Resolved = playlist.Resolved()
	if res.Tracks == 0 {
		res.Skipped = true
		return res
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(src)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		res.Err = fmt.Errorf("failed to create output directory: %w", err)
		return res
	}

	res.Output = outputPath(outDir, shared.Slugify(playlist.Name), src, written)
	written[res.Output] = true
	data := formatter.RenderIndex(playlist, formatter.IndexVideo, formatter.IndexOptions{Extended: opts.Extended})
	if err := os.WriteFile(res.Output, data, 0644); err != nil {
		res.Err = fmt.Errorf("failed to write index: %w", err)
		return res
	}

	c.logger.Debug("converted file", "path", src, "output", res.Output, "tracks", res.Tracks, "resolved", res.Resolved)
	return res
}

// outputPath names the index file after the playlist slug. When an earlier document in the batch already took that
// name, the source file's base name is appended, then a counter.
func outputPath(dir, slug, src string, taken map[string]bool) string {
	path := filepath.Join(dir, FormatYouTube.FileName(slug))
	if !taken[path] {
		return path
	}

	base := shared.Slugify(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	path = filepath.Join(dir, FormatYouTube.FileName(slug+"-"+base))
	for n := 2; taken[path]; n++ {
		path = filepath.Join(dir, FormatYouTube.FileName(fmt.Sprintf("%s-%s-%d", slug, base, n)))
	}
	return path
}

func resolvedTracks(tracks []models.Track) []models.Track {
	kept := make([]models.Track, 0, len(tracks))
	for _, t := range tracks {
		if t.HasVideo() {
			kept = append(kept, t)
		}
	}
	return kept
}

// collectMarkdownFiles returns path itself when it is a Markdown file, or every Markdown file below it in lexical order.
func collectMarkdownFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	if !info.IsDir() {
		if !isMarkdown(path) {
			return nil, fmt.Errorf("%w: %s is not a markdown file", shared.ErrInvalidArgument, path)
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isMarkdown(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}

	return files, nil
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), markdownExt)
}
