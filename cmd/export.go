package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlist-creator/internal/services"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/desertthunder/playlist-creator/internal/tasks"
	"github.com/desertthunder/playlist-creator/internal/ui"
	"github.com/urfave/cli/v3"
)

// exportSummary is the JSON form of a finished export.
type exportSummary struct {
	Playlist  string   `json:"playlist"`
	URL       string   `json:"url,omitempty"`
	Tracks    int      `json:"tracks"`
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
	Searched  bool     `json:"searched"`
	Resolved  int      `json:"resolved"`
	Misses    int      `json:"misses"`
	Cached    int      `json:"cached"`
}

func newExportSummary(result *tasks.ExportResult) exportSummary {
	return exportSummary{
		Playlist:  result.Playlist.Name,
		URL:       result.Playlist.URL,
		Tracks:    len(result.Playlist.Tracks),
		Directory: result.Directory,
		Files:     result.Files,
		Searched:  result.Searched,
		Resolved:  result.Resolved,
		Misses:    result.Misses,
		Cached:    result.Cached,
	}
}

// Export fetches a Spotify playlist and writes the selected document and index files.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("playlist")
	if ref == "" {
		return fmt.Errorf("%w: playlist URL, URI or ID is required", shared.ErrMissingArgument)
	}

	formats, err := tasks.ParseFormats(cmd.StringSlice("format"))
	if err != nil {
		return err
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.Output.Directory
	}

	opts := tasks.ExportOpts{
		OutputDir: outputDir,
		Formats:   formats,
		Search:    !cmd.Bool("no-search"),
		Extended:  cmd.Bool("extended"),
	}

	interactive := cmd.Bool("interactive")
	if interactive {
		if !isTerminal(os.Stdout) {
			return fmt.Errorf("%w: --interactive requires a terminal", shared.ErrInvalidFlag)
		}
		r.SetLogger(shared.NewLogger(io.Discard))
	}

	fetcher, err := r.playlistFetcher()
	if err != nil {
		return err
	}

	var resolver services.LinkResolver
	if opts.Search {
		var closeCache func()
		resolver, closeCache = r.linkResolver(!cmd.Bool("no-cache"))
		defer closeCache()
	}

	exporter := tasks.NewExporter(fetcher, resolver, shared.WithLogger(r.logger, "task", "export"))
	r.logger.Info("starting export", "playlist", ref, "formats", formats, "search", opts.Search)

	var result *tasks.ExportResult
	if interactive {
		result, err = r.exportInteractive(ctx, exporter, ref, opts)
	} else {
		result, err = r.exportPlain(ctx, exporter, ref, opts, cmd.Bool("json"))
	}
	if err != nil || result == nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(newExportSummary(result), true)
	}

	r.writeExportSummary(result)
	return nil
}

func (r *Runner) exportPlain(ctx context.Context, exporter *tasks.Exporter, ref string, opts tasks.ExportOpts, quiet bool) (*tasks.ExportResult, error) {
	if quiet {
		return exporter.Export(ctx, ref, opts, nil)
	}

	r.writePlain("Exporting playlist %s\n\n", ref)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.watchProgress(progressCh, isTerminal(os.Stderr))

	result, err := exporter.Export(ctx, ref, opts, progressCh)
	close(progressCh)
	<-done

	return result, err
}

func (r *Runner) exportInteractive(ctx context.Context, exporter *tasks.Exporter, ref string, opts tasks.ExportOpts) (*tasks.ExportResult, error) {
	model := ui.NewModel(ctx, exporter, ref, opts)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return nil, fmt.Errorf("error running interactive export: %w", err)
	}

	if model.Cancelled() {
		model.Wait()
		r.writePlain("Export cancelled\n")
		return nil, nil
	}

	return model.Result()
}

func (r *Runner) writeExportSummary(result *tasks.ExportResult) {
	styles := ui.Styles()
	total := len(result.Playlist.Tracks)

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Playlist: %s (%d tracks, %s)\n", result.Playlist.Name, total,
		shared.FormatDuration(result.Playlist.TotalDuration()))
	r.writePlain("Directory: %s\n", result.Directory)
	for _, f := range result.Files {
		r.writePlain("  %s %s\n", styles.OK("✓"), f)
	}

	if !result.Searched {
		r.writePlain("Links: search URLs only\n")
		return
	}

	r.writePlain("Resolved: %d/%d", result.Resolved, total)
	if result.Cached > 0 {
		r.writePlain(" (%d from cache)", result.Cached)
	}
	r.writePlain("\n")

	if result.Misses > 0 {
		r.writePlain("%s\n", styles.Warn(fmt.Sprintf("No video found for %d tracks, search links were kept", result.Misses)))
	}
}
