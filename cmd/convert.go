package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/desertthunder/playlist-creator/internal/tasks"
	"github.com/desertthunder/playlist-creator/internal/ui"
	"github.com/urfave/cli/v3"
)

type convertFileSummary struct {
	Source     string `json:"source"`
	Output     string `json:"output,omitempty"`
	Tracks     int    `json:"tracks"`
	Resolved   int    `json:"resolved"`
	Mismatches int    `json:"mismatches,omitempty"`
	Skipped    bool   `json:"skipped,omitempty"`
	Error      string `json:"error,omitempty"`
}

type convertSummary struct {
	Files     []convertFileSummary `json:"files"`
	Converted int                  `json:"converted"`
	Skipped   int                  `json:"skipped"`
	Failed    int                  `json:"failed"`
}

func newConvertSummary(result *tasks.ConvertResult) convertSummary {
	summary := convertSummary{
		Files:     make([]convertFileSummary, 0, len(result.Files)),
		Converted: result.Converted,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
	}
	for _, f := range result.Files {
		fs := convertFileSummary{
			Source:     f.Source,
			Output:     f.Output,
			Tracks:     f.Tracks,
			Resolved:   f.Resolved,
			Mismatches: f.Mismatches,
			Skipped:    f.Skipped,
		}
		if f.Err != nil {
			fs.Error = f.Err.Error()
		}
		summary.Files = append(summary.Files, fs)
	}
	return summary
}

// Convert writes a YouTube index next to every Markdown document found at the given path.
//
// Per-file failures do not stop the batch, but the command fails once the batch is done if any file failed.
func (r *Runner) Convert(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: markdown file or directory is required", shared.ErrMissingArgument)
	}

	opts := tasks.ConvertOpts{
		OutputDir:    cmd.String("output"),
		Extended:     cmd.Bool("extended"),
		ResolvedOnly: cmd.Bool("resolved-only"),
	}

	converter := tasks.NewConverter(shared.WithLogger(r.logger, "task", "convert"))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := r.watchProgress(progressCh, false)

	result, err := converter.Convert(ctx, path, opts, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(newConvertSummary(result), true); err != nil {
			return err
		}
	} else {
		r.writeConvertSummary(result)
	}

	if result.Failed > 0 {
		return fmt.Errorf("%d of %d files failed to convert", result.Failed, len(result.Files))
	}
	return nil
}

func (r *Runner) writeConvertSummary(result *tasks.ConvertResult) {
	styles := ui.Styles()

	for _, f := range result.Files {
		switch {
		case f.Err != nil:
			r.writePlain("%s %s: %v\n", styles.Err("✗"), f.Source, f.Err)
		case f.Skipped:
			r.writePlain("%s %s: no tracks found\n", styles.Warn("-"), f.Source)
		default:
			r.writePlain("%s %s → %s (%d tracks, %d with video)\n", styles.OK("✓"), f.Source, f.Output, f.Tracks, f.Resolved)
		}
		if f.Mismatches > 0 {
			r.writePlain("    %d numbered lines did not match the entry format\n", f.Mismatches)
		}
	}

	r.writePlain("\n")
	r.writePlainHeader("Conversion Complete!")
	r.writePlain("Converted: %d\nSkipped: %d\nFailed: %d\n", result.Converted, result.Skipped, result.Failed)
}
