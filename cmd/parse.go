package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/playlist-creator/internal/formatter"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/urfave/cli/v3"
)

// Parse prints the tracks recovered from a Markdown playlist document.
func (r *Runner) Parse(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: markdown file is required", shared.ErrMissingArgument)
	}

	content, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return err
	}

	doc := formatter.ParseMarkdown(content)
	for _, m := range doc.Mismatches {
		r.logger.Warn("skipped entry", "line", m.Line, "text", m.Text)
	}

	switch {
	case cmd.Bool("json"):
		return r.writeJSON(doc.Playlist, cmd.Bool("pretty"))
	case cmd.Bool("yaml"):
		return r.writeYAML(doc.Playlist)
	}

	rows := make([][]string, 0, len(doc.Playlist.Tracks))
	for i, t := range doc.Playlist.Tracks {
		rows = append(rows, []string{
			strconv.Itoa(i + 1), t.Title, t.Artist(), shared.FormatDuration(t.Duration), t.PreferredURL(),
		})
	}

	r.writePlain("%s (%d tracks, %d with video)\n", doc.Playlist.Name, len(doc.Playlist.Tracks), doc.Playlist.Resolved())
	if len(rows) == 0 {
		return nil
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"#", "Title", "Artist", "Duration", "Link"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
		cmd.Bool("pretty"),
	))
}
