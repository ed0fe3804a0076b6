package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/playlist-creator/internal/services"
	"github.com/desertthunder/playlist-creator/internal/shared"
	"github.com/desertthunder/playlist-creator/internal/ui"
	"github.com/urfave/cli/v3"
)

type resolveSummary struct {
	Query     string `json:"query"`
	VideoURL  string `json:"video_url,omitempty"`
	SearchURL string `json:"search_url"`
	Cached    bool   `json:"cached"`
}

// Resolve searches YouTube for a single track and prints the watch and search URLs.
//
// A search that finds nothing is not an error: the search URL is still printed.
func (r *Runner) Resolve(ctx context.Context, cmd *cli.Command) error {
	artist, title := cmd.StringArg("artist"), cmd.StringArg("title")
	if title == "" {
		return fmt.Errorf("%w: artist and title are required", shared.ErrMissingArgument)
	}

	resolver, closeCache := r.linkResolver(!cmd.Bool("no-cache"))
	defer closeCache()

	res, err := resolver.Resolve(ctx, artist, title)
	if err != nil && !errors.Is(err, shared.ErrSearchMiss) {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(resolveSummary(res), true)
	}

	return r.writeResolution(res)
}

func (r *Runner) writeResolution(res services.Resolution) error {
	styles := ui.Styles()

	r.writePlain("Query: %s\n", res.Query)
	if !res.Resolved() {
		r.writePlain("%s\n", styles.Warn("No video found"))
		return r.writePlain("Search: %s\n", res.SearchURL)
	}

	source := "search"
	if res.Cached {
		source = "cache"
	}
	r.writePlain("%s %s (%s)\n", styles.OK("✓"), res.VideoURL, source)
	return r.writePlain("Search: %s\n", res.SearchURL)
}
