package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v3"
)

// CacheStats prints the number of cached links and how often they were reused.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := repo.Stats(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Link Cache")
	r.writePlain("Path: %s\n", r.config.Cache.Path)
	r.writePlain("Entries: %d\n", stats.Entries)
	return r.writePlain("Hits: %d\n", stats.Hits)
}

// CacheList prints the most used cache entries.
func (r *Runner) CacheList(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	links, err := repo.List(ctx, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(links, true)
	}

	if len(links) == 0 {
		return r.writePlain("Link cache is empty\n")
	}

	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{l.Query, l.VideoID, strconv.Itoa(l.Hits), l.UpdatedAt.Format("2006-01-02")})
	}

	return r.writePlain("%s\n", renderTable(
		[]string{"Query", "Video", "Hits", "Updated"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		true,
	))
}

// CacheClear removes every cached link.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openCache()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repo.Clear(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("cleared link cache", "entries", n)
	return r.writePlain("✓ Removed %d cached links\n", n)
}
