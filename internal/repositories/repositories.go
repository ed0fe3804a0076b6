package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/playlist-creator/internal/models"
	"github.com/desertthunder/playlist-creator/internal/shared"
)

// LinkRepository persists resolved links in the resolved_links table.
type LinkRepository struct {
	db *sql.DB
}

// NewLinkRepository creates a new LinkRepository with the given database connection
func NewLinkRepository(db *sql.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Get retrieves a cached link by query without counting a hit.
func (r *LinkRepository) Get(ctx context.Context, query string) (*models.Link, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, query, video_id, hits, created_at, updated_at
		FROM resolved_links
		WHERE query = ?
	`, query)

	return scanLink(row)
}

// Lookup returns the cached video id for query and counts the hit.
func (r *LinkRepository) Lookup(ctx context.Context, query string) (string, bool, error) {
	var videoID string
	err := r.db.QueryRowContext(ctx, "SELECT video_id FROM resolved_links WHERE query = ?", query).Scan(&videoID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to look up link: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, "UPDATE resolved_links SET hits = hits + 1 WHERE query = ?", query); err != nil {
		return "", false, fmt.Errorf("failed to record cache hit: %w", err)
	}

	return videoID, true, nil
}

// Store inserts or replaces the video id for query.
func (r *LinkRepository) Store(ctx context.Context, query, videoID string) error {
	if strings.TrimSpace(query) == "" || videoID == "" {
		return fmt.Errorf("%w: query and video id are required", shared.ErrInvalidInput)
	}

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO resolved_links (id, query, video_id, hits, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
		ON CONFLICT(query) DO UPDATE SET video_id = excluded.video_id, updated_at = excluded.updated_at
	`, shared.GenerateID(), query, videoID, now, now)
	if err != nil {
		return fmt.Errorf("failed to store link: %w", err)
	}

	return nil
}

// List returns up to limit cached links, most used first. A limit of zero or less returns all links.
func (r *LinkRepository) List(ctx context.Context, limit int) ([]*models.Link, error) {
	query := `
		SELECT id, query, video_id, hits, created_at, updated_at
		FROM resolved_links
		ORDER BY hits DESC, query ASC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []*models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Stats counts cached links and the hits they served.
func (r *LinkRepository) Stats(ctx context.Context) (models.LinkStats, error) {
	var stats models.LinkStats
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*), COALESCE(SUM(hits), 0) FROM resolved_links").
		Scan(&stats.Entries, &stats.Hits)
	if err != nil {
		return stats, fmt.Errorf("failed to read cache stats: %w", err)
	}
	return stats, nil
}

// Clear removes every cached link and returns how many were deleted.
func (r *LinkRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM resolved_links")
	if err != nil {
		return 0, fmt.Errorf("failed to clear links: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(s scanner) (*models.Link, error) {
	var link models.Link
	err := s.Scan(&link.ID, &link.Query, &link.VideoID, &link.Hits, &link.CreatedAt, &link.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan link: %w", err)
	}
	return &link, nil
}
