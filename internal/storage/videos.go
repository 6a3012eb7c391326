package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// UpsertVideos inserts or updates records keyed by (run date, video id).
// Written rows take positions after the date's current maximum, so a rerun
// moves updated videos into the rerun's order. Records without a video id are
// skipped. It returns the number of rows written.
func (db *DB) UpsertVideos(ctx context.Context, runDate time.Time, region string, records []domain.EngagementRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	day := domain.Day(runDate)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // rollback after commit returns error, this is best-effort cleanup
	}()

	var base int
	if err := tx.QueryRow(ctx, `
		SELECT COALESCE(MAX(position) + 1, 0) FROM videos WHERE run_date = $1
	`, day).Scan(&base); err != nil {
		return 0, fmt.Errorf("read video position: %w", err)
	}

	written := 0

	for _, r := range records {
		if r.VideoID == "" {
			continue
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO videos (run_date, video_id, region_code, position, query, title, description,
				channel_title, published_at, view_count, like_count, comment_count, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			ON CONFLICT (run_date, video_id)
			DO UPDATE SET
				region_code = EXCLUDED.region_code,
				position = EXCLUDED.position,
				query = EXCLUDED.query,
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				channel_title = EXCLUDED.channel_title,
				published_at = EXCLUDED.published_at,
				view_count = EXCLUDED.view_count,
				like_count = EXCLUDED.like_count,
				comment_count = EXCLUDED.comment_count,
				fetched_at = EXCLUDED.fetched_at
		`, day, r.VideoID, region, base+written, r.Query, sanitizeUTF8(r.Title), sanitizeUTF8(r.Description),
			sanitizeUTF8(r.ChannelTitle), r.PublishedAt, r.ViewCount, r.LikeCount, r.CommentCount, r.FetchedAt)
		if err != nil {
			return 0, fmt.Errorf("upsert video %s: %w", r.VideoID, err)
		}

		written++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return written, nil
}

// VideosForDate returns the run date's records in collection order.
func (db *DB) VideosForDate(ctx context.Context, runDate time.Time) ([]domain.EngagementRecord, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT video_id, COALESCE(query, ''), COALESCE(title, ''), COALESCE(description, ''),
			COALESCE(channel_title, ''), published_at, view_count, like_count, comment_count, fetched_at
		FROM videos
		WHERE run_date = $1
		ORDER BY position, video_id
	`, domain.Day(runDate))
	if err != nil {
		return nil, fmt.Errorf("query videos for date: %w", err)
	}
	defer rows.Close()

	var out []domain.EngagementRecord

	for rows.Next() {
		var r domain.EngagementRecord

		if err := rows.Scan(&r.VideoID, &r.Query, &r.Title, &r.Description, &r.ChannelTitle,
			&r.PublishedAt, &r.ViewCount, &r.LikeCount, &r.CommentCount, &r.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}

		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate video rows: %w", err)
	}

	return out, nil
}

func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, "")
}
