package db

import (
	"context"
	"fmt"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// ReplaceQueryStatsForDate replaces the per-query stats of a (run date, region) pair.
func (db *DB) ReplaceQueryStatsForDate(ctx context.Context, runDate time.Time, region string, stats []domain.QueryStat) error {
	day := domain.Day(runDate)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // rollback after commit returns error, this is best-effort cleanup
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM daily_query_stats WHERE run_date = $1 AND region_code = $2`, day, region); err != nil {
		return fmt.Errorf("delete query stats: %w", err)
	}

	for _, st := range stats {
		_, err := tx.Exec(ctx, `
			INSERT INTO daily_query_stats (run_date, region_code, query_name, q, video_count, total_views, total_likes, total_comments)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (run_date, region_code, query_name) DO NOTHING
		`, day, region, st.QueryName, st.Q, st.VideoCount, st.TotalViews, st.TotalLikes, st.TotalComments)
		if err != nil {
			return fmt.Errorf("insert query stat %s: %w", st.QueryName, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// TopQueriesSince returns query strings aggregated over [since, until] for a
// region, ranked by total views, then video count, then first appearance.
// Date holds the first day the query appeared in the window.
func (db *DB) TopQueriesSince(ctx context.Context, region string, since, until time.Time, limit int) ([]domain.QueryStat, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT btrim(q) AS query,
			MIN(run_date) AS first_seen,
			COALESCE(SUM(video_count), 0)::bigint,
			COALESCE(SUM(total_views), 0)::bigint,
			COALESCE(SUM(total_likes), 0)::bigint,
			COALESCE(SUM(total_comments), 0)::bigint
		FROM daily_query_stats
		WHERE region_code = $1 AND run_date BETWEEN $2 AND $3 AND btrim(q) <> ''
		GROUP BY btrim(q)
		ORDER BY 4 DESC, 3 DESC, 2 ASC, 1 ASC
		LIMIT $4
	`, region, domain.Day(since), domain.Day(until), limit)
	if err != nil {
		return nil, fmt.Errorf("query top queries: %w", err)
	}
	defer rows.Close()

	var out []domain.QueryStat

	for rows.Next() {
		st := domain.QueryStat{Region: region}

		if err := rows.Scan(&st.Q, &st.Date, &st.VideoCount, &st.TotalViews, &st.TotalLikes, &st.TotalComments); err != nil {
			return nil, fmt.Errorf("scan top query row: %w", err)
		}

		st.QueryName = st.Q
		out = append(out, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate top query rows: %w", err)
	}

	return out, nil
}
