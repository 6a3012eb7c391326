package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// SaveThemesForDate upserts theme scores keyed by (run date, theme).
// Themes missing from the input keep their stored rows.
func (db *DB) SaveThemesForDate(ctx context.Context, runDate time.Time, themes []domain.ThemeEntry) error {
	if len(themes) == 0 {
		return nil
	}

	day := domain.Day(runDate)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // rollback after commit returns error, this is best-effort cleanup
	}()

	for _, t := range themes {
		examples, err := json.Marshal(t.Examples)
		if err != nil {
			return fmt.Errorf("encode theme examples: %w", err)
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO daily_themes (run_date, theme, score, examples_json)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (run_date, theme)
			DO UPDATE SET score = EXCLUDED.score, examples_json = EXCLUDED.examples_json
		`, day, t.Theme, t.Score, examples)
		if err != nil {
			return fmt.Errorf("upsert theme %s: %w", t.Theme, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ThemesForDate returns the run date's themes by score. A limit of zero or
// less returns all of them.
func (db *DB) ThemesForDate(ctx context.Context, runDate time.Time, limit int) ([]domain.ThemeEntry, error) {
	query := `
		SELECT theme, score, examples_json
		FROM daily_themes
		WHERE run_date = $1
		ORDER BY score DESC, theme`

	args := []any{domain.Day(runDate)}
	if limit > 0 {
		query += " LIMIT $2"

		args = append(args, limit)
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query themes for date: %w", err)
	}
	defer rows.Close()

	var out []domain.ThemeEntry

	for rows.Next() {
		var (
			t   domain.ThemeEntry
			raw []byte
		)

		if err := rows.Scan(&t.Theme, &t.Score, &raw); err != nil {
			return nil, fmt.Errorf("scan theme row: %w", err)
		}

		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &t.Examples); err != nil {
				db.Logger.Warn().Err(err).Str("theme", t.Theme).Msg("invalid theme examples json")
			}
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate theme rows: %w", err)
	}

	return out, nil
}

// ThemeScoresInRange returns theme scores with run date inside [start, end].
func (db *DB) ThemeScoresInRange(ctx context.Context, start, end time.Time) ([]domain.ThemeScore, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT run_date, theme, score
		FROM daily_themes
		WHERE run_date BETWEEN $1 AND $2
		ORDER BY run_date, theme
	`, domain.Day(start), domain.Day(end))
	if err != nil {
		return nil, fmt.Errorf("query theme scores: %w", err)
	}
	defer rows.Close()

	var out []domain.ThemeScore

	for rows.Next() {
		var s domain.ThemeScore

		if err := rows.Scan(&s.Date, &s.Theme, &s.Score); err != nil {
			return nil, fmt.Errorf("scan theme score row: %w", err)
		}

		out = append(out, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate theme score rows: %w", err)
	}

	return out, nil
}

// ReplaceTrendsForDate replaces the trend snapshot of a run date.
func (db *DB) ReplaceTrendsForDate(ctx context.Context, runDate time.Time, trends []domain.TrendEntry) error {
	day := domain.Day(runDate)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // rollback after commit returns error, this is best-effort cleanup
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM daily_theme_trends WHERE run_date = $1`, day); err != nil {
		return fmt.Errorf("delete trends: %w", err)
	}

	for i, t := range trends {
		_, err := tx.Exec(ctx, `
			INSERT INTO daily_theme_trends (run_date, theme, rank, score, prev_score, delta_1d, avg_7d, momentum)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, day, t.Theme, i+1, t.Score, t.PrevScore, t.Delta1D, t.Avg7D, t.Momentum)
		if err != nil {
			return fmt.Errorf("insert trend %s: %w", t.Theme, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// TrendsForDate returns the trend snapshot of a run date in rank order.
func (db *DB) TrendsForDate(ctx context.Context, runDate time.Time) ([]domain.TrendEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT theme, score, prev_score, delta_1d, avg_7d, momentum
		FROM daily_theme_trends
		WHERE run_date = $1
		ORDER BY rank
	`, domain.Day(runDate))
	if err != nil {
		return nil, fmt.Errorf("query trends for date: %w", err)
	}
	defer rows.Close()

	var out []domain.TrendEntry

	for rows.Next() {
		var t domain.TrendEntry

		if err := rows.Scan(&t.Theme, &t.Score, &t.PrevScore, &t.Delta1D, &t.Avg7D, &t.Momentum); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}

		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trend rows: %w", err)
	}

	return out, nil
}
