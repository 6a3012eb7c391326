package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

const tagSeparator = ","

// ReplacePromptsForDate replaces the run date's prompts. Prompts are trimmed,
// empty ones dropped and (tool, prompt) duplicates collapsed to the first.
// It returns the number of prompts stored.
func (db *DB) ReplacePromptsForDate(ctx context.Context, runDate time.Time, prompts []domain.Prompt) (int, error) {
	day := domain.Day(runDate)
	rows := domain.NormalizePrompts(prompts)

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) //nolint:errcheck // rollback after commit returns error, this is best-effort cleanup
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM daily_prompts WHERE run_date = $1`, day); err != nil {
		return 0, fmt.Errorf("delete prompts: %w", err)
	}

	for i, p := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO daily_prompts (run_date, position, tool, prompt, theme, theme_tags)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, day, i, p.Tool, sanitizeUTF8(p.Prompt), sanitizeUTF8(p.Theme), joinTags(p.Tags))
		if err != nil {
			return 0, fmt.Errorf("insert prompt: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return len(rows), nil
}

// PromptsForDate returns the run date's prompts in generation order.
func (db *DB) PromptsForDate(ctx context.Context, runDate time.Time) ([]domain.Prompt, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT tool, prompt, COALESCE(theme, ''), COALESCE(theme_tags, '')
		FROM daily_prompts
		WHERE run_date = $1
		ORDER BY position
	`, domain.Day(runDate))
	if err != nil {
		return nil, fmt.Errorf("query prompts for date: %w", err)
	}
	defer rows.Close()

	var out []domain.Prompt

	for rows.Next() {
		var (
			p    domain.Prompt
			tags string
		)

		if err := rows.Scan(&p.Tool, &p.Prompt, &p.Theme, &tags); err != nil {
			return nil, fmt.Errorf("scan prompt row: %w", err)
		}

		p.Tags = splitTags(tags)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompt rows: %w", err)
	}

	return out, nil
}

// SavePromptHistory records the prompts generated on a run date.
func (db *DB) SavePromptHistory(ctx context.Context, runDate time.Time, prompts []domain.Prompt) error {
	day := domain.Day(runDate)

	for _, p := range domain.NormalizePrompts(prompts) {
		_, err := db.Pool.Exec(ctx, `
			INSERT INTO prompt_history (run_date, tool, prompt_hash, prompt)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (run_date, tool, prompt_hash) DO NOTHING
		`, day, p.Tool, domain.PromptHash(p.Prompt), sanitizeUTF8(p.Prompt))
		if err != nil {
			return fmt.Errorf("save prompt history: %w", err)
		}
	}

	return nil
}

// RecentPromptHashes returns the hashes of prompts generated for a tool with
// run date inside [since, until].
func (db *DB) RecentPromptHashes(ctx context.Context, tool string, since, until time.Time) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT DISTINCT prompt_hash
		FROM prompt_history
		WHERE tool = $1 AND run_date BETWEEN $2 AND $3
	`, tool, domain.Day(since), domain.Day(until))
	if err != nil {
		return nil, fmt.Errorf("query prompt history: %w", err)
	}
	defer rows.Close()

	var out []string

	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("scan prompt hash: %w", err)
		}

		out = append(out, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prompt hashes: %w", err)
	}

	return out, nil
}

func joinTags(tags []string) string {
	clean := make([]string, 0, len(tags))

	for _, t := range tags {
		t = strings.TrimSpace(strings.ReplaceAll(t, tagSeparator, " "))
		if t != "" {
			clean = append(clean, t)
		}
	}

	return strings.Join(clean, tagSeparator)
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, tagSeparator)
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}
