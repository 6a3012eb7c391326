// Package ports provides domain-centric interfaces for external dependencies.
// Stage packages declare the narrow subsets they need; Store is the full
// surface implemented by the PostgreSQL adapter and the in-memory mock.
package ports

import (
	"context"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// RunRepository manages per (run date, region) bookkeeping.
type RunRepository interface {
	AcquireRunLock(ctx context.Context, runDate time.Time, region string) (release func(), err error)
	CreateOrRefreshRun(ctx context.Context, runDate time.Time, region string, queryCount int) (*domain.Run, error)
	UpdateRunVideoCount(ctx context.Context, runID string, videoCount int) error
}

// VideoRepository stores collected engagement records.
type VideoRepository interface {
	UpsertVideos(ctx context.Context, runDate time.Time, region string, records []domain.EngagementRecord) (int, error)
	VideosForDate(ctx context.Context, runDate time.Time) ([]domain.EngagementRecord, error)
}

// QueryCacheRepository stores search results per run so reruns skip the search API.
type QueryCacheRepository interface {
	CachedVideoIDs(ctx context.Context, runDate time.Time, region, queryName string) ([]string, error)
	SaveCachedVideoIDs(ctx context.Context, runDate time.Time, region, queryName, q string, ids []string) error
}

// QueryStatRepository stores per-query performance snapshots.
type QueryStatRepository interface {
	ReplaceQueryStatsForDate(ctx context.Context, runDate time.Time, region string, stats []domain.QueryStat) error
	TopQueriesSince(ctx context.Context, region string, since, until time.Time, limit int) ([]domain.QueryStat, error)
}

// ThemeRepository stores daily theme scores and trend snapshots.
type ThemeRepository interface {
	SaveThemesForDate(ctx context.Context, runDate time.Time, themes []domain.ThemeEntry) error
	ThemesForDate(ctx context.Context, runDate time.Time, limit int) ([]domain.ThemeEntry, error)
	ThemeScoresInRange(ctx context.Context, start, end time.Time) ([]domain.ThemeScore, error)
	ReplaceTrendsForDate(ctx context.Context, runDate time.Time, trends []domain.TrendEntry) error
	TrendsForDate(ctx context.Context, runDate time.Time) ([]domain.TrendEntry, error)
}

// PromptRepository stores generated prompts.
type PromptRepository interface {
	ReplacePromptsForDate(ctx context.Context, runDate time.Time, prompts []domain.Prompt) (int, error)
	PromptsForDate(ctx context.Context, runDate time.Time) ([]domain.Prompt, error)
	SavePromptHistory(ctx context.Context, runDate time.Time, prompts []domain.Prompt) error
	RecentPromptHashes(ctx context.Context, tool string, since, until time.Time) ([]string, error)
}

// Store combines all repositories.
type Store interface {
	RunRepository
	VideoRepository
	QueryCacheRepository
	QueryStatRepository
	ThemeRepository
	PromptRepository
}
