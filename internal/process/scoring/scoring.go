// Package scoring runs the scoring stage: it turns a day's collected videos
// into theme scores and trend snapshots and writes the CSV snapshot.
package scoring

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	"github.com/lueurxax/ytmusic-trends/internal/core/trends"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
)

// TopThemesCount is how many themes downstream stages receive.
const TopThemesCount = 10

// Repository is the storage the stage reads from and writes to.
type Repository interface {
	VideosForDate(ctx context.Context, runDate time.Time) ([]domain.EngagementRecord, error)
	SaveThemesForDate(ctx context.Context, runDate time.Time, themes []domain.ThemeEntry) error
	ThemeScoresInRange(ctx context.Context, start, end time.Time) ([]domain.ThemeScore, error)
	ReplaceTrendsForDate(ctx context.Context, runDate time.Time, trends []domain.TrendEntry) error
}

// Options configures snapshot output.
type Options struct {
	OutputDir string
	MirrorDir string
}

// Result summarizes a scoring run.
type Result struct {
	RunDate   time.Time
	Themes    []domain.ThemeEntry
	TopThemes []domain.ThemeEntry
	Trends    []domain.TrendEntry
	CSVPath   string
}

// Service runs the scoring stage.
type Service struct {
	repo   Repository
	scorer *trends.Scorer
	opts   Options
	logger *zerolog.Logger
}

// New creates a scoring service.
func New(repo Repository, scorer *trends.Scorer, opts Options, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, scorer: scorer, opts: opts, logger: logger}
}

// Run scores the run date's videos. Rerunning a date overwrites theme rows
// key by key and replaces the trend snapshot.
func (s *Service) Run(ctx context.Context, runDate time.Time) (*Result, error) {
	runDate = domain.Day(runDate)
	log := s.logger.With().Str("run_date", runDate.Format(domain.DateLayout)).Logger()

	videos, err := s.repo.VideosForDate(ctx, runDate)
	if err != nil {
		return nil, fmt.Errorf("load videos: %w", err)
	}

	if len(videos) == 0 {
		log.Warn().Msg("no videos stored for run date")
	}

	themes := trends.AggregateThemes(s.scorer, videos)

	if err := s.repo.SaveThemesForDate(ctx, runDate, themes); err != nil {
		return nil, fmt.Errorf("save themes: %w", err)
	}

	history, err := s.repo.ThemeScoresInRange(ctx, runDate.AddDate(0, 0, -trends.RollingWindowDays), runDate.AddDate(0, 0, -1))
	if err != nil {
		return nil, fmt.Errorf("load theme history: %w", err)
	}

	trendEntries := trends.ComputeTrends(runDate, themes, history)

	if err := s.repo.ReplaceTrendsForDate(ctx, runDate, trendEntries); err != nil {
		return nil, fmt.Errorf("save trends: %w", err)
	}

	csvPath, err := s.writeSnapshot(&log, trends.TopThemes(themes, trends.TrendTopN))
	if err != nil {
		return nil, err
	}

	observability.ThemesScored.Set(float64(len(themes)))

	if len(themes) > 0 {
		observability.TopThemeScore.Set(themes[0].Score)
	}

	log.Info().Int("videos", len(videos)).Int("themes", len(themes)).Int("trends", len(trendEntries)).Msg("scoring finished")

	return &Result{
		RunDate:   runDate,
		Themes:    themes,
		TopThemes: trends.TopThemes(themes, TopThemesCount),
		Trends:    trendEntries,
		CSVPath:   csvPath,
	}, nil
}
