package feedback

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
)

// Repository is the history the selector reads.
type Repository interface {
	TopQueriesSince(ctx context.Context, region string, since, until time.Time, limit int) ([]domain.QueryStat, error)
	ThemeScoresInRange(ctx context.Context, start, end time.Time) ([]domain.ThemeScore, error)
}

// Selector loads feedback history from storage and applies SelectQueries.
type Selector struct {
	repo   Repository
	logger *zerolog.Logger
}

// NewSelector creates a selector backed by repo.
func NewSelector(repo Repository, logger *zerolog.Logger) *Selector {
	return &Selector{repo: repo, logger: logger}
}

// Select returns the queries to run for (runDate, region). A failed history
// read is logged and treated as an empty source.
func (s *Selector) Select(ctx context.Context, runDate time.Time, region string, seeds []domain.QuerySpec, cfg Config) []domain.QuerySpec {
	if !cfg.Enabled {
		observability.FeedbackQueries.WithLabelValues(sourceSeed).Add(float64(len(seeds)))

		return seeds
	}

	if cfg.MaxQueries <= 0 {
		return SelectQueries(runDate, seeds, cfg, nil, nil)
	}

	start, end := cfg.Window(runDate)
	logger := s.logger.With().
		Str(logFieldRunDate, domain.Day(runDate).Format(domain.DateLayout)).
		Str(logFieldRegion, region).
		Logger()

	stats, err := s.repo.TopQueriesSince(ctx, region, start, end, cfg.MaxQueries)
	if err != nil {
		logger.Warn().Err(err).Msg("query stats unavailable, skipping historical queries")

		stats = nil
	}

	history, err := s.repo.ThemeScoresInRange(ctx, start, end)
	if err != nil {
		logger.Warn().Err(err).Msg("theme history unavailable, skipping theme queries")

		history = nil
	}

	selected, counts := selectQueries(runDate, seeds, cfg, stats, history)

	for _, source := range []string{sourceHistory, sourceTheme, sourceSeed} {
		observability.FeedbackQueries.WithLabelValues(source).Add(float64(counts[source]))
	}

	logger.Info().
		Int("historical", counts[sourceHistory]).
		Int("theme_derived", counts[sourceTheme]).
		Int("seeds", counts[sourceSeed]).
		Int("selected", len(selected)).
		Msg("feedback queries selected")

	return selected
}
