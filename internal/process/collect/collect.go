// Package collect runs the collection stage: it selects the day's queries,
// searches the video source, and stores engagement records and per-query stats.
package collect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/core/ports"
	"github.com/lueurxax/ytmusic-trends/internal/ingest/youtube"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
	"github.com/lueurxax/ytmusic-trends/internal/process/feedback"
)

// Source is the video search API.
type Source interface {
	Search(ctx context.Context, p youtube.SearchParams) ([]string, error)
	VideoDetails(ctx context.Context, ids []string) ([]youtube.Video, error)
}

// QuerySelector picks the queries to run for a date.
type QuerySelector interface {
	Select(ctx context.Context, runDate time.Time, region string, seeds []domain.QuerySpec, cfg feedback.Config) []domain.QuerySpec
}

// Repository is the storage the stage writes to.
type Repository interface {
	ports.RunRepository
	ports.VideoRepository
	ports.QueryCacheRepository
	ports.QueryStatRepository
}

// Options configures one collection run.
type Options struct {
	Region             string
	RelevanceLanguage  string
	DaysBack           int
	MaxResultsPerQuery int
	Seeds              []domain.QuerySpec
	Feedback           feedback.Config
}

// Result summarizes a collection run.
type Result struct {
	RunID      string
	RunDate    time.Time
	Region     string
	VideoCount int
	Queries    []domain.QuerySpec
	Stats      []domain.QueryStat
}

// Service runs the collection stage.
type Service struct {
	repo     Repository
	source   Source
	selector QuerySelector
	logger   *zerolog.Logger
	now      func() time.Time
}

// New creates a collection service.
func New(repo Repository, source Source, selector QuerySelector, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		source:   source,
		selector: selector,
		logger:   logger,
		now:      time.Now,
	}
}

// Run collects videos for (runDate, opts.Region). Only one run per pair may
// be active at a time; a concurrent call fails with ErrRunInProgress.
// Rerunning a date reuses cached search results and overwrites stored rows.
func (s *Service) Run(ctx context.Context, runDate time.Time, opts Options) (*Result, error) {
	runDate = domain.Day(runDate)
	log := s.logger.With().Str(logFieldRunDate, runDate.Format(domain.DateLayout)).Str(logFieldRegion, opts.Region).Logger()

	queries := s.selector.Select(ctx, runDate, opts.Region, opts.Seeds, opts.Feedback)
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries to collect: %w", coreerrors.ErrInvalidInput)
	}

	release, err := s.repo.AcquireRunLock(ctx, runDate, opts.Region)
	if err != nil {
		return nil, fmt.Errorf("lock run: %w", err)
	}
	defer release()

	run, err := s.repo.CreateOrRefreshRun(ctx, runDate, opts.Region, len(queries))
	if err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}

	log.Info().Str("run_id", run.ID).Int(logFieldCount, len(queries)).Msg("collecting videos")

	fetchedAt := s.now().UTC()
	publishedAfter := fetchedAt.Add(-time.Duration(opts.DaysBack) * hoursPerDay * time.Hour)

	seen := NewSeenSet()
	records := make([]domain.EngagementRecord, 0)
	stats := make([]domain.QueryStat, 0, len(queries))

	for _, q := range queries {
		ids, err := s.queryIDs(ctx, &log, runDate, opts, q, publishedAfter)
		if err != nil {
			return nil, err
		}

		fresh, skipped := seen.Claim(ids)
		observability.DuplicateVideosSkipped.Add(float64(skipped))

		videos, err := s.source.VideoDetails(ctx, fresh)
		if err != nil {
			return nil, fmt.Errorf("fetch video details for %s: %w", q.Name, err)
		}

		stat := domain.QueryStat{Date: runDate, Region: opts.Region, QueryName: q.Name, Q: q.Q}

		for _, v := range videos {
			if v.ID == "" {
				continue
			}

			rec := v.Record(q.Name, fetchedAt)
			records = append(records, rec)

			stat.VideoCount++
			stat.TotalViews += rec.Views()
			stat.TotalLikes += rec.Likes()
			stat.TotalComments += rec.Comments()
		}

		stats = append(stats, stat)

		log.Debug().Str(logFieldQuery, q.Q).Int(logFieldCount, int(stat.VideoCount)).Int("skipped", skipped).Msg("query collected")
	}

	written, err := s.repo.UpsertVideos(ctx, runDate, opts.Region, records)
	if err != nil {
		return nil, fmt.Errorf("store videos: %w", err)
	}

	if err := s.repo.UpdateRunVideoCount(ctx, run.ID, written); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}

	if err := s.repo.ReplaceQueryStatsForDate(ctx, runDate, opts.Region, stats); err != nil {
		return nil, fmt.Errorf("store query stats: %w", err)
	}

	observability.VideosCollected.WithLabelValues(opts.Region).Add(float64(written))
	log.Info().Int(logFieldCount, written).Msg("collection finished")

	return &Result{
		RunID:      run.ID,
		RunDate:    runDate,
		Region:     opts.Region,
		VideoCount: written,
		Queries:    queries,
		Stats:      stats,
	}, nil
}

// queryIDs returns the search result for a query, from the run cache when present.
func (s *Service) queryIDs(ctx context.Context, log *zerolog.Logger, runDate time.Time, opts Options, q domain.QuerySpec, publishedAfter time.Time) ([]string, error) {
	ids, err := s.repo.CachedVideoIDs(ctx, runDate, opts.Region, q.Name)
	if err == nil {
		observability.QueriesRun.WithLabelValues(cacheHit).Inc()
		return ids, nil
	}

	if !errors.Is(err, coreerrors.ErrCacheNotFound) {
		log.Warn().Err(err).Str(logFieldQuery, q.Name).Msg("query cache read failed, searching")
	}

	observability.QueriesRun.WithLabelValues(cacheMiss).Inc()

	ids, err = s.source.Search(ctx, youtube.SearchParams{
		Query:             q.Q,
		RegionCode:        opts.Region,
		RelevanceLanguage: opts.RelevanceLanguage,
		MaxResults:        opts.MaxResultsPerQuery,
		PublishedAfter:    publishedAfter,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.Name, err)
	}

	if err := s.repo.SaveCachedVideoIDs(ctx, runDate, opts.Region, q.Name, q.Q, ids); err != nil {
		log.Warn().Err(err).Str(logFieldQuery, q.Name).Msg("query cache write failed")
	}

	return ids, nil
}
