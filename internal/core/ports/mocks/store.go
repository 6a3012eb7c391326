package mocks

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/core/ports"
)

var _ ports.Store = (*Store)(nil)

type videoKey struct {
	date    string
	videoID string
}

type regionKey struct {
	date   string
	region string
}

type cacheKey struct {
	date      string
	region    string
	queryName string
}

// Store is a thread-safe in-memory implementation of ports.Store.
type Store struct {
	mu sync.RWMutex

	locks      map[regionKey]bool
	runs       map[regionKey]*domain.Run
	videos     map[videoKey]domain.EngagementRecord
	videoOrder []videoKey
	cache      map[cacheKey][]string
	queryStats map[regionKey][]domain.QueryStat
	themes     map[string][]domain.ThemeEntry
	trends     map[string][]domain.TrendEntry
	prompts    map[string][]domain.Prompt
	history    []promptHistoryEntry

	// UpsertVideosFn allows overriding UpsertVideos behavior.
	UpsertVideosFn func(ctx context.Context, runDate time.Time, region string, records []domain.EngagementRecord) (int, error)

	// TopQueriesSinceFn allows overriding TopQueriesSince behavior.
	TopQueriesSinceFn func(ctx context.Context, region string, since, until time.Time, limit int) ([]domain.QueryStat, error)

	// ThemeScoresInRangeFn allows overriding ThemeScoresInRange behavior.
	ThemeScoresInRangeFn func(ctx context.Context, start, end time.Time) ([]domain.ThemeScore, error)

	// ReplacePromptsFn allows overriding ReplacePromptsForDate behavior.
	ReplacePromptsFn func(ctx context.Context, runDate time.Time, prompts []domain.Prompt) (int, error)
}

type promptHistoryEntry struct {
	date time.Time
	tool string
	hash string
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		locks:      make(map[regionKey]bool),
		runs:       make(map[regionKey]*domain.Run),
		videos:     make(map[videoKey]domain.EngagementRecord),
		cache:      make(map[cacheKey][]string),
		queryStats: make(map[regionKey][]domain.QueryStat),
		themes:     make(map[string][]domain.ThemeEntry),
		trends:     make(map[string][]domain.TrendEntry),
		prompts:    make(map[string][]domain.Prompt),
	}
}

func dateKey(t time.Time) string {
	return domain.Day(t).Format(domain.DateLayout)
}

// AcquireRunLock marks the (date, region) pair as locked until release is called.
func (s *Store) AcquireRunLock(_ context.Context, runDate time.Time, region string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := regionKey{date: dateKey(runDate), region: region}
	if s.locks[key] {
		return nil, fmt.Errorf("acquire run lock %s/%s: %w", key.date, region, coreerrors.ErrRunInProgress)
	}

	s.locks[key] = true

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.locks, key)
	}, nil
}

// CreateOrRefreshRun returns the existing run for the key or creates one.
func (s *Store) CreateOrRefreshRun(_ context.Context, runDate time.Time, region string, queryCount int) (*domain.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := regionKey{date: dateKey(runDate), region: region}
	if run, ok := s.runs[key]; ok {
		run.QueryCount = queryCount
		cp := *run

		return &cp, nil
	}

	run := &domain.Run{
		ID:         uuid.NewString(),
		RunDate:    domain.Day(runDate),
		Region:     region,
		QueryCount: queryCount,
		CreatedAt:  time.Now().UTC(),
	}
	s.runs[key] = run
	cp := *run

	return &cp, nil
}

// UpdateRunVideoCount sets the video count of a run.
func (s *Store) UpdateRunVideoCount(_ context.Context, runID string, videoCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, run := range s.runs {
		if run.ID == runID {
			run.VideoCount = videoCount
			return nil
		}
	}

	return coreerrors.ErrNotFound
}

// Run returns a copy of the stored run for the key, or nil.
func (s *Store) Run(runDate time.Time, region string) *domain.Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[regionKey{date: dateKey(runDate), region: region}]
	if !ok {
		return nil
	}

	cp := *run

	return &cp
}

// RunCount returns the number of stored runs.
func (s *Store) RunCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.runs)
}

// UpsertVideos inserts or updates records keyed by (run date, video id).
func (s *Store) UpsertVideos(ctx context.Context, runDate time.Time, region string, records []domain.EngagementRecord) (int, error) {
	if s.UpsertVideosFn != nil {
		return s.UpsertVideosFn(ctx, runDate, region, records)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	written := 0

	for _, r := range records {
		if r.VideoID == "" {
			continue
		}

		key := videoKey{date: dateKey(runDate), videoID: r.VideoID}
		if _, ok := s.videos[key]; ok {
			s.videoOrder = slices.DeleteFunc(s.videoOrder, func(k videoKey) bool { return k == key })
		}

		s.videoOrder = append(s.videoOrder, key)
		s.videos[key] = r
		written++
	}

	return written, nil
}

// VideosForDate returns records for the date in last-write order.
func (s *Store) VideosForDate(_ context.Context, runDate time.Time) ([]domain.EngagementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	date := dateKey(runDate)

	var out []domain.EngagementRecord

	for _, key := range s.videoOrder {
		if key.date == date {
			out = append(out, s.videos[key])
		}
	}

	return out, nil
}

// CachedVideoIDs returns cached search ids or ErrCacheNotFound.
func (s *Store) CachedVideoIDs(_ context.Context, runDate time.Time, region, queryName string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids, ok := s.cache[cacheKey{date: dateKey(runDate), region: region, queryName: queryName}]
	if !ok {
		return nil, coreerrors.ErrCacheNotFound
	}

	return append([]string(nil), ids...), nil
}

// SaveCachedVideoIDs stores search ids for the key.
func (s *Store) SaveCachedVideoIDs(_ context.Context, runDate time.Time, region, queryName, _ string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[cacheKey{date: dateKey(runDate), region: region, queryName: queryName}] = append([]string{}, ids...)

	return nil
}

// SetCachedVideoIDs seeds the query cache directly.
func (s *Store) SetCachedVideoIDs(runDate time.Time, region, queryName string, ids []string) {
	_ = s.SaveCachedVideoIDs(context.Background(), runDate, region, queryName, "", ids)
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
