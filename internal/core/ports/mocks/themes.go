package mocks

import (
	"context"
	"sort"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// ReplaceQueryStatsForDate replaces all stats for the (date, region) pair.
func (s *Store) ReplaceQueryStatsForDate(_ context.Context, runDate time.Time, region string, stats []domain.QueryStat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := regionKey{date: dateKey(runDate), region: region}
	rows := make([]domain.QueryStat, 0, len(stats))

	for _, st := range stats {
		st.Date = domain.Day(runDate)
		st.Region = region
		rows = append(rows, st)
	}

	s.queryStats[key] = rows

	return nil
}

// TopQueriesSince returns the raw stats rows for the region inside [since, until].
// Ranking is left to the caller.
func (s *Store) TopQueriesSince(ctx context.Context, region string, since, until time.Time, limit int) ([]domain.QueryStat, error) {
	if s.TopQueriesSinceFn != nil {
		return s.TopQueriesSinceFn(ctx, region, since, until, limit)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := domain.Day(since), domain.Day(until)

	var out []domain.QueryStat

	for key, rows := range s.queryStats {
		if key.region != region {
			continue
		}

		for _, st := range rows {
			if st.Date.Before(from) || st.Date.After(to) {
				continue
			}

			out = append(out, st)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	return out, nil
}

// QueryStats returns the stored stats for the (date, region) pair.
func (s *Store) QueryStats(runDate time.Time, region string) []domain.QueryStat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.QueryStat(nil), s.queryStats[regionKey{date: dateKey(runDate), region: region}]...)
}

// SaveThemesForDate upserts themes keyed by (date, theme).
func (s *Store) SaveThemesForDate(_ context.Context, runDate time.Time, themes []domain.ThemeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := dateKey(runDate)
	existing := s.themes[date]

	for _, t := range themes {
		replaced := false

		for i := range existing {
			if existing[i].Theme == t.Theme {
				existing[i] = t
				replaced = true

				break
			}
		}

		if !replaced {
			existing = append(existing, t)
		}
	}

	s.themes[date] = existing

	return nil
}

// ThemesForDate returns the date's themes by score descending, then theme name.
func (s *Store) ThemesForDate(_ context.Context, runDate time.Time, limit int) ([]domain.ThemeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]domain.ThemeEntry(nil), s.themes[dateKey(runDate)]...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}

		return out[i].Theme < out[j].Theme
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// ThemeScoresInRange returns theme scores with date inside [start, end].
func (s *Store) ThemeScoresInRange(ctx context.Context, start, end time.Time) ([]domain.ThemeScore, error) {
	if s.ThemeScoresInRangeFn != nil {
		return s.ThemeScoresInRangeFn(ctx, start, end)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	from, to := domain.Day(start), domain.Day(end)

	var out []domain.ThemeScore

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		for _, t := range s.themes[dateKey(day)] {
			out = append(out, domain.ThemeScore{Date: day, Theme: t.Theme, Score: t.Score})
		}
	}

	return out, nil
}

// SetThemeScores seeds history rows directly.
func (s *Store) SetThemeScores(rows []domain.ThemeScore) {
	for _, r := range rows {
		_ = s.SaveThemesForDate(context.Background(), r.Date, []domain.ThemeEntry{{Theme: r.Theme, Score: r.Score}})
	}
}

// ReplaceTrendsForDate replaces the trend snapshot for the date.
func (s *Store) ReplaceTrendsForDate(_ context.Context, runDate time.Time, trends []domain.TrendEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trends[dateKey(runDate)] = append([]domain.TrendEntry(nil), trends...)

	return nil
}

// TrendsForDate returns the trend snapshot for the date.
func (s *Store) TrendsForDate(_ context.Context, runDate time.Time) ([]domain.TrendEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.TrendEntry(nil), s.trends[dateKey(runDate)]...), nil
}
