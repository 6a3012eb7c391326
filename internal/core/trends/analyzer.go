package trends

import (
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// historyIndex maps theme -> calendar day -> score.
type historyIndex map[string]map[string]float64

func buildHistoryIndex(rows []domain.ThemeScore) historyIndex {
	idx := make(historyIndex)

	for _, r := range rows {
		byDay, ok := idx[r.Theme]
		if !ok {
			byDay = make(map[string]float64)
			idx[r.Theme] = byDay
		}

		// Duplicate (theme, day) pairs: the last row wins.
		byDay[dayKey(r.Date)] = r.Score
	}

	return idx
}

func (idx historyIndex) lookup(theme string, day time.Time) (float64, bool) {
	byDay, ok := idx[theme]
	if !ok {
		return 0, false
	}

	v, ok := byDay[dayKey(day)]

	return v, ok
}

// ComputeTrends derives trend entries for the leading TrendTopN of today's themes.
//
// history must cover at least the RollingWindowDays days before runDate; rows
// outside that window are ignored. Themes present only in history produce no entry.
func ComputeTrends(runDate time.Time, today []domain.ThemeEntry, history []domain.ThemeScore) []domain.TrendEntry {
	day := domain.Day(runDate)
	idx := buildHistoryIndex(history)
	top := TopThemes(today, TrendTopN)

	out := make([]domain.TrendEntry, 0, len(top))

	for _, t := range top {
		entry := domain.TrendEntry{Theme: t.Theme, Score: t.Score}

		if prev, ok := idx.lookup(t.Theme, day.AddDate(0, 0, -1)); ok {
			delta := t.Score - prev
			entry.PrevScore = &prev
			entry.Delta1D = &delta
		}

		if avg, ok := idx.rollingAverage(t.Theme, day); ok {
			momentum := t.Score - avg
			entry.Avg7D = &avg
			entry.Momentum = &momentum
		}

		out = append(out, entry)
	}

	return out
}

// rollingAverage averages the scores in [day-7, day), oldest first.
func (idx historyIndex) rollingAverage(theme string, day time.Time) (float64, bool) {
	var (
		sum   float64
		count int
	)

	for i := RollingWindowDays; i >= 1; i-- {
		if v, ok := idx.lookup(theme, day.AddDate(0, 0, -i)); ok {
			sum += v
			count++
		}
	}

	if count == 0 {
		return 0, false
	}

	return sum / float64(count), true
}

func dayKey(t time.Time) string {
	return domain.Day(t).Format(domain.DateLayout)
}
