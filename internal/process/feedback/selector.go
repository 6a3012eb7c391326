// Package feedback chooses the next run's search queries from what performed
// well before: historically strong raw queries first, then queries derived
// from recent top themes, then the configured seed queries.
package feedback

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

const autoNameFormat = "auto_%d"

// Config controls the feedback loop.
type Config struct {
	Enabled          bool
	LookbackDays     int
	MaxQueries       int
	ThemeQueryPrefix string
	ThemeQueryCount  int
}

// Window returns the inclusive calendar-day range the loop looks back over:
// LookbackDays days ending the day before runDate.
func (c Config) Window(runDate time.Time) (start, end time.Time) {
	day := domain.Day(runDate)

	return day.AddDate(0, 0, -c.LookbackDays), day.AddDate(0, 0, -1)
}

// SelectQueries builds the ordered, de-duplicated query set for runDate.
//
// With the loop disabled, or when every source is empty, seeds are returned
// unmodified. A non-positive MaxQueries selects nothing. Otherwise the merged
// list is truncated to MaxQueries and named auto_1..auto_n by position.
func SelectQueries(runDate time.Time, seeds []domain.QuerySpec, cfg Config, stats []domain.QueryStat, history []domain.ThemeScore) []domain.QuerySpec {
	queries, _ := selectQueries(runDate, seeds, cfg, stats, history)

	return queries
}

type candidate struct {
	q      string
	source string
}

// selectQueries is SelectQueries plus the number of selected queries that
// came from each source.
func selectQueries(runDate time.Time, seeds []domain.QuerySpec, cfg Config, stats []domain.QueryStat, history []domain.ThemeScore) ([]domain.QuerySpec, map[string]int) {
	if !cfg.Enabled {
		return seeds, map[string]int{sourceSeed: len(seeds)}
	}

	if cfg.MaxQueries <= 0 {
		return []domain.QuerySpec{}, map[string]int{}
	}

	start, end := cfg.Window(runDate)

	candidates := make([]candidate, 0, cfg.MaxQueries+cfg.ThemeQueryCount+len(seeds))
	for _, q := range TopQueries(stats, start, end, cfg.MaxQueries) {
		candidates = append(candidates, candidate{q: q, source: sourceHistory})
	}

	for _, q := range ThemeQueries(history, start, end, cfg.ThemeQueryPrefix, cfg.ThemeQueryCount) {
		candidates = append(candidates, candidate{q: q, source: sourceTheme})
	}

	for _, s := range seeds {
		candidates = append(candidates, candidate{q: s.Q, source: sourceSeed})
	}

	merged := dedupe(candidates)
	if len(merged) > cfg.MaxQueries {
		merged = merged[:cfg.MaxQueries]
	}

	if len(merged) == 0 {
		return seeds, map[string]int{sourceSeed: len(seeds)}
	}

	counts := make(map[string]int, 3)
	out := make([]domain.QuerySpec, 0, len(merged))

	for i, c := range merged {
		counts[c.source]++
		out = append(out, domain.QuerySpec{Name: fmt.Sprintf(autoNameFormat, i+1), Q: c.q})
	}

	return out, counts
}

type queryTotals struct {
	q      string
	views  int64
	videos int64
}

// TopQueries ranks raw query strings by total views, then total videos, over
// stats rows dated within [start, end]. Ties keep first-seen order.
func TopQueries(stats []domain.QueryStat, start, end time.Time, limit int) []string {
	if limit <= 0 {
		return nil
	}

	order := make([]*queryTotals, 0)
	byQuery := make(map[string]*queryTotals)

	for _, st := range stats {
		if !withinDays(st.Date, start, end) {
			continue
		}

		q := strings.TrimSpace(st.Q)
		if q == "" {
			continue
		}

		tot, ok := byQuery[q]
		if !ok {
			tot = &queryTotals{q: q}
			byQuery[q] = tot
			order = append(order, tot)
		}

		tot.views += st.TotalViews
		tot.videos += st.VideoCount
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].views != order[j].views {
			return order[i].views > order[j].views
		}

		return order[i].videos > order[j].videos
	})

	n := min(limit, len(order))

	out := make([]string, 0, n)
	for _, tot := range order[:n] {
		out = append(out, tot.q)
	}

	return out
}

type themePeak struct {
	theme string
	peak  float64
}

// ThemeQueries turns the count strongest recent themes into "{prefix} {theme}"
// queries. Themes are ranked by their peak score within [start, end].
func ThemeQueries(history []domain.ThemeScore, start, end time.Time, prefix string, count int) []string {
	if count <= 0 {
		return nil
	}

	order := make([]*themePeak, 0)
	byTheme := make(map[string]*themePeak)

	for _, row := range history {
		if !withinDays(row.Date, start, end) {
			continue
		}

		p, ok := byTheme[row.Theme]
		if !ok {
			p = &themePeak{theme: row.Theme, peak: row.Score}
			byTheme[row.Theme] = p
			order = append(order, p)

			continue
		}

		p.peak = max(p.peak, row.Score)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].peak > order[j].peak
	})

	n := min(count, len(order))

	out := make([]string, 0, n)
	for _, p := range order[:n] {
		out = append(out, strings.TrimSpace(prefix)+" "+p.theme)
	}

	return out
}

// dedupe trims, drops empties and keeps the first occurrence of each query.
func dedupe(candidates []candidate) []candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]candidate, 0, len(candidates))

	for _, c := range candidates {
		c.q = strings.TrimSpace(c.q)
		if c.q == "" {
			continue
		}

		if _, dup := seen[c.q]; dup {
			continue
		}

		seen[c.q] = struct{}{}
		out = append(out, c)
	}

	return out
}

func withinDays(t, start, end time.Time) bool {
	d := domain.Day(t)

	return !d.Before(start) && !d.After(end)
}
