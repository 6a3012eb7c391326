package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

var testRunDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testRunDate.AddDate(0, 0, -n)
}

func enabledConfig() Config {
	return Config{
		Enabled:          true,
		LookbackDays:     7,
		MaxQueries:       5,
		ThemeQueryPrefix: "music",
		ThemeQueryCount:  2,
	}
}

func queryStrings(specs []domain.QuerySpec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.Q)
	}

	return out
}

func TestSelectQueries_DisabledReturnsSeeds(t *testing.T) {
	seeds := []domain.QuerySpec{{Name: "lofi", Q: "lofi beats"}}
	stats := []domain.QueryStat{{Date: daysAgo(1), Q: "other", TotalViews: 100}}

	got := SelectQueries(testRunDate, seeds, Config{Enabled: false, MaxQueries: 5}, stats, nil)

	assert.Equal(t, []domain.QuerySpec{{Name: "lofi", Q: "lofi beats"}}, got)
}

func TestSelectQueries_MergeOrderAndDedupe(t *testing.T) {
	seeds := []domain.QuerySpec{
		{Name: "s1", Q: "piano covers"},
		{Name: "s2", Q: "  top hits  "},
	}
	stats := []domain.QueryStat{
		{Date: daysAgo(1), Q: "top hits", TotalViews: 500, VideoCount: 10},
		{Date: daysAgo(2), Q: "edm drops", TotalViews: 900, VideoCount: 3},
		{Date: daysAgo(3), Q: " top hits", TotalViews: 600, VideoCount: 2},
	}
	history := []domain.ThemeScore{
		{Date: daysAgo(1), Theme: "jazz", Score: 4},
		{Date: daysAgo(2), Theme: "ambient", Score: 9},
		{Date: daysAgo(3), Theme: "jazz", Score: 1},
		{Date: daysAgo(1), Theme: "trap", Score: 2},
	}

	got := SelectQueries(testRunDate, seeds, enabledConfig(), stats, history)

	assert.Equal(t, []domain.QuerySpec{
		{Name: "auto_1", Q: "top hits"},
		{Name: "auto_2", Q: "edm drops"},
		{Name: "auto_3", Q: "music ambient"},
		{Name: "auto_4", Q: "music jazz"},
		{Name: "auto_5", Q: "piano covers"},
	}, got)
}

func TestSelectQueries_Truncates(t *testing.T) {
	cfg := enabledConfig()
	cfg.MaxQueries = 2

	seeds := []domain.QuerySpec{{Name: "a", Q: "a"}, {Name: "b", Q: "b"}, {Name: "c", Q: "c"}}

	got := SelectQueries(testRunDate, seeds, cfg, nil, nil)

	assert.Equal(t, []domain.QuerySpec{{Name: "auto_1", Q: "a"}, {Name: "auto_2", Q: "b"}}, got)
}

func TestSelectQueries_NoHistoryStillRenamesSeeds(t *testing.T) {
	seeds := []domain.QuerySpec{{Name: "lofi", Q: "lofi beats"}}

	got := SelectQueries(testRunDate, seeds, enabledConfig(), nil, nil)

	assert.Equal(t, []domain.QuerySpec{{Name: "auto_1", Q: "lofi beats"}}, got)
}

func TestSelectQueries_EmptyMergeFallsBackToSeeds(t *testing.T) {
	seeds := []domain.QuerySpec{{Name: "blank", Q: "   "}}

	got := SelectQueries(testRunDate, seeds, enabledConfig(), nil, nil)

	assert.Equal(t, seeds, got)
}

func TestSelectQueries_NonPositiveMaxSelectsNothing(t *testing.T) {
	seeds := []domain.QuerySpec{{Name: "lofi", Q: "lofi beats"}, {Name: "jazz", Q: "jazz"}}
	stats := []domain.QueryStat{{Date: daysAgo(1), Q: "x", TotalViews: 1}}

	for _, maxQueries := range []int{0, -1} {
		cfg := enabledConfig()
		cfg.MaxQueries = maxQueries

		got := SelectQueries(testRunDate, seeds, cfg, stats, nil)

		assert.NotNil(t, got, "max_queries=%d", maxQueries)
		assert.Empty(t, got, "max_queries=%d", maxQueries)
	}
}

func TestSelectQueries_SourceCountsAfterTruncation(t *testing.T) {
	cfg := enabledConfig()
	cfg.MaxQueries = 3

	stats := []domain.QueryStat{
		{Date: daysAgo(1), Q: "lofi beats", TotalViews: 500},
		{Date: daysAgo(1), Q: "chill mix", TotalViews: 100},
	}
	history := []domain.ThemeScore{
		{Date: daysAgo(1), Theme: "city pop", Score: 9},
		{Date: daysAgo(2), Theme: "vaporwave", Score: 5},
	}
	seeds := []domain.QuerySpec{{Name: "lofi", Q: "lofi beats"}, {Name: "jazz", Q: "jazz"}}

	got, counts := selectQueries(testRunDate, seeds, cfg, stats, history)

	assert.Equal(t, []string{"lofi beats", "chill mix", "music city pop"}, queryStrings(got))
	assert.Equal(t, map[string]int{sourceHistory: 2, sourceTheme: 1}, counts)
}

func TestSelectQueries_SourceCountsForSeedFallback(t *testing.T) {
	seeds := []domain.QuerySpec{{Name: "blank", Q: "  "}}

	_, counts := selectQueries(testRunDate, seeds, enabledConfig(), nil, nil)
	assert.Equal(t, map[string]int{sourceSeed: 1}, counts)

	cfg := enabledConfig()
	cfg.Enabled = false

	_, counts = selectQueries(testRunDate, seeds, cfg, nil, nil)
	assert.Equal(t, map[string]int{sourceSeed: 1}, counts)
}

func TestSelectQueries_WindowExcludesRunDateAndOldRows(t *testing.T) {
	cfg := enabledConfig()
	cfg.LookbackDays = 3

	stats := []domain.QueryStat{
		{Date: testRunDate, Q: "today", TotalViews: 1_000_000},
		{Date: daysAgo(4), Q: "too old", TotalViews: 1_000_000},
		{Date: daysAgo(3), Q: "edge", TotalViews: 1},
	}
	history := []domain.ThemeScore{
		{Date: testRunDate, Theme: "today-theme", Score: 100},
		{Date: daysAgo(5), Theme: "old-theme", Score: 100},
	}

	got := SelectQueries(testRunDate, nil, cfg, stats, history)

	assert.Equal(t, []string{"edge"}, queryStrings(got))
}

func TestSelectQueries_EmptyPrefix(t *testing.T) {
	cfg := enabledConfig()
	cfg.ThemeQueryPrefix = ""

	history := []domain.ThemeScore{{Date: daysAgo(1), Theme: "vaporwave", Score: 1}}

	got := SelectQueries(testRunDate, nil, cfg, nil, history)

	assert.Equal(t, []string{"vaporwave"}, queryStrings(got))
}

func TestSelectQueries_BoundAndUnique(t *testing.T) {
	seeds := []domain.QuerySpec{{Q: "a"}, {Q: "b"}, {Q: "a"}, {Q: "c "}, {Q: "c"}}
	stats := []domain.QueryStat{
		{Date: daysAgo(1), Q: "c", TotalViews: 3},
		{Date: daysAgo(1), Q: "b", TotalViews: 2},
	}
	history := []domain.ThemeScore{{Date: daysAgo(1), Theme: "a", Score: 1}}

	for limit := 0; limit <= 8; limit++ {
		cfg := enabledConfig()
		cfg.MaxQueries = limit
		cfg.ThemeQueryPrefix = ""

		got := SelectQueries(testRunDate, seeds, cfg, stats, history)

		require.LessOrEqual(t, len(got), limit)

		seen := make(map[string]bool)
		for _, q := range got {
			assert.False(t, seen[q.Q], "duplicate query %q with max=%d", q.Q, limit)

			seen[q.Q] = true
		}

		assert.Equal(t, got, SelectQueries(testRunDate, seeds, cfg, stats, history))
	}
}

func TestTopQueries_Ranking(t *testing.T) {
	start, end := enabledConfig().Window(testRunDate)
	stats := []domain.QueryStat{
		{Date: daysAgo(1), Q: "first", TotalViews: 10, VideoCount: 1},
		{Date: daysAgo(1), Q: "more-videos", TotalViews: 10, VideoCount: 5},
		{Date: daysAgo(1), Q: "second-tie", TotalViews: 10, VideoCount: 1},
		{Date: daysAgo(2), Q: "summed", TotalViews: 6, VideoCount: 1},
		{Date: daysAgo(3), Q: "summed", TotalViews: 6, VideoCount: 1},
		{Date: daysAgo(1), Q: "", TotalViews: 99},
	}

	got := TopQueries(stats, start, end, 10)

	assert.Equal(t, []string{"summed", "more-videos", "first", "second-tie"}, got)
	assert.Equal(t, []string{"summed"}, TopQueries(stats, start, end, 1))
	assert.Nil(t, TopQueries(stats, start, end, 0))
}

func TestThemeQueries_PeakRanking(t *testing.T) {
	start, end := enabledConfig().Window(testRunDate)
	history := []domain.ThemeScore{
		{Date: daysAgo(1), Theme: "steady", Score: 5},
		{Date: daysAgo(2), Theme: "spike", Score: 1},
		{Date: daysAgo(3), Theme: "spike", Score: 8},
		{Date: daysAgo(2), Theme: "tie", Score: 5},
	}

	got := ThemeQueries(history, start, end, " music ", 3)

	assert.Equal(t, []string{"music spike", "music steady", "music tie"}, got)
}

func TestConfig_Window(t *testing.T) {
	start, end := Config{LookbackDays: 7}.Window(testRunDate.Add(13 * time.Hour))

	assert.Equal(t, daysAgo(7), start)
	assert.Equal(t, daysAgo(1), end)
}
