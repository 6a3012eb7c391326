package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

func rawRecord(query, title string, views int64) domain.EngagementRecord {
	return domain.EngagementRecord{VideoID: title, Query: query, Title: title, ViewCount: i64(views)}
}

func TestAggregateThemes_Empty(t *testing.T) {
	got := AggregateThemes(NewScorer(DefaultScoringPolicy()), nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAggregateThemes_SumAndExamples(t *testing.T) {
	records := []domain.EngagementRecord{
		rawRecord("piano", "low", 80),
		rawRecord("piano", "high", 120),
	}

	got := AggregateThemes(NewScorer(DefaultScoringPolicy()), records)

	require.Len(t, got, 1)
	assert.Equal(t, "piano", got[0].Theme)
	assert.InDelta(t, 200.0, got[0].Score, scoreDelta)
	assert.Equal(t, []domain.ThemeExample{
		{Title: "high", Score: 120},
		{Title: "low", Score: 80},
	}, got[0].Examples)
}

func TestAggregateThemes_UnknownBucket(t *testing.T) {
	records := []domain.EngagementRecord{
		rawRecord("", "a", 5),
		rawRecord("", "b", 6),
	}

	got := AggregateThemes(NewScorer(DefaultScoringPolicy()), records)

	require.Len(t, got, 1)
	assert.Equal(t, domain.UnknownTheme, got[0].Theme)
	assert.InDelta(t, 11.0, got[0].Score, scoreDelta)
}

func TestAggregateThemes_ExamplesCapped(t *testing.T) {
	var records []domain.EngagementRecord
	for i := int64(1); i <= 8; i++ {
		records = append(records, rawRecord("lofi", string(rune('a'+i)), i))
	}

	got := AggregateThemes(NewScorer(DefaultScoringPolicy()), records)

	require.Len(t, got, 1)
	require.Len(t, got[0].Examples, MaxThemeExamples)
	assert.InDelta(t, 36.0, got[0].Score, scoreDelta)
	assert.InDelta(t, 8.0, got[0].Examples[0].Score, scoreDelta)
	assert.InDelta(t, 4.0, got[0].Examples[4].Score, scoreDelta)
}

func TestAggregateThemes_RankingStableOnTies(t *testing.T) {
	records := []domain.EngagementRecord{
		rawRecord("jazz", "j1", 10),
		rawRecord("ambient", "a1", 30),
		rawRecord("rock", "r1", 10),
		rawRecord("jazz", "j2", 5),
		rawRecord("rock", "r2", 5),
	}

	got := AggregateThemes(NewScorer(DefaultScoringPolicy()), records)

	themes := make([]string, 0, len(got))
	for _, th := range got {
		themes = append(themes, th.Theme)
	}

	assert.Equal(t, []string{"ambient", "jazz", "rock"}, themes)
}

func TestAggregateThemes_MatchesIndependentSum(t *testing.T) {
	s := NewScorer(DefaultScoringPolicy())
	records := []domain.EngagementRecord{
		recordAged(5000, 300, 20, 3*time.Hour),
		recordAged(90000, 1200, 80, 30*time.Hour),
		recordAged(12, 0, 0, 0),
	}

	for i := range records {
		records[i].Query = "synthwave"
	}

	var want float64
	for _, r := range records {
		want += s.Score(r)
	}

	got := AggregateThemes(s, records)

	require.Len(t, got, 1)
	assert.InDelta(t, want, got[0].Score, 1e-6)
}

func TestAggregateThemes_Deterministic(t *testing.T) {
	s := NewScorer(DefaultScoringPolicy())
	records := []domain.EngagementRecord{
		rawRecord("a", "1", 3),
		rawRecord("b", "2", 3),
		rawRecord("c", "3", 9),
	}

	first := AggregateThemes(s, records)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, AggregateThemes(s, records))
	}
}

func TestTopThemes(t *testing.T) {
	themes := []domain.ThemeEntry{{Theme: "a"}, {Theme: "b"}, {Theme: "c"}}

	assert.Len(t, TopThemes(themes, 2), 2)
	assert.Len(t, TopThemes(themes, 10), 3)
	assert.Empty(t, TopThemes(themes, -1))
}
