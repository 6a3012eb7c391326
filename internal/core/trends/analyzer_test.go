package trends

import (
	"fmt"
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

func TestComputeTrends_DeltaAndMomentum(t *testing.T) {
	today := []domain.ThemeEntry{{Theme: "jazz", Score: 3.0}}
	history := []domain.ThemeScore{
		{Date: daysAgo(2), Theme: "jazz", Score: 3.0},
		{Date: daysAgo(1), Theme: "jazz", Score: 2.0},
	}

	got := ComputeTrends(testRunDate, today, history)

	require.Len(t, got, 1)
	require.NotNil(t, got[0].PrevScore)
	require.NotNil(t, got[0].Delta1D)
	require.NotNil(t, got[0].Avg7D)
	require.NotNil(t, got[0].Momentum)
	assert.InDelta(t, 2.0, *got[0].PrevScore, scoreDelta)
	assert.InDelta(t, 1.0, *got[0].Delta1D, scoreDelta)
	assert.InDelta(t, 2.5, *got[0].Avg7D, scoreDelta)
	assert.InDelta(t, 0.5, *got[0].Momentum, scoreDelta)
}

func TestComputeTrends_NoHistory(t *testing.T) {
	got := ComputeTrends(testRunDate, []domain.ThemeEntry{{Theme: "lofi", Score: 1.5}}, nil)

	require.Len(t, got, 1)
	assert.Equal(t, "lofi", got[0].Theme)
	assert.InDelta(t, 1.5, got[0].Score, scoreDelta)
	assert.Nil(t, got[0].PrevScore)
	assert.Nil(t, got[0].Delta1D)
	assert.Nil(t, got[0].Avg7D)
	assert.Nil(t, got[0].Momentum)
}

func TestComputeTrends_GapYesterday(t *testing.T) {
	history := []domain.ThemeScore{{Date: daysAgo(3), Theme: "piano", Score: 4.0}}

	got := ComputeTrends(testRunDate, []domain.ThemeEntry{{Theme: "piano", Score: 5.0}}, history)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].Delta1D, "delta requires a row exactly one day earlier")
	require.NotNil(t, got[0].Avg7D)
	assert.InDelta(t, 4.0, *got[0].Avg7D, scoreDelta)
	assert.InDelta(t, 1.0, *got[0].Momentum, scoreDelta)
}

func TestComputeTrends_WindowBounds(t *testing.T) {
	history := []domain.ThemeScore{
		{Date: testRunDate, Theme: "edm", Score: 100},
		{Date: daysAgo(8), Theme: "edm", Score: 100},
		{Date: daysAgo(7), Theme: "edm", Score: 1},
	}

	got := ComputeTrends(testRunDate, []domain.ThemeEntry{{Theme: "edm", Score: 2}}, history)

	require.Len(t, got, 1)
	require.NotNil(t, got[0].Avg7D)
	assert.InDelta(t, 1.0, *got[0].Avg7D, scoreDelta)
	assert.Nil(t, got[0].PrevScore)
}

func TestComputeTrends_OnlyOutsideWindow(t *testing.T) {
	history := []domain.ThemeScore{{Date: daysAgo(9), Theme: "edm", Score: 3}}

	got := ComputeTrends(testRunDate, []domain.ThemeEntry{{Theme: "edm", Score: 2}}, history)

	require.Len(t, got, 1)
	assert.Nil(t, got[0].Avg7D)
	assert.Nil(t, got[0].Momentum)
}

func TestComputeTrends_HistoryOnlyThemesIgnored(t *testing.T) {
	history := []domain.ThemeScore{
		{Date: daysAgo(1), Theme: "gone", Score: 9},
		{Date: daysAgo(1), Theme: "kept", Score: 1},
	}

	got := ComputeTrends(testRunDate, []domain.ThemeEntry{{Theme: "kept", Score: 2}}, history)

	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Theme)
}

func TestComputeTrends_DuplicateRowsLastWins(t *testing.T) {
	history := []domain.ThemeScore{
		{Date: daysAgo(1), Theme: "jazz", Score: 1},
		{Date: daysAgo(1), Theme: "jazz", Score: 2},
	}

	got := ComputeTrends(testRunDate, []domain.ThemeEntry{{Theme: "jazz", Score: 3}}, history)

	require.Len(t, got, 1)
	require.NotNil(t, got[0].PrevScore)
	assert.InDelta(t, 2.0, *got[0].PrevScore, scoreDelta)
}

func TestComputeTrends_TopNCap(t *testing.T) {
	today := make([]domain.ThemeEntry, 0, 40)
	for i := 0; i < 40; i++ {
		today = append(today, domain.ThemeEntry{Theme: fmt.Sprintf("t%02d", i), Score: float64(40 - i)})
	}

	got := ComputeTrends(testRunDate, today, nil)

	require.Len(t, got, TrendTopN)
	assert.Equal(t, "t00", got[0].Theme)
	assert.Equal(t, "t24", got[TrendTopN-1].Theme)
}

func TestComputeTrends_RunDateWithClock(t *testing.T) {
	history := []domain.ThemeScore{{Date: daysAgo(1), Theme: "jazz", Score: 1}}
	runAt := testRunDate.Add(15 * time.Hour)

	got := ComputeTrends(runAt, []domain.ThemeEntry{{Theme: "jazz", Score: 3}}, history)

	require.Len(t, got, 1)
	require.NotNil(t, got[0].Delta1D)
	assert.InDelta(t, 2.0, *got[0].Delta1D, scoreDelta)
}

func TestComputeTrends_Deterministic(t *testing.T) {
	today := []domain.ThemeEntry{{Theme: "a", Score: 3}, {Theme: "b", Score: 1}}
	history := []domain.ThemeScore{
		{Date: daysAgo(1), Theme: "a", Score: 0.1},
		{Date: daysAgo(2), Theme: "a", Score: 0.2},
		{Date: daysAgo(3), Theme: "a", Score: 0.7},
		{Date: daysAgo(5), Theme: "b", Score: 0.3},
	}

	first := ComputeTrends(testRunDate, today, history)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ComputeTrends(testRunDate, today, history))
	}
}

func TestComputeTrends_Empty(t *testing.T) {
	got := ComputeTrends(testRunDate, nil, nil)

	require.NotNil(t, got)
	assert.Empty(t, got)
}
