package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

func TestParseQueryFile_Defaults(t *testing.T) {
	data := []byte(`
queries:
  - name: lofi
    q: " lofi beats "
  - name: city_pop
    q: city pop
  - name: blank
    q: "   "
`)

	qf, err := ParseQueryFile(data, "US")
	require.NoError(t, err)

	assert.Equal(t, "US", qf.RegionCode)
	assert.Equal(t, "en", qf.RelevanceLanguage)
	assert.Equal(t, 7, qf.DaysBack)
	assert.Equal(t, 25, qf.MaxResultsPerQuery)
	assert.Equal(t, []domain.QuerySpec{
		{Name: "lofi", Q: "lofi beats"},
		{Name: "city_pop", Q: "city pop"},
	}, qf.Queries)

	assert.False(t, qf.FeedbackLoop.Enabled)
	assert.Equal(t, 7, qf.FeedbackLoop.LookbackDays)
	assert.Equal(t, 2, qf.FeedbackLoop.MaxQueries)
	assert.Equal(t, "music", qf.FeedbackLoop.ThemeQueryPrefix)
	assert.Equal(t, 2, qf.FeedbackLoop.ThemeQueryCount)
}

func TestParseQueryFile_ExplicitValues(t *testing.T) {
	data := []byte(`
region_code: JP
relevance_language: ja
days_back: 3
max_results_per_query: 10
queries:
  - q: anime op
feedback_loop:
  enabled: true
  lookback_days: 14
  max_queries: 8
  theme_query_prefix: ""
  theme_query_count: 0
`)

	qf, err := ParseQueryFile(data, "US")
	require.NoError(t, err)

	assert.Equal(t, "JP", qf.RegionCode)
	assert.Equal(t, "ja", qf.RelevanceLanguage)
	assert.Equal(t, 3, qf.DaysBack)
	assert.Equal(t, 10, qf.MaxResultsPerQuery)
	assert.Equal(t, []domain.QuerySpec{{Name: "query_1", Q: "anime op"}}, qf.Queries)

	assert.True(t, qf.FeedbackLoop.Enabled)
	assert.Equal(t, 14, qf.FeedbackLoop.LookbackDays)
	assert.Equal(t, 8, qf.FeedbackLoop.MaxQueries)
	assert.Equal(t, "", qf.FeedbackLoop.ThemeQueryPrefix)
	assert.Equal(t, 0, qf.FeedbackLoop.ThemeQueryCount)
}

func TestParseQueryFile_NoQueriesFallsBackToFive(t *testing.T) {
	qf, err := ParseQueryFile([]byte("feedback_loop:\n  enabled: true\n"), "US")
	require.NoError(t, err)

	assert.Empty(t, qf.Queries)
	assert.Equal(t, 5, qf.FeedbackLoop.MaxQueries)
}

func TestParseQueryFile_Invalid(t *testing.T) {
	_, err := ParseQueryFile([]byte("queries: [unclosed"), "US")
	assert.Error(t, err)
}

func TestParseQueryFile_RejectsNonPositiveMaxQueries(t *testing.T) {
	for _, value := range []string{"0", "-3"} {
		data := []byte("queries:\n  - q: jazz\nfeedback_loop:\n  enabled: true\n  max_queries: " + value + "\n")

		_, err := ParseQueryFile(data, "US")
		require.Error(t, err, "max_queries=%s", value)
		assert.ErrorIs(t, err, coreerrors.ErrInvalidInput)
	}
}

func TestLoadQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queries:\n  - name: a\n    q: jazz\n"), 0o600))

	qf, err := LoadQueryFile(path, "DE")
	require.NoError(t, err)
	assert.Equal(t, "DE", qf.RegionCode)
	assert.Len(t, qf.Queries, 1)

	_, err = LoadQueryFile(filepath.Join(t.TempDir(), "missing.yaml"), "US")
	assert.Error(t, err)
}

func TestLoadPromptTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt_templates.yaml")
	content := "suno:\n  instructions: |\n    Write prompts.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	tpl, err := LoadPromptTemplates(path)
	require.NoError(t, err)
	assert.Equal(t, "Write prompts.", tpl.Suno.Instructions)
}
