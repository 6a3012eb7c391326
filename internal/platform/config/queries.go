package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

const (
	defaultRelevanceLanguage  = "en"
	defaultDaysBack           = 7
	defaultMaxResultsPerQuery = 25
	defaultLookbackDays       = 7
	defaultMaxFeedbackQueries = 5
	defaultThemeQueryPrefix   = "music"
	defaultThemeQueryCount    = 2
)

// QueryFile is the resolved content of the queries YAML file.
type QueryFile struct {
	RegionCode         string
	RelevanceLanguage  string
	DaysBack           int
	MaxResultsPerQuery int
	Queries            []domain.QuerySpec
	FeedbackLoop       FeedbackLoop
}

// FeedbackLoop controls adaptive query selection.
type FeedbackLoop struct {
	Enabled          bool
	LookbackDays     int
	MaxQueries       int
	ThemeQueryPrefix string
	ThemeQueryCount  int
}

// Optional keys are pointers so an explicit zero or empty value survives defaulting.
type queryFileYAML struct {
	RegionCode         string             `yaml:"region_code"`
	RelevanceLanguage  string             `yaml:"relevance_language"`
	DaysBack           int                `yaml:"days_back"`
	MaxResultsPerQuery int                `yaml:"max_results_per_query"`
	Queries            []domain.QuerySpec `yaml:"queries"`
	FeedbackLoop       struct {
		Enabled          bool    `yaml:"enabled"`
		LookbackDays     *int    `yaml:"lookback_days"`
		MaxQueries       *int    `yaml:"max_queries"`
		ThemeQueryPrefix *string `yaml:"theme_query_prefix"`
		ThemeQueryCount  *int    `yaml:"theme_query_count"`
	} `yaml:"feedback_loop"`
}

// LoadQueryFile reads the queries YAML file. fallbackRegion is used when the
// file does not set region_code.
func LoadQueryFile(path, fallbackRegion string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}

	return ParseQueryFile(data, fallbackRegion)
}

// ParseQueryFile decodes queries YAML and applies defaults.
func ParseQueryFile(data []byte, fallbackRegion string) (*QueryFile, error) {
	var raw queryFileYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}

	qf := &QueryFile{
		RegionCode:         strings.TrimSpace(raw.RegionCode),
		RelevanceLanguage:  strings.TrimSpace(raw.RelevanceLanguage),
		DaysBack:           raw.DaysBack,
		MaxResultsPerQuery: raw.MaxResultsPerQuery,
		FeedbackLoop:       FeedbackLoop{Enabled: raw.FeedbackLoop.Enabled},
	}

	for _, q := range raw.Queries {
		if strings.TrimSpace(q.Q) == "" {
			continue
		}

		qf.Queries = append(qf.Queries, domain.QuerySpec{Name: strings.TrimSpace(q.Name), Q: strings.TrimSpace(q.Q)})
	}

	qf.applyDefaults(fallbackRegion)

	fb := raw.FeedbackLoop
	if fb.LookbackDays != nil {
		qf.FeedbackLoop.LookbackDays = *fb.LookbackDays
	}

	if fb.MaxQueries != nil {
		if *fb.MaxQueries <= 0 {
			return nil, fmt.Errorf("feedback_loop.max_queries must be positive, got %d: %w", *fb.MaxQueries, coreerrors.ErrInvalidInput)
		}

		qf.FeedbackLoop.MaxQueries = *fb.MaxQueries
	}

	if fb.ThemeQueryPrefix != nil {
		qf.FeedbackLoop.ThemeQueryPrefix = *fb.ThemeQueryPrefix
	}

	if fb.ThemeQueryCount != nil {
		qf.FeedbackLoop.ThemeQueryCount = *fb.ThemeQueryCount
	}

	return qf, nil
}

func (q *QueryFile) applyDefaults(fallbackRegion string) {
	if q.RegionCode == "" {
		q.RegionCode = fallbackRegion
	}

	if q.RelevanceLanguage == "" {
		q.RelevanceLanguage = defaultRelevanceLanguage
	}

	if q.DaysBack <= 0 {
		q.DaysBack = defaultDaysBack
	}

	if q.MaxResultsPerQuery <= 0 {
		q.MaxResultsPerQuery = defaultMaxResultsPerQuery
	}

	for i := range q.Queries {
		if q.Queries[i].Name == "" {
			q.Queries[i].Name = fmt.Sprintf("query_%d", i+1)
		}
	}

	q.FeedbackLoop.LookbackDays = defaultLookbackDays
	q.FeedbackLoop.MaxQueries = len(q.Queries)

	if q.FeedbackLoop.MaxQueries == 0 {
		q.FeedbackLoop.MaxQueries = defaultMaxFeedbackQueries
	}

	q.FeedbackLoop.ThemeQueryPrefix = defaultThemeQueryPrefix
	q.FeedbackLoop.ThemeQueryCount = defaultThemeQueryCount
}

// PromptTemplates holds the instructions sent to the text generator.
type PromptTemplates struct {
	Suno struct {
		Instructions string `yaml:"instructions"`
	} `yaml:"suno"`
}

// LoadPromptTemplates reads the prompt templates YAML file.
func LoadPromptTemplates(path string) (*PromptTemplates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt templates: %w", err)
	}

	var tpl PromptTemplates
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parsing prompt templates: %w", err)
	}

	tpl.Suno.Instructions = strings.TrimSpace(tpl.Suno.Instructions)

	return &tpl, nil
}
