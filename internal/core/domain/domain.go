package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for run dates and history rows.
const DateLayout = "2006-01-02"

// UnknownTheme labels records whose originating query is missing.
const UnknownTheme = "(unknown)"

// EngagementRecord is one video sample as returned by the video source.
// Counts and timestamps are nil when the source did not report them.
type EngagementRecord struct {
	VideoID      string
	Query        string
	Title        string
	Description  string
	ChannelTitle string
	ViewCount    *int64
	LikeCount    *int64
	CommentCount *int64
	PublishedAt  *time.Time
	FetchedAt    *time.Time
}

// Views returns the view count, treating a missing value as zero.
func (r EngagementRecord) Views() int64 { return valueOrZero(r.ViewCount) }

// Likes returns the like count, treating a missing value as zero.
func (r EngagementRecord) Likes() int64 { return valueOrZero(r.LikeCount) }

// Comments returns the comment count, treating a missing value as zero.
func (r EngagementRecord) Comments() int64 { return valueOrZero(r.CommentCount) }

// ThemeLabel returns the bucket label for the record.
func (r EngagementRecord) ThemeLabel() string {
	if r.Query == "" {
		return UnknownTheme
	}

	return r.Query
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}

	return *v
}

// ScoredItem pairs a record with its trend score. It is never persisted.
type ScoredItem struct {
	Record EngagementRecord
	Score  float64
}

// ThemeExample is a representative item stored with a theme entry.
type ThemeExample struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// ThemeEntry is the aggregate of all items sharing a theme label in one run.
type ThemeEntry struct {
	Theme    string
	Score    float64
	Examples []ThemeExample
}

// ThemeScore is a persisted daily theme score used as trend history.
type ThemeScore struct {
	Date  time.Time
	Theme string
	Score float64
}

// TrendEntry describes the trajectory of one of today's themes.
// Nil fields mean there was not enough history to compute them.
type TrendEntry struct {
	Theme     string
	Score     float64
	PrevScore *float64
	Delta1D   *float64
	Avg7D     *float64
	Momentum  *float64
}

// QuerySpec is a search query to run against the video source.
type QuerySpec struct {
	Name string `yaml:"name"`
	Q    string `yaml:"q"`
}

// QueryStat is the per-query performance snapshot of one run.
type QueryStat struct {
	Date          time.Time
	Region        string
	QueryName     string
	Q             string
	VideoCount    int64
	TotalViews    int64
	TotalLikes    int64
	TotalComments int64
}

// Run is the bookkeeping row for one (run date, region) collection.
type Run struct {
	ID         string
	RunDate    time.Time
	Region     string
	QueryCount int
	VideoCount int
	CreatedAt  time.Time
}

// Prompt is a generated creative prompt derived from the day's themes.
type Prompt struct {
	Tool   string   `json:"tool"`
	Prompt string   `json:"prompt"`
	Theme  string   `json:"theme"`
	Tags   []string `json:"tags"`
}

// Prompt tools.
const (
	PromptToolSuno = "suno"
)

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD run date.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// NormalizePrompts trims prompts, drops entries with an empty tool or text,
// and keeps the first occurrence of each (tool, prompt) pair.
func NormalizePrompts(prompts []Prompt) []Prompt {
	seen := make(map[[2]string]struct{}, len(prompts))
	out := make([]Prompt, 0, len(prompts))

	for _, p := range prompts {
		p.Tool = strings.TrimSpace(p.Tool)
		p.Prompt = strings.TrimSpace(p.Prompt)
		p.Theme = strings.TrimSpace(p.Theme)

		if p.Tool == "" || p.Prompt == "" {
			continue
		}

		key := [2]string{p.Tool, p.Prompt}
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		out = append(out, p)
	}

	return out
}

// PromptHash identifies a prompt text independent of case and surrounding whitespace.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(prompt))))

	return hex.EncodeToString(sum[:])
}
