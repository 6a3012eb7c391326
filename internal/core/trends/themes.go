package trends

import (
	"sort"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

type themeBucket struct {
	theme string
	items []domain.ScoredItem
}

// AggregateThemes groups records by theme label and ranks the buckets.
//
// A bucket's score is the sum of all its item scores (rounded to 6 digits);
// its examples are the top items by score (rounded to 4 digits). Buckets are
// ordered by score descending, ties keep first-seen order.
func AggregateThemes(scorer *Scorer, records []domain.EngagementRecord) []domain.ThemeEntry {
	buckets := make([]*themeBucket, 0)
	byTheme := make(map[string]*themeBucket)

	for _, item := range scorer.ScoreAll(records) {
		label := item.Record.ThemeLabel()

		b, ok := byTheme[label]
		if !ok {
			b = &themeBucket{theme: label}
			byTheme[label] = b
			buckets = append(buckets, b)
		}

		b.items = append(b.items, item)
	}

	themes := make([]domain.ThemeEntry, 0, len(buckets))
	for _, b := range buckets {
		themes = append(themes, b.entry())
	}

	sort.SliceStable(themes, func(i, j int) bool {
		return themes[i].Score > themes[j].Score
	})

	return themes
}

func (b *themeBucket) entry() domain.ThemeEntry {
	items := make([]domain.ScoredItem, len(b.items))
	copy(items, b.items)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	var total float64
	for _, it := range items {
		total += it.Score
	}

	n := len(items)
	if n > MaxThemeExamples {
		n = MaxThemeExamples
	}

	examples := make([]domain.ThemeExample, 0, n)
	for _, it := range items[:n] {
		examples = append(examples, domain.ThemeExample{
			Title: it.Record.Title,
			Score: roundTo(it.Score, exampleScoreDigits),
		})
	}

	return domain.ThemeEntry{
		Theme:    b.theme,
		Score:    roundTo(total, themeScoreDigits),
		Examples: examples,
	}
}

// TopThemes returns at most n leading entries of an already ranked slice.
func TopThemes(themes []domain.ThemeEntry, n int) []domain.ThemeEntry {
	if n < 0 {
		n = 0
	}

	if len(themes) <= n {
		return themes
	}

	return themes[:n]
}
