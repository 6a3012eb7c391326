package publish

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// SheetURL returns the browser link of a spreadsheet, or "" without an id.
func SheetURL(spreadsheetID string) string {
	if spreadsheetID == "" {
		return ""
	}

	return sheetURLPrefix + spreadsheetID
}

// BuildSummary renders the daily notification text.
func BuildSummary(runDate time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt, sheetURL string) string {
	lines := []string{
		"✅ ytmusic-trends — " + runDate.Format(domain.DateLayout),
		"",
		"**Top Themes**",
	}

	for i, t := range themes {
		if i >= SummaryThemes {
			break
		}

		lines = append(lines, fmt.Sprintf("• %s (score %s)", t.Theme, strconv.FormatFloat(t.Score, 'f', -1, 64)))
	}

	lines = append(lines, "", "**Suno (top 3)**")

	for i, p := range prompts {
		if i >= SummaryPrompts {
			break
		}

		lines = append(lines, "• "+p.Prompt)
	}

	if sheetURL != "" {
		lines = append(lines, "", "Google Sheet: "+sheetURL)
	}

	return strings.Join(lines, "\n")
}

// SplitText splits text into parts of at most limit runes, breaking at line
// boundaries where possible.
func SplitText(text string, limit int) []string {
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	var (
		parts   []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			parts = append(parts, string(current))
			current = current[:0]
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		r := []rune(line)

		if len(current)+len(r) <= limit {
			current = append(current, r...)
			continue
		}

		flush()

		for len(r) > limit {
			parts = append(parts, string(r[:limit]))
			r = r[limit:]
		}

		current = append(current, r...)
	}

	flush()

	return parts
}
