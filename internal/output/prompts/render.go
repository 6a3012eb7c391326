package prompts

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
)

// BuildPrompt assembles the generation request from the template instructions
// and the day's themes, highest first.
func BuildPrompt(instructions string, themes []domain.ThemeEntry) string {
	var sb strings.Builder

	sb.WriteString(instructions)
	sb.WriteString("\n\nThemes for today (highest priority first):\n")

	for i, t := range themes {
		if i >= MaxThemes {
			break
		}

		fmt.Fprintf(&sb, "- %s (score=%s)\n", t.Theme, formatScore(t.Score))
	}

	sb.WriteString("\nReturn ONLY JSON.")

	return sb.String()
}

// MarkdownFileName returns the report file name for a run date.
func MarkdownFileName(runDate time.Time) string {
	return runDate.Format(domain.DateLayout) + "_prompts.md"
}

// RenderMarkdown renders the daily prompts report.
func RenderMarkdown(runDate time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Trend prompts for %s\n\n", runDate.Format(domain.DateLayout))
	sb.WriteString("## Top themes\n")

	for i, t := range themes {
		if i >= MaxThemes {
			break
		}

		fmt.Fprintf(&sb, "%d. **%s** (score: `%s`)\n", i+1, t.Theme, formatScore(t.Score))
	}

	fmt.Fprintf(&sb, "\n## Suno prompts (%d)\n", len(prompts))

	for i, p := range prompts {
		fmt.Fprintf(&sb, "%d. %s", i+1, p.Prompt)

		if p.Theme != "" {
			fmt.Fprintf(&sb, "  \n   _Theme:_ %s", p.Theme)
		}

		if len(p.Tags) > 0 {
			fmt.Fprintf(&sb, "  \n   _Tags:_ %s", strings.Join(p.Tags, ", "))
		}

		sb.WriteString("\n")
	}

	sb.WriteString("\n---\n### Raw JSON (debug)\n```json\n")

	raw, err := json.MarshalIndent(map[string]any{"suno_prompts": rawPrompts(prompts)}, "", "  ")
	if err == nil {
		sb.Write(raw)
	}

	sb.WriteString("\n```\n")

	return sb.String()
}

func rawPrompts(prompts []domain.Prompt) []domain.Prompt {
	out := make([]domain.Prompt, len(prompts))
	copy(out, prompts)

	for i := range out {
		if out[i].Tags == nil {
			out[i].Tags = []string{}
		}
	}

	return out
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
