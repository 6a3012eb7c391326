// Package prompts runs the prompt generation stage: it turns the day's top
// themes into creative prompts through a text generation model, stores them,
// and writes a markdown report.
package prompts

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/core/llm"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
	"github.com/lueurxax/ytmusic-trends/internal/platform/outfile"
)

const (
	// MaxThemes is how many themes are sent to the model.
	MaxThemes = 10

	// MaxPrompts is how many prompts are kept per day.
	MaxPrompts = 12

	// noveltyWindowDays is how far back earlier prompts count as repeats.
	noveltyWindowDays = 14
)

// Repository is the storage the stage reads from and writes to.
type Repository interface {
	ThemesForDate(ctx context.Context, runDate time.Time, limit int) ([]domain.ThemeEntry, error)
	ReplacePromptsForDate(ctx context.Context, runDate time.Time, prompts []domain.Prompt) (int, error)
	SavePromptHistory(ctx context.Context, runDate time.Time, prompts []domain.Prompt) error
	RecentPromptHashes(ctx context.Context, tool string, since, until time.Time) ([]string, error)
}

// Options configures the stage.
type Options struct {
	Instructions string
	OutputDir    string
	MirrorDir    string
}

// Result summarizes a prompt generation run.
type Result struct {
	RunDate      time.Time
	Themes       []domain.ThemeEntry
	Prompts      []domain.Prompt
	MarkdownPath string
}

// Service runs the prompt generation stage.
type Service struct {
	repo   Repository
	llm    llm.Client
	opts   Options
	logger *zerolog.Logger
}

// New creates a prompt generation service.
func New(repo Repository, client llm.Client, opts Options, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, llm: client, opts: opts, logger: logger}
}

// Run generates and stores prompts for the run date. It fails with
// ErrNoThemes when the date has not been scored.
func (s *Service) Run(ctx context.Context, runDate time.Time) (*Result, error) {
	runDate = domain.Day(runDate)
	log := s.logger.With().Str("run_date", runDate.Format(domain.DateLayout)).Logger()

	themes, err := s.repo.ThemesForDate(ctx, runDate, MaxThemes)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}

	if len(themes) == 0 {
		return nil, fmt.Errorf("generate prompts for %s: %w", runDate.Format(domain.DateLayout), coreerrors.ErrNoThemes)
	}

	reply, err := s.llm.CompleteJSON(ctx, BuildPrompt(s.opts.Instructions, themes))
	if err != nil {
		return nil, fmt.Errorf("generate prompts: %w", err)
	}

	generated, err := ParseSunoPrompts(reply)
	if err != nil {
		return nil, fmt.Errorf("parse generated prompts: %w", err)
	}

	if len(generated) != MaxPrompts {
		log.Warn().Int("count", len(generated)).Int("expected", MaxPrompts).Msg("model returned unexpected prompt count")
	}

	generated = domain.NormalizePrompts(generated)
	generated = s.preferNovel(ctx, &log, runDate, generated)

	if len(generated) > MaxPrompts {
		generated = generated[:MaxPrompts]
	}

	stored, err := s.repo.ReplacePromptsForDate(ctx, runDate, generated)
	if err != nil {
		return nil, fmt.Errorf("save prompts: %w", err)
	}

	if err := s.repo.SavePromptHistory(ctx, runDate, generated); err != nil {
		return nil, fmt.Errorf("save prompt history: %w", err)
	}

	md := RenderMarkdown(runDate, themes, generated)

	path, mirrorErr, err := outfile.Writer{Dir: s.opts.OutputDir, MirrorDir: s.opts.MirrorDir}.Write(MarkdownFileName(runDate), []byte(md))
	if err != nil {
		return nil, err
	}

	if mirrorErr != nil {
		log.Warn().Err(mirrorErr).Msg("mirror report write failed")
	}

	observability.PromptsGenerated.Add(float64(stored))
	log.Info().Int("prompts", stored).Str("path", path).Msg("prompts generated")

	return &Result{RunDate: runDate, Themes: themes, Prompts: generated, MarkdownPath: path}, nil
}

// preferNovel moves prompts already generated in the previous days to the
// end, keeping relative order within each group.
func (s *Service) preferNovel(ctx context.Context, log *zerolog.Logger, runDate time.Time, prompts []domain.Prompt) []domain.Prompt {
	hashes, err := s.repo.RecentPromptHashes(ctx, domain.PromptToolSuno, runDate.AddDate(0, 0, -noveltyWindowDays), runDate.AddDate(0, 0, -1))
	if err != nil {
		log.Warn().Err(err).Msg("prompt history read failed")
		return prompts
	}

	if len(hashes) == 0 {
		return prompts
	}

	seen := make(map[string]struct{}, len(hashes))
	for _, h := range hashes {
		seen[h] = struct{}{}
	}

	fresh := make([]domain.Prompt, 0, len(prompts))
	repeats := make([]domain.Prompt, 0)

	for _, p := range prompts {
		if _, ok := seen[domain.PromptHash(p.Prompt)]; ok {
			repeats = append(repeats, p)
			continue
		}

		fresh = append(fresh, p)
	}

	if len(repeats) > 0 {
		log.Info().Int("repeats", len(repeats)).Msg("deprioritized recently used prompts")
	}

	return append(fresh, repeats...)
}
