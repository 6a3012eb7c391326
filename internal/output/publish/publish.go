// Package publish delivers the day's results: a summary to chat channels and
// the themes and prompts to a spreadsheet.
package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	"github.com/lueurxax/ytmusic-trends/internal/output/prompts"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
)

// Attachment is a file sent along with a message.
type Attachment struct {
	Name string
	Data []byte
}

// Message is what a notifier delivers.
type Message struct {
	Text       string
	Attachment *Attachment
}

// Notifier delivers a message to one channel.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// SheetWriter stores the day's results in a spreadsheet.
type SheetWriter interface {
	URL() string
	Write(ctx context.Context, runDate time.Time, themes []domain.ThemeEntry, prompts []domain.Prompt) error
}

// Repository is the storage the stage reads from.
type Repository interface {
	ThemesForDate(ctx context.Context, runDate time.Time, limit int) ([]domain.ThemeEntry, error)
	PromptsForDate(ctx context.Context, runDate time.Time) ([]domain.Prompt, error)
}

// Options configures the stage.
type Options struct {
	DryRun    bool
	OutputDir string
}

// Result lists the targets a publish run reached.
type Result struct {
	RunDate   time.Time
	Summary   string
	Delivered []string
	Skipped   []string
}

// Service runs the publish stage.
type Service struct {
	repo      Repository
	notifiers []Notifier
	sheet     SheetWriter
	opts      Options
	logger    *zerolog.Logger
}

// New creates a publish service. sheet may be nil.
func New(repo Repository, notifiers []Notifier, sheet SheetWriter, opts Options, logger *zerolog.Logger) *Service {
	return &Service{repo: repo, notifiers: notifiers, sheet: sheet, opts: opts, logger: logger}
}

// Run publishes the run date's results to every configured target. A failing
// target does not stop the others; all failures are returned together.
func (s *Service) Run(ctx context.Context, runDate time.Time) (*Result, error) {
	runDate = domain.Day(runDate)
	log := s.logger.With().Str("run_date", runDate.Format(domain.DateLayout)).Logger()

	themes, err := s.repo.ThemesForDate(ctx, runDate, SummaryThemes)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}

	generated, err := s.repo.PromptsForDate(ctx, runDate)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	sheetURL := ""
	if s.sheet != nil {
		sheetURL = s.sheet.URL()
	}

	res := &Result{RunDate: runDate, Summary: BuildSummary(runDate, themes, generated, sheetURL)}
	msg := Message{Text: res.Summary, Attachment: s.loadReport(&log, runDate)}

	var errs []error

	for _, n := range s.notifiers {
		s.deliver(&log, res, &errs, n.Name(), func() error { return n.Notify(ctx, msg) })
	}

	if s.sheet != nil {
		s.deliver(&log, res, &errs, targetSheets, func() error { return s.sheet.Write(ctx, runDate, themes, generated) })
	}

	if err := errors.Join(errs...); err != nil {
		return res, err
	}

	return res, nil
}

func (s *Service) deliver(log *zerolog.Logger, res *Result, errs *[]error, target string, send func() error) {
	if s.opts.DryRun {
		log.Info().Str("target", target).Str("summary", res.Summary).Msg("DRY_RUN: would publish")
		observability.PublishTotal.WithLabelValues(target, statusDryRun).Inc()

		res.Skipped = append(res.Skipped, target)

		return
	}

	if err := send(); err != nil {
		log.Error().Err(err).Str("target", target).Msg("publish failed")
		observability.PublishTotal.WithLabelValues(target, statusError).Inc()

		*errs = append(*errs, fmt.Errorf("publish to %s: %w", target, err))

		return
	}

	log.Info().Str("target", target).Msg("published")
	observability.PublishTotal.WithLabelValues(target, statusSuccess).Inc()

	res.Delivered = append(res.Delivered, target)
}

// loadReport reads the prompts markdown report for attaching, if it exists.
func (s *Service) loadReport(log *zerolog.Logger, runDate time.Time) *Attachment {
	if s.opts.OutputDir == "" {
		return nil
	}

	name := prompts.MarkdownFileName(runDate)

	data, err := os.ReadFile(filepath.Join(s.opts.OutputDir, name)) //nolint:gosec // file name is derived from the run date
	if err != nil {
		log.Warn().Err(err).Str("file", name).Msg("report not attached")
		return nil
	}

	return &Attachment{Name: name, Data: data}
}
