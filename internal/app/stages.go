package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/core/llm"
	"github.com/lueurxax/ytmusic-trends/internal/core/trends"
	"github.com/lueurxax/ytmusic-trends/internal/ingest/youtube"
	"github.com/lueurxax/ytmusic-trends/internal/output/prompts"
	"github.com/lueurxax/ytmusic-trends/internal/output/publish"
	"github.com/lueurxax/ytmusic-trends/internal/platform/config"
	"github.com/lueurxax/ytmusic-trends/internal/process/collect"
	"github.com/lueurxax/ytmusic-trends/internal/process/feedback"
	"github.com/lueurxax/ytmusic-trends/internal/process/scoring"
)

// RunCollect gathers the day's videos.
func (a *App) RunCollect(ctx context.Context, runDate time.Time) error {
	return a.stage(ModeCollect, func() error {
		queries, err := config.LoadQueryFile(a.cfg.QueriesFile, a.cfg.YouTube.RegionCode)
		if err != nil {
			return err
		}

		source, err := youtube.NewClient(a.cfg.YouTube.APIKey,
			youtube.WithBaseURL(a.cfg.YouTube.BaseURL),
			youtube.WithRequestsPerMinute(a.cfg.YouTube.RequestsPerMinute),
			youtube.WithHTTPClient(&http.Client{Timeout: a.cfg.YouTube.Timeout}),
		)
		if err != nil {
			return err
		}

		svc := collect.New(a.store, source, feedback.NewSelector(a.store, a.logger), a.logger)

		res, err := svc.Run(ctx, runDate, collectOptions(queries))
		if err != nil {
			return err
		}

		a.logger.Info().
			Str(logFieldRunDate, runDate.Format(domain.DateLayout)).
			Str("region", res.Region).
			Int("queries", len(res.Queries)).
			Int("videos", res.VideoCount).
			Msg("collect finished")

		return nil
	})
}

func collectOptions(q *config.QueryFile) collect.Options {
	return collect.Options{
		Region:             q.RegionCode,
		RelevanceLanguage:  q.RelevanceLanguage,
		DaysBack:           q.DaysBack,
		MaxResultsPerQuery: q.MaxResultsPerQuery,
		Seeds:              q.Queries,
		Feedback: feedback.Config{
			Enabled:          q.FeedbackLoop.Enabled,
			LookbackDays:     q.FeedbackLoop.LookbackDays,
			MaxQueries:       q.FeedbackLoop.MaxQueries,
			ThemeQueryPrefix: q.FeedbackLoop.ThemeQueryPrefix,
			ThemeQueryCount:  q.FeedbackLoop.ThemeQueryCount,
		},
	}
}

// RunScore scores the day's videos into themes and trends.
func (a *App) RunScore(ctx context.Context, runDate time.Time) error {
	return a.stage(ModeScore, func() error {
		scorer := trends.NewScorer(trends.ScoringPolicy{
			LikeWeight:    a.cfg.Scoring.LikeWeight,
			CommentWeight: a.cfg.Scoring.CommentWeight,
			MinAgeHours:   a.cfg.Scoring.MinAgeHours,
		})

		svc := scoring.New(a.store, scorer, scoring.Options{OutputDir: a.cfg.OutputDir, MirrorDir: a.cfg.MirrorDir}, a.logger)

		res, err := svc.Run(ctx, runDate)
		if err != nil {
			return err
		}

		for i, t := range res.TopThemes {
			a.logger.Info().Int("rank", i+1).Str("theme", t.Theme).Float64("score", t.Score).Msg("top theme")
		}

		return nil
	})
}

// RunPrompts generates the day's prompts from the scored themes.
func (a *App) RunPrompts(ctx context.Context, runDate time.Time) error {
	return a.stage(ModePrompts, func() error {
		tpl, err := config.LoadPromptTemplates(a.cfg.PromptTemplatesFile)
		if err != nil {
			return err
		}

		client, err := llm.NewOpenAICompatible(llm.Config{
			BaseURL:     a.cfg.LLM.BaseURL,
			APIKey:      a.cfg.LLM.APIKey,
			Model:       a.cfg.LLM.Model,
			Temperature: a.cfg.LLM.Temperature,
			Timeout:     a.cfg.LLM.Timeout,
		}, a.logger)
		if err != nil {
			return err
		}

		svc := prompts.New(a.store, client, prompts.Options{
			Instructions: tpl.Suno.Instructions,
			OutputDir:    a.cfg.OutputDir,
			MirrorDir:    a.cfg.MirrorDir,
		}, a.logger)

		_, err = svc.Run(ctx, runDate)

		return err
	})
}

// RunPublish delivers the day's results to every configured target.
func (a *App) RunPublish(ctx context.Context, runDate time.Time) error {
	return a.stage(ModePublish, func() error {
		notifiers, err := a.notifiers()
		if err != nil {
			return err
		}

		sheet, err := a.sheet(ctx)
		if err != nil {
			return err
		}

		svc := publish.New(a.store, notifiers, sheet, publish.Options{DryRun: a.cfg.DryRun, OutputDir: a.cfg.OutputDir}, a.logger)

		res, err := svc.Run(ctx, runDate)
		if res != nil {
			a.logger.Info().Strs("delivered", res.Delivered).Strs("skipped", res.Skipped).Msg("publish finished")
		}

		return err
	})
}

func (a *App) notifiers() ([]publish.Notifier, error) {
	var out []publish.Notifier

	tg, err := publish.NewTelegram(a.cfg.Publish.TelegramBotToken, a.cfg.Publish.TelegramChatID)
	if err := a.skipDisabled(err, "telegram"); err != nil {
		return nil, err
	}

	if tg != nil {
		out = append(out, tg)
	}

	discord, err := publish.NewDiscord(a.cfg.Publish.DiscordWebhookURL, nil)
	if err := a.skipDisabled(err, "discord"); err != nil {
		return nil, err
	}

	if discord != nil {
		out = append(out, discord)
	}

	return out, nil
}

func (a *App) skipDisabled(err error, target string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, coreerrors.ErrClientDisabled) {
		a.logger.Debug().Str(logFieldTarget, target).Msg("publish target not configured")
		return nil
	}

	return err
}

// sheet builds the spreadsheet writer. Missing credentials are fatal unless
// running dry, where the writer is never called.
func (a *App) sheet(ctx context.Context) (publish.SheetWriter, error) {
	id := a.cfg.Publish.SheetsSpreadsheetID
	if id == "" {
		return nil, nil
	}

	auth, err := publish.OAuthOption(ctx, a.cfg.Publish.SheetsOAuthClientJSON, a.cfg.Publish.SheetsOAuthTokenJSON)
	if err != nil {
		if a.cfg.DryRun {
			a.logger.Warn().Err(err).Msg("sheets credentials unavailable, dry run continues")
			return dryRunSheet{url: publish.SheetURL(id)}, nil
		}

		return nil, fmt.Errorf("sheets credentials: %w", err)
	}

	sheet, err := publish.NewSheets(ctx, id, auth)
	if err != nil {
		return nil, err
	}

	return sheet, nil
}

// dryRunSheet stands in for the spreadsheet when credentials are missing in a dry run.
type dryRunSheet struct {
	url string
}

func (s dryRunSheet) URL() string { return s.url }

func (dryRunSheet) Write(context.Context, time.Time, []domain.ThemeEntry, []domain.Prompt) error {
	return fmt.Errorf("sheets writer: %w", coreerrors.ErrClientDisabled)
}
