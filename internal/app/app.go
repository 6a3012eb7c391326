// Package app provides the main application bootstrap and runtime orchestration.
//
// The App type wires configuration, storage and the pipeline stages together
// and exposes the operational modes:
//
//   - collect: search the video source and store the day's engagement records
//   - score: aggregate themes, compute trends and write the CSV snapshot
//   - prompts: generate creative prompts from the top themes
//   - publish: send the summary to chat channels and the spreadsheet
//   - daily: all four stages in order for one date
//   - serve: health server plus the daily scheduler
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/core/domain"
	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
	"github.com/lueurxax/ytmusic-trends/internal/core/ports"
	"github.com/lueurxax/ytmusic-trends/internal/platform/config"
	"github.com/lueurxax/ytmusic-trends/internal/platform/observability"
	"github.com/lueurxax/ytmusic-trends/internal/platform/schedule"
	"github.com/lueurxax/ytmusic-trends/internal/platform/worker"
)

// Store is the persistence the application runs on.
type Store interface {
	ports.Store
	observability.Pinger
}

// App holds the application dependencies and provides methods to run different modes.
type App struct {
	cfg    *config.Config
	store  Store
	logger *zerolog.Logger
	now    func() time.Time
}

// New creates a new App instance with the given dependencies.
func New(cfg *config.Config, store Store, logger *zerolog.Logger) *App {
	return &App{
		cfg:    cfg,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes mode for runDate. A zero runDate means today in the schedule
// timezone.
func (a *App) Run(ctx context.Context, mode string, runDate time.Time) error {
	if mode == ModeServe {
		return a.RunServe(ctx)
	}

	if runDate.IsZero() {
		d, err := a.today()
		if err != nil {
			return err
		}

		runDate = d
	}

	runDate = domain.Day(runDate)
	a.logger.Info().Str(logFieldMode, mode).Str(logFieldRunDate, runDate.Format(domain.DateLayout)).Msg("running mode")

	switch mode {
	case ModeCollect:
		return a.RunCollect(ctx, runDate)
	case ModeScore:
		return a.RunScore(ctx, runDate)
	case ModePrompts:
		return a.RunPrompts(ctx, runDate)
	case ModePublish:
		return a.RunPublish(ctx, runDate)
	case ModeDaily:
		return a.RunDaily(ctx, runDate)
	default:
		return fmt.Errorf("%w: %q", coreerrors.ErrUnknownMode, mode)
	}
}

// RunDaily runs every stage in order for runDate, stopping at the first failure.
func (a *App) RunDaily(ctx context.Context, runDate time.Time) error {
	stages := []func(context.Context, time.Time) error{
		a.RunCollect,
		a.RunScore,
		a.RunPrompts,
		a.RunPublish,
	}

	for _, stage := range stages {
		if err := stage(ctx, runDate); err != nil {
			return err
		}
	}

	return nil
}

// RunServe starts the health server and runs the daily pipeline at the
// scheduled time until the context is canceled.
func (a *App) RunServe(ctx context.Context) error {
	daily := a.dailySchedule()
	if err := daily.Validate(); err != nil {
		return fmt.Errorf("schedule: %w", err)
	}

	go func() {
		if err := observability.NewServer(a.store, a.cfg.HealthPort, a.logger).Start(ctx); err != nil {
			a.logger.Error().Err(err).Msg("health check server error")
		}
	}()

	scheduler := worker.NewDailyScheduler(a.logger)
	scheduler.AddTask(&worker.DailyTask{
		Name:     dailyTaskName,
		Schedule: daily,
		Timeout:  dailyTaskTimeout,
		Run: func(ctx context.Context, runDate time.Time, _ *zerolog.Logger) error {
			return a.RunDaily(ctx, runDate)
		},
	})

	if next, err := daily.Next(a.now()); err == nil {
		a.logger.Info().Time("next_run", next).Msg("daily scheduler started")
	}

	err := worker.TickerLoop(ctx, worker.TickerConfig{
		Name:       dailyTaskName,
		Interval:   a.cfg.Schedule.TickInterval,
		RunOnStart: true,
		OnTick:     scheduler.CheckAndRun,
		Logger:     a.logger,
	})
	if errors.Is(err, context.Canceled) {
		return context.Canceled
	}

	return err
}

func (a *App) dailySchedule() schedule.Daily {
	return schedule.Daily{Timezone: a.cfg.Schedule.Timezone, Time: a.cfg.Schedule.Time}
}

func (a *App) today() (time.Time, error) {
	d, err := a.dailySchedule().RunDate(a.now())
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve run date: %w", err)
	}

	return d, nil
}

// stage runs fn and records its duration and outcome.
func (a *App) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := statusSuccess
	if err != nil {
		status = statusError
	}

	observability.StageDuration.WithLabelValues(name, status).Observe(time.Since(start).Seconds())

	if err != nil {
		a.logger.Error().Err(err).Str(logFieldStage, name).Msg("stage failed")
		return fmt.Errorf("%s stage: %w", name, err)
	}

	return nil
}
