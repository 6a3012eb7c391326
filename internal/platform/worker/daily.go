package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lueurxax/ytmusic-trends/internal/platform/schedule"
)

// DailyTask runs once per calendar day, at or after the scheduled time.
type DailyTask struct {
	// Name identifies the task for logging.
	Name string

	// Schedule is the daily run time and timezone.
	Schedule schedule.Daily

	// Timeout bounds a single run (0 for none).
	Timeout time.Duration

	// Run executes the task for the run date.
	Run func(ctx context.Context, runDate time.Time, logger *zerolog.Logger) error

	// OnError is called when Run returns an error.
	// If nil, errors are only logged.
	OnError func(err error)

	// lastRunDate is the run date of the last successful run.
	lastRunDate time.Time
}

// DailyScheduler manages a collection of daily tasks.
type DailyScheduler struct {
	tasks  []*DailyTask
	logger *zerolog.Logger
	now    func() time.Time
}

// NewDailyScheduler creates a new daily task scheduler.
func NewDailyScheduler(logger *zerolog.Logger) *DailyScheduler {
	return &DailyScheduler{
		tasks:  make([]*DailyTask, 0),
		logger: getLogger(logger),
		now:    time.Now,
	}
}

// AddTask adds a task to the scheduler.
func (ds *DailyScheduler) AddTask(task *DailyTask) {
	ds.tasks = append(ds.tasks, task)
}

// CheckAndRun checks all tasks and runs any that are due.
// Call this from the ticker loop.
func (ds *DailyScheduler) CheckAndRun(ctx context.Context) {
	for _, task := range ds.tasks {
		ds.checkAndRunTask(ctx, task)
	}
}

func (ds *DailyScheduler) checkAndRunTask(ctx context.Context, task *DailyTask) {
	logger := ds.logger.With().Str(logFieldTask, task.Name).Logger()
	defer RecoverPanic(&logger, task.Name)

	runDate, due, err := task.Schedule.Due(ds.now(), task.lastRunDate)
	if err != nil {
		logger.Error().Err(err).Msg("invalid schedule")
		return
	}

	if !due {
		return
	}

	logger = logger.With().Str("run_date", runDate.Format(time.DateOnly)).Logger()
	logger.Info().Msgf("Starting daily %s", task.Name)

	err = RunWithTimeout(ctx, task.Timeout, func(ctx context.Context) error {
		return task.Run(ctx, runDate, &logger)
	})
	if err != nil {
		logger.Error().Err(err).Msgf("failed to run daily %s", task.Name)

		if task.OnError != nil {
			task.OnError(err)
		}

		return
	}

	task.lastRunDate = runDate
}

// SetLastRun records the last completed run date for a task, e.g. from
// persisted state.
func (ds *DailyScheduler) SetLastRun(taskName string, runDate time.Time) {
	for _, task := range ds.tasks {
		if task.Name == taskName {
			task.lastRunDate = runDate
			return
		}
	}
}

// LastRun returns the last completed run date for a task.
func (ds *DailyScheduler) LastRun(taskName string) (time.Time, bool) {
	for _, task := range ds.tasks {
		if task.Name == taskName {
			return task.lastRunDate, true
		}
	}

	return time.Time{}, false
}
