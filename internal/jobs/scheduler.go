package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"welth/internal/logger"
	"welth/internal/services"
)

// Schedules holds the cron expressions for each periodic job.
type Schedules struct {
	BudgetAlerts   string
	Recurring      string
	MonthlyReports string
}

// DefaultSchedules runs budget alerts every six hours, the recurring trigger
// daily at midnight and monthly reports on the first of each month.
var DefaultSchedules = Schedules{
	BudgetAlerts:   "0 */6 * * *",
	Recurring:      "0 0 * * *",
	MonthlyReports: "0 0 1 * *",
}

// Runner exposes each periodic job as a plain function, shared by the cron
// scheduler and the HTTP job triggers.
type Runner struct {
	Recurrence   services.RecurrenceServicer
	BudgetAlerts services.BudgetAlertServicer
	Reports      services.ReportServicer
	Dispatcher   Dispatcher
	Now          func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// TriggerRecurring dispatches every due recurring template.
func (r *Runner) TriggerRecurring(ctx context.Context) (int, error) {
	return TriggerRecurring(ctx, r.Recurrence, r.Dispatcher, r.now())
}

// CheckBudgetAlerts runs the budget alert evaluation.
func (r *Runner) CheckBudgetAlerts(ctx context.Context) (*services.JobSummary, error) {
	return r.BudgetAlerts.CheckBudgetAlerts(ctx, r.now())
}

// GenerateMonthlyReports sends last month's reports.
func (r *Runner) GenerateMonthlyReports(ctx context.Context) (*services.JobSummary, error) {
	return r.Reports.GenerateMonthlyReports(ctx, r.now())
}

// Scheduler runs the Runner's jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	ctx    context.Context
}

// NewScheduler registers the three periodic jobs. Runs of the same job never
// overlap; a run still in progress causes the next tick to be skipped.
func NewScheduler(ctx context.Context, runner *Runner, schedules Schedules, loc *time.Location) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}

	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(cronLogger{})),
	)
	s := &Scheduler{cron: c, runner: runner, ctx: ctx}

	jobs := []struct {
		name string
		spec string
		fn   func(context.Context) error
	}{
		{"budget-alerts", schedules.BudgetAlerts, func(ctx context.Context) error {
			_, err := runner.CheckBudgetAlerts(ctx)
			return err
		}},
		{"recurring-trigger", schedules.Recurring, func(ctx context.Context) error {
			_, err := runner.TriggerRecurring(ctx)
			return err
		}},
		{"monthly-reports", schedules.MonthlyReports, func(ctx context.Context) error {
			_, err := runner.GenerateMonthlyReports(ctx)
			return err
		}},
	}

	for _, j := range jobs {
		j := j
		job := cron.NewChain(cron.SkipIfStillRunning(cronLogger{})).Then(cron.FuncJob(func() {
			s.run(j.name, j.fn)
		}))
		if _, err := c.AddJob(j.spec, job); err != nil {
			return nil, fmt.Errorf("schedule %s (%q): %w", j.name, j.spec, err)
		}
	}

	return s, nil
}

func (s *Scheduler) run(name string, fn func(context.Context) error) {
	log := logger.Named("scheduler")
	start := time.Now()
	log.Infow("job started", "job", name)

	if err := fn(s.ctx); err != nil {
		log.Errorw("job failed", "job", name, "error", err, "duration", time.Since(start))
		return
	}
	log.Infow("job finished", "job", name, "duration", time.Since(start))
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Entries returns the number of scheduled jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Named("cron").Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Named("cron").Errorw(msg, append(keysAndValues, "error", err)...)
}
