package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule fires once a day at 09:00 in the scheduler's zone.
const DefaultSchedule = "0 9 * * *"

// Task is the callback bound to a scheduled trigger.
type Task func(ctx context.Context) error

// Scheduler runs a single named task on a fixed wall-clock schedule.
// It is independent of the HTTP server and can be started by any process.
type Scheduler struct {
	name     string
	spec     string
	loc      *time.Location
	schedule cron.Schedule
	cron     *cron.Cron
	task     Task
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// FixedZone returns a location offset from UTC by the given number of hours.
func FixedZone(offsetHours int) *time.Location {
	if offsetHours == 0 {
		return time.UTC
	}
	return time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), offsetHours*3600)
}

// NewScheduler creates a scheduler for task. spec is a standard five-field
// cron expression interpreted in loc. Overlapping triggers are skipped
// while a run is still in progress.
func NewScheduler(name, spec string, loc *time.Location, task Task, logger *slog.Logger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	logger = logger.With("task", name)
	clog := cronLogger{logger: logger}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		name:     name,
		spec:     spec,
		loc:      loc,
		schedule: schedule,
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(clog)),
		task:     task,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}

	job := cron.NewChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)).
		Then(cron.FuncJob(s.run))
	s.cron.Schedule(schedule, job)

	return s, nil
}

// Start begins firing the task in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started",
		"schedule", s.spec,
		"zone", s.loc.String(),
		"next_run", s.Next(time.Now()),
	)
}

// Stop halts the schedule, cancels any in-flight run and waits for it to
// return or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out waiting for running task")
	}
}

// Next returns the first trigger time after from.
func (s *Scheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from.In(s.loc))
}

// RunNow invokes the task synchronously, outside the schedule. The
// schedule does not need to be started.
func (s *Scheduler) RunNow(ctx context.Context) error {
	start := time.Now()
	s.logger.Info("Task run on demand")
	if err := s.task(ctx); err != nil {
		s.logger.Error("On-demand task failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	s.logger.Info("On-demand task completed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *Scheduler) run() {
	start := time.Now()
	s.logger.Info("Scheduled task triggered")
	if err := s.task(s.ctx); err != nil {
		// The next scheduled run is the retry.
		s.logger.Error("Scheduled task failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	s.logger.Info("Scheduled task completed", "duration_ms", time.Since(start).Milliseconds())
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
