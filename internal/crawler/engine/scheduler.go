package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. Engine.Run satisfies it.
type Job func(ctx context.Context)

// Scheduler runs a job once on Start and then on a cron spec until Stop.
// Runs are not serialized: a slow run may overlap the next tick.
type Scheduler struct {
	spec   string
	job    Job
	cron   *cron.Cron
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(spec string, job Job, logger *log.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		spec:   spec,
		job:    job,
		cron:   cron.New(cron.WithLogger(cronLogger{logger})),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers the schedule, fires the first run in the background and
// starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.fire); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}
	go s.fire()
	s.cron.Start()
	s.logger.Info("scheduler started", "spec", s.spec)
	return nil
}

// Stop halts future ticks and waits for running jobs or ctx, whichever ends first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	s.cancel()
}

func (s *Scheduler) fire() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled run panicked", "panic", r)
		}
	}()
	s.job(s.ctx)
}

// cronLogger routes cron's own messages through charm's logger.
type cronLogger struct {
	l *log.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append([]interface{}{"err", err}, keysAndValues...)...)
}
