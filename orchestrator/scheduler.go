package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler triggers feed runs on a cron schedule.
type Scheduler struct {
	runner *Runner
	cron   *cron.Cron
	logger zerolog.Logger

	mu     sync.Mutex
	cronID cron.EntryID
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduler(runner *Runner, logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner: runner,
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start registers the schedule (standard 5-field spec or descriptors like
// "@every 15m") and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(schedule, s.tick)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.cronID = id
	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("feed schedule started")
	return nil
}

func (s *Scheduler) tick() {
	s.logger.Info().Msg("cron triggered feed run")
	if _, err := s.runner.RunOnce(s.ctx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.logger.Info().Msg("cron skipped: feed run in progress")
			return
		}
		s.logger.Error().Err(err).Msg("cron feed run failed")
	}
}

// Stop stops scheduling, cancels a running job and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

type cronLogger struct {
	l zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
