package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"symbolstats/internal/collector"
	"symbolstats/internal/model"
	"symbolstats/internal/recorder"
)

// Publisher receives the registry snapshot after each refresh.
type Publisher interface {
	Broadcast(symbols []model.Symbol) error
}

// Scheduler runs the statistics refresh on a cron schedule.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Publisher Publisher
	Ctx       context.Context

	log     zerolog.Logger
	running sync.Mutex // held for the duration of one refresh
	mu      sync.Mutex
	cycles  int
}

// NewScheduler creates a new Scheduler. Overlapping refreshes are skipped.
func NewScheduler(ctx context.Context, col *collector.Collector, rec recorder.Recorder, pub Publisher, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	cl := cronLogger{log: log}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		Recorder:  rec,
		Publisher: pub,
		Ctx:       ctx,
		log:       log,
	}
}

// Register adds the refresh job.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start primes prices from the cache, publishes the initial snapshot, then
// starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.Collector.Bootstrap(s.Ctx); err != nil {
		return fmt.Errorf("bootstrap prices: %w", err)
	}
	s.publish()
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
	return nil
}

// Stop stops the cron scheduler and waits for a running refresh.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes one refresh immediately, unless one is already running.
func (s *Scheduler) RunNow() {
	s.refresh()
}

// Cycles returns the number of completed refreshes.
func (s *Scheduler) Cycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycles
}

func (s *Scheduler) refresh() {
	if s.Ctx.Err() != nil {
		return
	}
	if !s.running.TryLock() {
		s.log.Debug().Msg("refresh already running, skipped")
		return
	}
	defer s.running.Unlock()

	if err := s.Collector.UpdateAll(s.Ctx); err != nil {
		// per-symbol failures are already logged by the collector
		s.log.Warn().Err(err).Msg("refresh completed with errors")
	}
	s.publish()

	s.mu.Lock()
	s.cycles++
	s.mu.Unlock()
}

func (s *Scheduler) publish() {
	snapshot := s.Collector.Registry.Snapshot()
	if err := s.Recorder.RecordStats(snapshot); err != nil {
		s.log.Error().Err(err).Msg("record stats")
	}
	if s.Publisher != nil {
		if err := s.Publisher.Broadcast(snapshot); err != nil {
			s.log.Error().Err(err).Msg("broadcast snapshot")
		}
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
