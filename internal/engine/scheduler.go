package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/pricediff/internal/market"
	"github.com/donaldgifford/pricediff/internal/metrics"
)

// RunRecord summarizes the most recent finished run.
type RunRecord struct {
	Result     *Result   `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
	Trigger    string    `json:"trigger"`
}

// Scheduler repeats a comparison run on a cron schedule. Runs never
// overlap: a tick that fires while a run is in progress is skipped, and a
// manual run waits for the current one.
type Scheduler struct {
	cron    *cron.Cron
	entryID cron.EntryID
	engine  *Engine
	query   market.Query
	log     *slog.Logger
	started atomic.Bool

	runMu sync.Mutex

	lastMu sync.RWMutex
	last   *RunRecord
}

// NewScheduler creates a Scheduler that runs q on spec, a standard five
// field cron expression or a descriptor such as "@every 1h".
func NewScheduler(
	eng *Engine,
	spec string,
	q market.Query,
	log *slog.Logger,
) (*Scheduler, error) {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{
		cron:   c,
		engine: eng,
		query:  q,
		log:    log,
	}

	id, err := c.AddFunc(spec, s.runComparison)
	if err != nil {
		return nil, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "search_term", s.query.Term)
	s.cron.Start()
	s.started.Store(true)
	s.SyncNextRunTimestamp()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	s.started.Store(false)
	return s.cron.Stop()
}

// Ready reports whether the scheduler has been started.
func (s *Scheduler) Ready() bool {
	return s.started.Load()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamp publishes the next fire time as a gauge.
func (s *Scheduler) SyncNextRunTimestamp() {
	next := s.cron.Entry(s.entryID).Next
	if next.IsZero() {
		return
	}
	metrics.SchedulerNextRunTimestamp.Set(float64(next.Unix()))
}

// RunNow performs a comparison immediately, waiting for any run already in
// progress.
func (s *Scheduler) RunNow(ctx context.Context) (*Result, error) {
	return s.run(ctx, "manual")
}

// LastRun returns the most recent finished run, if any.
func (s *Scheduler) LastRun() (RunRecord, bool) {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	if s.last == nil {
		return RunRecord{}, false
	}
	return *s.last, true
}

func (s *Scheduler) runComparison() {
	s.log.Info("scheduled comparison starting", "search_term", s.query.Term)
	if _, err := s.run(context.Background(), "cron"); err != nil {
		s.log.Error("scheduled comparison failed", "error", err)
	}
	s.SyncNextRunTimestamp()
}

func (s *Scheduler) run(ctx context.Context, trigger string) (*Result, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	res, err := s.engine.Run(ctx, s.query)

	rec := &RunRecord{
		Result:     res,
		FinishedAt: time.Now(),
		Trigger:    trigger,
	}
	if err != nil {
		rec.Error = err.Error()
		metrics.LastRunSuccess.Set(0)
	} else {
		metrics.LastRunSuccess.Set(1)
	}
	metrics.LastRunTimestamp.Set(float64(rec.FinishedAt.Unix()))

	s.lastMu.Lock()
	s.last = rec
	s.lastMu.Unlock()

	return res, err
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
