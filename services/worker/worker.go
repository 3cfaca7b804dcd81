// Package worker owns the process-scope batch schedule. The hosting
// process constructs one Worker at startup and calls Start/Stop; there is
// no implicit module-level state.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"sjsage522/newsharvester/logger"
)

// Batcher runs one harvest batch across all configured sites
type Batcher interface {
	RunBatch(ctx context.Context) (found, saved int, err error)
}

// Worker triggers batches on a fixed interval. Batches never overlap: a
// tick that fires while the previous batch is still running is skipped,
// because both would share the same link-set snapshot.
type Worker struct {
	ctx      context.Context
	cron     *cron.Cron
	job      cron.Job
	batcher  Batcher
	interval time.Duration
	log      *logger.Logger
}

// NewWorker creates a worker that runs batches every interval
func NewWorker(ctx context.Context, batcher Batcher, interval time.Duration) *Worker {
	log := logger.ForWorker()
	w := &Worker{
		ctx:      ctx,
		cron:     cron.New(),
		batcher:  batcher,
		interval: interval,
		log:      log,
	}
	lg := cronLogger{log: log}
	w.job = cron.NewChain(
		cron.SkipIfStillRunning(lg),
		cron.Recover(lg),
	).Then(cron.FuncJob(w.runBatch))
	return w
}

// Start installs the recurring job and kicks off the first batch
// immediately in the background
func (w *Worker) Start() error {
	if _, err := w.cron.AddJob(fmt.Sprintf("@every %s", w.interval), w.job); err != nil {
		return fmt.Errorf("failed to schedule batches: %w", err)
	}
	w.cron.Start()
	go w.job.Run()

	w.log.Info().Dur("interval", w.interval).Msg("Worker started")
	return nil
}

// Stop removes the schedule and waits for an in-flight batch to finish
func (w *Worker) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info().Msg("Worker stopped")
}

// runBatch runs one batch and reports the outcome
func (w *Worker) runBatch() {
	start := time.Now()
	found, saved, err := w.batcher.RunBatch(w.ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("Batch failed")
		return
	}
	w.log.Info().
		Int("found", found).
		Int("saved", saved).
		Dur("elapsed", time.Since(start)).
		Msg("Batch finished")
}

// cronLogger adapts the structured logger to cron's logging interface
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Info().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
