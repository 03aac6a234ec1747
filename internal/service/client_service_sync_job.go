package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openretail/possync/internal/logger"
)

type syncJob struct {
	dispatcher SyncDispatcher
	logger     *logger.Logger

	kick chan struct{}

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSyncJob creates a syncJob that runs the dispatcher on a ticker and on
// explicit kicks. The job is idle until Start is called.
func NewSyncJob(dispatcher SyncDispatcher, logger *logger.Logger) SyncJob {
	return &syncJob{
		dispatcher: dispatcher,
		logger:     logger,
		kick:       make(chan struct{}, 1),
	}
}

// Start implements [SyncJob]. It stops any previously running job, then
// launches a background goroutine that runs a dispatch cycle every interval
// and on every Kick. If interval is zero or negative it defaults to 30
// seconds. The goroutine exits when ctx is cancelled or Stop is called.
func (j *syncJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.run(jobCtx)
			case <-j.kick:
				j.run(jobCtx)
			}
		}
	}()
}

func (j *syncJob) run(ctx context.Context) {
	report, err := j.dispatcher.SyncNow(ctx)
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) || errors.Is(err, context.Canceled) {
			return
		}
		j.logger.Err(err).
			Str("func", "syncJob.run").
			Msg("dispatch cycle finished with error")
		return
	}

	if report.Submitted > 0 {
		j.logger.Info().
			Str("func", "syncJob.run").
			Int("submitted", report.Submitted).
			Int("completed", report.Completed).
			Int("failed", report.Failed).
			Int("reverted", report.Reverted).
			Msg("dispatch cycle finished")
	}
}

// Kick implements [SyncJob]. A kick arriving while the channel already holds
// one pending trigger is dropped; at most one follow-up cycle is queued.
func (j *syncJob) Kick() {
	select {
	case j.kick <- struct{}{}:
	default:
	}
}

// Stop implements [SyncJob]. It cancels the background goroutine's context
// and blocks until the goroutine has fully exited. Safe to call when the job
// is not running (no-op in that case).
func (j *syncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
