package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/openretail/possync/internal/adapter"
	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/models"
)

// backoffSchedule is indexed by the number of consecutive ambiguous delivery
// attempts already made for the current batch; attempts beyond the schedule
// reuse the last delay.
var backoffSchedule = []time.Duration{1 * time.Second, 5 * time.Second, 15 * time.Second}

type syncDispatcher struct {
	queue    store.QueueRepository
	adapter  adapter.ServerAdapter
	identity config.ClientIdentity

	batchSize  int
	maxRetries int

	inFlight atomic.Bool

	logger *logger.Logger

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewSyncDispatcher constructs a [SyncDispatcher] draining the given queue
// through the server adapter. Zero or negative tuning values fall back to a
// batch of 10 and a budget of 3 attempts.
func NewSyncDispatcher(queue store.QueueRepository, serverAdapter adapter.ServerAdapter, identity config.ClientIdentity, cfg config.ClientDispatcher, logger *logger.Logger) SyncDispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}

	return &syncDispatcher{
		queue:      queue,
		adapter:    serverAdapter,
		identity:   identity,
		batchSize:  cfg.BatchSize,
		maxRetries: cfg.MaxRetries,
		logger:     logger,
		sleep:      sleepCtx,
	}
}

// SyncNow implements [SyncDispatcher]. Only one cycle runs at a time per
// process; the queue is drained oldest first so the server observes each
// branch's mutations in origin order.
func (d *syncDispatcher) SyncNow(ctx context.Context) (models.SyncReport, error) {
	if !d.inFlight.CompareAndSwap(false, true) {
		return models.SyncReport{}, ErrSyncInProgress
	}
	defer d.inFlight.Store(false)

	log := logger.FromContext(ctx)

	var report models.SyncReport

	for attempt := 0; ; attempt++ {
		batch, err := d.queue.ListPending(ctx, d.batchSize)
		if err != nil {
			return report, fmt.Errorf("list pending transactions: %w", err)
		}
		if len(batch) == 0 {
			return report, nil
		}

		marked, err := d.markBatchSyncing(ctx, batch)
		if err != nil {
			return report, err
		}
		if len(marked) == 0 {
			return report, nil
		}
		if attempt == 0 {
			report.Submitted = len(marked)
		}

		report.Attempts++
		resp, submitErr := d.adapter.SubmitBatch(ctx, d.buildRequest(marked))
		if submitErr == nil {
			d.settleResults(ctx, marked, resp.Results, &report)
			return report, nil
		}

		// No trustworthy per-item outcome: the server may or may not have
		// applied any of these. Revert and resubmit the same sync ids,
		// relying on server-side idempotency.
		log.Warn().
			Str("func", "syncDispatcher.SyncNow").
			Int("batch", len(marked)).
			Int("attempt", attempt+1).
			Err(submitErr).
			Msg("batch delivery ambiguous; reverting items to pending")

		remaining, err := d.revertBatch(ctx, marked, submitErr, &report)
		if err != nil {
			return report, err
		}
		if remaining == 0 {
			return report, fmt.Errorf("submit batch: %w", submitErr)
		}

		delay := backoffSchedule[min(attempt, len(backoffSchedule)-1)]
		if err = d.sleep(ctx, delay); err != nil {
			return report, err
		}
	}
}

func (d *syncDispatcher) markBatchSyncing(ctx context.Context, batch []models.QueuedTransaction) ([]models.QueuedTransaction, error) {
	log := logger.FromContext(ctx)

	marked := make([]models.QueuedTransaction, 0, len(batch))
	for _, tx := range batch {
		if err := d.queue.MarkSyncing(ctx, tx.ID); err != nil {
			// A concurrent operator action may have moved the item; skip it
			// rather than fail the whole cycle.
			log.Warn().
				Str("func", "syncDispatcher.markBatchSyncing").
				Str("id", tx.ID).
				Err(err).
				Msg("skipping item not in pending state")
			continue
		}
		marked = append(marked, tx)
	}

	return marked, nil
}

func (d *syncDispatcher) buildRequest(batch []models.QueuedTransaction) models.SyncBatchRequest {
	items := make([]models.BatchItem, 0, len(batch))
	for _, tx := range batch {
		items = append(items, models.BatchItem{
			ID:        tx.ID,
			Type:      tx.Type,
			BranchID:  tx.BranchID,
			UserID:    tx.UserID,
			Timestamp: tx.Timestamp,
			Payload:   tx.Payload,
		})
	}

	return models.SyncBatchRequest{
		BranchID:     d.identity.BranchID,
		TerminalID:   d.identity.TerminalID,
		Transactions: items,
		Length:       len(items),
	}
}

// settleResults applies per-item verdicts from a definite server response.
// An accepted item is done even when the server resolved it as superseded;
// a non-retryable rejection is terminal; a retryable rejection goes back to
// pending and consumes one unit of the item's retry budget.
func (d *syncDispatcher) settleResults(ctx context.Context, batch []models.QueuedTransaction, results []models.BatchItemResult, report *models.SyncReport) {
	log := logger.FromContext(ctx)

	for i, tx := range batch {
		result := results[i]

		switch {
		case result.Accepted:
			if err := d.queue.MarkCompleted(ctx, tx.ID); err != nil {
				log.Err(err).
					Str("func", "syncDispatcher.settleResults").
					Str("id", tx.ID).
					Msg("failed to mark accepted item completed")
				continue
			}
			report.Completed++

		case result.Retryable:
			d.parkOrRevert(ctx, tx, result.Reason, report)

		default:
			if err := d.queue.MarkFailed(ctx, tx.ID, result.Reason); err != nil {
				log.Err(err).
					Str("func", "syncDispatcher.settleResults").
					Str("id", tx.ID).
					Msg("failed to mark rejected item failed")
				continue
			}
			log.Warn().
				Str("func", "syncDispatcher.settleResults").
				Str("id", tx.ID).
				Str("reason", result.Reason).
				Msg("transaction rejected by server; parked for operator")
			report.Failed++
		}
	}
}

// revertBatch handles an ambiguous delivery: every item goes back to pending
// unless its retry budget is exhausted, in which case it is parked as failed.
// Returns the number of items still dispatchable.
func (d *syncDispatcher) revertBatch(ctx context.Context, batch []models.QueuedTransaction, cause error, report *models.SyncReport) (int, error) {
	remaining := 0
	for _, tx := range batch {
		if d.parkOrRevert(ctx, tx, cause.Error(), report) {
			remaining++
		}
	}
	return remaining, nil
}

// parkOrRevert returns the item to pending or, when the retry budget is
// spent, parks it terminally. Reports whether the item is still dispatchable.
func (d *syncDispatcher) parkOrRevert(ctx context.Context, tx models.QueuedTransaction, reason string, report *models.SyncReport) bool {
	log := logger.FromContext(ctx)

	count, err := d.queue.IncrementRetry(ctx, tx.ID)
	if err != nil {
		log.Err(err).
			Str("func", "syncDispatcher.parkOrRevert").
			Str("id", tx.ID).
			Msg("failed to increment retry count")
		count = tx.RetryCount + 1
	}

	if count >= d.maxRetries {
		msg := fmt.Sprintf("retry budget exhausted after %d attempts: %s", count, reason)
		if err = d.queue.MarkFailed(ctx, tx.ID, msg); err != nil {
			log.Err(err).
				Str("func", "syncDispatcher.parkOrRevert").
				Str("id", tx.ID).
				Msg("failed to park exhausted item")
			return false
		}
		log.Error().
			Str("func", "syncDispatcher.parkOrRevert").
			Str("id", tx.ID).
			Int("retry_count", count).
			Msg("transaction moved to terminal failed state; operator action required")
		report.Failed++
		return false
	}

	if err = d.queue.RevertToPending(ctx, tx.ID, reason); err != nil {
		log.Err(err).
			Str("func", "syncDispatcher.parkOrRevert").
			Str("id", tx.ID).
			Msg("failed to revert item to pending")
		return false
	}
	report.Reverted++
	return true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
