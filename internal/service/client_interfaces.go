package service

import (
	"context"
	"time"

	"github.com/openretail/possync/models"
)

// ClientQueueService defines the agent-side contract for capturing business
// mutations into the durable local queue and for the operator actions on it.
type ClientQueueService interface {
	// Enqueue validates the mutation kind, assigns a sync identifier and the
	// terminal's origin context, and persists the transaction with
	// status=pending. The returned transaction carries the assigned id.
	// Storage failures are returned loudly; a failed enqueue means the sale
	// was NOT captured and the till must surface a blocking error.
	Enqueue(ctx context.Context, txType models.TransactionType, userID int64, payload []byte) (models.QueuedTransaction, error)

	// Counts returns the queue depth per lifecycle status for the operator
	// status surface.
	Counts(ctx context.Context) (models.QueueCounts, error)

	// ListFailed returns all terminally failed transactions, newest first.
	ListFailed(ctx context.Context) ([]models.QueuedTransaction, error)

	// RetryFailed moves every failed item back to pending with a reset retry
	// counter and reports how many were reset. This is the only path by
	// which a terminally failed item becomes dispatchable again.
	RetryFailed(ctx context.Context) (int64, error)

	// PurgeCompleted deletes all completed transactions and reports how many
	// were removed.
	PurgeCompleted(ctx context.Context) (int64, error)
}

// SyncDispatcher drains the local queue toward the branch server, one batch
// in flight at a time.
type SyncDispatcher interface {
	// SyncNow runs one dispatch cycle: drain up to the configured batch size
	// of oldest pending items, submit them, and settle each item according
	// to its per-item result. A transport-level failure is ambiguous; the
	// cycle reverts the batch to pending, backs off, and retries until a
	// definite response arrives or every item exhausts its retry budget.
	//
	// If a cycle is already in flight the call coalesces into it and
	// returns ErrSyncInProgress.
	SyncNow(ctx context.Context) (models.SyncReport, error)
}

// SyncJob is the background trigger feeding the dispatcher: a periodic timer
// plus an explicit kick used by the "sync now" operator action and the
// connectivity-restored event.
type SyncJob interface {
	// Start launches the background goroutine. Any previously running job is
	// stopped first. The goroutine exits when ctx is cancelled or Stop is
	// called.
	Start(ctx context.Context, interval time.Duration)

	// Kick requests an immediate dispatch cycle out of schedule. Kicks
	// arriving while a cycle runs coalesce into at most one follow-up run.
	Kick()

	// Stop signals the background goroutine to exit and blocks until it has
	// fully terminated. Safe to call when the job is not running.
	Stop()
}
