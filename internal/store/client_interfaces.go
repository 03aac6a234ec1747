package store

import (
	"context"

	"github.com/openretail/possync/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// QueueRepository is the terminal's durable local transaction queue.
//
// Every operation is a single atomic statement at the storage layer, so a
// read-modify-write from the dispatcher cannot interleave destructively with
// a concurrent enqueue from the till UI. Status transition methods encode
// the allowed source states in their WHERE clauses and return
// ErrInvalidStatusTransition when the item exists but is not in an accepted
// state, keeping the lifecycle monotonic.
//
// Storage failures are returned loudly; the queue never drops a mutation
// silently.
type QueueRepository interface {
	// Enqueue persists a new transaction with status=pending, retry_count=0.
	Enqueue(ctx context.Context, tx models.QueuedTransaction) error

	// ListPending returns up to limit pending transactions sorted ascending
	// by origin timestamp. Safe to call repeatedly; it has no side effects.
	ListPending(ctx context.Context, limit int) ([]models.QueuedTransaction, error)

	// ListFailed returns all terminally failed transactions, newest first,
	// for the operator surface.
	ListFailed(ctx context.Context) ([]models.QueuedTransaction, error)

	// MarkSyncing transitions pending → syncing.
	MarkSyncing(ctx context.Context, id string) error

	// MarkCompleted transitions syncing → completed.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed transitions syncing → failed (terminal), stamping
	// last_attempt_at and appending errMsg to last_error.
	MarkFailed(ctx context.Context, id string, errMsg string) error

	// RevertToPending transitions syncing → pending after an ambiguous
	// delivery outcome, stamping last_attempt_at and appending errMsg to
	// last_error. The item stays eligible for the next dispatch cycle.
	RevertToPending(ctx context.Context, id string, errMsg string) error

	// IncrementRetry bumps the retry counter and returns the new value.
	IncrementRetry(ctx context.Context, id string) (int, error)

	// PurgeCompleted deletes all completed transactions and reports how many
	// were removed. Failed items are never purged here.
	PurgeCompleted(ctx context.Context) (int64, error)

	// RetryFailed is the manual operator action moving every failed item
	// back to pending with a reset retry counter.
	RetryFailed(ctx context.Context) (int64, error)

	// CountsByStatus returns the queue depth per status.
	CountsByStatus(ctx context.Context) (models.QueueCounts, error)
}
