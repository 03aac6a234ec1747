package service

import (
	"context"

	"github.com/openretail/possync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// LedgerService is the branch server's entry point for replayed transaction
// batches. It owns idempotency, conflict resolution, and the dispatch of each
// mutation to its domain applier.
type LedgerService interface {
	// ApplyBatch processes every item of the batch in submission order and
	// returns one result per item, in the same order. A sync id that was
	// already processed (or superseded) is acknowledged without reapplying.
	// ApplyBatch itself only fails on request-level problems; per-item
	// failures are carried in the results.
	ApplyBatch(ctx context.Context, req models.SyncBatchRequest) (models.SyncBatchResponse, error)

	// ListLedger returns up to limit ledger entries with the given status,
	// newest first, for the operator audit surface.
	ListLedger(ctx context.Context, status models.LedgerStatus, limit int) ([]models.LedgerEntry, error)
}

// DomainApplier executes the business effect of one ledger entry. This is
// where sales, inventory and expense rules actually run; the ledger treats
// implementations as black boxes interpreting their result along the
// retryable axis.
//
// A non-nil error means the applier could not run at all (infrastructure
// failure); a returned [models.ApplyResult] with Success=false is a business
// verdict.
type DomainApplier interface {
	Apply(ctx context.Context, entry models.LedgerEntry) (models.ApplyResult, error)
}

// ConflictResolver decides whether a ledger entry arriving now has already
// been overtaken by a later mutation of the same entity.
type ConflictResolver interface {
	// Superseded reports whether a processed entry with a strictly later
	// origin timestamp exists for the entry's entity.
	Superseded(ctx context.Context, entry models.LedgerEntry) (bool, error)
}
