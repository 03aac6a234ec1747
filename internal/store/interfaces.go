package store

import (
	"context"
	"time"

	"github.com/openretail/possync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Implementations inspect driver-specific error codes.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// LedgerRepository is the branch server's append-only sync ledger. Rows are
// created on first receipt of a batch item and updated in place as the apply
// step progresses; they are never deleted.
type LedgerRepository interface {
	// InsertPending records a new ledger entry with sync_status=pending.
	// Returns ErrDuplicateSyncID when the sync id is already recorded;
	// callers re-read the existing entry and continue idempotently.
	InsertPending(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error)

	// GetBySyncID returns the entry for the given sync id, or
	// ErrLedgerEntryNotFound.
	GetBySyncID(ctx context.Context, syncID string) (models.LedgerEntry, error)

	// MarkProcessed transitions an entry to processed and stamps processed_at.
	MarkProcessed(ctx context.Context, syncID string, processedAt time.Time) error

	// MarkFailed transitions an entry to failed with a validation message.
	MarkFailed(ctx context.Context, syncID string, errorMessage string) error

	// MarkSuperseded records that a later-timestamped mutation of the same
	// entity was already applied when this entry arrived.
	MarkSuperseded(ctx context.Context, syncID string) error

	// LatestProcessedForEntity returns the processed entry with the latest
	// origin timestamp for the given entity, or ErrLedgerEntryNotFound.
	LatestProcessedForEntity(ctx context.Context, entityType, entityID string) (models.LedgerEntry, error)

	// ListByStatus returns up to limit entries with the given status,
	// newest first. Used by the operator ledger endpoint.
	ListByStatus(ctx context.Context, status models.LedgerStatus, limit int) ([]models.LedgerEntry, error)
}

// StockRepository adjusts branch stock levels. It is the in-repo domain
// collaborator for inventory-affecting mutations; every adjustment runs in
// its own transaction with a row lock on the product.
type StockRepository interface {
	// AdjustQuantity applies delta to the product's on-hand quantity,
	// creating the stock row if it does not exist. A resulting negative
	// quantity is flagged, not rejected.
	AdjustQuantity(ctx context.Context, productID string, delta float64) (models.StockLevel, error)

	// GetQuantity returns the current stock level for a product, or
	// ErrProductNotFound.
	GetQuantity(ctx context.Context, productID string) (models.StockLevel, error)
}
