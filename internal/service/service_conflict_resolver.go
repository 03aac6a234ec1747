package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/models"
)

// lastCommitWinsResolver implements [ConflictResolver] with the
// last-commit-wins policy: the entry with the later origin timestamp is
// authoritative. Ties apply in arrival order, so an equal-timestamp entry is
// not superseded.
type lastCommitWinsResolver struct {
	ledger store.LedgerRepository
	logger *logger.Logger
}

// NewLastCommitWinsResolver constructs the default [ConflictResolver] backed
// by the ledger's processed history.
func NewLastCommitWinsResolver(ledger store.LedgerRepository, logger *logger.Logger) ConflictResolver {
	return &lastCommitWinsResolver{ledger: ledger, logger: logger}
}

// Superseded implements [ConflictResolver].
func (r *lastCommitWinsResolver) Superseded(ctx context.Context, entry models.LedgerEntry) (bool, error) {
	latest, err := r.ledger.LatestProcessedForEntity(ctx, entry.EntityType, entry.EntityID)
	if err != nil {
		if errors.Is(err, store.ErrLedgerEntryNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load latest processed entry: %w", err)
	}

	if !latest.Timestamp.After(entry.Timestamp) {
		return false, nil
	}

	logger.FromContext(ctx).Info().
		Str("func", "lastCommitWinsResolver.Superseded").
		Str("sync_id", entry.SyncID).
		Str("entity_type", entry.EntityType).
		Str("entity_id", entry.EntityID).
		Str("winner_sync_id", latest.SyncID).
		Msg("entry superseded by later mutation of the same entity")

	return true, nil
}
