package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/internal/validators"
	"github.com/openretail/possync/models"
)

type ledgerService struct {
	ledger     store.LedgerRepository
	resolver   ConflictResolver
	appliers   map[string]DomainApplier
	classifier store.ErrorClassificator
	validator  validators.Validator

	logger *logger.Logger

	now func() time.Time
}

// NewLedgerService constructs a [LedgerService]. The appliers map is keyed by
// entity type; a mutation whose entity type has no registered applier is
// rejected as a validation failure.
func NewLedgerService(ledger store.LedgerRepository, resolver ConflictResolver, appliers map[string]DomainApplier, classifier store.ErrorClassificator, logger *logger.Logger) LedgerService {
	return &ledgerService{
		ledger:     ledger,
		resolver:   resolver,
		appliers:   appliers,
		classifier: classifier,
		validator:  validators.NewSyncValidator(0),
		logger:     logger,
		now:        time.Now,
	}
}

// ApplyBatch implements [LedgerService].
func (s *ledgerService) ApplyBatch(ctx context.Context, req models.SyncBatchRequest) (models.SyncBatchResponse, error) {
	results := make([]models.BatchItemResult, 0, len(req.Transactions))
	for _, item := range req.Transactions {
		results = append(results, s.applyItem(ctx, item))
	}

	return models.SyncBatchResponse{Results: results, Length: len(results)}, nil
}

// ListLedger implements [LedgerService].
func (s *ledgerService) ListLedger(ctx context.Context, status models.LedgerStatus, limit int) ([]models.LedgerEntry, error) {
	return s.ledger.ListByStatus(ctx, status, limit)
}

// applyItem runs the full exactly-once pipeline for one submitted item:
// idempotent short-circuit, ledger recording, conflict resolution, domain
// apply, outcome recording. It never returns an error; every failure mode is
// expressed as a per-item result so one bad item cannot poison its batch.
func (s *ledgerService) applyItem(ctx context.Context, item models.BatchItem) models.BatchItemResult {
	log := logger.FromContext(ctx)

	entry, result, done := s.recordEntry(ctx, item)
	if done {
		return result
	}

	superseded, err := s.resolver.Superseded(ctx, entry)
	if err != nil {
		return s.transientResult(ctx, item.ID, fmt.Errorf("resolve conflict: %w", err))
	}
	if superseded {
		if err = s.ledger.MarkSuperseded(ctx, entry.SyncID); err != nil {
			return s.transientResult(ctx, item.ID, fmt.Errorf("mark superseded: %w", err))
		}
		// Not an error outcome: the submission is acknowledged so the
		// terminal stops retrying, and the entry stays in the ledger for
		// audit.
		return models.BatchItemResult{ID: item.ID, Accepted: true}
	}

	applier, ok := s.appliers[entry.EntityType]
	if !ok {
		return s.rejectEntry(ctx, item.ID, fmt.Errorf("%w: %q", ErrNoApplierRegistered, entry.EntityType))
	}

	applyResult, err := applier.Apply(ctx, entry)
	if err != nil {
		if s.classifier.Classify(err) == store.Retryable {
			// Leave the entry pending: a resubmission of the same sync id
			// resumes it without creating a duplicate row.
			return s.transientResult(ctx, item.ID, fmt.Errorf("domain apply: %w", err))
		}
		return s.rejectEntry(ctx, item.ID, fmt.Errorf("domain apply: %w", err))
	}

	switch {
	case applyResult.Success:
		if err = s.ledger.MarkProcessed(ctx, entry.SyncID, s.now()); err != nil {
			return s.transientResult(ctx, item.ID, fmt.Errorf("mark processed: %w", err))
		}
		return models.BatchItemResult{ID: item.ID, Accepted: true}

	case applyResult.Retryable:
		log.Warn().
			Str("func", "ledgerService.applyItem").
			Str("sync_id", item.ID).
			Str("reason", applyResult.ErrorMessage).
			Msg("domain apply hit transient contention; entry left pending")
		return models.BatchItemResult{ID: item.ID, Accepted: false, Retryable: true, Reason: applyResult.ErrorMessage}

	default:
		return s.rejectEntry(ctx, item.ID, errors.New(applyResult.ErrorMessage))
	}
}

// recordEntry resolves the item against the ledger: it either short-circuits
// (already processed, or invalid) with done=true, or hands back the pending
// entry to apply.
func (s *ledgerService) recordEntry(ctx context.Context, item models.BatchItem) (models.LedgerEntry, models.BatchItemResult, bool) {
	entry, err := s.ledger.GetBySyncID(ctx, item.ID)
	switch {
	case err == nil:
		if result, done := s.shortCircuit(ctx, item.ID, entry); done {
			return models.LedgerEntry{}, result, true
		}
		// A pending or failed entry from a crashed or rejected prior
		// attempt resumes the apply pipeline.
		return entry, models.BatchItemResult{}, false

	case !errors.Is(err, store.ErrLedgerEntryNotFound):
		return models.LedgerEntry{}, s.transientResult(ctx, item.ID, fmt.Errorf("look up sync id: %w", err)), true
	}

	var descriptor models.MutationDescriptor
	if err = json.Unmarshal(item.Payload, &descriptor); err == nil {
		err = s.validator.Validate(ctx, descriptor)
	}
	if err != nil {
		// Record the rejection in the ledger so the audit trail covers
		// malformed submissions too.
		rejected := models.LedgerEntry{
			SyncID:     item.ID,
			EntityType: descriptor.EntityType,
			EntityID:   descriptor.EntityID,
			Operation:  descriptor.Operation,
			Data:       descriptor.Data,
			Timestamp:  item.Timestamp,
		}
		if _, insertErr := s.ledger.InsertPending(ctx, rejected); insertErr != nil && !errors.Is(insertErr, store.ErrDuplicateSyncID) {
			return models.LedgerEntry{}, s.transientResult(ctx, item.ID, fmt.Errorf("record invalid entry: %w", insertErr)), true
		}
		return models.LedgerEntry{}, s.rejectEntry(ctx, item.ID, fmt.Errorf("invalid mutation descriptor: %w", err)), true
	}

	entry = models.LedgerEntry{
		SyncID:     item.ID,
		EntityType: descriptor.EntityType,
		EntityID:   descriptor.EntityID,
		Operation:  descriptor.Operation,
		Data:       descriptor.Data,
		Timestamp:  item.Timestamp,
	}

	inserted, err := s.ledger.InsertPending(ctx, entry)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSyncID) {
			// Lost a race with a concurrent submission of the same sync id;
			// the winner's row decides.
			return s.resumeDuplicate(ctx, item.ID)
		}
		return models.LedgerEntry{}, s.transientResult(ctx, item.ID, fmt.Errorf("insert ledger entry: %w", err)), true
	}

	return inserted, models.BatchItemResult{}, false
}

func (s *ledgerService) resumeDuplicate(ctx context.Context, syncID string) (models.LedgerEntry, models.BatchItemResult, bool) {
	entry, err := s.ledger.GetBySyncID(ctx, syncID)
	if err != nil {
		return models.LedgerEntry{}, s.transientResult(ctx, syncID, fmt.Errorf("re-read duplicate sync id: %w", err)), true
	}
	if result, done := s.shortCircuit(ctx, syncID, entry); done {
		return models.LedgerEntry{}, result, true
	}
	return entry, models.BatchItemResult{}, false
}

// shortCircuit acknowledges entries that need no further work: processed and
// superseded entries are accepted as-is.
func (s *ledgerService) shortCircuit(ctx context.Context, syncID string, entry models.LedgerEntry) (models.BatchItemResult, bool) {
	switch entry.SyncStatus {
	case models.LedgerStatusProcessed, models.LedgerStatusSuperseded:
		logger.FromContext(ctx).Debug().
			Str("func", "ledgerService.shortCircuit").
			Str("sync_id", syncID).
			Str("status", string(entry.SyncStatus)).
			Msg("duplicate submission acknowledged without reapplying")
		return models.BatchItemResult{ID: syncID, Accepted: true}, true
	default:
		return models.BatchItemResult{}, false
	}
}

// rejectEntry marks the entry terminally failed and reports a non-retryable
// rejection. The terminal will park the item for operator review.
func (s *ledgerService) rejectEntry(ctx context.Context, syncID string, cause error) models.BatchItemResult {
	log := logger.FromContext(ctx)

	if err := s.ledger.MarkFailed(ctx, syncID, cause.Error()); err != nil {
		log.Err(err).
			Str("func", "ledgerService.rejectEntry").
			Str("sync_id", syncID).
			Msg("failed to record rejection in ledger")
	}

	log.Warn().
		Str("func", "ledgerService.rejectEntry").
		Str("sync_id", syncID).
		Str("reason", cause.Error()).
		Msg("mutation rejected")

	return models.BatchItemResult{ID: syncID, Accepted: false, Retryable: false, Reason: cause.Error()}
}

// transientResult reports a retryable per-item failure without touching the
// ledger row, so the same sync id can be resubmitted later.
func (s *ledgerService) transientResult(ctx context.Context, syncID string, cause error) models.BatchItemResult {
	logger.FromContext(ctx).Err(cause).
		Str("func", "ledgerService.transientResult").
		Str("sync_id", syncID).
		Msg("transient failure while applying item")

	return models.BatchItemResult{ID: syncID, Accepted: false, Retryable: true, Reason: cause.Error()}
}
