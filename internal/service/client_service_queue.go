package service

import (
	"context"
	"fmt"
	"time"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/internal/utils"
	"github.com/openretail/possync/models"
)

type clientQueueService struct {
	queue    store.QueueRepository
	identity config.ClientIdentity
	ids      *utils.SyncIDGenerator

	logger *logger.Logger

	now func() time.Time
}

// NewClientQueueService constructs a [ClientQueueService] writing to the given
// durable queue with the terminal's origin identity.
func NewClientQueueService(queue store.QueueRepository, identity config.ClientIdentity, logger *logger.Logger) ClientQueueService {
	return &clientQueueService{
		queue:    queue,
		identity: identity,
		ids:      utils.NewSyncIDGenerator(),
		logger:   logger,
		now:      time.Now,
	}
}

// Enqueue implements [ClientQueueService].
func (c *clientQueueService) Enqueue(ctx context.Context, txType models.TransactionType, userID int64, payload []byte) (models.QueuedTransaction, error) {
	log := logger.FromContext(ctx)

	if !txType.Valid() {
		return models.QueuedTransaction{}, fmt.Errorf("%w: %q", ErrValidationInvalidTransactionType, txType)
	}
	if len(payload) == 0 {
		return models.QueuedTransaction{}, ErrValidationEmptyPayload
	}
	if c.identity.BranchID == 0 {
		return models.QueuedTransaction{}, ErrValidationNoBranchID
	}

	tx := models.QueuedTransaction{
		ID:        c.ids.Generate(),
		Type:      txType,
		BranchID:  c.identity.BranchID,
		UserID:    userID,
		Timestamp: c.now(),
		Payload:   payload,
		Status:    models.TxStatusPending,
	}

	if err := c.queue.Enqueue(ctx, tx); err != nil {
		log.Err(err).
			Str("func", "clientQueueService.Enqueue").
			Str("id", tx.ID).
			Str("type", string(txType)).
			Msg("failed to capture transaction; mutation is NOT queued")
		return models.QueuedTransaction{}, fmt.Errorf("enqueue transaction: %w", err)
	}

	log.Debug().
		Str("func", "clientQueueService.Enqueue").
		Str("id", tx.ID).
		Str("type", string(txType)).
		Msg("transaction captured")

	return tx, nil
}

// Counts implements [ClientQueueService].
func (c *clientQueueService) Counts(ctx context.Context) (models.QueueCounts, error) {
	return c.queue.CountsByStatus(ctx)
}

// ListFailed implements [ClientQueueService].
func (c *clientQueueService) ListFailed(ctx context.Context) ([]models.QueuedTransaction, error) {
	return c.queue.ListFailed(ctx)
}

// RetryFailed implements [ClientQueueService].
func (c *clientQueueService) RetryFailed(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	reset, err := c.queue.RetryFailed(ctx)
	if err != nil {
		return 0, fmt.Errorf("retry failed transactions: %w", err)
	}

	if reset > 0 {
		log.Info().
			Str("func", "clientQueueService.RetryFailed").
			Int64("reset", reset).
			Msg("failed transactions returned to pending by operator action")
	}

	return reset, nil
}

// PurgeCompleted implements [ClientQueueService].
func (c *clientQueueService) PurgeCompleted(ctx context.Context) (int64, error) {
	purged, err := c.queue.PurgeCompleted(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge completed transactions: %w", err)
	}
	return purged, nil
}
