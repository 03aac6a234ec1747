package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/models"
)

// queueRepository is the SQLite-backed implementation of [QueueRepository].
// Every method is a single statement, so each queue mutation is atomic at
// the storage layer and the dispatcher can interleave freely with enqueues
// from the till UI.
type queueRepository struct {
	*ClientDB
	logger *logger.Logger
}

// NewQueueRepository constructs a [QueueRepository] backed by the provided
// local database connection and logger.
func NewQueueRepository(db *ClientDB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		ClientDB: db,
		logger:   logger,
	}
}

// Enqueue implements [QueueRepository].
func (q *queueRepository) Enqueue(ctx context.Context, tx models.QueuedTransaction) error {
	log := logger.FromContext(ctx)

	result, err := q.ExecContext(ctx, enqueueTransaction,
		tx.ID,
		tx.Type,
		tx.BranchID,
		tx.UserID,
		tx.Timestamp,
		[]byte(tx.Payload),
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Enqueue").
			Str("id", tx.ID).
			Str("type", string(tx.Type)).
			Msg("failed to persist queued transaction")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrExecutingStatement
	}

	return nil
}

// ListPending implements [QueueRepository].
func (q *queueRepository) ListPending(ctx context.Context, limit int) ([]models.QueuedTransaction, error) {
	return q.listByStatus(ctx, models.TxStatusPending, limit)
}

// ListFailed implements [QueueRepository].
func (q *queueRepository) ListFailed(ctx context.Context) ([]models.QueuedTransaction, error) {
	return q.listByStatus(ctx, models.TxStatusFailed, 0)
}

func (q *queueRepository) listByStatus(ctx context.Context, status models.TxStatus, limit int) ([]models.QueuedTransaction, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListByStatusQuery(string(status), limit)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.listByStatus").
			Str("status", string(status)).
			Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.listByStatus").
			Str("status", string(status)).
			Msg("failed to execute query for listing queued transactions")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.QueuedTransaction, 0, limit)

	for rows.Next() {
		var item models.QueuedTransaction
		var payload []byte

		scanErr := rows.Scan(
			&item.ID,
			&item.Type,
			&item.BranchID,
			&item.UserID,
			&item.Timestamp,
			&payload,
			&item.Status,
			&item.RetryCount,
			&item.LastError,
			&item.LastAttemptAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "queueRepository.listByStatus").
				Msg("failed to scan queued transaction row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		item.Payload = payload
		results = append(results, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "queueRepository.listByStatus").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// MarkSyncing implements [QueueRepository].
func (q *queueRepository) MarkSyncing(ctx context.Context, id string) error {
	return q.transition(ctx, "queueRepository.MarkSyncing", id, markTransactionSyncing, id)
}

// MarkCompleted implements [QueueRepository].
func (q *queueRepository) MarkCompleted(ctx context.Context, id string) error {
	return q.transition(ctx, "queueRepository.MarkCompleted", id, markTransactionCompleted, id)
}

// MarkFailed implements [QueueRepository].
func (q *queueRepository) MarkFailed(ctx context.Context, id string, errMsg string) error {
	now := time.Now()
	return q.transition(ctx, "queueRepository.MarkFailed", id, markTransactionFailed, errMsg, errMsg, now, id)
}

// RevertToPending implements [QueueRepository].
func (q *queueRepository) RevertToPending(ctx context.Context, id string, errMsg string) error {
	now := time.Now()
	return q.transition(ctx, "queueRepository.RevertToPending", id, revertTransactionToPending, errMsg, errMsg, now, id)
}

// transition executes a status update statement and maps zero affected rows
// to the right sentinel: missing id or illegal source state.
func (q *queueRepository) transition(ctx context.Context, funcName, id, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("id", id).
			Msg("failed to execute status transition")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected > 0 {
		return nil
	}

	var count int
	if err := q.QueryRowContext(ctx, checkTransactionExists, id).Scan(&count); err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if count == 0 {
		log.Error().
			Str("func", funcName).
			Str("id", id).
			Msg("queued transaction not found")
		return ErrTransactionNotFound
	}

	log.Error().
		Str("func", funcName).
		Str("id", id).
		Msg("illegal queue status transition attempted")
	return ErrInvalidStatusTransition
}

// IncrementRetry implements [QueueRepository].
func (q *queueRepository) IncrementRetry(ctx context.Context, id string) (int, error) {
	log := logger.FromContext(ctx)

	result, err := q.ExecContext(ctx, incrementTransactionRetry, id)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.IncrementRetry").
			Str("id", id).
			Msg("failed to increment retry count")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return 0, ErrTransactionNotFound
	}

	var count int
	if err := q.QueryRowContext(ctx, getTransactionRetryCount, id).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrTransactionNotFound
		}
		return 0, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return count, nil
}

// PurgeCompleted implements [QueueRepository].
func (q *queueRepository) PurgeCompleted(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := q.ExecContext(ctx, purgeCompletedTransactions)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.PurgeCompleted").
			Msg("failed to purge completed transactions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return purged, nil
}

// RetryFailed implements [QueueRepository].
func (q *queueRepository) RetryFailed(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := q.ExecContext(ctx, retryFailedTransactions)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.RetryFailed").
			Msg("failed to reset failed transactions")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	reset, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return reset, nil
}

// CountsByStatus implements [QueueRepository].
func (q *queueRepository) CountsByStatus(ctx context.Context) (models.QueueCounts, error) {
	log := logger.FromContext(ctx)

	rows, err := q.QueryContext(ctx, countTransactionsByStatus)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.CountsByStatus").
			Msg("failed to count queued transactions")
		return models.QueueCounts{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var counts models.QueueCounts
	for rows.Next() {
		var status models.TxStatus
		var count int

		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			return models.QueueCounts{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		switch status {
		case models.TxStatusPending:
			counts.Pending = count
		case models.TxStatusSyncing:
			counts.Syncing = count
		case models.TxStatusCompleted:
			counts.Completed = count
		case models.TxStatusFailed:
			counts.Failed = count
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return models.QueueCounts{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return counts, nil
}
