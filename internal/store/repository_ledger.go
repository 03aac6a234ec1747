package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/models"
)

// ledgerRepository is the PostgreSQL-backed implementation of
// [LedgerRepository]. It executes all sync-ledger operations directly against
// the "sync_queue" table using the embedded [*DB] connection.
//
// Public methods obtain a context-scoped logger via [logger.FromContext] so
// that all database interactions are traced with structured fields (sync_id,
// entity, etc.).
type ledgerRepository struct {
	*DB
	logger *logger.Logger
}

// NewLedgerRepository constructs a [LedgerRepository] backed by the provided
// database connection and logger.
func NewLedgerRepository(db *DB, logger *logger.Logger) LedgerRepository {
	return &ledgerRepository{
		DB:     db,
		logger: logger,
	}
}

// InsertPending implements [LedgerRepository]. The UNIQUE constraint on
// sync_id is the sole serialization point for duplicate detection: two
// terminals racing on the same sync id resolve here, and the loser re-reads
// the winner's row.
func (l *ledgerRepository) InsertPending(ctx context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
	log := logger.FromContext(ctx)

	data := []byte(entry.Data)
	if len(data) == 0 {
		data = []byte("{}")
	}

	err := l.QueryRowContext(ctx, insertLedgerEntry,
		entry.SyncID,
		entry.EntityType,
		entry.EntityID,
		entry.Operation,
		data,
		entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return models.LedgerEntry{}, fmt.Errorf("%w: %s", ErrDuplicateSyncID, entry.SyncID)
		}

		log.Err(err).
			Str("func", "ledgerRepository.InsertPending").
			Str("sync_id", entry.SyncID).
			Msg("failed to insert ledger entry")
		return models.LedgerEntry{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	entry.SyncStatus = models.LedgerStatusPending
	return entry, nil
}

// GetBySyncID implements [LedgerRepository].
func (l *ledgerRepository) GetBySyncID(ctx context.Context, syncID string) (models.LedgerEntry, error) {
	log := logger.FromContext(ctx)

	entry, err := l.scanEntry(l.QueryRowContext(ctx, getLedgerEntryBySyncID, syncID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LedgerEntry{}, ErrLedgerEntryNotFound
		}

		log.Err(err).
			Str("func", "ledgerRepository.GetBySyncID").
			Str("sync_id", syncID).
			Msg("failed to read ledger entry")
		return models.LedgerEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

// MarkProcessed implements [LedgerRepository].
func (l *ledgerRepository) MarkProcessed(ctx context.Context, syncID string, processedAt time.Time) error {
	return l.updateStatus(ctx, "ledgerRepository.MarkProcessed", syncID, markLedgerProcessed, processedAt, syncID)
}

// MarkFailed implements [LedgerRepository].
func (l *ledgerRepository) MarkFailed(ctx context.Context, syncID string, errorMessage string) error {
	return l.updateStatus(ctx, "ledgerRepository.MarkFailed", syncID, markLedgerFailed, errorMessage, syncID)
}

// MarkSuperseded implements [LedgerRepository].
func (l *ledgerRepository) MarkSuperseded(ctx context.Context, syncID string) error {
	return l.updateStatus(ctx, "ledgerRepository.MarkSuperseded", syncID, markLedgerSuperseded, syncID)
}

func (l *ledgerRepository) updateStatus(ctx context.Context, funcName, syncID, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := l.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", funcName).
			Str("sync_id", syncID).
			Msg("failed to update ledger entry status")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrLedgerEntryNotFound
	}

	return nil
}

// LatestProcessedForEntity implements [LedgerRepository].
func (l *ledgerRepository) LatestProcessedForEntity(ctx context.Context, entityType, entityID string) (models.LedgerEntry, error) {
	log := logger.FromContext(ctx)

	entry, err := l.scanEntry(l.QueryRowContext(ctx, latestProcessedForEntity, entityType, entityID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LedgerEntry{}, ErrLedgerEntryNotFound
		}

		log.Err(err).
			Str("func", "ledgerRepository.LatestProcessedForEntity").
			Str("entity_type", entityType).
			Str("entity_id", entityID).
			Msg("failed to read latest processed entry")
		return models.LedgerEntry{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return entry, nil
}

// ListByStatus implements [LedgerRepository].
func (l *ledgerRepository) ListByStatus(ctx context.Context, status models.LedgerStatus, limit int) ([]models.LedgerEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListLedgerByStatusQuery(string(status), limit)
	if err != nil {
		log.Err(err).
			Str("func", "ledgerRepository.ListByStatus").
			Str("status", string(status)).
			Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := l.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "ledgerRepository.ListByStatus").
			Str("status", string(status)).
			Msg("failed to execute ledger listing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.LedgerEntry, 0, limit)

	for rows.Next() {
		entry, scanErr := l.scanEntry(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "ledgerRepository.ListByStatus").
				Msg("failed to scan ledger entry row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "ledgerRepository.ListByStatus").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func (l *ledgerRepository) scanEntry(row rowScanner) (models.LedgerEntry, error) {
	var entry models.LedgerEntry
	var data []byte

	err := row.Scan(
		&entry.ID,
		&entry.SyncID,
		&entry.EntityType,
		&entry.EntityID,
		&entry.Operation,
		&data,
		&entry.Timestamp,
		&entry.SyncStatus,
		&entry.ProcessedAt,
		&entry.ErrorMessage,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	entry.Data = data
	return entry, nil
}
