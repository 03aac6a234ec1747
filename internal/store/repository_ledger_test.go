package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/models"
)

func newTestLedgerRepo(t *testing.T) (*ledgerRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	storeDB := &DB{DB: db, errorClassificator: NewPostgresErrorClassifier(), logger: logger.Nop()}
	repo := NewLedgerRepository(storeDB, logger.Nop()).(*ledgerRepository)

	return repo, mock
}

func sampleLedgerEntry() models.LedgerEntry {
	return models.LedgerEntry{
		SyncID:     "1735000000000-abcdef12",
		EntityType: "inventory",
		EntityID:   "prod-42",
		Operation:  models.OperationUpdate,
		Data:       json.RawMessage(`{"product_id":"prod-42","delta":-2}`),
		Timestamp:  time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestLedgerRepository_InsertPending_Success(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)
	entry := sampleLedgerEntry()

	mock.ExpectQuery(insertLedgerEntry).
		WithArgs(entry.SyncID, entry.EntityType, entry.EntityID, entry.Operation, []byte(entry.Data), entry.Timestamp).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	got, err := repo.InsertPending(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.ID)
	assert.Equal(t, models.LedgerStatusPending, got.SyncStatus)
}

func TestLedgerRepository_InsertPending_DuplicateSyncID(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)
	entry := sampleLedgerEntry()

	mock.ExpectQuery(insertLedgerEntry).
		WithArgs(entry.SyncID, entry.EntityType, entry.EntityID, entry.Operation, []byte(entry.Data), entry.Timestamp).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.InsertPending(context.Background(), entry)
	assert.ErrorIs(t, err, ErrDuplicateSyncID)
}

func TestLedgerRepository_GetBySyncID_Found(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)
	processedAt := time.Date(2026, 8, 1, 12, 0, 5, 0, time.UTC)

	rows := sqlmock.NewRows(ledgerColumns).
		AddRow(int64(11), "sync-1", "inventory", "prod-42", "update", []byte(`{}`),
			time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC), "processed", &processedAt, "")

	mock.ExpectQuery(getLedgerEntryBySyncID).WithArgs("sync-1").WillReturnRows(rows)

	entry, err := repo.GetBySyncID(context.Background(), "sync-1")
	require.NoError(t, err)
	assert.Equal(t, models.LedgerStatusProcessed, entry.SyncStatus)
	require.NotNil(t, entry.ProcessedAt)
	assert.True(t, processedAt.Equal(*entry.ProcessedAt))
}

func TestLedgerRepository_GetBySyncID_NotFound(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)

	mock.ExpectQuery(getLedgerEntryBySyncID).WithArgs("sync-gone").
		WillReturnRows(sqlmock.NewRows(ledgerColumns))

	_, err := repo.GetBySyncID(context.Background(), "sync-gone")
	assert.ErrorIs(t, err, ErrLedgerEntryNotFound)
}

func TestLedgerRepository_MarkProcessed(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)
	processedAt := time.Now()

	mock.ExpectExec(markLedgerProcessed).
		WithArgs(processedAt, "sync-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkProcessed(context.Background(), "sync-1", processedAt))
}

func TestLedgerRepository_MarkFailed(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)

	mock.ExpectExec(markLedgerFailed).
		WithArgs("unknown entity type", "sync-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), "sync-1", "unknown entity type"))
}

func TestLedgerRepository_MarkSuperseded_MissingEntry(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)

	mock.ExpectExec(markLedgerSuperseded).
		WithArgs("sync-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkSuperseded(context.Background(), "sync-gone")
	assert.ErrorIs(t, err, ErrLedgerEntryNotFound)
}

func TestLedgerRepository_LatestProcessedForEntity(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)
	processedAt := time.Date(2026, 8, 1, 12, 0, 5, 0, time.UTC)

	rows := sqlmock.NewRows(ledgerColumns).
		AddRow(int64(9), "sync-9", "inventory", "prod-42", "update", []byte(`{}`),
			time.Date(2026, 8, 1, 11, 59, 0, 0, time.UTC), "processed", &processedAt, "")

	mock.ExpectQuery(latestProcessedForEntity).
		WithArgs("inventory", "prod-42").
		WillReturnRows(rows)

	entry, err := repo.LatestProcessedForEntity(context.Background(), "inventory", "prod-42")
	require.NoError(t, err)
	assert.Equal(t, "sync-9", entry.SyncID)
}

func TestLedgerRepository_LatestProcessedForEntity_NoHistory(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)

	mock.ExpectQuery(latestProcessedForEntity).
		WithArgs("inventory", "prod-never").
		WillReturnRows(sqlmock.NewRows(ledgerColumns))

	_, err := repo.LatestProcessedForEntity(context.Background(), "inventory", "prod-never")
	assert.ErrorIs(t, err, ErrLedgerEntryNotFound)
}

func TestLedgerRepository_ListByStatus(t *testing.T) {
	repo, mock := newTestLedgerRepo(t)

	query, _, err := buildListLedgerByStatusQuery("failed", 50)
	require.NoError(t, err)

	rows := sqlmock.NewRows(ledgerColumns).
		AddRow(int64(3), "sync-3", "sale", "s-3", "create", []byte(`{}`),
			time.Date(2026, 8, 1, 12, 2, 0, 0, time.UTC), "failed", nil, "unknown entity type")

	mock.ExpectQuery(query).WithArgs("failed").WillReturnRows(rows)

	entries, err := repo.ListByStatus(context.Background(), models.LedgerStatusFailed, 50)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unknown entity type", entries[0].ErrorMessage)
}
