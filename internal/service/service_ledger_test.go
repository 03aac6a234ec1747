package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/mock"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/models"
)

type ledgerTestEnv struct {
	ledger     *mock.MockLedgerRepository
	resolver   *mock.MockConflictResolver
	applier    *mock.MockDomainApplier
	classifier *mock.MockErrorClassificator
	svc        *ledgerService
}

func newTestLedgerSvc(t *testing.T) *ledgerTestEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	env := &ledgerTestEnv{
		ledger:     mock.NewMockLedgerRepository(ctrl),
		resolver:   mock.NewMockConflictResolver(ctrl),
		applier:    mock.NewMockDomainApplier(ctrl),
		classifier: mock.NewMockErrorClassificator(ctrl),
	}

	svc := NewLedgerService(
		env.ledger,
		env.resolver,
		map[string]DomainApplier{EntitySale: env.applier},
		env.classifier,
		logger.Nop(),
	).(*ledgerService)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	env.svc = svc
	return env
}

func saleItem(syncID string, ts time.Time) models.BatchItem {
	return models.BatchItem{
		ID:        syncID,
		Type:      models.TransactionSale,
		BranchID:  7,
		UserID:    42,
		Timestamp: ts,
		Payload:   json.RawMessage(`{"entity_type":"sale","entity_id":"rcpt-1","operation":"create","data":{"total":125.50}}`),
	}
}

func batchOf(items ...models.BatchItem) models.SyncBatchRequest {
	return models.SyncBatchRequest{
		BranchID:     7,
		TerminalID:   "till-1",
		Transactions: items,
		Length:       len(items),
	}
}

func TestLedgerService_ApplyBatch_NewItemProcessed(t *testing.T) {
	env := newTestLedgerSvc(t)
	ts := time.Date(2026, 3, 14, 11, 30, 0, 0, time.UTC)
	item := saleItem("sync-1", ts)

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			assert.Equal(t, "sync-1", entry.SyncID)
			assert.Equal(t, EntitySale, entry.EntityType)
			assert.Equal(t, "rcpt-1", entry.EntityID)
			assert.Equal(t, models.OperationCreate, entry.Operation)
			assert.Equal(t, ts, entry.Timestamp)
			entry.ID = 1
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(models.ApplyResult{Success: true}, nil)
	env.ledger.EXPECT().MarkProcessed(gomock.Any(), "sync-1", env.svc.now())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Length)
	assert.Equal(t, models.BatchItemResult{ID: "sync-1", Accepted: true}, resp.Results[0])
}

func TestLedgerService_ApplyBatch_DuplicateProcessedShortCircuits(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	// already processed: acknowledged without touching the domain again
	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{SyncID: "sync-1", SyncStatus: models.LedgerStatusProcessed}, nil)

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].Accepted)
}

func TestLedgerService_ApplyBatch_DuplicateSupersededShortCircuits(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{SyncID: "sync-1", SyncStatus: models.LedgerStatusSuperseded}, nil)

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	assert.True(t, resp.Results[0].Accepted)
}

func TestLedgerService_ApplyBatch_PendingEntryResumes(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	pending := models.LedgerEntry{
		ID:         3,
		SyncID:     "sync-1",
		EntityType: EntitySale,
		EntityID:   "rcpt-1",
		Operation:  models.OperationCreate,
		SyncStatus: models.LedgerStatusPending,
	}

	// a crashed prior attempt left the row pending: no second insert
	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").Return(pending, nil)
	env.resolver.EXPECT().Superseded(gomock.Any(), pending).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), pending).
		Return(models.ApplyResult{Success: true}, nil)
	env.ledger.EXPECT().MarkProcessed(gomock.Any(), "sync-1", gomock.Any())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	assert.True(t, resp.Results[0].Accepted)
}

func TestLedgerService_ApplyBatch_InsertRaceResumesWinnerRow(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	gone := env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		Return(models.LedgerEntry{}, store.ErrDuplicateSyncID)
	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{SyncID: "sync-1", SyncStatus: models.LedgerStatusProcessed}, nil).
		After(gone)

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	assert.True(t, resp.Results[0].Accepted)
}

func TestLedgerService_ApplyBatch_SupersededByLaterMutation(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(true, nil)
	env.ledger.EXPECT().MarkSuperseded(gomock.Any(), "sync-1")

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	// losing a last-commit-wins conflict is an accepted outcome
	assert.True(t, resp.Results[0].Accepted)
}

func TestLedgerService_ApplyBatch_MalformedPayloadRecordedAndRejected(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := models.BatchItem{
		ID:        "sync-bad",
		Type:      models.TransactionSale,
		BranchID:  7,
		Timestamp: time.Now(),
		Payload:   json.RawMessage(`{"entity_type":`),
	}

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-bad").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			assert.Equal(t, "sync-bad", entry.SyncID)
			return entry, nil
		})
	env.ledger.EXPECT().MarkFailed(gomock.Any(), "sync-bad", gomock.Any())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	result := resp.Results[0]
	assert.False(t, result.Accepted)
	assert.False(t, result.Retryable)
	assert.Contains(t, result.Reason, "invalid mutation descriptor")
}

func TestLedgerService_ApplyBatch_InvalidDescriptorRejected(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := models.BatchItem{
		ID:        "sync-bad",
		Type:      models.TransactionSale,
		BranchID:  7,
		Timestamp: time.Now(),
		Payload:   json.RawMessage(`{"entity_type":"sale","entity_id":"rcpt-1","operation":"upsert"}`),
	}

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-bad").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		Return(models.LedgerEntry{}, nil)
	env.ledger.EXPECT().MarkFailed(gomock.Any(), "sync-bad", gomock.Any())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	assert.False(t, resp.Results[0].Accepted)
	assert.False(t, resp.Results[0].Retryable)
}

func TestLedgerService_ApplyBatch_NoApplierForEntityType(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := models.BatchItem{
		ID:        "sync-1",
		Type:      models.TransactionSale,
		BranchID:  7,
		Timestamp: time.Now(),
		Payload:   json.RawMessage(`{"entity_type":"membership","entity_id":"m-1","operation":"create"}`),
	}

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.ledger.EXPECT().MarkFailed(gomock.Any(), "sync-1", gomock.Any())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	result := resp.Results[0]
	assert.False(t, result.Accepted)
	assert.False(t, result.Retryable)
	assert.Contains(t, result.Reason, "no applier registered")
}

func TestLedgerService_ApplyBatch_RetryableInfraErrorLeavesEntryPending(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())
	infraErr := errors.New("connection reset by peer")

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(models.ApplyResult{}, infraErr)
	env.classifier.EXPECT().Classify(gomock.Any()).Return(store.Retryable)

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	result := resp.Results[0]
	assert.False(t, result.Accepted)
	assert.True(t, result.Retryable)
}

func TestLedgerService_ApplyBatch_NonRetryableInfraErrorRejects(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(models.ApplyResult{}, errors.New("value too long for column"))
	env.classifier.EXPECT().Classify(gomock.Any()).Return(store.NonRetryable)
	env.ledger.EXPECT().MarkFailed(gomock.Any(), "sync-1", gomock.Any())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	assert.False(t, resp.Results[0].Accepted)
	assert.False(t, resp.Results[0].Retryable)
}

func TestLedgerService_ApplyBatch_DomainBusyReportedRetryable(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(models.ApplyResult{Success: false, Retryable: true, ErrorMessage: "row locked"}, nil)

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	result := resp.Results[0]
	assert.False(t, result.Accepted)
	assert.True(t, result.Retryable)
	assert.Equal(t, "row locked", result.Reason)
}

func TestLedgerService_ApplyBatch_DomainRejectionMarksFailed(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(models.ApplyResult{Success: false, Retryable: false, ErrorMessage: "unknown product"}, nil)
	env.ledger.EXPECT().MarkFailed(gomock.Any(), "sync-1", "unknown product")

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	assert.False(t, resp.Results[0].Accepted)
	assert.False(t, resp.Results[0].Retryable)
	assert.Equal(t, "unknown product", resp.Results[0].Reason)
}

func TestLedgerService_ApplyBatch_LookupErrorIsTransient(t *testing.T) {
	env := newTestLedgerSvc(t)
	item := saleItem("sync-1", time.Now())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-1").
		Return(models.LedgerEntry{}, errors.New("connection refused"))

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(item))

	require.NoError(t, err)
	result := resp.Results[0]
	assert.False(t, result.Accepted)
	assert.True(t, result.Retryable)
}

func TestLedgerService_ApplyBatch_OneBadItemDoesNotPoisonBatch(t *testing.T) {
	env := newTestLedgerSvc(t)
	ts := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	good := saleItem("sync-good", ts)
	bad := models.BatchItem{
		ID:        "sync-bad",
		Type:      models.TransactionSale,
		BranchID:  7,
		Timestamp: ts.Add(time.Minute),
		Payload:   json.RawMessage(`not json`),
	}

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-good").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry models.LedgerEntry) (models.LedgerEntry, error) {
			entry.SyncStatus = models.LedgerStatusPending
			return entry, nil
		})
	env.resolver.EXPECT().Superseded(gomock.Any(), gomock.Any()).Return(false, nil)
	env.applier.EXPECT().Apply(gomock.Any(), gomock.Any()).
		Return(models.ApplyResult{Success: true}, nil)
	env.ledger.EXPECT().MarkProcessed(gomock.Any(), "sync-good", gomock.Any())

	env.ledger.EXPECT().GetBySyncID(gomock.Any(), "sync-bad").
		Return(models.LedgerEntry{}, store.ErrLedgerEntryNotFound)
	env.ledger.EXPECT().InsertPending(gomock.Any(), gomock.Any()).
		Return(models.LedgerEntry{}, nil)
	env.ledger.EXPECT().MarkFailed(gomock.Any(), "sync-bad", gomock.Any())

	resp, err := env.svc.ApplyBatch(context.Background(), batchOf(good, bad))

	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "sync-good", resp.Results[0].ID)
	assert.True(t, resp.Results[0].Accepted)
	assert.Equal(t, "sync-bad", resp.Results[1].ID)
	assert.False(t, resp.Results[1].Accepted)
}

func TestLedgerService_ListLedger(t *testing.T) {
	env := newTestLedgerSvc(t)
	want := []models.LedgerEntry{{ID: 1, SyncID: "sync-1", SyncStatus: models.LedgerStatusFailed}}

	env.ledger.EXPECT().ListByStatus(gomock.Any(), models.LedgerStatusFailed, 50).Return(want, nil)

	got, err := env.svc.ListLedger(context.Background(), models.LedgerStatusFailed, 50)

	require.NoError(t, err)
	assert.Equal(t, want, got)
}
