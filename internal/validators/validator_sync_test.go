package validators

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/openretail/possync/models"
)

func validItem(id string, ts time.Time) models.BatchItem {
	return models.BatchItem{
		ID:        id,
		Type:      models.TransactionSale,
		BranchID:  7,
		UserID:    3,
		Timestamp: ts,
		Payload:   json.RawMessage(`{"entity_type":"sale","entity_id":"s-1","operation":"create","data":{}}`),
	}
}

func TestSyncValidator_BatchRequest(t *testing.T) {
	v := NewSyncValidator(10)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	valid := models.SyncBatchRequest{
		BranchID:     7,
		TerminalID:   "till-1",
		Transactions: []models.BatchItem{validItem("a", base), validItem("b", base.Add(time.Second))},
		Length:       2,
	}

	tests := []struct {
		name    string
		mutate  func(r *models.SyncBatchRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *models.SyncBatchRequest) {}, wantErr: nil},
		{
			name:    "missing branch",
			mutate:  func(r *models.SyncBatchRequest) { r.BranchID = 0 },
			wantErr: ErrInvalidBranchID,
		},
		{
			name:    "empty transactions",
			mutate:  func(r *models.SyncBatchRequest) { r.Transactions = nil; r.Length = 0 },
			wantErr: ErrEmptyTransactions,
		},
		{
			name:    "length mismatch",
			mutate:  func(r *models.SyncBatchRequest) { r.Length = 5 },
			wantErr: ErrBatchLengthMismatch,
		},
		{
			name: "unordered timestamps",
			mutate: func(r *models.SyncBatchRequest) {
				r.Transactions[0].Timestamp = base.Add(time.Hour)
			},
			wantErr: ErrBatchNotOrdered,
		},
		{
			name: "duplicate ids",
			mutate: func(r *models.SyncBatchRequest) {
				r.Transactions[1].ID = r.Transactions[0].ID
			},
			wantErr: ErrDuplicateIDsInBatch,
		},
		{
			name: "invalid payload json",
			mutate: func(r *models.SyncBatchRequest) {
				r.Transactions[0].Payload = json.RawMessage(`{broken`)
			},
			wantErr: ErrInvalidPayload,
		},
		{
			name: "unknown transaction type",
			mutate: func(r *models.SyncBatchRequest) {
				r.Transactions[0].Type = "refund"
			},
			wantErr: ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.Transactions = append([]models.BatchItem(nil), valid.Transactions...)
			tt.mutate(&req)

			err := v.Validate(ctx, req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSyncValidator_BatchOverCapacity(t *testing.T) {
	v := NewSyncValidator(1)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	req := models.SyncBatchRequest{
		BranchID:     7,
		Transactions: []models.BatchItem{validItem("a", base), validItem("b", base.Add(time.Second))},
		Length:       2,
	}

	assert.ErrorIs(t, v.Validate(context.Background(), req), ErrBatchOverCapacity)
}

func TestSyncValidator_Descriptor(t *testing.T) {
	v := NewSyncValidator(0)
	ctx := context.Background()

	tests := []struct {
		name    string
		desc    models.MutationDescriptor
		wantErr error
	}{
		{
			name: "valid",
			desc: models.MutationDescriptor{EntityType: "inventory", EntityID: "prod-1", Operation: models.OperationUpdate},
		},
		{
			name:    "missing entity type",
			desc:    models.MutationDescriptor{EntityID: "prod-1", Operation: models.OperationUpdate},
			wantErr: ErrEmptyEntityType,
		},
		{
			name:    "missing entity id",
			desc:    models.MutationDescriptor{EntityType: "inventory", Operation: models.OperationUpdate},
			wantErr: ErrEmptyEntityID,
		},
		{
			name:    "bad operation",
			desc:    models.MutationDescriptor{EntityType: "inventory", EntityID: "prod-1", Operation: "merge"},
			wantErr: ErrInvalidOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.desc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSyncValidator_UnsupportedType(t *testing.T) {
	v := NewSyncValidator(0)
	assert.ErrorIs(t, v.Validate(context.Background(), 42), ErrUnsupportedType)
}
