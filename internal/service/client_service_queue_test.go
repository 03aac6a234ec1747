package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/mock"
	"github.com/openretail/possync/models"
)

func newTestQueueSvc(t *testing.T, ctrl *gomock.Controller) (*clientQueueService, *mock.MockQueueRepository) {
	t.Helper()

	mockQueue := mock.NewMockQueueRepository(ctrl)
	identity := config.ClientIdentity{BranchID: 7, TerminalID: "till-1"}

	svc := NewClientQueueService(mockQueue, identity, logger.Nop()).(*clientQueueService)
	svc.now = func() time.Time { return time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC) }

	return svc, mockQueue
}

func TestClientQueueService_Enqueue_AssignsIDAndIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockQueue := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	var captured models.QueuedTransaction
	mockQueue.EXPECT().
		Enqueue(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, tx models.QueuedTransaction) error {
			captured = tx
			return nil
		})

	got, err := svc.Enqueue(ctx, models.TransactionSale, 3, []byte(`{"entity_type":"sale","entity_id":"s-1","operation":"create","data":{}}`))
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, got.ID, captured.ID)
	assert.Equal(t, models.TransactionSale, captured.Type)
	assert.Equal(t, int64(7), captured.BranchID)
	assert.Equal(t, int64(3), captured.UserID)
	assert.Equal(t, models.TxStatusPending, captured.Status)
	assert.Equal(t, svc.now(), captured.Timestamp)
}

func TestClientQueueService_Enqueue_GeneratesUniqueIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockQueue := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockQueue.EXPECT().Enqueue(ctx, gomock.Any()).Return(nil).Times(2)

	first, err := svc.Enqueue(ctx, models.TransactionSale, 3, []byte(`{}`))
	require.NoError(t, err)
	second, err := svc.Enqueue(ctx, models.TransactionSale, 3, []byte(`{}`))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestClientQueueService_Enqueue_RejectsUnknownType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestQueueSvc(t, ctrl)

	_, err := svc.Enqueue(context.Background(), "refund", 3, []byte(`{}`))
	assert.ErrorIs(t, err, ErrValidationInvalidTransactionType)
}

func TestClientQueueService_Enqueue_RejectsEmptyPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestQueueSvc(t, ctrl)

	_, err := svc.Enqueue(context.Background(), models.TransactionSale, 3, nil)
	assert.ErrorIs(t, err, ErrValidationEmptyPayload)
}

func TestClientQueueService_Enqueue_StorageFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockQueue := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockQueue.EXPECT().Enqueue(ctx, gomock.Any()).Return(assert.AnError)

	_, err := svc.Enqueue(ctx, models.TransactionSale, 3, []byte(`{}`))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestClientQueueService_RetryFailed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockQueue := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockQueue.EXPECT().RetryFailed(ctx).Return(int64(4), nil)

	reset, err := svc.RetryFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), reset)
}

func TestClientQueueService_Counts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockQueue := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	want := models.QueueCounts{Pending: 2, Failed: 1}
	mockQueue.EXPECT().CountsByStatus(ctx).Return(want, nil)

	got, err := svc.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientQueueService_PurgeCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockQueue := newTestQueueSvc(t, ctrl)
	ctx := context.Background()

	mockQueue.EXPECT().PurgeCompleted(ctx).Return(int64(9), nil)

	purged, err := svc.PurgeCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(9), purged)
}
