package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretail/possync/internal/logger"
)

func newTestStockRepo(t *testing.T) (*stockRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	storeDB := &DB{DB: db, errorClassificator: NewPostgresErrorClassifier(), logger: logger.Nop()}
	repo := NewStockRepository(storeDB, logger.Nop()).(*stockRepository)

	return repo, mock
}

func TestStockRepository_AdjustQuantity_Decrement(t *testing.T) {
	repo, mock := newTestStockRepo(t)
	updatedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(upsertStockRow).
		WithArgs("prod-42").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectStockForUpdate).
		WithArgs("prod-42").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "negative", "updated_at"}).
			AddRow("prod-42", 10.0, false, updatedAt))
	mock.ExpectQuery(updateStockQuantity).
		WithArgs(8.0, false, "prod-42").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "negative", "updated_at"}).
			AddRow("prod-42", 8.0, false, updatedAt))
	mock.ExpectCommit()

	level, err := repo.AdjustQuantity(context.Background(), "prod-42", -2)
	require.NoError(t, err)
	assert.Equal(t, 8.0, level.Quantity)
	assert.False(t, level.Negative)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockRepository_AdjustQuantity_GoesNegative_FlaggedNotRejected(t *testing.T) {
	repo, mock := newTestStockRepo(t)
	updatedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(upsertStockRow).
		WithArgs("prod-42").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectStockForUpdate).
		WithArgs("prod-42").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "negative", "updated_at"}).
			AddRow("prod-42", 1.0, false, updatedAt))
	mock.ExpectQuery(updateStockQuantity).
		WithArgs(-4.0, true, "prod-42").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "negative", "updated_at"}).
			AddRow("prod-42", -4.0, true, updatedAt))
	mock.ExpectCommit()

	level, err := repo.AdjustQuantity(context.Background(), "prod-42", -5)
	require.NoError(t, err)
	assert.Equal(t, -4.0, level.Quantity)
	assert.True(t, level.Negative)
}

func TestStockRepository_AdjustQuantity_LockFailure_RollsBack(t *testing.T) {
	repo, mock := newTestStockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(upsertStockRow).
		WithArgs("prod-42").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectStockForUpdate).
		WithArgs("prod-42").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.AdjustQuantity(context.Background(), "prod-42", -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScanningRow)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStockRepository_GetQuantity_NotFound(t *testing.T) {
	repo, mock := newTestStockRepo(t)

	mock.ExpectQuery(selectStockQuantity).
		WithArgs("prod-gone").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "negative", "updated_at"}))

	_, err := repo.GetQuantity(context.Background(), "prod-gone")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
