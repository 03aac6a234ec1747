package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/models"
)

// stockRepository is the PostgreSQL-backed implementation of
// [StockRepository]. Adjustments run inside a per-product transaction with a
// row lock, so concurrent decrements from several terminals serialize on the
// product row rather than on any broad lock.
type stockRepository struct {
	*DB
	logger *logger.Logger
}

// NewStockRepository constructs a [StockRepository] backed by the provided
// database connection and logger.
func NewStockRepository(db *DB, logger *logger.Logger) StockRepository {
	return &stockRepository{
		DB:     db,
		logger: logger,
	}
}

// AdjustQuantity implements [StockRepository]. A resulting negative quantity
// is recorded and flagged, never rejected: overselling is a business state
// the branch reconciles, not a storage error.
func (s *stockRepository) AdjustQuantity(ctx context.Context, productID string, delta float64) (models.StockLevel, error) {
	log := logger.FromContext(ctx)

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "stockRepository.AdjustQuantity").
			Str("product_id", productID).
			Msg("failed to begin transaction")
		return models.StockLevel{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, upsertStockRow, productID); err != nil {
		log.Err(err).
			Str("func", "stockRepository.AdjustQuantity").
			Str("product_id", productID).
			Msg("failed to ensure stock row")
		return models.StockLevel{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	var level models.StockLevel
	err = tx.QueryRowContext(ctx, selectStockForUpdate, productID).Scan(
		&level.ProductID,
		&level.Quantity,
		&level.Negative,
		&level.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "stockRepository.AdjustQuantity").
			Str("product_id", productID).
			Msg("failed to lock stock row")
		return models.StockLevel{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	newQuantity := level.Quantity + delta
	negative := newQuantity < 0

	err = tx.QueryRowContext(ctx, updateStockQuantity, newQuantity, negative, productID).Scan(
		&level.ProductID,
		&level.Quantity,
		&level.Negative,
		&level.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "stockRepository.AdjustQuantity").
			Str("product_id", productID).
			Msg("failed to update stock quantity")
		return models.StockLevel{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "stockRepository.AdjustQuantity").
			Str("product_id", productID).
			Msg("failed to commit stock adjustment")
		return models.StockLevel{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	if level.Negative {
		log.Warn().
			Str("func", "stockRepository.AdjustQuantity").
			Str("product_id", productID).
			Float64("quantity", level.Quantity).
			Msg("stock level went negative")
	}

	return level, nil
}

// GetQuantity implements [StockRepository].
func (s *stockRepository) GetQuantity(ctx context.Context, productID string) (models.StockLevel, error) {
	log := logger.FromContext(ctx)

	var level models.StockLevel
	err := s.QueryRowContext(ctx, selectStockQuantity, productID).Scan(
		&level.ProductID,
		&level.Quantity,
		&level.Negative,
		&level.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StockLevel{}, ErrProductNotFound
		}

		log.Err(err).
			Str("func", "stockRepository.GetQuantity").
			Str("product_id", productID).
			Msg("failed to read stock level")
		return models.StockLevel{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return level, nil
}
