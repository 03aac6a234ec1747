package store

import (
	"context"
	"fmt"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
)

// Storages aggregates the branch server's repositories.
type Storages struct {
	LedgerRepository LedgerRepository
	StockRepository  StockRepository
}

// NewStorages connects to the branch database, applies migrations, and
// constructs all server-side repositories.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting branch database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating branch database: %w", err)
	}

	return &Storages{
		LedgerRepository: NewLedgerRepository(db, log),
		StockRepository:  NewStockRepository(db, log),
	}, nil
}
