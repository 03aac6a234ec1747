package store

import (
	"context"
	"fmt"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
)

// ClientStorages aggregates the terminal agent's repositories.
type ClientStorages struct {
	QueueRepository QueueRepository

	db *ClientDB
}

// NewClientStorages opens the terminal's durable queue database, applies
// migrations, and constructs the queue repository.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	db, err := NewConnectSQLite(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("error connecting local queue database: %w", err)
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("error migrating local queue database: %w", err)
	}

	return &ClientStorages{
		QueueRepository: NewQueueRepository(db, log),
		db:              db,
	}, nil
}

// Close releases the underlying queue database connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
