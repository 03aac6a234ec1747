package store

import (
	"database/sql"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/migrations"
)

// DB wraps a database/sql connection together with the error classifier used
// to decide whether failed operations are retryable.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// Migrate applies the branch server schema migrations.
func (db *DB) Migrate() error {
	return migrations.MigratePostgres(db.DB)
}
