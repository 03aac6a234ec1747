package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/migrations"
)

// ClientDB wraps the terminal's SQLite connection backing the durable queue.
type ClientDB struct {
	*sql.DB
	logger *logger.Logger
}

// NewConnectSQLite opens (creating if necessary) the terminal's local queue
// database and verifies the connection with a ping. The queue must live in a
// file: an in-memory queue would not survive a process restart, which defeats
// its purpose.
func NewConnectSQLite(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientDB, error) {
	if err := createLocalDBFileIfNotExists(cfg.QueuePath); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file")
	}

	conn, err := sql.Open("sqlite3", cfg.QueuePath)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	// all queue access is serialized through a single connection; SQLite
	// handles one writer at a time anyway
	conn.SetMaxOpenConns(1)

	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	db := &ClientDB{
		DB:     conn,
		logger: log,
	}

	return db, nil
}

// Migrate applies the terminal queue schema migrations.
func (db *ClientDB) Migrate() error {
	return migrations.MigrateSQLite(db.DB)
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
