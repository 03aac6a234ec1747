// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

// Package migrations embeds and applies the goose SQL migrations for both
// sides of the sync subsystem: the branch server's PostgreSQL store (ledger,
// stock) and the terminal agent's SQLite queue.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed server/*.sql
var serverMigrations embed.FS

//go:embed client/*.sql
var clientMigrations embed.FS

// MigratePostgres applies the branch server migrations to db.
func MigratePostgres(db *sql.DB) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	sub, err := fs.Sub(serverMigrations, "server")
	if err != nil {
		return fmt.Errorf("migration error reading embedded server migrations: %w", err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

// MigrateSQLite applies the terminal queue migrations to db.
func MigrateSQLite(db *sql.DB) error {
	if db == nil {
		return errors.New("migration error: db is nil")
	}

	sub, err := fs.Sub(clientMigrations, "client")
	if err != nil {
		return fmt.Errorf("migration error reading embedded client migrations: %w", err)
	}
	goose.SetBaseFS(sub)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
