// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	insertLedgerEntry = `
		INSERT INTO sync_queue (
			sync_id,
			entity_type,
			entity_id,
			operation,
			data,
			timestamp,
			sync_status
		) VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id;`

	getLedgerEntryBySyncID = `
		SELECT
			id,
			sync_id,
			entity_type,
			entity_id,
			operation,
			data,
			timestamp,
			sync_status,
			processed_at,
			error_message
		FROM sync_queue
		WHERE sync_id = $1;`

	markLedgerProcessed = `
		UPDATE sync_queue SET
			sync_status  = 'processed',
			processed_at = $1,
			error_message = ''
		WHERE sync_id = $2;`

	markLedgerFailed = `
		UPDATE sync_queue SET
			sync_status   = 'failed',
			error_message = $1
		WHERE sync_id = $2;`

	markLedgerSuperseded = `
		UPDATE sync_queue SET
			sync_status  = 'superseded',
			processed_at = NOW()
		WHERE sync_id = $1;`

	latestProcessedForEntity = `
		SELECT
			id,
			sync_id,
			entity_type,
			entity_id,
			operation,
			data,
			timestamp,
			sync_status,
			processed_at,
			error_message
		FROM sync_queue
		WHERE entity_type = $1 AND entity_id = $2 AND sync_status = 'processed'
		ORDER BY timestamp DESC
		LIMIT 1;`

	// Row lock first, then read-modify-write inside the same transaction.
	upsertStockRow = `
		INSERT INTO stock_levels (product_id, quantity, negative, updated_at)
		VALUES ($1, 0, FALSE, NOW())
		ON CONFLICT (product_id) DO NOTHING;`

	selectStockForUpdate = `
		SELECT product_id, quantity, negative, updated_at
		FROM stock_levels
		WHERE product_id = $1
		FOR UPDATE;`

	updateStockQuantity = `
		UPDATE stock_levels SET
			quantity   = $1,
			negative   = $2,
			updated_at = NOW()
		WHERE product_id = $3
		RETURNING product_id, quantity, negative, updated_at;`

	selectStockQuantity = `
		SELECT product_id, quantity, negative, updated_at
		FROM stock_levels
		WHERE product_id = $1;`
)

var ledgerColumns = []string{
	"id",
	"sync_id",
	"entity_type",
	"entity_id",
	"operation",
	"data",
	"timestamp",
	"sync_status",
	"processed_at",
	"error_message",
}

// buildListLedgerByStatusQuery builds the operator listing query. A dynamic
// builder is used because the endpoint grows optional filters (entity type,
// time window) without a combinatorial set of SQL constants.
func buildListLedgerByStatusQuery(status string, limit int) (string, []any, error) {
	builder := sq.
		Select(ledgerColumns...).
		From("sync_queue").
		Where(sq.Eq{"sync_status": status}).
		OrderBy("timestamp DESC").
		PlaceholderFormat(sq.Dollar)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return builder.ToSql()
}
