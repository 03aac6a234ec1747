// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package store

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	enqueueTransaction = `
		INSERT INTO transaction_queue (
			id,
			type,
			branch_id,
			user_id,
			timestamp,
			payload,
			status,
			retry_count,
			last_error
		) VALUES (?, ?, ?, ?, ?, ?, 'pending', 0, '');`

	// Transition statements encode the allowed source states in their WHERE
	// clauses; zero affected rows on an existing id means the transition was
	// not legal from the item's current state.
	markTransactionSyncing = `
		UPDATE transaction_queue SET
			status = 'syncing'
		WHERE id = ? AND status = 'pending';`

	markTransactionCompleted = `
		UPDATE transaction_queue SET
			status = 'completed'
		WHERE id = ? AND status = 'syncing';`

	markTransactionFailed = `
		UPDATE transaction_queue SET
			status          = 'failed',
			last_error      = CASE WHEN last_error = '' THEN ? ELSE last_error || char(10) || ? END,
			last_attempt_at = ?
		WHERE id = ? AND status IN ('pending', 'syncing');`

	revertTransactionToPending = `
		UPDATE transaction_queue SET
			status          = 'pending',
			last_error      = CASE WHEN last_error = '' THEN ? ELSE last_error || char(10) || ? END,
			last_attempt_at = ?
		WHERE id = ? AND status = 'syncing';`

	incrementTransactionRetry = `
		UPDATE transaction_queue SET
			retry_count = retry_count + 1
		WHERE id = ?;`

	getTransactionRetryCount = `
		SELECT retry_count
		FROM transaction_queue
		WHERE id = ?;`

	checkTransactionExists = `
		SELECT COUNT(1)
		FROM transaction_queue
		WHERE id = ?;`

	purgeCompletedTransactions = `
		DELETE FROM transaction_queue
		WHERE status = 'completed';`

	retryFailedTransactions = `
		UPDATE transaction_queue SET
			status      = 'pending',
			retry_count = 0
		WHERE status = 'failed';`

	countTransactionsByStatus = `
		SELECT status, COUNT(1)
		FROM transaction_queue
		GROUP BY status;`
)

var queueColumns = []string{
	"id",
	"type",
	"branch_id",
	"user_id",
	"timestamp",
	"payload",
	"status",
	"retry_count",
	"last_error",
	"last_attempt_at",
}

// buildListByStatusQuery builds the queue listing query for one status.
// Pending items are drained oldest first to preserve per-branch ordering;
// failed items are listed newest first for the operator surface.
func buildListByStatusQuery(status string, limit int) (string, []any, error) {
	order := "timestamp ASC"
	if status == "failed" {
		order = "timestamp DESC"
	}

	builder := sq.
		Select(queueColumns...).
		From("transaction_queue").
		Where(sq.Eq{"status": status}).
		OrderBy(order).
		PlaceholderFormat(sq.Question)

	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return builder.ToSql()
}
