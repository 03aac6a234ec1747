// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

import (
	"encoding/json"
	"time"
)

// TransactionType is the closed set of business mutation kinds a POS terminal
// may capture while offline.
type TransactionType string

const (
	TransactionSale                TransactionType = "sale"
	TransactionPurchase            TransactionType = "purchase"
	TransactionExpense             TransactionType = "expense"
	TransactionInventoryAdjustment TransactionType = "inventory_adjustment"
)

// Valid reports whether t is one of the known transaction kinds.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionExpense, TransactionInventoryAdjustment:
		return true
	default:
		return false
	}
}

// TxStatus is the lifecycle state of a queued transaction on the terminal.
//
// Transitions are monotonic:
//
//	pending → syncing → completed
//	pending → syncing → pending   (retryable failure, after backoff)
//	pending → syncing → failed    (terminal)
//
// A completed or failed item is never re-dispatched automatically; only an
// explicit operator action moves failed back to pending.
type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusSyncing   TxStatus = "syncing"
	TxStatusCompleted TxStatus = "completed"
	TxStatusFailed    TxStatus = "failed"
)

// QueuedTransaction is a single business mutation captured in the terminal's
// durable local queue.
type QueuedTransaction struct {
	// ID is the locally generated sync identifier (time-based prefix plus
	// random suffix). It is immutable and doubles as the server-side
	// idempotency key.
	ID string `json:"id" db:"id"`

	// Type is the mutation kind; see TransactionType.
	Type TransactionType `json:"type" db:"type"`

	// BranchID and UserID record the origin context of the mutation.
	BranchID int64 `json:"branch_id" db:"branch_id"`
	UserID   int64 `json:"user_id" db:"user_id"`

	// Timestamp is the client wall-clock creation time. It is the ordering
	// key within a branch and the input to last-commit-wins resolution.
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	// Payload is the mutation-specific data blob. The queue never inspects
	// it; the server parses it as a MutationDescriptor.
	Payload json.RawMessage `json:"payload" db:"payload"`

	Status     TxStatus `json:"status" db:"status"`
	RetryCount int      `json:"retry_count" db:"retry_count"`

	// LastError and LastAttemptAt are diagnostic fields set only on failed
	// delivery attempts.
	LastError     string     `json:"last_error,omitempty" db:"last_error"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty" db:"last_attempt_at"`
}

// QueueCounts is the operator-facing summary of the local queue, exposed by
// the agent's status endpoint.
type QueueCounts struct {
	Pending   int `json:"pending"`
	Syncing   int `json:"syncing"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
