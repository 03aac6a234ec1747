// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

import (
	"encoding/json"
	"time"
)

// Operation is the kind of entity mutation a ledger entry describes.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether o is one of the known operations.
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	default:
		return false
	}
}

// LedgerStatus is the server-side processing state of a submitted mutation.
type LedgerStatus string

const (
	// LedgerStatusPending marks an entry that has been recorded but whose
	// domain apply step has not completed yet. A crashed or transiently
	// failed attempt leaves the entry in this state so that a resubmission
	// of the same sync id resumes it without creating a duplicate row.
	LedgerStatusPending LedgerStatus = "pending"

	// LedgerStatusProcessed marks an entry whose effect has been applied to
	// the branch store. A resubmission with this status is acknowledged
	// without reapplying.
	LedgerStatusProcessed LedgerStatus = "processed"

	// LedgerStatusFailed marks an entry rejected by validation. It is never
	// retried automatically.
	LedgerStatusFailed LedgerStatus = "failed"

	// LedgerStatusSuperseded marks an entry that lost a last-commit-wins
	// conflict: a later-timestamped mutation of the same entity was already
	// applied when this one arrived. The entry is kept for audit and the
	// submission is acknowledged as accepted; it is not an error.
	LedgerStatusSuperseded LedgerStatus = "superseded"
)

// LedgerEntry is one row of the branch's append-only sync ledger. Entries are
// created on first receipt of a batch item and never deleted; the ledger is
// both the idempotency boundary and the audit trail.
type LedgerEntry struct {
	ID int64 `json:"id" db:"id"`

	// SyncID is carried from the originating QueuedTransaction.ID and is
	// unique per branch; the storage layer enforces uniqueness.
	SyncID string `json:"sync_id" db:"sync_id"`

	EntityType string          `json:"entity_type" db:"entity_type"`
	EntityID   string          `json:"entity_id" db:"entity_id"`
	Operation  Operation       `json:"operation" db:"operation"`
	Data       json.RawMessage `json:"data" db:"data"`

	// Timestamp is the origin timestamp of the mutation, used for conflict
	// ordering.
	Timestamp time.Time `json:"timestamp" db:"timestamp"`

	SyncStatus   LedgerStatus `json:"sync_status" db:"sync_status"`
	ProcessedAt  *time.Time   `json:"processed_at,omitempty" db:"processed_at"`
	ErrorMessage string       `json:"error_message,omitempty" db:"error_message"`
}

// MutationDescriptor is the envelope the server parses out of an otherwise
// opaque transaction payload. It tells the ledger which entity the mutation
// targets and carries the entity-specific data for the domain apply step.
type MutationDescriptor struct {
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Operation  Operation       `json:"operation"`
	Data       json.RawMessage `json:"data"`
}

// ApplyResult is the outcome of a domain apply step. The domain services that
// actually mutate business state are external collaborators; this subsystem
// only interprets their result along the retryable axis.
type ApplyResult struct {
	Success      bool   `json:"success"`
	Retryable    bool   `json:"retryable"`
	ErrorMessage string `json:"error_message,omitempty"`
}
