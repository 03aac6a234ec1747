// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

import (
	"encoding/json"
	"time"
)

// BatchItem is one transaction inside a sync batch submission. Field set
// mirrors the queued transaction; the payload stays opaque on the wire.
type BatchItem struct {
	ID        string          `json:"id"`
	Type      TransactionType `json:"type"`
	BranchID  int64           `json:"branch_id"`
	UserID    int64           `json:"user_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// SyncBatchRequest is sent by a terminal agent to replay queued transactions.
// Transactions are ordered ascending by origin timestamp; the server records
// them in submission order.
type SyncBatchRequest struct {
	// BranchID identifies the branch store the batch targets.
	BranchID int64 `json:"branch_id"`

	// TerminalID identifies the submitting POS terminal, used for
	// diagnostics and per-terminal rate limiting.
	TerminalID string `json:"terminal_id"`

	Transactions []BatchItem `json:"transactions"`

	// Length is the total number of entries in Transactions.
	Length int `json:"length"`
}
