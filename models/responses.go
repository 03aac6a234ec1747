// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

// BatchItemResult is the server's verdict for a single submitted transaction.
//
// Accepted covers both a fresh apply and the idempotent short-circuit for a
// sync id that was already processed, as well as a superseded entry; the
// client treats all three identically (mark completed, stop retrying).
// When Accepted is false, Retryable tells the client whether to resubmit the
// same sync id later (transient failure) or to park the item as terminally
// failed (validation rejection).
type BatchItemResult struct {
	ID        string `json:"id"`
	Accepted  bool   `json:"accepted"`
	Retryable bool   `json:"retryable,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// SyncBatchResponse carries one result per submitted item, in submission
// order. A response whose Length disagrees with the request is treated by the
// client as a transport failure: no per-item outcome may be assumed.
type SyncBatchResponse struct {
	Results []BatchItemResult `json:"results"`
	Length  int               `json:"length"`
}

// LedgerListResponse is returned by the ledger inspection endpoint.
type LedgerListResponse struct {
	Entries []LedgerEntry `json:"entries"`
	Length  int           `json:"length"`
}
