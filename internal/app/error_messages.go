// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

// Package app contains shared application-layer constants used across the
// possync server handlers and the agent's admin API.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API.
package app

const (
	// MsgInvalidJSON is returned when a request body cannot be decoded.
	MsgInvalidJSON = "Invalid JSON was passed"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgErrorApplyingBatch is returned when the ledger pipeline fails
	// before any per-item result can be produced.
	MsgErrorApplyingBatch = "error applying batch"

	// MsgErrorListingLedger is returned when a ledger inspection query
	// fails.
	MsgErrorListingLedger = "error listing ledger"

	// MsgUnknownLedgerStatus is returned when the ledger listing is asked
	// for a status outside the known lifecycle.
	MsgUnknownLedgerStatus = "unknown ledger status"

	// MsgInvalidLimit is returned when a listing limit is not a positive
	// integer.
	MsgInvalidLimit = "invalid limit"

	// MsgTransactionNotCaptured is returned by the agent admin API when the
	// durable enqueue failed. The till must treat this as a blocking error:
	// the sale was NOT recorded.
	MsgTransactionNotCaptured = "transaction was not captured"

	// MsgErrorQueueStatus is returned when the agent cannot read its local
	// queue counters.
	MsgErrorQueueStatus = "error reading queue status"

	// MsgErrorListingFailed is returned when the agent cannot list its
	// terminally failed transactions.
	MsgErrorListingFailed = "error listing failed transactions"

	// MsgErrorRetryingFailed is returned when the operator retry action
	// cannot reset failed transactions.
	MsgErrorRetryingFailed = "error retrying failed transactions"

	// MsgErrorPurgingCompleted is returned when the completed-items purge
	// fails.
	MsgErrorPurgingCompleted = "error purging completed transactions"
)
