// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

// SyncReport summarises one dispatch cycle for the operator surface.
type SyncReport struct {
	// Submitted is the number of items drained from the queue this cycle.
	Submitted int `json:"submitted"`

	// Completed, Failed and Reverted partition the drained items by outcome:
	// acknowledged by the server, parked terminally, or returned to pending
	// for a later cycle.
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Reverted  int `json:"reverted"`

	// Attempts counts network submissions made during the cycle, including
	// backoff retries after ambiguous outcomes.
	Attempts int `json:"attempts"`
}
