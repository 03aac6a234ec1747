// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

import "time"

// StockLevel is the current on-hand quantity of a product in a branch store.
//
// Quantity may go negative: concurrent decrements that overshoot are a
// tolerated, explicitly flagged business state (an operator recounts the
// shelf), not a concurrency error.
type StockLevel struct {
	ProductID string    `json:"product_id" db:"product_id"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	Negative  bool      `json:"negative" db:"negative"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
