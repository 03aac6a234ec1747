// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

// Package client implements the POS terminal agent runtime.
//
// It wires the durable local queue, the sync dispatcher, and the background
// sync job into a single process, and exposes a loopback admin API the till
// software uses to capture transactions and to drive operator actions.
package client
