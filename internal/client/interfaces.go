// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package client

// Client defines the minimal lifecycle contract for the runnable terminal
// agent.
type Client interface {
	// Run starts the agent and blocks until exit.
	Run() error
}
