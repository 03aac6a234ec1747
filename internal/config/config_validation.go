// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies
// server-side invariants before it is used at startup.
//
// Agent-only runs pass through unvalidated here; the agent view is validated
// separately by [ClientConfig.validate], because a terminal has no branch
// database and a server has no local queue.
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.QueuePath == "" || strings.Contains(cfg.Storage.QueuePath, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Identity.BranchID == 0 || cfg.Identity.TerminalID == "" {
		return ErrInvalidIdentityConfigs
	}

	if cfg.App.BranchKey == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}
