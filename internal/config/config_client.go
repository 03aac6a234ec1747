// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package config

import (
	"fmt"
	"time"
)

// ClientApp holds agent-side application settings derived from the shared
// structured config.
type ClientApp struct {
	// BranchKey signs the terminal's JWT presented to the sync server.
	BranchKey string
	// TokenIssuer is the "iss" claim embedded in terminal tokens.
	TokenIssuer string
	// TokenDuration bounds terminal token validity.
	TokenDuration time.Duration
	// HashKey is the HMAC key used for batch body integrity headers.
	HashKey string
}

// ClientAdapter holds network settings used by the agent transport layer.
type ClientAdapter struct {
	// BaseURL is the sync server base URL.
	BaseURL string
	// RequestTimeout bounds every outbound batch submission.
	RequestTimeout time.Duration
}

// ClientStorage groups agent storage backend settings.
type ClientStorage struct {
	// QueuePath is the SQLite file backing the durable local queue.
	QueuePath string
}

// ClientDispatcher contains dispatcher and background job tuning.
type ClientDispatcher struct {
	// BatchSize is the maximum batch drained per dispatch cycle.
	BatchSize int
	// MaxRetries is the per-item transient failure budget.
	MaxRetries int
	// SyncInterval defines how often the background sync trigger fires.
	SyncInterval time.Duration
}

// ClientIdentity is the origin context stamped on every queued transaction.
type ClientIdentity struct {
	BranchID   int64
	TerminalID string
}

// ClientConfig is the top-level agent configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level agent settings.
	App ClientApp
	// Adapter contains agent transport address and timeout.
	Adapter ClientAdapter
	// Storage contains agent storage settings.
	Storage ClientStorage
	// Dispatcher contains dispatch/retry tuning.
	Dispatcher ClientDispatcher
	// Identity contains origin context for queued transactions.
	Identity ClientIdentity
	// AdminAddress is the local admin API listen address.
	AdminAddress string
}

// GetClientConfig builds and validates an agent-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the agent runtime, and validates the resulting [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			BranchKey:     cfg.App.BranchKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			HashKey:       cfg.App.HashKey,
		},
		Adapter: ClientAdapter{
			BaseURL:        cfg.Agent.ServerURL,
			RequestTimeout: cfg.Agent.RequestTimeout,
		},
		Storage: ClientStorage{
			QueuePath: cfg.Agent.QueuePath,
		},
		Dispatcher: ClientDispatcher{
			BatchSize:    cfg.Agent.BatchSize,
			MaxRetries:   cfg.Agent.MaxRetries,
			SyncInterval: cfg.Agent.SyncInterval,
		},
		Identity: ClientIdentity{
			BranchID:   cfg.Agent.BranchID,
			TerminalID: cfg.Agent.TerminalID,
		},
		AdminAddress: cfg.Agent.AdminAddress,
	}

	return clientCfg, clientCfg.validate()
}
