// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigBuilder_Build_MergesInOrder(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{Server: Server{HTTPAddress: "first:8080"}},
		&StructuredConfig{
			Server: Server{HTTPAddress: "second:9090", RequestTimeout: 30 * time.Second},
			Agent:  Agent{TerminalID: "till-01"},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)

	// mergo keeps the first non-zero value, later sources fill the gaps
	assert.Equal(t, "first:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "till-01", cfg.Agent.TerminalID)
}

func TestConfigBuilder_Build_PropagatesAccumulatedError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	_, err := b.build()
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestConfigBuilder_WithEnv_AppendsConfig(t *testing.T) {
	t.Setenv("AGENT_TERMINAL_ID", "till-env")

	b := newConfigBuilder().withEnv()
	require.NoError(t, b.err)
	require.Len(t, b.configs, 1)
	assert.Equal(t, "till-env", b.configs[0].Agent.TerminalID)
}

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			App:     ClientApp{BranchKey: "k"},
			Adapter: ClientAdapter{BaseURL: "http://srv:8080", RequestTimeout: 15 * time.Second},
			Storage: ClientStorage{QueuePath: "queue.db"},
			Identity: ClientIdentity{
				BranchID:   1,
				TerminalID: "till-01",
			},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().validate())
	})

	t.Run("in-memory queue rejected", func(t *testing.T) {
		cfg := valid()
		cfg.Storage.QueuePath = ":memory:"
		assert.ErrorIs(t, cfg.validate(), ErrInvalidStorageConfigs)
	})

	t.Run("missing adapter", func(t *testing.T) {
		cfg := valid()
		cfg.Adapter.BaseURL = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidAdapterConfigs)
	})

	t.Run("missing identity", func(t *testing.T) {
		cfg := valid()
		cfg.Identity.TerminalID = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidIdentityConfigs)
	})

	t.Run("missing branch key", func(t *testing.T) {
		cfg := valid()
		cfg.App.BranchKey = ""
		assert.ErrorIs(t, cfg.validate(), ErrInvalidAppConfigs)
	})
}
