// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_FullConfig(t *testing.T) {
	path := writeTempJSON(t, `{
		"app": {"branch_key": "k1", "token_issuer": "possync", "token_duration": "2h", "hash_key": "hk"},
		"storage": {"db": {"dsn": "postgres://localhost/branch1"}},
		"server": {"http_address": "0.0.0.0:8080", "request_timeout": "45s", "rate_limit_rps": 5, "rate_limit_burst": 10},
		"agent": {"branch_id": 3, "terminal_id": "till-01", "queue_path": "q.db", "server_url": "http://srv:8080", "request_timeout": "15s", "batch_size": 10, "max_retries": 3, "sync_interval": "30s"}
	}`)

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "k1", cfg.App.BranchKey)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, "postgres://localhost/branch1", cfg.Storage.DB.DSN)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, int64(3), cfg.Agent.BranchID)
	assert.Equal(t, "till-01", cfg.Agent.TerminalID)
	assert.Equal(t, 10, cfg.Agent.BatchSize)
	assert.Equal(t, 3, cfg.Agent.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Agent.SyncInterval)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	_, err := parseJSON("/definitely/not/here.json")
	require.Error(t, err)
}

func TestParseJSON_MalformedJSON(t *testing.T) {
	path := writeTempJSON(t, `{"app": `)
	_, err := parseJSON(path)
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"string form", `"1h30m"`, 90 * time.Minute},
		{"numeric nanoseconds", `1000000000`, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON_RoundTrip(t *testing.T) {
	d := Duration(15 * time.Second)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"15s"`, string(b))
}
