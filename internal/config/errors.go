// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid agent adapter settings
	// (for example, missing server URL or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid agent storage settings
	// (for example, empty queue path or unsupported in-memory path).
	// The durable queue must survive process restarts, so an in-memory
	// queue is rejected outright.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// required by the agent (for example, missing branch key).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidIdentityConfigs indicates missing origin context
	// (branch id or terminal id).
	ErrInvalidIdentityConfigs = errors.New("invalid identity configuration")
)
