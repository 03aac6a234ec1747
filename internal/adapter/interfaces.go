// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

// Package adapter provides transport-layer abstractions for communicating
// with the branch sync server.
//
// The primary abstraction is [ServerAdapter], which decouples the dispatcher
// from the underlying protocol. The package ships an HTTP/REST implementation
// ([NewHTTPServerAdapter]) built on resty.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling. Any error returned by SubmitBatch means the per-item
// outcome of the batch is unknown and must be treated as ambiguous.
package adapter

import (
	"context"

	"github.com/openretail/possync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the branch sync
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent requests.
	// The agent self-signs its terminal token with the shared branch key at
	// startup and refreshes it here when it rotates.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// SubmitBatch replays one ordered batch of queued transactions. On a
	// definite server response the returned results are guaranteed to be
	// aligned with the request: one entry per submitted item, same order,
	// matching ids. Any error return — connection failure, timeout, non-2xx
	// status, or a malformed/mismatched response — means no per-item outcome
	// may be assumed.
	SubmitBatch(ctx context.Context, req models.SyncBatchRequest) (models.SyncBatchResponse, error)

	// Ping reports whether the sync server is reachable. Used by the
	// connectivity probe to fire the connectivity-restored trigger.
	Ping(ctx context.Context) error
}
