// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrBranchMismatch is returned when the branch id inside a batch
	// submission disagrees with the branch id the terminal token carries.
	ErrBranchMismatch = errors.New("batch branch does not match token branch")

	// ErrIntegrityCheckFailed is returned when the HashSHA256 header does not
	// match the HMAC of the received request body.
	ErrIntegrityCheckFailed = errors.New("request body integrity check failed")
)
