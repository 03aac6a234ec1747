// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenRetail

package models

import "github.com/golang-jwt/jwt/v5"

// TerminalClaims is the claim set carried by a terminal token. A terminal
// signs its own token with the shared branch key; the sync server validates
// the signature and issuer and trusts the embedded identity.
type TerminalClaims struct {
	jwt.RegisteredClaims

	// BranchID is the branch the terminal belongs to. The server refuses
	// batches whose BranchID disagrees with the token.
	BranchID int64 `json:"branch_id"`

	// TerminalID identifies the till within the branch.
	TerminalID string `json:"terminal_id"`
}

// Token bundles a parsed or freshly signed terminal token together with its
// extracted identity fields.
type Token struct {
	Token        *jwt.Token `json:"-"`
	SignedString string     `json:"-"`
	BranchID     int64      `json:"branch_id"`
	TerminalID   string     `json:"terminal_id"`
}
