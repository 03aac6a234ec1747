// Package utils provides general-purpose helper utilities used across
// different parts of possync: context keys, HMAC hashing, HTTP response
// writing, terminal JWT generation and validation, and sync id generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// BranchIDCtxKey is the key used to store the authenticated branch identifier
// in the context. Set by the server auth middleware after token validation.
var BranchIDCtxKey = contextKey("branchID")

// TerminalIDCtxKey is the key used to store the authenticated terminal
// identifier in the context.
var TerminalIDCtxKey = contextKey("terminalID")

// GetBranchIDFromContext retrieves the branch identifier from the context.
//
// Returns the branch ID of type int64 and an ok flag:
//   - ok == true  — value is found and has the correct int64 type
//   - ok == false — value is missing or has an unexpected type
func GetBranchIDFromContext(ctx context.Context) (int64, bool) {
	branchID, ok := ctx.Value(BranchIDCtxKey).(int64)
	return branchID, ok
}

// GetTerminalIDFromContext retrieves the terminal identifier from the context.
func GetTerminalIDFromContext(ctx context.Context) (string, bool) {
	terminalID, ok := ctx.Value(TerminalIDCtxKey).(string)
	return terminalID, ok
}
