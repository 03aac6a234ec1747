package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTerminalToken_RoundTrip(t *testing.T) {
	token, err := GenerateTerminalToken("possync", 7, "till-03", time.Hour, "branch-secret")
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := ValidateAndParseTerminalToken(token.SignedString, "branch-secret", "possync")
	require.NoError(t, err)
	assert.Equal(t, int64(7), parsed.BranchID)
	assert.Equal(t, "till-03", parsed.TerminalID)
}

func TestGenerateTerminalToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name       string
		issuer     string
		branchID   int64
		terminalID string
		duration   time.Duration
		key        string
	}{
		{"no issuer", "", 1, "t", time.Hour, "k"},
		{"no branch", "iss", 0, "t", time.Hour, "k"},
		{"no terminal", "iss", 1, "", time.Hour, "k"},
		{"no duration", "iss", 1, "t", 0, "k"},
		{"no key", "iss", 1, "t", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateTerminalToken(tt.issuer, tt.branchID, tt.terminalID, tt.duration, tt.key)
			assert.Error(t, err)
		})
	}
}

func TestValidateAndParseTerminalToken_WrongKey(t *testing.T) {
	token, err := GenerateTerminalToken("possync", 7, "till-03", time.Hour, "right-key")
	require.NoError(t, err)

	_, err = ValidateAndParseTerminalToken(token.SignedString, "wrong-key", "possync")
	assert.Error(t, err)
}

func TestValidateAndParseTerminalToken_WrongIssuer(t *testing.T) {
	token, err := GenerateTerminalToken("someone-else", 7, "till-03", time.Hour, "key")
	require.NoError(t, err)

	_, err = ValidateAndParseTerminalToken(token.SignedString, "key", "possync")
	assert.Error(t, err)
}

func TestValidateAndParseTerminalToken_Expired(t *testing.T) {
	token, err := GenerateTerminalToken("possync", 7, "till-03", time.Nanosecond, "key")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = ValidateAndParseTerminalToken(token.SignedString, "key", "possync")
	assert.Error(t, err)
}

func TestParseBearerToken(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		got, err := ParseBearerToken("Bearer abc.def.ghi")
		require.NoError(t, err)
		assert.Equal(t, "abc.def.ghi", got)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := ParseBearerToken("Bearer ")
		assert.Error(t, err)
	})

	t.Run("no scheme", func(t *testing.T) {
		_, err := ParseBearerToken("abc.def.ghi")
		assert.Error(t, err)
	})
}
