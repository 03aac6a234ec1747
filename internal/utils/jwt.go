package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openretail/possync/models"
)

// GenerateTerminalToken creates a signed HMAC-SHA256 JWT for a POS terminal.
//
// The token includes the standard claims:
//   - Issuer    (iss): identifies the issuing deployment
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//
// plus the terminal identity claims (branch_id, terminal_id). All parameters
// are required; returns an error if any of them are empty or zero.
func GenerateTerminalToken(issuer string, branchID int64, terminalID string, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || branchID == 0 || terminalID == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating terminal token")
	}

	now := time.Now()
	claims := &models.TerminalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		BranchID:   branchID,
		TerminalID: terminalID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing terminal token: %w", err)
	}

	return models.Token{
		Token:        token,
		SignedString: tokenString,
		BranchID:     branchID,
		TerminalID:   terminalID,
	}, nil
}

// ValidateAndParseTerminalToken validates the given token string and extracts
// the terminal identity.
//
// Validation includes signature verification against the branch key, issuer
// check, expiration check, and presence of the identity claims.
func ValidateAndParseTerminalToken(tokenString, signKey, tokenIssuer string) (models.Token, error) {
	claims := &models.TerminalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.BranchID == 0 || claims.TerminalID == "" {
		return models.Token{}, errors.New("terminal identity claims are missing")
	}

	return models.Token{
		Token:      token,
		BranchID:   claims.BranchID,
		TerminalID: claims.TerminalID,
	}, nil
}

// ParseBearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func ParseBearerToken(authorizationHeader string) (string, error) {
	parts := strings.Split(strings.TrimSpace(authorizationHeader), " ")
	if len(parts) != 2 || parts[1] == "" {
		return "", errors.New("invalid authorization header")
	}
	return parts[1], nil
}
