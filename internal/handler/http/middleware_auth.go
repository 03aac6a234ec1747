package http

import (
	"context"
	"net/http"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/utils"
)

// auth is an HTTP middleware that enforces terminal JWT authentication.
//
// It inspects the incoming "Authorization" header, extracts the bearer token,
// validates signature, issuer, and expiry against the shared branch key, and
// on success stores the terminal identity in the request context under
// [utils.BranchIDCtxKey] and [utils.TerminalIDCtxKey] before delegating to the
// next handler.
//
// Requests are rejected with HTTP 401 Unauthorized when the header is absent,
// cannot be parsed as a bearer token, or carries an expired or otherwise
// invalid token. All rejections are logged via the context-scoped logger.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		token, err := utils.ValidateAndParseTerminalToken(tokenString, h.branchKey, h.tokenIssuer)
		if err != nil {
			log.Err(err).Msg("terminal token rejected")
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		// Store the terminal identity in the context so downstream handlers
		// can retrieve it without re-parsing the token.
		ctx := context.WithValue(r.Context(), utils.BranchIDCtxKey, token.BranchID)
		ctx = context.WithValue(ctx, utils.TerminalIDCtxKey, token.TerminalID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
