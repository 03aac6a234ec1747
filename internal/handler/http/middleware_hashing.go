package http

import (
	"bytes"
	"crypto/hmac"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/utils"
)

const hashHeader = "HashSHA256"

// bodyIntegrity verifies the HMAC-SHA256 of the raw request body against the
// HashSHA256 header the terminal agent sets on every batch submission.
//
// When no hash key is configured the check is disabled and requests pass
// through untouched. When a key is configured, a missing header or a
// mismatching digest rejects the request with HTTP 400; the body is restored
// for the downstream handler in either case.
func (h *Handler) bodyIntegrity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.hashKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		receivedHash := r.Header.Get(hashHeader)
		if receivedHash == "" {
			log.Err(ErrIntegrityCheckFailed).
				Str("func", "*Handler.bodyIntegrity").
				Msg("hash header is missing")
			http.Error(w, ErrIntegrityCheckFailed.Error(), http.StatusBadRequest)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Err(err).
				Str("func", "*Handler.bodyIntegrity").
				Msg("failed to read request body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		// restore request body
		r.Body = io.NopCloser(bytes.NewReader(body))

		computedHash := hex.EncodeToString(utils.Hash(body))
		if !hmac.Equal([]byte(computedHash), []byte(receivedHash)) {
			log.Error().
				Str("func", "*Handler.bodyIntegrity").
				Str("hash from request", receivedHash).
				Str("hashed body", computedHash).
				Msg("hashes are not equal")
			http.Error(w, ErrIntegrityCheckFailed.Error(), http.StatusBadRequest)
			return
		}

		next.ServeHTTP(w, r)
	})
}
