package http

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/utils"
)

// terminalLimiters keeps one token bucket per terminal id. A zero rps
// disables limiting entirely.
type terminalLimiters struct {
	rps   float64
	burst int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newTerminalLimiters(rps float64, burst int) *terminalLimiters {
	if burst <= 0 {
		burst = 1
	}
	return &terminalLimiters{
		rps:      rps,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

// allow reports whether the given terminal may submit another request now.
func (t *terminalLimiters) allow(terminalID string) bool {
	if t.rps <= 0 {
		return true
	}

	t.mu.Lock()
	limiter, ok := t.limiters[terminalID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(t.rps), t.burst)
		t.limiters[terminalID] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}

// rateLimit caps batch submissions per terminal. A terminal stuck in a replay
// loop gets HTTP 429 so the agent backs off instead of hammering the branch
// database.
func (h *Handler) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terminalID, found := utils.GetTerminalIDFromContext(r.Context())
		if !found {
			// auth runs before this middleware; a missing identity means the
			// route is miswired
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if !h.limiters.allow(terminalID) {
			logger.FromRequest(r).Warn().
				Str("func", "*Handler.rateLimit").
				Str("terminal_id", terminalID).
				Msg("terminal rate limit exceeded")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
