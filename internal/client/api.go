package client

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/openretail/possync/internal/app"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/service"
	"github.com/openretail/possync/internal/utils"
	"github.com/openretail/possync/models"
)

// adminAPI is the loopback HTTP surface the till software talks to. It is
// bound to a local address only and carries no authentication; the branch
// server's JWT protects the wide-area hop, not this one.
type adminAPI struct {
	services *service.ClientServices
	logger   *logger.Logger
}

func newAdminAPI(services *service.ClientServices, logger *logger.Logger) *adminAPI {
	return &adminAPI{services: services, logger: logger}
}

func (a *adminAPI) routes() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/api/health", a.health)
	router.Post("/api/queue", a.enqueue)
	router.Get("/api/queue/status", a.queueStatus)
	router.Get("/api/queue/failed", a.listFailed)
	router.Post("/api/queue/retry-failed", a.retryFailed)
	router.Post("/api/queue/purge-completed", a.purgeCompleted)
	router.Post("/api/sync/now", a.syncNow)

	return router
}

type enqueueRequest struct {
	Type    models.TransactionType `json:"type"`
	UserID  int64                  `json:"user_id"`
	Payload json.RawMessage        `json:"payload"`
}

// enqueue captures one business mutation into the durable queue. A storage
// failure answers 500: the till must treat that as "sale not captured" and
// block, never silently continue.
func (a *adminAPI) enqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	tx, err := a.services.QueueService.Enqueue(r.Context(), req.Type, req.UserID, req.Payload)
	if err != nil {
		a.logger.Err(err).Str("func", "*adminAPI.enqueue").Msg("enqueue failed")
		switch {
		case errors.Is(err, service.ErrValidationInvalidTransactionType),
			errors.Is(err, service.ErrValidationEmptyPayload),
			errors.Is(err, service.ErrValidationNoBranchID):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, app.MsgTransactionNotCaptured, http.StatusInternalServerError)
		}
		return
	}

	// captured durably; nudge the dispatcher
	a.services.SyncJob.Kick()

	utils.WriteJSON(w, tx, http.StatusCreated)
}

func (a *adminAPI) queueStatus(w http.ResponseWriter, r *http.Request) {
	counts, err := a.services.QueueService.Counts(r.Context())
	if err != nil {
		a.logger.Err(err).Str("func", "*adminAPI.queueStatus").Msg("counting queue failed")
		http.Error(w, app.MsgErrorQueueStatus, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, counts, http.StatusOK)
}

func (a *adminAPI) listFailed(w http.ResponseWriter, r *http.Request) {
	failed, err := a.services.QueueService.ListFailed(r.Context())
	if err != nil {
		a.logger.Err(err).Str("func", "*adminAPI.listFailed").Msg("listing failed items")
		http.Error(w, app.MsgErrorListingFailed, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]any{
		"transactions": failed,
		"length":       len(failed),
	}, http.StatusOK)
}

// retryFailed is the operator action that moves terminally failed items back
// to pending and immediately triggers a dispatch cycle.
func (a *adminAPI) retryFailed(w http.ResponseWriter, r *http.Request) {
	reset, err := a.services.QueueService.RetryFailed(r.Context())
	if err != nil {
		a.logger.Err(err).Str("func", "*adminAPI.retryFailed").Msg("retrying failed items")
		http.Error(w, app.MsgErrorRetryingFailed, http.StatusInternalServerError)
		return
	}

	if reset > 0 {
		a.services.SyncJob.Kick()
	}

	utils.WriteJSON(w, map[string]int64{"reset": reset}, http.StatusOK)
}

func (a *adminAPI) purgeCompleted(w http.ResponseWriter, r *http.Request) {
	purged, err := a.services.QueueService.PurgeCompleted(r.Context())
	if err != nil {
		a.logger.Err(err).Str("func", "*adminAPI.purgeCompleted").Msg("purging completed items")
		http.Error(w, app.MsgErrorPurgingCompleted, http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, map[string]int64{"purged": purged}, http.StatusOK)
}

// syncNow runs one dispatch cycle synchronously and reports its outcome. If
// a cycle is already in flight the request coalesces into it with HTTP 409.
func (a *adminAPI) syncNow(w http.ResponseWriter, r *http.Request) {
	report, err := a.services.Dispatcher.SyncNow(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSyncInProgress) {
			http.Error(w, service.ErrSyncInProgress.Error(), http.StatusConflict)
			return
		}
		a.logger.Err(err).Str("func", "*adminAPI.syncNow").Msg("dispatch cycle failed")
		// the report still carries what was settled before the failure
		utils.WriteJSON(w, report, http.StatusBadGateway)
		return
	}

	utils.WriteJSON(w, report, http.StatusOK)
}

func (a *adminAPI) health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
