package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/openretail/possync/internal/app"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/metrics"
	"github.com/openretail/possync/internal/utils"
	"github.com/openretail/possync/models"
)

// maxBatchItems caps one batch submission. Agents drain ten items per cycle;
// the server allows headroom for manually replayed backlogs.
const maxBatchItems = 100

// defaultLedgerLimit bounds ledger listings when the query omits a limit.
const defaultLedgerLimit = 100

func (h *Handler) applyBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	metrics.IncBatch()
	start := time.Now()

	var batchRequest models.SyncBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&batchRequest); err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("Invalid JSON was passed")
		http.Error(w, app.MsgInvalidJSON, http.StatusBadRequest)
		return
	}

	if err := h.validator.Validate(ctx, batchRequest); err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("batch failed validation")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the token is the authority on which branch this terminal belongs to
	branchID, found := utils.GetBranchIDFromContext(ctx)
	if !found {
		log.Error().Str("func", "*Handler.applyBatch").Msg("no branch ID in request context")
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	if batchRequest.BranchID != branchID {
		log.Error().
			Str("func", "*Handler.applyBatch").
			Int64("token_branch_id", branchID).
			Int64("batch_branch_id", batchRequest.BranchID).
			Msg("batch branch does not match token branch")
		http.Error(w, ErrBranchMismatch.Error(), http.StatusForbidden)
		return
	}

	response, err := h.services.LedgerService.ApplyBatch(ctx, batchRequest)
	if err != nil {
		log.Err(err).Str("func", "*Handler.applyBatch").Msg("error applying batch")
		http.Error(w, app.MsgErrorApplyingBatch, statusFromError(err))
		return
	}

	for _, result := range response.Results {
		switch {
		case result.Accepted:
			metrics.IncItem(metrics.OutcomeAccepted)
		case result.Retryable:
			metrics.IncItem(metrics.OutcomeRetryable)
		default:
			metrics.IncItem(metrics.OutcomeRejected)
		}
	}
	metrics.ObserveBatchDuration(time.Since(start))

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) listLedger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	status := models.LedgerStatus(r.URL.Query().Get("status"))
	if status == "" {
		status = models.LedgerStatusFailed
	}
	switch status {
	case models.LedgerStatusPending, models.LedgerStatusProcessed,
		models.LedgerStatusFailed, models.LedgerStatusSuperseded:
	default:
		http.Error(w, app.MsgUnknownLedgerStatus, http.StatusBadRequest)
		return
	}

	limit := defaultLedgerLimit
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed <= 0 {
			http.Error(w, app.MsgInvalidLimit, http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	entries, err := h.services.LedgerService.ListLedger(ctx, status, limit)
	if err != nil {
		log.Err(err).Str("func", "*Handler.listLedger").Msg("error listing ledger")
		http.Error(w, app.MsgErrorListingLedger, statusFromError(err))
		return
	}

	response := models.LedgerListResponse{
		Entries: entries,
		Length:  len(entries),
	}

	utils.WriteJSON(w, response, http.StatusOK)
}
