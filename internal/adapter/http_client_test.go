package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/models"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) ServerAdapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a, err := NewHTTPServerAdapter(
		config.ClientAdapter{BaseURL: srv.URL, RequestTimeout: 2 * time.Second},
		config.ClientApp{HashKey: "test-hash-key"},
		logger.Nop(),
	)
	require.NoError(t, err)

	return a
}

func sampleBatchRequest() models.SyncBatchRequest {
	return models.SyncBatchRequest{
		BranchID:   7,
		TerminalID: "till-1",
		Transactions: []models.BatchItem{
			{ID: "a", Type: models.TransactionSale, BranchID: 7, Timestamp: time.Now().UTC(), Payload: json.RawMessage(`{}`)},
			{ID: "b", Type: models.TransactionExpense, BranchID: 7, Timestamp: time.Now().UTC(), Payload: json.RawMessage(`{}`)},
		},
	}
}

func TestHTTPServerAdapter_SubmitBatch_Success(t *testing.T) {
	var gotAuth, gotHash string

	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotHash = r.Header.Get("HashSHA256")

		var req models.SyncBatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/api/sync/batch", r.URL.Path)
		assert.Equal(t, 2, req.Length)

		resp := models.SyncBatchResponse{
			Results: []models.BatchItemResult{
				{ID: "a", Accepted: true},
				{ID: "b", Accepted: false, Retryable: false, Reason: "unknown entity type"},
			},
			Length: 2,
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
	a.SetToken("terminal-token")

	resp, err := a.SubmitBatch(context.Background(), sampleBatchRequest())
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Accepted)
	assert.False(t, resp.Results[1].Accepted)
	assert.Equal(t, "Bearer terminal-token", gotAuth)
	assert.NotEmpty(t, gotHash)
}

func TestHTTPServerAdapter_SubmitBatch_LengthMismatch(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		resp := models.SyncBatchResponse{
			Results: []models.BatchItemResult{{ID: "a", Accepted: true}},
			Length:  1,
		}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := a.SubmitBatch(context.Background(), sampleBatchRequest())
	assert.ErrorIs(t, err, ErrResponseMismatch)
}

func TestHTTPServerAdapter_SubmitBatch_WrongOrder(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		resp := models.SyncBatchResponse{
			Results: []models.BatchItemResult{
				{ID: "b", Accepted: true},
				{ID: "a", Accepted: true},
			},
			Length: 2,
		}
		json.NewEncoder(w).Encode(resp)
	})

	_, err := a.SubmitBatch(context.Background(), sampleBatchRequest())
	assert.ErrorIs(t, err, ErrResponseMismatch)
}

func TestHTTPServerAdapter_SubmitBatch_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "bad request", status: http.StatusBadRequest, wantErr: ErrBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests, wantErr: ErrTooManyRequests},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrInternalServerError},
		{name: "unavailable", status: http.StatusServiceUnavailable, wantErr: ErrServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tt.name, tt.status)
			})

			_, err := a.SubmitBatch(context.Background(), sampleBatchRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestHTTPServerAdapter_SubmitBatch_ConnectionRefused(t *testing.T) {
	a, err := NewHTTPServerAdapter(
		config.ClientAdapter{BaseURL: "http://127.0.0.1:1", RequestTimeout: 500 * time.Millisecond},
		config.ClientApp{HashKey: "k"},
		logger.Nop(),
	)
	require.NoError(t, err)

	_, err = a.SubmitBatch(context.Background(), sampleBatchRequest())
	require.Error(t, err)
}

func TestHTTPServerAdapter_Ping(t *testing.T) {
	a := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	})

	assert.NoError(t, a.Ping(context.Background()))
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "http://localhost:8080", want: "http://localhost:8080"},
		{in: "localhost:8080", want: "http://localhost:8080"},
		{in: "http://sync.example.com/", want: "http://sync.example.com"},
		{in: "   ", wantErr: true},
		{in: "://", wantErr: true},
	}

	for _, tt := range tests {
		got, err := normalizeBaseURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
