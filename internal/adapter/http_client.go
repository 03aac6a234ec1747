package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/utils"
	"github.com/openretail/possync/models"
)

type httpServerAdapter struct {
	client  *resty.Client
	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.BaseURL, configures the underlying client with the resolved base
// URL and request timeout, and initialises the shared HMAC hasher pool used
// for transport integrity hashes.
//
// Returns an error if adapterCfg.BaseURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	utils.InitHasherPool(appCfg.HashKey)

	return &httpServerAdapter{
		client:  client,
		hashKey: appCfg.HashKey,
		logger:  logger,
	}, nil
}

// SetToken implements [ServerAdapter].
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// SubmitBatch implements [ServerAdapter].
func (h *httpServerAdapter) SubmitBatch(ctx context.Context, req models.SyncBatchRequest) (models.SyncBatchResponse, error) {
	req.Length = len(req.Transactions)

	body, err := json.Marshal(req)
	if err != nil {
		return models.SyncBatchResponse{}, fmt.Errorf("encode batch request: %w", err)
	}

	request := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
	if h.hashKey != "" {
		request.SetHeader("HashSHA256", hex.EncodeToString(utils.Hash(body)))
	}

	resp, err := request.Post("/api/sync/batch")
	if err != nil {
		return models.SyncBatchResponse{}, fmt.Errorf("submit batch request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.SyncBatchResponse{}, err
	}

	var batchResp models.SyncBatchResponse
	if err = json.Unmarshal(resp.Body(), &batchResp); err != nil {
		return models.SyncBatchResponse{}, fmt.Errorf("decode batch response: %w", err)
	}
	if err = validateBatchResponse(req, batchResp); err != nil {
		return models.SyncBatchResponse{}, err
	}

	return batchResp, nil
}

// Ping implements [ServerAdapter].
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

// validateBatchResponse checks the alignment guarantee the dispatcher relies
// on: one result per submitted item, in submission order, matching ids.
func validateBatchResponse(req models.SyncBatchRequest, resp models.SyncBatchResponse) error {
	if resp.Length != len(resp.Results) || len(resp.Results) != len(req.Transactions) {
		return fmt.Errorf("%w: sent %d items, got %d results (length %d)",
			ErrResponseMismatch, len(req.Transactions), len(resp.Results), resp.Length)
	}

	for i, item := range req.Transactions {
		if resp.Results[i].ID != item.ID {
			return fmt.Errorf("%w: result %d is for %q, expected %q",
				ErrResponseMismatch, i, resp.Results[i].ID, item.ID)
		}
	}

	return nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("no host in address %q", raw)
	}

	return strings.TrimRight(parsed.String(), "/"), nil
}
