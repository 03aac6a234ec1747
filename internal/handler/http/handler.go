package http

import (
	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/metrics"
	"github.com/openretail/possync/internal/service"
	"github.com/openretail/possync/internal/utils"
	"github.com/openretail/possync/internal/validators"
)

// Handler is the root HTTP transport handler of the branch sync server. It
// holds the service layer, the batch request validator, and the settings the
// middleware stack needs (signing key, issuer, integrity key, rate limits).
type Handler struct {
	services  *service.Services
	validator validators.Validator

	branchKey   string
	tokenIssuer string
	hashKey     string
	version     string

	limiters *terminalLimiters

	logger *logger.Logger
}

// NewHandler constructs the HTTP handler from the application config. The
// batch validator is sized to the dispatcher batch limit so oversized
// submissions are rejected at the transport boundary.
func NewHandler(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	metrics.Register()

	if cfg.App.HashKey != "" {
		utils.InitHasherPool(cfg.App.HashKey)
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:    services,
		validator:   validators.NewSyncValidator(maxBatchItems),
		branchKey:   cfg.App.BranchKey,
		tokenIssuer: cfg.App.TokenIssuer,
		hashKey:     cfg.App.HashKey,
		version:     cfg.App.Version,
		limiters:    newTerminalLimiters(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		logger:      logger,
	}
}
