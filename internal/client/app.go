package client

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openretail/possync/internal/adapter"
	"github.com/openretail/possync/internal/config"
	"github.com/openretail/possync/internal/logger"
	"github.com/openretail/possync/internal/service"
	"github.com/openretail/possync/internal/store"
	"github.com/openretail/possync/internal/utils"
)

// App is the terminal agent application. It owns the durable queue, the
// server adapter, the sync services, and the loopback admin API.
type App struct {
	cfg      *config.ClientConfig
	services *service.ClientServices
	adminAPI *adminAPI

	logger *logger.Logger
}

// NewApp assembles the agent from its configuration: open and migrate the
// local queue database, build the server adapter with a self-signed terminal
// token, and wire the queue and sync services.
func NewApp(cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	ctx := context.Background()

	storages, err := store.NewClientStorages(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, cfg.App, log)
	if err != nil {
		return nil, fmt.Errorf("create server adapter: %w", err)
	}

	// the terminal signs its own token with the shared branch key
	token, err := utils.GenerateTerminalToken(
		cfg.App.TokenIssuer,
		cfg.Identity.BranchID,
		cfg.Identity.TerminalID,
		cfg.App.TokenDuration,
		cfg.App.BranchKey,
	)
	if err != nil {
		return nil, fmt.Errorf("sign terminal token: %w", err)
	}
	serverAdapter.SetToken(token.SignedString)

	services := service.NewClientServices(storages, serverAdapter, cfg, log)

	app := &App{
		cfg:      cfg,
		services: services,
		logger:   log,
	}
	app.adminAPI = newAdminAPI(services, log)

	return app, nil
}

// Run starts the background sync job and the loopback admin API, then blocks
// until the process receives a termination signal.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	a.services.SyncJob.Start(ctx, a.cfg.Dispatcher.SyncInterval)
	defer a.services.SyncJob.Stop()

	adminServer := &http.Server{
		Addr:    a.cfg.AdminAddress,
		Handler: a.adminAPI.routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("addr", a.cfg.AdminAddress).
			Msg("admin API listening")
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("admin API: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Err(err).Msg("admin API shutdown")
	}

	a.logger.Info().Msg("agent stopped gracefully")
	return nil
}
