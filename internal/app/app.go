package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/vodachat/voda-server/internal/config"
	"github.com/vodachat/voda-server/internal/core"
	"github.com/vodachat/voda-server/internal/directory"
	"github.com/vodachat/voda-server/internal/store"
	"github.com/vodachat/voda-server/internal/store/sqlite"
	transporthttp "github.com/vodachat/voda-server/internal/transport/http"
	transporttcp "github.com/vodachat/voda-server/internal/transport/tcp"
)

// App wires together storage, the hub and both transports.
type App struct {
	tcpServer       *transporttcp.Server
	httpServer      *stdhttp.Server
	hub             *core.Hub
	store           store.Store
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("database initialized")

	dir := directory.NewService(st)
	hub := core.NewHub(dir, st, logger)

	a := &App{
		tcpServer:       transporttcp.NewServer(hub, cfg, logger),
		hub:             hub,
		store:           st,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
	if cfg.HTTPAddr != "" {
		a.httpServer = transporthttp.NewServer(hub, dir, cfg, logger)
	}
	return a, nil
}

// Run starts the hub and both servers, blocking until context cancellation
// or a fatal server error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 2)

	go a.hub.Run(ctx)

	go func() {
		serverErr <- a.tcpServer.Serve(ctx)
	}()

	if a.httpServer != nil {
		a.log.Info().Str("addr", a.httpServer.Addr).Msg("http server listening")
		go func() {
			if err := a.httpServer.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
				serverErr <- err
				return
			}
			serverErr <- nil
		}()
	}

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		if a.httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
			defer cancel()

			a.log.Info().Msg("shutting down http server")
			if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
				a.log.Warn().Err(err).Msg("http shutdown failed")
			}
		}

		err := <-serverErr
		a.cleanup()
		return err
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
