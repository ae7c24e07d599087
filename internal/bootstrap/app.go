package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/yanqian/skyplan/internal/domain/recommend"
	"github.com/yanqian/skyplan/internal/infra/config"
)

// App encapsulates the HTTP server and the recommendation refresher lifecycle.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	server    *http.Server
	refresher *recommend.Refresher
	publisher recommend.Publisher
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, refresher *recommend.Refresher, publisher recommend.Publisher) *App {
	return &App{
		cfg:       cfg,
		logger:    logger.With("component", "bootstrap"),
		server:    server,
		refresher: refresher,
		publisher: publisher,
	}
}

// Run starts the HTTP server and the refresher and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	refreshCtx, cancelRefresh := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if a.refresher != nil && a.refresher.Enabled() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.logger.Info("recommendation refresher starting", "interval", a.cfg.Refresh.Interval, "observers", len(a.cfg.Refresh.ObserverIDs))
			a.refresher.Run(refreshCtx)
		}()
	}
	defer func() {
		cancelRefresh()
		wg.Wait()
		a.closePublisher()
	}()

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) closePublisher() {
	closer, ok := a.publisher.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		a.logger.Warn("failed to close publisher", "error", err)
	}
}
