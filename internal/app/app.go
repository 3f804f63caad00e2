package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"solicitacao-compras/internal/config"
	"solicitacao-compras/internal/domain/ports"
	"solicitacao-compras/internal/server"
)

// App manages the lifecycle of the HTTP server and the temp-file sweeper.
type App struct {
	server     *http.Server
	cron       *cron.Cron
	logger     ports.Logger
	sweepSpec  string
	tempMaxAge time.Duration
}

// New constructs an App instance.
func New(cfg *config.Config, srv *server.Server, logger ports.Logger) *App {
	return &App{
		server: &http.Server{
			Addr:    cfg.ServerAddr,
			Handler: srv.Handler(),
		},
		cron:       cron.New(),
		logger:     logger,
		sweepSpec:  cfg.TempSweepCron,
		tempMaxAge: cfg.TempMaxAge,
	}
}

// Run serves until ctx is cancelled, then shuts down with a bounded
// grace period. The sweeper runs on its cron schedule for as long as
// the server is up.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduleSweep(); err != nil {
		return err
	}
	a.cron.Start()

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info(ctx, "listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		a.cron.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error(context.Background(), "shutdown failed", "error", err)
	}

	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
	}
	a.logger.Info(context.Background(), "server stopped")
	return nil
}

func (a *App) scheduleSweep() error {
	_, err := a.cron.AddFunc(a.sweepSpec, func() {
		ctx := context.Background()
		removed, err := sweepDir(os.TempDir(), a.tempMaxAge)
		if err != nil {
			a.logger.Warn(ctx, "temp sweep failed", "error", err)
			return
		}
		if removed > 0 {
			a.logger.Info(ctx, "removed stale upload spill files", "count", removed)
		}
	})
	return err
}

// sweepDir deletes multipart spill files older than maxAge. Requests
// clean up after themselves; this catches files orphaned by crashes.
func sweepDir(dir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "multipart-") {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, entry.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}
