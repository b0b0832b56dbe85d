// Package app wires configuration, cache build, metrics and the server
// into one process lifecycle.
package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/searchktools/static-server/config"
	"github.com/searchktools/static-server/core"
	"github.com/searchktools/static-server/core/cache"
	"github.com/searchktools/static-server/core/observability"
)

// App is the application instance.
type App struct {
	cfg     *config.Config
	log     zerolog.Logger
	server  *core.Server
	monitor *observability.Monitor
}

// New builds the cache, publishes the snapshot and wires the server.
// Returned errors are fatal startup errors; the caller must not serve.
func New(cfg *config.Config) (*App, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	templates, err := core.NewTemplates()
	if err != nil {
		return nil, err
	}

	// Build once, single-threaded, then publish before any reader exists.
	trie, stats := cache.Build(cfg.ContentDir, log)
	snapshot := cache.NewSnapshot()
	snapshot.Publish(trie)
	log.Info().
		Int("entries", stats.Entries).
		Int64("bytes", stats.Bytes).
		Dur("elapsed", stats.Elapsed).
		Msg("file cache built")

	monitor := observability.NewMonitor()
	monitor.SetCacheStats(stats.Entries, stats.Bytes)

	server := core.NewServer(core.ServerConfig{
		Addr:             cfg.Addr,
		KeepAliveTimeout: cfg.KeepAliveTimeout,
		ConnTimeout:      cfg.ConnTimeout,
		MaxRequestLine:   cfg.MaxRequestLine,
		MaxConns:         cfg.MaxConns,
		ReservedPaths:    cfg.ReservedPaths,
	}, snapshot, templates, monitor, log)

	return &App{
		cfg:     cfg,
		log:     log,
		server:  server,
		monitor: monitor,
	}, nil
}

// Run serves until a shutdown signal arrives, then drains. A bind failure
// or an expired drain is returned to the caller for a non-zero exit.
func (a *App) Run() error {
	if err := a.server.Listen(); err != nil {
		return err
	}

	var metricsSrv *http.Server
	if a.cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.monitor.Handler())
		metricsSrv = &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux}
		go func() {
			a.log.Info().Str("addr", a.cfg.MetricsAddr).Msg("metrics listener up")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Msg("metrics listener failed")
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Serve()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return err
	case sig := <-quit:
		a.log.Info().Str("signal", sig.String()).Msg("shutdown signal received, stopping server")
	}

	drainErr := a.server.Shutdown(a.cfg.DrainTimeout)
	if metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		metricsSrv.Shutdown(ctx)
		cancel()
	}
	if drainErr != nil {
		a.log.Error().Err(drainErr).Msg("forced exit")
		return drainErr
	}

	a.log.Info().Msg("server shutdown complete")
	return nil
}
