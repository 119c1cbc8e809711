package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/xiv-marketboard/internal/database"
	"github.com/rickgao/xiv-marketboard/internal/metrics"
	"github.com/rickgao/xiv-marketboard/internal/poller"
)

// daemon runs sync-base then sync-trades every poll interval until ctx is cancelled.
func (a *app) daemon(ctx context.Context, dataCenter, homeWorld string) error {
	if err := a.migrate(ctx); err != nil {
		return err
	}

	p := poller.New(poller.Config{
		Interval: a.cfg.Poller.Interval,
		Timeout:  a.cfg.Poller.Timeout,
	}, a.logger)
	p.Add("sync-base", poller.JobFunc(a.syncBase))
	p.Add("sync-trades", poller.JobFunc(func(ctx context.Context) error {
		return a.syncTrades(ctx, dataCenter, homeWorld)
	}))

	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.cfg.Metrics.Port),
		Handler:           createHealthHandler(a.db, p, a.metrics, a.cfg.Metrics.Path),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.logger.Info("starting health server", "port", a.cfg.Metrics.Port)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("health server error", "error", err)
		}
	}()

	if err := p.Start(ctx); err != nil {
		return err
	}

	a.logger.Info("daemon running",
		"data_center", dataCenter,
		"home_world", homeWorld,
		"interval", a.cfg.Poller.Interval,
		"health_url", fmt.Sprintf("http://localhost:%d/health", a.cfg.Metrics.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	a.logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := p.Stop(shutdownCtx); err != nil {
		a.logger.Warn("poller stop timed out", "error", err)
	}
	healthServer.Shutdown(shutdownCtx)

	a.logger.Info("daemon stopped")
	return nil
}

// createHealthHandler creates the HTTP handler for health checks and metrics.
func createHealthHandler(db database.DB, p *poller.Poller, m *metrics.Metrics, metricsPath string) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(metricsPath, m.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		// Check database
		if err := db.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["database"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["database"] = "connected"
		}

		// Check scheduler
		stats := p.Stats()
		sched := map[string]any{
			"cycles":   stats.Cycles,
			"runs":     stats.Runs,
			"failures": stats.Failures,
		}
		if !stats.LastCycle.IsZero() {
			sched["last_cycle"] = stats.LastCycle.UTC().Format(time.RFC3339)
		}
		if stats.LastError != "" {
			sched["last_error"] = stats.LastError
			if health.Status == "healthy" {
				health.Status = "degraded"
			}
		}
		health.Components["scheduler"] = sched

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(health); err != nil {
			slog.Default().Debug("write health response", "error", err)
		}
	})

	return mux
}
