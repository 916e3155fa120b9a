package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ephemerisadapter "github.com/skyglow/horizon-events/internal/adapter/ephemeris"
	httpadapter "github.com/skyglow/horizon-events/internal/adapter/http"
	kafkaadapter "github.com/skyglow/horizon-events/internal/adapter/kafka"
	"github.com/skyglow/horizon-events/internal/config"
	"github.com/skyglow/horizon-events/internal/domain"
	"github.com/skyglow/horizon-events/internal/fallback"
	"github.com/skyglow/horizon-events/internal/observability"
	"github.com/skyglow/horizon-events/internal/reconcile"
	"github.com/skyglow/horizon-events/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Precision source: remote ephemeris with an LRU cache when configured
	// (EPHEMERIS_URL / EPHEMERIS_ENABLED), otherwise the in-process solver.
	var source scheduler.Source
	if cfg.EphemerisEnabled {
		client := ephemerisadapter.NewClient(cfg.EphemerisURL, cfg.EphemerisTimeout, logger, metrics)
		source = ephemerisadapter.NewCachedSource(client, cfg.EphemerisCacheSize, metrics)
		metrics.EphemerisEnabled.Set(1)
		logger.Info("remote ephemeris enabled",
			"url", cfg.EphemerisURL, "cache_size", cfg.EphemerisCacheSize, "timeout", cfg.EphemerisTimeout)
	} else {
		source = ephemerisadapter.NewLocal(cfg.MoonHorizonDeg)
		logger.Info("remote ephemeris disabled, using in-process solver")
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	queue := scheduler.NewSendQueue(writer, cfg.EphemerisTimeout, logger, metrics)

	tracker := reconcile.New(reconcile.Config{
		DistanceKm:    cfg.StaleDistanceKm,
		UTCOffsetMin:  cfg.StaleUTCOffsetMin,
		SolarShiftMin: cfg.StaleSolarShiftMin,
	})

	sched := scheduler.New(scheduler.Config{
		PollInterval:    cfg.PollInterval,
		RefreshInterval: cfg.RefreshInterval,
		RetryInterval:   cfg.RetryInterval,
		FetchTimeout:    cfg.EphemerisTimeout,
	}, tracker, source, fallback.SunEvents, queue, logger, metrics)

	if cfg.LocationSet {
		loc := domain.NewGeoLocation(cfg.LocationLat, cfg.LocationLon, cfg.LocationUTCOffsetMin)
		if err := sched.UpdateLocation(loc); err != nil {
			logger.Error("invalid startup location", "error", err)
			os.Exit(1)
		}
		logger.Info("startup location set",
			"lat", cfg.LocationLat, "lon", cfg.LocationLon, "utc_offset_min", cfg.LocationUTCOffsetMin)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, sched, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start scheduler loop.
	go func() {
		if err := sched.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := queue.Wait(shutdownCtx); err != nil {
		logger.Error("send queue drain error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
