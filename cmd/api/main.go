package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-engine/internal/audit"
	"github.com/BruksfildServices01/agenda-engine/internal/calendar"
	"github.com/BruksfildServices01/agenda-engine/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-engine/internal/db"
	"github.com/BruksfildServices01/agenda-engine/internal/domain/schedule"
	"github.com/BruksfildServices01/agenda-engine/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/agenda-engine/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-engine/internal/logger"
	"github.com/BruksfildServices01/agenda-engine/internal/metrics"
	"github.com/BruksfildServices01/agenda-engine/internal/routes"
	"github.com/BruksfildServices01/agenda-engine/internal/timezone"
)

func main() {

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db := dbpkg.NewDB(cfg, log)
	clock := timezone.NewClock(cfg.BusinessTimezone)

	// ------------------------------
	// Cache de disponibilidade (opcional)
	// ------------------------------
	var snapshots schedule.SnapshotCache
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(cfg, log)
		if err != nil {
			log.Warn("redis unavailable, availability cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			snapshots = cache.NewAvailabilityCache(rdb, cfg.CacheTTL)
		}
	}

	// ------------------------------
	// Espelho de calendário
	// ------------------------------
	notifier, err := calendar.New(context.Background(), cfg, clock.Location())
	if err != nil {
		log.Fatal("failed to configure calendar", zap.String("driver", cfg.CalendarDriver), zap.Error(err))
	}
	calendarDispatcher := calendar.NewDispatcher(notifier, infraRepo.NewBookingGormRepository(db), log)

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)

	metrics.Register()

	// ------------------------------
	// HTTP
	// ------------------------------
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Log:      log,
		Clock:    clock,
		Cache:    snapshots,
		Calendar: calendarDispatcher,
		Audit:    auditDispatcher,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("timezone", cfg.BusinessTimezone))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}

	// pending calendar and audit jobs are drained after the last request
	calendarDispatcher.Close()
	auditDispatcher.Close()
}
