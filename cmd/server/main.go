package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/bennati/checklist-bff/internal/api"
	"github.com/bennati/checklist-bff/internal/api/metrics"
	"github.com/bennati/checklist-bff/internal/api/middleware"
	"github.com/bennati/checklist-bff/internal/core/ports"
	"github.com/bennati/checklist-bff/internal/core/service"
	"github.com/bennati/checklist-bff/internal/infrastructure/backend"
	memorydb "github.com/bennati/checklist-bff/internal/infrastructure/db/memory"
	mongodb "github.com/bennati/checklist-bff/internal/infrastructure/db/mongo"
	redisdb "github.com/bennati/checklist-bff/internal/infrastructure/db/redis"
	"github.com/bennati/checklist-bff/internal/infrastructure/http/handlers"
	"github.com/bennati/checklist-bff/internal/infrastructure/queue"
	"github.com/bennati/checklist-bff/internal/pkg/config"
	"github.com/bennati/checklist-bff/pkg/logger"
)

const (
	serviceName     = "checklist-bff"
	shutdownTimeout = 15 * time.Second
	minSweepEvery   = time.Minute
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.JWTSecret == "" {
		// Development only: sessions do not survive a restart.
		cfg.JWTSecret = uuid.NewString()
		log.Warn().Msg("JWT_SECRET not set, using a random per-process secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	readiness := map[string]handlers.Pinger{}

	// --- Session storage ---
	var storage ports.SessionStorage
	switch cfg.Session.Backend {
	case "memory":
		storage = memorydb.NewSessionStorage(cfg.Session.TTL)
		log.Warn().Msg("session storage in memory, sessions are lost on restart")
	default:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: serviceName,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable")
		}
		defer rdb.Close()
		storage = redisdb.NewSessionStorage(rdb, cfg.Session.TTL)
		readiness["redis"] = handlers.RedisPinger(rdb)
	}

	// --- Backend gateway ---
	gateway := backend.NewClient(cfg.Backend.URL, &http.Client{}, metrics.ObserveGateway, logger.Component("backend"))
	readiness["backend"] = gateway.Ping

	// --- Batch audit ---
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	var (
		recorder   ports.BatchRecorder
		audit      ports.BatchAuditRepository
		dispatcher *queue.AuditDispatcher
	)
	if cfg.Audit.Enabled {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  serviceName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo unavailable")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		repo := mongodb.NewBatchRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("could not ensure batch indexes")
		}

		dispatcher = queue.NewAuditDispatcher(cfg.Audit.Workers, repo, logger.Component("audit"))
		dispatcher.OnDepth = func(workerID string, depth int) {
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(depth))
		}
		dispatcher.OnDrop = metrics.AuditDroppedTotal.Inc
		dispatcher.Start(workerCtx)

		recorder, audit = dispatcher, repo
		readiness["mongo"] = handlers.MongoPinger(db)
	} else {
		log.Info().Msg("batch audit disabled")
	}

	// --- Services ---
	workspaces := service.NewWorkspaces(service.WorkspaceConfig{
		Storage:      storage,
		Gateway:      gateway,
		Recorder:     recorder,
		ChangeReason: cfg.Backend.ChangeReason,
		Timeout:      cfg.Backend.Timeout,
		IdleTTL:      cfg.Session.IdleTTL,
		OnSizeChange: metrics.SetActiveWorkspaces,
	}, logger.Component("workspaces"))
	authService := service.NewAuthService(gateway, workspaces, cfg.Backend.Timeout, logger.Component("auth"))
	reportService := service.NewReportService(gateway, audit, cfg.Backend.Timeout, logger.Component("reports"))

	sweepEvery := cfg.Session.IdleTTL / 2
	if sweepEvery < minSweepEvery {
		sweepEvery = minSweepEvery
	}
	go workspaces.RunSweeper(workerCtx, sweepEvery)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Log:          logger.Component("http"),
		Tokens:       middleware.NewTokens(cfg.JWTSecret, cfg.Session.TTL),
		Workspaces:   workspaces,
		Auth:         authService,
		Reports:      reportService,
		Readiness:    readiness,
		StaticDir:    cfg.StaticDir,
		CORSOrigins:  cfg.CORSOrigins,
		SecureCookie: !cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("backend", cfg.Backend.URL).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	// Workers drain what is queued before exiting.
	cancelWorkers()
	if dispatcher != nil {
		dispatcher.Wait()
		if n := dispatcher.Dropped(); n > 0 {
			log.Warn().Int64("dropped", n).Msg("batch reports dropped during this run")
		}
	}
	log.Info().Msg("server stopped")
}
