package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"voiceagent-dashboard/internal/agents"
	"voiceagent-dashboard/internal/audit"
	"voiceagent-dashboard/internal/auth"
	"voiceagent-dashboard/internal/calls"
	"voiceagent-dashboard/internal/config"
	"voiceagent-dashboard/internal/httpapi"
	"voiceagent-dashboard/internal/importer"
	"voiceagent-dashboard/internal/maintenance"
	"voiceagent-dashboard/internal/metrics"
	"voiceagent-dashboard/internal/voice"
	"voiceagent-dashboard/internal/webhook"
	"voiceagent-dashboard/pkg/logger"
	"voiceagent-dashboard/pkg/utils"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional .env for local runs; production gets real env.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb, err := utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
	if err != nil {
		log.Error("redis init failed", "err", err)
		os.Exit(1)
	}
	defer rdb.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	agentRepo := agents.NewRepository(db)
	agentLookup := agents.NewCachedLookup(agentRepo, rdb, 0)
	callRepo := calls.NewRepository(db)
	callSvc := calls.NewService(callRepo)

	provider := voice.NewVapiClient(cfg.Vapi)
	store := webhook.NewSQLStore(agentLookup, agentRepo, callRepo)

	auditSvc := audit.NewService(audit.NewRedisRepo(rdb, 0))
	processor := webhook.NewProcessor(store, provider, m)
	webhookHandler := webhook.NewHandler(processor, auditSvc, cfg.Vapi.WebhookSecret)

	h := httpapi.Handlers{
		Auth:     authManager,
		Calls:    callSvc,
		Audit:    auditSvc,
		Importer: importer.New(store, provider, m),
		Syncer:   maintenance.NewSyncer(agentRepo, provider, cfg.WebhookURL(), cfg.Vapi.WebhookSecret),
	}

	// Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, registry, db, webhookHandler, h, auth.RequireAccessToken(authManager))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}

	_ = logger.ShutdownFlush(shutdownCtx, 2*time.Second)
}
