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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/vendorsync/backend/internal/application/catalog"
	decisionapp "github.com/vendorsync/backend/internal/application/decision"
	inboxapp "github.com/vendorsync/backend/internal/application/inbox"
	"github.com/vendorsync/backend/internal/application/reconcile"
	syncapp "github.com/vendorsync/backend/internal/application/sync"
	"github.com/vendorsync/backend/internal/infrastructure/config"
	"github.com/vendorsync/backend/internal/infrastructure/event"
	"github.com/vendorsync/backend/internal/infrastructure/locking"
	"github.com/vendorsync/backend/internal/infrastructure/logger"
	"github.com/vendorsync/backend/internal/infrastructure/persistence"
	"github.com/vendorsync/backend/internal/infrastructure/scheduler"
	"github.com/vendorsync/backend/internal/infrastructure/upstream"
	"github.com/vendorsync/backend/internal/interfaces/http/handler"
	"github.com/vendorsync/backend/internal/interfaces/http/middleware"
	"github.com/vendorsync/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting vendor sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database connected and migrated")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Repositories
	stagedProductRepo := persistence.NewGormStagedProductRepository(db.DB)
	stagedLevelRepo := persistence.NewGormStagedLevelRepository(db.DB)
	importDecisionRepo := persistence.NewGormImportDecisionRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	overrideRepo := persistence.NewGormOverrideRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)

	// Event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(catalogapp.NewLowStockAlertHandler(log))

	// Locking is Redis backed so concurrent deployments share one lock space
	locker := locking.NewRedisLocker(redisClient)

	// Upstream platform adapter. Config validation already requires
	// credentials in production; a dev instance without them still serves
	// the inbox and catalog, sync triggers fail until configured.
	if cfg.Upstream.BaseURL == "" || cfg.Upstream.AccessToken == "" {
		log.Warn("Upstream credentials are not configured, sync triggers will fail")
	}
	platform := upstream.NewShopifyAdapter(cfg.Upstream, log)

	// Application services
	merger := syncapp.NewMerger(stagedProductRepo, stagedLevelRepo, log)
	syncService := syncapp.NewSyncService(platform, merger, syncRunRepo, locker, log)
	inboxService := inboxapp.NewService(stagedProductRepo, log)
	reconcileService := reconcile.NewService(variantRepo, overrideRepo, stagedLevelRepo, locker, eventBus, log)
	decisionService := decisionapp.NewService(stagedProductRepo, importDecisionRepo, reconcileService, eventBus, log)
	catalogService := catalogapp.NewService(variantRepo, overrideRepo, log)

	// Scheduled syncs
	syncScheduler := scheduler.NewSyncScheduler(cfg.Scheduler, cfg.Upstream, syncService, log)
	if err := syncScheduler.Start(); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := syncScheduler.Stop(stopCtx); err != nil {
			log.Error("Error stopping sync scheduler", zap.Error(err))
		}
	}()

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(cfg.App.Name, map[string]handler.HealthChecker{
		"database": db.Ping,
		"redis": func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx).Err()
		},
	})
	inboxHandler := handler.NewInboxHandler(inboxService, decisionService)
	syncHandler := handler.NewSyncHandler(syncService, cfg.Upstream.DefaultLocationID)
	catalogHandler := handler.NewCatalogHandler(catalogService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins))

	router.NewRouter(engine).
		Register(systemHandler).
		Register(inboxHandler).
		Register(syncHandler).
		Register(catalogHandler).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
