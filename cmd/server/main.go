package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/sellerdesk/backend/internal/application/matching"
	"github.com/sellerdesk/backend/internal/application/pricing"
	"github.com/sellerdesk/backend/internal/application/qna"
	"github.com/sellerdesk/backend/internal/infrastructure/auth"
	"github.com/sellerdesk/backend/internal/infrastructure/cache"
	"github.com/sellerdesk/backend/internal/infrastructure/config"
	"github.com/sellerdesk/backend/internal/infrastructure/ecommerce"
	"github.com/sellerdesk/backend/internal/infrastructure/logger"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence"
	"github.com/sellerdesk/backend/internal/infrastructure/spreadsheet"
	"github.com/sellerdesk/backend/internal/infrastructure/telemetry"
	"github.com/sellerdesk/backend/internal/interfaces/http/handler"
	"github.com/sellerdesk/backend/internal/interfaces/http/middleware"
	"github.com/sellerdesk/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry (no-op provider when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Error("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected")

	// Redis sync-state store; the Q&A sync degrades gracefully without it
	var syncState qna.SyncStateStore
	redisStore, err := cache.NewRedisSyncStateStore(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, Q&A sync runs uncoordinated", zap.Error(err))
	} else {
		syncState = redisStore
		defer func() {
			if err := redisStore.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	questionRepo := persistence.NewGormQuestionRepository(db.DB)

	// Vendor adapters
	vendorTimeout := int(cfg.Marketplace.VendorTimeout / time.Second)
	trendyol := ecommerce.NewTrendyolAdapter(ecommerce.TrendyolConfig{TimeoutSeconds: vendorTimeout})
	woocommerce := ecommerce.NewWooCommerceAdapter(ecommerce.WooCommerceConfig{TimeoutSeconds: vendorTimeout})
	registry := ecommerce.NewRegistry(trendyol, woocommerce)

	// Application services
	pricingService := pricing.NewService(productRepo, accountRepo, listingRepo, registry, log, pricing.Config{
		Workers:       cfg.Marketplace.BulkWorkers,
		VendorTimeout: cfg.Marketplace.VendorTimeout,
	})
	matchingService := matching.NewService(productRepo, accountRepo, listingRepo, spreadsheet.NewParser(), log)
	qnaService := qna.NewService(accountRepo, questionRepo, trendyol, syncState, log, qna.Config{
		PageSize: cfg.Marketplace.QuestionPageSize,
	})

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler(db, version))
	r.Register(handler.NewProductHandler(productRepo))
	r.Register(handler.NewAccountHandler(accountRepo))
	r.Register(handler.NewListingHandler(listingRepo, pricingService))
	r.Register(handler.NewPricingHandler(pricingService))
	r.Register(handler.NewMatchingHandler(matchingService))
	r.Register(handler.NewQuestionHandler(qnaService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
