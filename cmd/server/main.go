package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auditapp "github.com/techrefresher/backend/internal/application/audit"
	catalogapp "github.com/techrefresher/backend/internal/application/catalog"
	errorlogapp "github.com/techrefresher/backend/internal/application/errorlog"
	identityapp "github.com/techrefresher/backend/internal/application/identity"
	inventoryapp "github.com/techrefresher/backend/internal/application/inventory"
	procurementapp "github.com/techrefresher/backend/internal/application/procurement"
	salesapp "github.com/techrefresher/backend/internal/application/sales"
	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/infrastructure/auth"
	"github.com/techrefresher/backend/internal/infrastructure/cache"
	"github.com/techrefresher/backend/internal/infrastructure/config"
	"github.com/techrefresher/backend/internal/infrastructure/event"
	"github.com/techrefresher/backend/internal/infrastructure/logger"
	"github.com/techrefresher/backend/internal/infrastructure/persistence"
	"github.com/techrefresher/backend/internal/infrastructure/telemetry"
	"github.com/techrefresher/backend/internal/interfaces/http/handler"
	"github.com/techrefresher/backend/internal/interfaces/http/middleware"
	"github.com/techrefresher/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Tech Refresher backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Telemetry (optional; disabled providers are no-ops)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		if err := db.DB.Use(telemetry.NewDBTracingPlugin(tracingCfg, log)); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
		Meter:             meterProvider.Meter("techrefresher.business"),
		Logger:            log,
		InventoryProvider: telemetry.NewGormInventoryMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize business metrics", zap.Error(err))
	}
	if cfg.Telemetry.Enabled {
		businessMetrics.StartPeriodicCollection(ctx, telemetry.NewGormGroupProvider(db.DB), 5*time.Minute)
	}

	// Idempotency store: redis when reachable, in-memory otherwise
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Token blacklist: prefer redis so revocations survive restarts
	var tokenBlacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	catalogItemRepo := persistence.NewGormCatalogItemRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	deviceRepo := persistence.NewGormDeviceRepository(db.DB)
	archivedDeviceRepo := persistence.NewGormArchivedDeviceRepository(db.DB)
	partRepo := persistence.NewGormPartRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	errorLogRepo := persistence.NewGormErrorLogRepository(db.DB)
	unitOfWork := persistence.NewGormUnitOfWork(db)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, tokenBlacklist, log)
	catalogItemService := catalogapp.NewItemService(catalogItemRepo)
	purchaseOrderService := procurementapp.NewPurchaseOrderService(purchaseOrderRepo, unitOfWork)
	deviceService := inventoryapp.NewDeviceService(deviceRepo, archivedDeviceRepo, unitOfWork)
	partService := inventoryapp.NewPartService(partRepo)
	salesOrderService := salesapp.NewOrderService(salesOrderRepo)
	errorLogService := errorlogapp.NewService(errorLogRepo, log)

	// Event bus with an idempotent audit subscriber
	eventBus := event.NewInMemoryEventBus(log)
	auditLogger := auditapp.NewEventLogger(log)
	eventBus.Subscribe(event.NewIdempotentHandler(auditLogger, idempotencyStore, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{
			TTL:     cfg.HTTP.IdempotencyTTL,
			Enabled: true,
		})))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(ctx); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	purchaseOrderService.SetEventPublisher(eventBus)
	deviceService.SetEventPublisher(eventBus)
	partService.SetEventPublisher(eventBus)

	purchaseOrderService.SetBusinessMetrics(businessMetrics)
	deviceService.SetBusinessMetrics(businessMetrics)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}

	// Middleware stack, outermost first
	middlewares := []gin.HandlerFunc{
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.SecureHeaders(),
		middleware.CORS(corsFromConfig(cfg)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	}
	if cfg.Telemetry.Enabled {
		middlewares = append(middlewares, middleware.Tracing(cfg.Telemetry.ServiceName))
	}
	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer rateLimiter.Close()
	middlewares = append(middlewares,
		rateLimiter.Middleware(),
		middleware.JWTAuthWithConfig(jwtMiddlewareConfig(jwtService, tokenBlacklist, log)),
		middleware.Idempotency(idempotencyStore, shared.IdempotencyConfig{
			TTL:     cfg.HTTP.IdempotencyTTL,
			Enabled: true,
		}, log),
	)

	r := router.New(
		router.WithMiddleware(middlewares...),
		router.WithRegistrar(
			handler.NewSystemHandler(db.DB, version),
			handler.NewAuthHandler(authService),
			handler.NewCatalogItemHandler(catalogItemService),
			handler.NewPurchaseOrderHandler(purchaseOrderService),
			handler.NewDeviceHandler(deviceService),
			handler.NewPartHandler(partService),
			handler.NewSalesOrderHandler(salesOrderService),
			handler.NewErrorLogHandler(errorLogService),
		),
	)

	engine := r.Engine()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func corsFromConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}

func jwtMiddlewareConfig(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, log *zap.Logger) middleware.JWTMiddlewareConfig {
	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	jwtCfg.Logger = log
	return jwtCfg
}
