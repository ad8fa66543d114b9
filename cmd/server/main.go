package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	rentalapp "github.com/gdi/rental-backend/internal/application/rental"
	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/infrastructure/config"
	"github.com/gdi/rental-backend/internal/infrastructure/event"
	"github.com/gdi/rental-backend/internal/infrastructure/logger"
	"github.com/gdi/rental-backend/internal/infrastructure/persistence"
	"github.com/gdi/rental-backend/internal/infrastructure/pricing"
	"github.com/gdi/rental-backend/internal/infrastructure/stock"
	"github.com/gdi/rental-backend/internal/infrastructure/tax"
	"github.com/gdi/rental-backend/internal/interfaces/http/handler"
	"github.com/gdi/rental-backend/internal/interfaces/http/middleware"
	"github.com/gdi/rental-backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting rental backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection, SQL logging follows the app log level
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	sequences := persistence.NewGormSequenceService(db.DB)
	auditLog := persistence.NewGormAuditLog(db.DB)

	// Inventory and pricing adapters
	inventoryService := stock.NewGormInventoryService(db.DB)
	warehouseResolver := stock.NewGormWarehouseResolver(db.DB)
	rateTable := tax.NewRateTable(db.DB)
	pricingService := pricing.NewGormPricingService(db.DB, rateTable)

	// Domain services
	pricingResolver := rental.NewPricingResolver(pricingService)
	aggregator := rental.NewLineAggregator(rateTable)
	fulfillmentEngine := rental.NewFulfillmentEngine(inventoryService)

	// Initialize application services
	quotationService := rentalapp.NewQuotationService(quotationRepo, orderRepo, sequences, pricingResolver, aggregator)
	orderService := rentalapp.NewOrderService(
		orderRepo,
		contractRepo,
		sequences,
		inventoryService,
		warehouseResolver,
		fulfillmentEngine,
		rentalapp.OperationTypeNames{
			Delivery: cfg.Rental.DeliveryOperationType,
			Return:   cfg.Rental.ReturnOperationType,
		},
	)
	contractService := rentalapp.NewContractService(contractRepo)

	// Initialize event bus and lifecycle handlers
	eventBus := event.NewInMemoryEventBus(log)

	activityHandler := rentalapp.NewActivityLogHandler(log)
	eventBus.Subscribe(activityHandler)
	log.Info("Event handlers registered",
		zap.Strings("activity_log_events", activityHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus and audit trail into services
	quotationService.SetEventPublisher(eventBus)
	quotationService.SetAuditLog(auditLog)
	orderService.SetEventPublisher(eventBus)
	orderService.SetAuditLog(auditLog)

	// Initialize HTTP handlers
	quotationHandler := handler.NewQuotationHandler(quotationService)
	orderHandler := handler.NewOrderHandler(orderService)
	contractHandler := handler.NewContractHandler(contractService)
	transferHandler := handler.NewTransferHandler(inventoryService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	rentalRoutes := router.NewDomainGroup("rental", "/rental")

	// Quotation lifecycle
	rentalRoutes.POST("/quotations", quotationHandler.Create)
	rentalRoutes.GET("/quotations", quotationHandler.List)
	rentalRoutes.GET("/quotations/reference/:reference", quotationHandler.GetByReference)
	rentalRoutes.GET("/quotations/:id", quotationHandler.GetByID)
	rentalRoutes.POST("/quotations/:id/lines", quotationHandler.AddLine)
	rentalRoutes.DELETE("/quotations/:id/lines/:line_id", quotationHandler.RemoveLine)
	rentalRoutes.PUT("/quotations/:id/customer-references", quotationHandler.SetCustomerReferences)
	rentalRoutes.POST("/quotations/:id/send", quotationHandler.Send)
	rentalRoutes.POST("/quotations/:id/confirm", quotationHandler.Confirm)
	rentalRoutes.POST("/quotations/:id/cancel", quotationHandler.Cancel)

	// Order lifecycle
	rentalRoutes.GET("/orders", orderHandler.List)
	rentalRoutes.GET("/orders/reference/:reference", orderHandler.GetByReference)
	rentalRoutes.GET("/orders/:id", orderHandler.GetByID)
	rentalRoutes.POST("/orders/:id/start-rental", orderHandler.StartRental)
	rentalRoutes.POST("/orders/:id/hire-off", orderHandler.HireOff)
	rentalRoutes.POST("/orders/:id/cancel", orderHandler.Cancel)
	rentalRoutes.GET("/orders/:id/contract", contractHandler.GetByOrder)
	rentalRoutes.GET("/orders/:id/transfers", transferHandler.ListByOrder)

	// Contracts
	rentalRoutes.GET("/contracts", contractHandler.List)
	rentalRoutes.GET("/contracts/:id", contractHandler.GetByID)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(rentalRoutes).
		Register(systemRoutes)

	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
