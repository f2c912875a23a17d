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

	cashbookapp "github.com/lerp/backend/internal/application/cashbook"
	catalogapp "github.com/lerp/backend/internal/application/catalog"
	notificationapp "github.com/lerp/backend/internal/application/notification"
	purchasingapp "github.com/lerp/backend/internal/application/purchasing"
	quotationapp "github.com/lerp/backend/internal/application/quotation"
	salesapp "github.com/lerp/backend/internal/application/sales"
	"github.com/lerp/backend/internal/infrastructure/audit"
	"github.com/lerp/backend/internal/infrastructure/auth"
	"github.com/lerp/backend/internal/infrastructure/cache"
	"github.com/lerp/backend/internal/infrastructure/config"
	"github.com/lerp/backend/internal/infrastructure/event"
	"github.com/lerp/backend/internal/infrastructure/logger"
	"github.com/lerp/backend/internal/infrastructure/persistence"
	"github.com/lerp/backend/internal/interfaces/http/handler"
	"github.com/lerp/backend/internal/interfaces/http/middleware"
	"github.com/lerp/backend/internal/interfaces/http/router"
)

//	@title			Lerp Backend API
//	@version		1.0
//	@description	Inventory valuation and commercial transaction engine for retail back office

//	@host		localhost:8080
//	@BasePath	/api/v1

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

	log.Info("Starting Lerp Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
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
	productRepo := persistence.NewGormProductRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	costHistoryRepo := persistence.NewGormCostHistoryRepository(db.DB)
	purchaseRecorder := persistence.NewGormPurchaseRecorder(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	saleFinalizer := persistence.NewGormSaleFinalizer(db.DB)
	cashEntryRepo := persistence.NewGormCashEntryRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Cart store: Redis when enabled, in-memory otherwise
	cartStore := cache.NewCartStore(cfg, log)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo)
	purchaseService := purchasingapp.NewPurchaseService(purchaseRecorder, purchaseRepo, costHistoryRepo)
	quotationService := quotationapp.NewQuotationService(quotationRepo, productRepo, cartStore)
	cartService := salesapp.NewCartService(cartStore, productRepo)
	saleService := salesapp.NewSaleService(saleFinalizer, saleRepo, productRepo, cartStore, quotationRepo)
	cashbookService := cashbookapp.NewCashbookService(cashEntryRepo, paymentRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Stock alert events -> persisted notifications
	stockAlertHandler := notificationapp.NewStockAlertHandler(notificationRepo, log)
	eventBus.Subscribe(stockAlertHandler)
	log.Info("Event handlers registered",
		zap.Strings("stock_alert_events", stockAlertHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	productService.SetEventPublisher(eventBus)
	purchaseService.SetEventPublisher(eventBus)
	quotationService.SetEventPublisher(eventBus)
	saleService.SetEventPublisher(eventBus)

	// Session tokens for anonymous cart sessions
	sessionService := auth.NewSessionService(cfg.Session)

	// Audit trail (if enabled)
	var auditRecorder *audit.Recorder
	if cfg.Audit.Enabled {
		auditRecorder = audit.NewRecorder(audit.NewGormWriter(db.DB), cfg.Audit.BufferSize, log)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := auditRecorder.Close(ctx); err != nil {
				log.Error("Error draining audit recorder", zap.Error(err))
			}
		}()
		log.Info("Audit trail enabled", zap.Int("buffer_size", cfg.Audit.BufferSize))
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	cartHandler := handler.NewCartHandler(cartService)
	saleHandler := handler.NewSaleHandler(saleService)
	cashbookHandler := handler.NewCashbookHandler(cashbookService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

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
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing - OpenTelemetry spans
	// 9. Session - Resolve or issue the anonymous session
	// 10. Audit - Record mutating requests
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Tracing
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.App.Name,
		Enabled:     true,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// Session resolution; carts and quotation conversion key off the session ID
	engine.Use(middleware.Session(sessionService, middleware.SessionConfig{
		CookieName:   cfg.Session.CookieName,
		CookieMaxAge: int(cfg.Session.Expiration.Seconds()),
		Secure:       cfg.App.Env == "production",
	}))
	engine.Use(middleware.TracingAttributeInjector())

	if auditRecorder != nil {
		engine.Use(middleware.Audit(auditRecorder))
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Stock ledger (product catalog)
	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.GET("/code/:code", productHandler.GetByCode)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.POST("/:id/stock", productHandler.AdjustStock)
	productRoutes.DELETE("/:id", productHandler.Delete)

	// Purchase recording and cost history
	purchaseRoutes := router.NewDomainGroup("purchases", "/purchases")
	purchaseRoutes.POST("", purchaseHandler.Record)
	purchaseRoutes.GET("", purchaseHandler.List)
	purchaseRoutes.GET("/summary", purchaseHandler.Summary)
	purchaseRoutes.GET("/cost-history/:code", purchaseHandler.CostHistory)

	// Quotations
	quotationRoutes := router.NewDomainGroup("quotations", "/quotations")
	quotationRoutes.POST("", quotationHandler.Create)
	quotationRoutes.GET("", quotationHandler.List)
	quotationRoutes.GET("/:id", quotationHandler.Get)
	quotationRoutes.PUT("/:id", quotationHandler.Update)
	quotationRoutes.POST("/:id/convert", quotationHandler.Convert)
	quotationRoutes.DELETE("/:id", quotationHandler.Delete)

	// Session cart
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.SetItemQuantity)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)

	// Sales
	saleRoutes := router.NewDomainGroup("sales", "/sales")
	saleRoutes.POST("", saleHandler.Finalize)
	saleRoutes.GET("", saleHandler.List)
	saleRoutes.GET("/summary", saleHandler.Summary)
	saleRoutes.GET("/:id", saleHandler.Get)

	// Cash ledger
	cashbookRoutes := router.NewDomainGroup("cashbook", "/cashbook")
	cashbookRoutes.POST("/outflows", cashbookHandler.RecordOutflow)
	cashbookRoutes.POST("/payments", cashbookHandler.RecordPayment)
	cashbookRoutes.GET("/statement", cashbookHandler.Statement)

	// Notifications
	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.ListUnread)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)

	// System routes
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(productRoutes).
		Register(purchaseRoutes).
		Register(quotationRoutes).
		Register(cartRoutes).
		Register(saleRoutes).
		Register(cashbookRoutes).
		Register(notificationRoutes).
		Register(systemRoutes)

	// Setup routes
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
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
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
