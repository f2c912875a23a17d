// Package integration exercises the full HTTP stack against a real
// database. Tests run on an in-memory SQLite database so they need no
// external services.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	cashbookapp "github.com/lerp/backend/internal/application/cashbook"
	catalogapp "github.com/lerp/backend/internal/application/catalog"
	notificationapp "github.com/lerp/backend/internal/application/notification"
	purchasingapp "github.com/lerp/backend/internal/application/purchasing"
	quotationapp "github.com/lerp/backend/internal/application/quotation"
	salesapp "github.com/lerp/backend/internal/application/sales"
	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/notification"
	"github.com/lerp/backend/internal/domain/purchasing"
	"github.com/lerp/backend/internal/domain/quotation"
	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/infrastructure/auth"
	"github.com/lerp/backend/internal/infrastructure/cache"
	"github.com/lerp/backend/internal/infrastructure/config"
	"github.com/lerp/backend/internal/infrastructure/event"
	"github.com/lerp/backend/internal/infrastructure/persistence"
	"github.com/lerp/backend/internal/interfaces/http/handler"
	"github.com/lerp/backend/internal/interfaces/http/middleware"
	"github.com/lerp/backend/internal/interfaces/http/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestServer wires the complete API against an in-memory database.
type TestServer struct {
	t      *testing.T
	DB     *gorm.DB
	Engine *gin.Engine

	// token is the session token captured from the last response and
	// replayed on subsequent requests, the way a browser client would.
	token string
}

// NewTestServer builds a fresh server with its own database.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Product{},
		&purchasing.Purchase{},
		&purchasing.CostHistoryEntry{},
		&quotation.Quotation{},
		&quotation.QuotationItem{},
		&sales.Sale{},
		&sales.SaleItem{},
		&cashbook.Payment{},
		&cashbook.CashEntry{},
		&notification.Notification{},
	))

	log := zap.NewNop()

	productRepo := persistence.NewGormProductRepository(db)
	purchaseRepo := persistence.NewGormPurchaseRepository(db)
	costHistoryRepo := persistence.NewGormCostHistoryRepository(db)
	purchaseRecorder := persistence.NewGormPurchaseRecorder(db)
	quotationRepo := persistence.NewGormQuotationRepository(db)
	saleRepo := persistence.NewGormSaleRepository(db)
	saleFinalizer := persistence.NewGormSaleFinalizer(db)
	cashEntryRepo := persistence.NewGormCashEntryRepository(db)
	paymentRepo := persistence.NewGormPaymentRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)

	cartStore := cache.NewInMemoryCartStore(30 * time.Minute)

	productService := catalogapp.NewProductService(productRepo)
	purchaseService := purchasingapp.NewPurchaseService(purchaseRecorder, purchaseRepo, costHistoryRepo)
	quotationService := quotationapp.NewQuotationService(quotationRepo, productRepo, cartStore)
	cartService := salesapp.NewCartService(cartStore, productRepo)
	saleService := salesapp.NewSaleService(saleFinalizer, saleRepo, productRepo, cartStore, quotationRepo)
	cashbookService := cashbookapp.NewCashbookService(cashEntryRepo, paymentRepo)
	notificationService := notificationapp.NewNotificationService(notificationRepo)

	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(notificationapp.NewStockAlertHandler(notificationRepo, log))
	require.NoError(t, bus.Start(t.Context()))
	t.Cleanup(func() { _ = bus.Stop(t.Context()) })

	productService.SetEventPublisher(bus)
	purchaseService.SetEventPublisher(bus)
	quotationService.SetEventPublisher(bus)
	saleService.SetEventPublisher(bus)

	sessionService := auth.NewSessionService(config.SessionConfig{
		Secret:     "integration-test-secret",
		Expiration: time.Hour,
		Issuer:     "lerp-backend-test",
		CookieName: "lerp_session",
	})

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Session(sessionService, middleware.SessionConfig{
		CookieName:   "lerp_session",
		CookieMaxAge: 3600,
	}))

	productHandler := handler.NewProductHandler(productService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	cartHandler := handler.NewCartHandler(cartService)
	saleHandler := handler.NewSaleHandler(saleService)
	cashbookHandler := handler.NewCashbookHandler(cashbookService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("", productHandler.List)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.GET("/code/:code", productHandler.GetByCode)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.POST("/:id/stock", productHandler.AdjustStock)
	productRoutes.DELETE("/:id", productHandler.Delete)

	purchaseRoutes := router.NewDomainGroup("purchases", "/purchases")
	purchaseRoutes.POST("", purchaseHandler.Record)
	purchaseRoutes.GET("", purchaseHandler.List)
	purchaseRoutes.GET("/summary", purchaseHandler.Summary)
	purchaseRoutes.GET("/cost-history/:code", purchaseHandler.CostHistory)

	quotationRoutes := router.NewDomainGroup("quotations", "/quotations")
	quotationRoutes.POST("", quotationHandler.Create)
	quotationRoutes.GET("", quotationHandler.List)
	quotationRoutes.GET("/:id", quotationHandler.Get)
	quotationRoutes.PUT("/:id", quotationHandler.Update)
	quotationRoutes.POST("/:id/convert", quotationHandler.Convert)
	quotationRoutes.DELETE("/:id", quotationHandler.Delete)

	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.SetItemQuantity)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)

	saleRoutes := router.NewDomainGroup("sales", "/sales")
	saleRoutes.POST("", saleHandler.Finalize)
	saleRoutes.GET("", saleHandler.List)
	saleRoutes.GET("/summary", saleHandler.Summary)
	saleRoutes.GET("/:id", saleHandler.Get)

	cashbookRoutes := router.NewDomainGroup("cashbook", "/cashbook")
	cashbookRoutes.POST("/outflows", cashbookHandler.RecordOutflow)
	cashbookRoutes.POST("/payments", cashbookHandler.RecordPayment)
	cashbookRoutes.GET("/statement", cashbookHandler.Statement)

	notificationRoutes := router.NewDomainGroup("notifications", "/notifications")
	notificationRoutes.GET("", notificationHandler.ListUnread)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)

	r.Register(productRoutes)
	r.Register(purchaseRoutes)
	r.Register(quotationRoutes)
	r.Register(cartRoutes)
	r.Register(saleRoutes)
	r.Register(cashbookRoutes)
	r.Register(notificationRoutes)
	r.Setup()

	return &TestServer{t: t, DB: db, Engine: engine}
}

// Do performs a request against the server, carrying the session token
// across calls.
func (s *TestServer) Do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, req)

	if issued := w.Header().Get("X-Session-Token"); issued != "" {
		s.token = issued
	}
	return w
}

// ResetSession drops the captured session token so the next request
// starts a fresh session.
func (s *TestServer) ResetSession() {
	s.token = ""
}

// apiResponse is the envelope every endpoint responds with.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
	Meta    *apiMeta        `json:"meta"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// decode unmarshals the response envelope and requires success.
func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "body: %s", w.Body.String())
	require.True(t, envelope.Success, "expected success response, got: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out
}

// decodeError unmarshals the response envelope and requires a failure.
func decodeError(t *testing.T, w *httptest.ResponseRecorder) *apiError {
	t.Helper()

	var envelope apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "body: %s", w.Body.String())
	require.False(t, envelope.Success, "expected error response, got: %s", w.Body.String())
	require.NotNil(t, envelope.Error)
	return envelope.Error
}

// decodeMeta unmarshals the envelope and returns data plus pagination.
func decodeMeta[T any](t *testing.T, w *httptest.ResponseRecorder) (T, *apiMeta) {
	t.Helper()

	var envelope apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "body: %s", w.Body.String())
	require.True(t, envelope.Success, "expected success response, got: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(envelope.Data, &out))
	return out, envelope.Meta
}
