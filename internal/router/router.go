package router

import (
	"time"

	"stockpos/internal/alert"
	"stockpos/internal/cart"
	"stockpos/internal/config"
	"stockpos/internal/handler"
	"stockpos/internal/infra"
	"stockpos/internal/ledger"
	"stockpos/internal/middleware"
	"stockpos/internal/notify"
	"stockpos/internal/service"
	"stockpos/internal/store"
	"stockpos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators main constructs before the router:
// everything with its own lifecycle (subscription loop, worker pool, purge
// goroutine) lives outside the request path.
type Deps struct {
	DB         *gorm.DB
	RDB        *redis.Client
	Store      store.Store
	Ledger     *ledger.Ledger
	Monitor    *alert.Monitor
	Sessions   *cart.Sessions
	Notifier   *notify.Hub
	Dispatcher *worker.Dispatcher
	SMTPCB     *infra.CircuitBreaker
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Ledger/Store ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(cfg)
	catalogSvc := service.NewCatalogService(d.Store, d.Ledger, d.Notifier, d.Dispatcher)
	checkoutSvc := service.NewCheckoutService(d.Store, d.Ledger, d.Notifier, d.Dispatcher, cfg.BulkThreshold())
	dashboardSvc := service.NewDashboardService(d.Store, d.Ledger)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc, checkoutSvc)
	cartH := handler.NewCartHandler(d.Sessions)
	checkoutH := handler.NewCheckoutHandler(d.Sessions, checkoutSvc)
	alertsH := handler.NewAlertsHandler(d.Monitor)
	notificationsH := handler.NewNotificationsHandler(d.Notifier)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	invoicesH := handler.NewInvoicesHandler(cfg.PDFStoragePath)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.RDB, d.SMTPCB))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Cashier surface — no auth required. An admin token, when present, is
	// honored so the sale is recorded under the admin identity.
	optJWT := middleware.OptionalJWT(authSvc)
	pub := r.Group("/v1", optJWT)
	{
		pub.GET("/products", productsH.List)
		pub.GET("/products/:id", productsH.GetByID)
		pub.POST("/products/:id/sell", productsH.Sell)

		pub.GET("/cart", cartH.Get)
		pub.POST("/cart/items", cartH.AddItem)
		pub.PATCH("/cart/items/:product_id", cartH.SetQuantity)
		pub.DELETE("/cart/items/:product_id", cartH.RemoveItem)
		pub.DELETE("/cart", cartH.Clear)
		pub.POST("/cart/checkout", checkoutH.Checkout)

		pub.GET("/notifications", notificationsH.Recent)
	}

	// Admin surface
	jwtMW := middleware.JWTAuth(authSvc)
	admin := r.Group("/v1", jwtMW, middleware.RequireRole("admin"))
	{
		admin.POST("/products", productsH.Create)
		admin.PUT("/products/:id", productsH.Update)
		admin.DELETE("/products/:id", productsH.Delete)
		admin.POST("/products/:id/restock", productsH.Restock)

		admin.GET("/alerts", alertsH.Get)
		admin.GET("/dashboard", dashboardH.Stats)
		admin.GET("/invoices/:id/pdf", invoicesH.DownloadPDF)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
