package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/freshcart/storefront/docs"
	"github.com/freshcart/storefront/internal/api/handler"
	"github.com/freshcart/storefront/internal/api/middleware"
	"github.com/freshcart/storefront/internal/core/domain"
	"github.com/freshcart/storefront/internal/core/ports"
)

// Services are the use cases the HTTP layer exposes.
type Services struct {
	Auth    ports.AuthService
	Users   ports.UserService
	Catalog ports.CatalogService
	Carts   ports.CartService
	Orders  ports.OrderService
}

// Options tune the router. Zero values fall back to the process-wide
// Prometheus registry and an allow-all CORS policy.
type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	Readiness   map[string]handler.Pinger
	Registerer  prometheus.Registerer
	Gatherer    prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svcs Services, opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAuthorization,
			handler.HeaderIdempotencyKey,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: opts.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(svcs.Auth)
	userHandler := handler.NewUserHandler(svcs.Users)
	productHandler := handler.NewProductHandler(svcs.Catalog)
	cartHandler := handler.NewCartHandler(svcs.Carts)
	orderHandler := handler.NewOrderHandler(svcs.Orders)

	authenticate := middleware.Auth(svcs.Auth)
	userOnly := []echo.MiddlewareFunc{authenticate, middleware.Require(domain.PrincipalUser)}
	adminOnly := []echo.MiddlewareFunc{authenticate, middleware.Require(domain.PrincipalAdmin)}

	g := e.Group("/api")

	// --- Auth routes ---
	g.POST("/signup", authHandler.Signup)
	g.POST("/login", authHandler.Login)
	g.POST("/admin/login", authHandler.AdminLogin)

	// --- Public catalog ---
	g.GET("/products", productHandler.List)
	g.GET("/products/:id", productHandler.Get)

	// --- User routes ---
	g.GET("/user/profile", userHandler.Profile, userOnly...)
	g.PUT("/user/update", userHandler.Update, userOnly...)
	g.GET("/cart", cartHandler.Get, userOnly...)
	g.POST("/cart/add", cartHandler.Add, userOnly...)
	g.POST("/cart/remove", cartHandler.Remove, userOnly...)
	g.POST("/order/create", orderHandler.Create, userOnly...)
	g.GET("/order/history", orderHandler.History, userOnly...)
	g.GET("/order/:id", orderHandler.Get, userOnly...)

	// --- Admin routes ---
	g.PUT("/order/:id/status", orderHandler.UpdateStatus, adminOnly...)
	g.GET("/admin/orders", orderHandler.ListAll, adminOnly...)
	g.GET("/admin/products", productHandler.List, adminOnly...)
	g.GET("/admin/products/:id", productHandler.Get, adminOnly...)
	g.POST("/admin/products/add", productHandler.Create, adminOnly...)
	g.PUT("/admin/products/:id", productHandler.Update, adminOnly...)
	g.DELETE("/admin/products/:id", productHandler.Delete, adminOnly...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(opts.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operational endpoints ---
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	return e
}
