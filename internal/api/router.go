package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/flujo/pos-system/docs"
	"github.com/flujo/pos-system/internal/api/handler"
	"github.com/flujo/pos-system/internal/api/middleware"
	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// Dependencies holds the services the HTTP layer is built on.
type Dependencies struct {
	Auth       ports.AuthService
	Catalog    ports.CatalogService
	Display    ports.DisplayService
	Stock      ports.StockService
	Promotions ports.PromotionService
	Tickets    ports.TicketService
	Reports    ports.ReportService

	// HealthChecks are pinged by the readiness probe, keyed by dependency name.
	HealthChecks map[string]handler.PingFunc

	// Metrics receives the HTTP collectors and backs /metrics. Nil means the
	// default registry, where the domain metrics live.
	Metrics *prometheus.Registry

	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "pos",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, deps.Display)
	userHandler := handler.NewUserHandler(deps.Catalog)
	stockHandler := handler.NewStockHandler(deps.Stock)
	promotionHandler := handler.NewPromotionHandler(deps.Promotions)
	ticketHandler := handler.NewTicketHandler(deps.Tickets)
	reportHandler := handler.NewReportHandler(deps.Reports)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	v1.GET("/categories", catalogHandler.Categories)
	v1.GET("/products", catalogHandler.Products)
	v1.GET("/products/display", catalogHandler.Display)
	v1.GET("/products/:id", catalogHandler.Product)
	v1.POST("/products/highlights/refresh", catalogHandler.RefreshHighlights, adminOnly)
	v1.PUT("/products/:id/price", catalogHandler.UpdatePrice, adminOnly)
	v1.PUT("/products/:id/promotion", catalogHandler.SetPromotion, adminOnly)

	v1.POST("/stock", stockHandler.Update, adminOnly)

	users := v1.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	v1.GET("/promotions", promotionHandler.List)
	v1.GET("/promotions/live", promotionHandler.Live)
	v1.POST("/promotions", promotionHandler.Create, adminOnly)
	v1.PUT("/promotions/:id", promotionHandler.Update, adminOnly)
	v1.DELETE("/promotions/:id", promotionHandler.Delete, adminOnly)

	v1.POST("/tickets", ticketHandler.Generate)
	v1.GET("/tickets", ticketHandler.List)
	v1.GET("/tickets/:id", ticketHandler.Get)
	v1.POST("/tickets/:id/cancel", ticketHandler.Cancel, adminOnly)

	v1.GET("/reports/summary", reportHandler.Summary)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
