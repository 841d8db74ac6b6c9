package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"order-tracker/internal/domain/user"
	"order-tracker/internal/handler/api"
	"order-tracker/internal/handler/middleware"
	"order-tracker/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Order    *api.OrderHandler
	Tracking *api.TrackingHandler
	Stream   *api.StreamHandler
}

type Middlewares struct {
	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimiter
	Logger    *middleware.Logger
	Metrics   middleware.HTTPObserver
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, mw Middlewares, registry *prometheus.Registry) {
	setupMiddleware(engine, cfg, mw)
	setupRoutes(engine, h, mw, registry)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, mw Middlewares) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(mw.Logger, cfg.Log))
	if mw.Metrics != nil {
		engine.Use(middleware.MetricsMiddleware(mw.Metrics))
	}
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h Handlers, mw Middlewares, registry *prometheus.Registry) {
	engine.GET("/health", healthCheck)
	if registry != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	}

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limited := []gin.HandlerFunc{}
	if mw.RateLimit != nil {
		limited = append(limited, mw.RateLimit.Middleware())
	}

	apiGroup := engine.Group("/api")
	{
		public := apiGroup.Group("")
		public.Use(limited...)
		addRoutes(public, []route{
			{Method: http.MethodPost, Path: "/shipping/rates", Handler: h.Tracking.Rates},
			{Method: http.MethodGet, Path: "/tracking/:awb", Handler: h.Tracking.Track},
			{Method: http.MethodGet, Path: "/track/:orderNumber", Handler: h.Tracking.TrackOrder, Mw: []gin.HandlerFunc{mw.Auth.OptionalAuth()}},
		})

		orders := apiGroup.Group("/orders")
		orders.Use(mw.Auth.RequireAuth())
		addRoutes(orders, []route{
			{Method: http.MethodGet, Path: "/:id/tracking", Handler: h.Tracking.OrderTracking},
			{Method: http.MethodGet, Path: "/:id/stream", Handler: h.Stream.OrderStream},
		})

		admin := apiGroup.Group("/admin/orders")
		admin.Use(mw.Auth.RequireAuth(), mw.Auth.RequireRoleAtLeast(user.RoleAdmin))
		addRoutes(admin, []route{
			{Method: http.MethodGet, Path: "/stream", Handler: h.Stream.AdminStream},
			{Method: http.MethodPost, Path: "", Handler: h.Order.PlaceOrder},
			{Method: http.MethodPost, Path: "/:id/status", Handler: h.Order.Transition},
			{Method: http.MethodPost, Path: "/:id/payment", Handler: h.Order.UpdatePayment},
			{Method: http.MethodPost, Path: "/:id/shipment", Handler: h.Order.RecordShipment},
			{Method: http.MethodPost, Path: "/:id/shipment/create", Handler: h.Order.CreateShipment},
			{Method: http.MethodPost, Path: "/:id/cancel", Handler: h.Order.Cancel},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
