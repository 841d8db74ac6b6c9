package components

import (
	"log/slog"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/handler"
	"order-tracker/internal/handler/api"
	"order-tracker/internal/handler/middleware"
	"order-tracker/internal/infra/metrics"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/usecase/queries"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewTrackingHandler,
		NewStreamHandler,
		middleware.NewAuthMiddleware,
		NewRateLimiter,
		NewHandlers,
		NewMiddlewares,
	),
	fx.Invoke(handler.NewRouter),
)

func NewStreamHandler(
	hub *broadcast.Hub,
	timeline queries.TimelineQueries,
	refresher *queries.TrackingRefresher,
	cfg config.Config,
	logger *slog.Logger,
) *api.StreamHandler {
	return api.NewStreamHandler(hub, timeline, refresher, cfg.Stream, logger)
}

func NewRateLimiter(cfg config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.RateLimit)
}

func NewHandlers(order *api.OrderHandler, tracking *api.TrackingHandler, stream *api.StreamHandler) handler.Handlers {
	return handler.Handlers{Order: order, Tracking: tracking, Stream: stream}
}

func NewMiddlewares(
	auth *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
	logger *middleware.Logger,
	m *metrics.Metrics,
) handler.Middlewares {
	return handler.Middlewares{Auth: auth, RateLimit: limiter, Logger: logger, Metrics: m}
}
