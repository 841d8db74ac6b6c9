package components

import (
	"log/slog"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/infra/cache"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/infra/metrics"
	"order-tracker/internal/pkg/clock"
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/usecase"
	"order-tracker/internal/usecase/commands"
	"order-tracker/internal/usecase/queries"
	"order-tracker/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		NewOrderCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewTrackingQueries,
		NewRateQueries,
		queries.NewTimelineQueries,
		NewTrackingRefresher,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewOrderCommands(
	uow shared.UnitOfWork,
	clk clock.Clock,
	hub *broadcast.Hub,
	carriers *carrier.Registry,
	cfg config.Config,
	logger *slog.Logger,
) commands.OrderCommands {
	return commands.NewOrderUseCase(uow, clk, hub, carriers, cfg.Shipping.DefaultItemWeightGrams, logger)
}

func NewTrackingQueries(
	carriers *carrier.Registry,
	trackingCache *cache.TrackingCache,
	m *metrics.Metrics,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) queries.TrackingQueries {
	return queries.NewTrackingQueries(carriers, trackingCache, m, clk, cfg.Carrier.Timeout, logger)
}

func NewRateQueries(carriers *carrier.Registry, m *metrics.Metrics, cfg config.Config, logger *slog.Logger) queries.RateQueries {
	return queries.NewRateQueries(carriers, queries.RatePolicy{
		PickupPostalCode:       cfg.Shipping.PickupPostalCode,
		FreeShippingThreshold:  cfg.Shipping.FreeShippingThreshold,
		FlatShippingFee:        cfg.Shipping.FlatShippingFee,
		DefaultItemWeightGrams: cfg.Shipping.DefaultItemWeightGrams,
		Timeout:                cfg.Carrier.Timeout,
	}, m, logger)
}

func NewTrackingRefresher(tq queries.TrackingQueries, cfg config.Config, logger *slog.Logger) *queries.TrackingRefresher {
	return queries.NewTrackingRefresher(tq, cfg.Stream.TrackingPoll, logger)
}
