package bootstrap

import (
	"context"
	"log/slog"

	"order-tracker/internal/broadcast"
	"order-tracker/internal/infra/eventbus"
	"order-tracker/internal/infra/metrics"
	"order-tracker/internal/pkg/config"

	"go.uber.org/fx"
)

var BroadcastModule = fx.Module("broadcast",
	fx.Provide(
		NewHub,
	),
	fx.Invoke(StartEventRelay),
)

// NewHub closes the hub on shutdown, which ends every open stream.
func NewHub(lc fx.Lifecycle, logger *slog.Logger, m *metrics.Metrics) *broadcast.Hub {
	hub := broadcast.NewHub(logger, m)
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("Closing broadcast hub", "subscribers", hub.Count())
			hub.Close()
			return nil
		},
	})
	return hub
}

func StartEventRelay(lc fx.Lifecycle, cfg config.Config, hub *broadcast.Hub, logger *slog.Logger) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("Event relay disabled, KAFKA_BROKERS is empty")
		return
	}
	relay := eventbus.NewRelay(eventbus.NewKafkaWriter(cfg.Kafka), logger)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Info("Starting event relay", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
			return relay.Start(hub)
		},
		OnStop: relay.Stop,
	})
}
