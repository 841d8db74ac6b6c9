package bootstrap

import (
	"log/slog"

	"order-tracker/internal/infra/cache"
	"order-tracker/internal/infra/carrier"
	"order-tracker/internal/infra/metrics"
	"order-tracker/internal/pkg/config"

	"go.uber.org/fx"
)

var CarrierModule = fx.Module("carrier",
	fx.Provide(
		NewCarrierRegistry,
		NewTrackingCache,
	),
)

// NewCarrierRegistry registers every carrier that has credentials. The
// primary carrier is always registered; without credentials its calls fail
// and callers fall back to cached or synthetic data.
func NewCarrierRegistry(cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (*carrier.Registry, error) {
	cc := cfg.Carrier
	client := carrier.NewHTTPClient(cc.Timeout)

	var carriers []carrier.Carrier
	if cc.ShiprocketEmail != "" || cc.Primary == carrier.CodeShiprocket {
		carriers = append(carriers, carrier.NewShiprocket(carrier.ShiprocketConfig{
			BaseURL:          cc.ShiprocketURL,
			Email:            cc.ShiprocketEmail,
			Password:         cc.ShiprocketPass,
			PickupLocation:   cc.PickupLocation,
			PickupPostalCode: cfg.Shipping.PickupPostalCode,
		}, client))
	}
	if cc.DelhiveryToken != "" || cc.Primary == carrier.CodeDelhivery {
		carriers = append(carriers, carrier.NewDelhivery(carrier.DelhiveryConfig{
			BaseURL:          cc.DelhiveryURL,
			Token:            cc.DelhiveryToken,
			PickupLocation:   cc.PickupLocation,
			PickupPostalCode: cfg.Shipping.PickupPostalCode,
		}, client))
	}

	reg, err := carrier.NewRegistry(cc.Primary, m, carriers...)
	if err != nil {
		return nil, err
	}
	logger.Info("Carriers registered", "primary", cc.Primary, "carriers", reg.Codes())
	return reg, nil
}

func NewTrackingCache(cfg config.Config) *cache.TrackingCache {
	return cache.NewTrackingCache(cfg.Carrier.TrackingCacheLen, cfg.Carrier.TrackingCacheTTL)
}
