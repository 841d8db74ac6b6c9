package bootstrap

import (
	"order-tracker/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	MetricsModule,
	CarrierModule,
	BroadcastModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
