package bootstrap

import (
	"order-tracker/internal/pkg/config"
	"order-tracker/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

func NewJWTService(cfg config.Config) *jwt.Service {
	if cfg.JWT.TokenTTL <= 0 {
		panic("invalid JWT_TOKEN_TTL: must be positive")
	}
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.TokenTTL)
}
