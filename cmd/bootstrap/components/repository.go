package components

import (
	"order-tracker/internal/infra/uow"

	"go.uber.org/fx"
)

// The unit of work owns the order repository and the read store.
var RepositoryModule = fx.Module("repository",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)
