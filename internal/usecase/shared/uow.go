package shared

import (
	"context"

	"order-tracker/internal/domain/order"
	"order-tracker/internal/infra/db"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow_mock.go -package=sharedmock

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Non-transactional order reads for queries and stream setup
	Reads() OrderReads
}

type Tx interface {
	Orders() OrderRepository
	DB() db.DBTX
}

type OrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.Order) error
	FindByIDForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*order.Order, error)
	Update(ctx context.Context, tx db.DBTX, o *order.Order) error
	AppendHistory(ctx context.Context, tx db.DBTX, c order.Change) error
}

type OrderReads interface {
	OrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	OrderByNumber(ctx context.Context, number string) (*order.Order, error)
	History(ctx context.Context, id uuid.UUID) ([]order.Change, error)
}
