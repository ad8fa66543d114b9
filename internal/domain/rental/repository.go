package rental

import (
	"context"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// QuotationRepository persists rental quotations
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)
	FindByReference(ctx context.Context, reference string) (*Quotation, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, quotation *Quotation) error
	// SaveWithLock saves using optimistic locking on the aggregate version
	SaveWithLock(ctx context.Context, quotation *Quotation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository persists rental orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	FindByStatus(ctx context.Context, status OrderStatus, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, order *Order) error
	SaveWithLock(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContractRepository persists rental contracts
type ContractRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Contract, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Contract, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, contract *Contract) error
	SaveWithLock(ctx context.Context, contract *Contract) error
	Delete(ctx context.Context, id uuid.UUID) error
}
