package rental

import (
	"context"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestContext carries the per-request identity the engine needs: company,
// user, currency and locale. It is passed explicitly into every engine call,
// never held as ambient state.
type RequestContext struct {
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Currency  valueobject.Currency
	Locale    string
}

// PricingService is the external pricing collaborator. It owns the
// duration-tiered price tables and the tax-inclusive price normalization.
type PricingService interface {
	// GetDurationPriceTable returns the product's duration-tiered price table
	// mapping duration unit to per-unit price, or (nil, nil) when the product
	// has no rental pricing configured.
	GetDurationPriceTable(ctx context.Context, productID uuid.UUID) (map[valueobject.DurationUnit]decimal.Decimal, error)
	// ToTaxIncludedUnitPrice normalizes a base price to the tax
	// inclusive/exclusive convention of the company and counterparty.
	ToTaxIncludedUnitPrice(ctx context.Context, rc RequestContext, date time.Time, productID uuid.UUID, basePrice valueobject.Money) (valueobject.Money, error)
}

// TaxResult is the outcome of a tax computation for one line
type TaxResult struct {
	TaxAmount     decimal.Decimal
	TotalIncluded decimal.Decimal
	TotalExcluded decimal.Decimal
}

// TaxService is the external tax computation collaborator
type TaxService interface {
	// ComputeAll computes tax, tax-included and tax-excluded totals for a
	// discounted unit price and quantity.
	ComputeAll(ctx context.Context, taxGroup string, price valueobject.Money, quantity decimal.Decimal, productID, counterpartyID uuid.UUID) (TaxResult, error)
}

// SequenceService hands out the next value of a named sequence. Callers
// prepend the document prefix ("RQ", "RO", "CONTRACT-").
type SequenceService interface {
	NextReference(ctx context.Context, sequenceCode string) (string, error)
}

// Sequence codes used for document reference numbering
const (
	SequenceQuotation = "rental.quotation"
	SequenceOrder     = "rental.order"
	SequenceContract  = "rental.contract"
)

// OperationType identifies a configured inventory operation and its default
// locations. Required operation types missing from master data are a fatal
// configuration error.
type OperationType struct {
	ID               uuid.UUID
	Name             string
	SourceLocationID uuid.UUID
	DestLocationID   uuid.UUID
}

// Warehouse is the warehouse master-data reference
type Warehouse struct {
	ID              uuid.UUID
	Name            string
	StockLocationID uuid.UUID
}

// TransferHandle references a committed inventory transfer. The engine never
// holds it beyond the current operation.
type TransferHandle struct {
	ID        uuid.UUID
	Reference string
}

// MovementDetailLine is one executed lot/serial-level sub-line of a movement
type MovementDetailLine struct {
	LotNumber string
	Quantity  decimal.Decimal
}

// PriorMovement is the executed movement history record for a line or
// component, used to anchor return moves.
type PriorMovement struct {
	MoveID           uuid.UUID
	TransferID       uuid.UUID
	ProductID        uuid.UUID
	SourceLocationID uuid.UUID
	DestLocationID   uuid.UUID
	Quantity         decimal.Decimal
	Details          []MovementDetailLine
}

// InventoryService is the external inventory collaborator. The engine builds
// MovementRequests in memory and hands them over for atomic execution.
type InventoryService interface {
	// FindOperationType looks up an operation type by name, returning
	// (nil, nil) when absent.
	FindOperationType(ctx context.Context, name string) (*OperationType, error)
	// CreateAndValidateTransfer persists and executes a movement request as
	// one unit, returning the committed transfer handle.
	CreateAndValidateTransfer(ctx context.Context, req *MovementRequest) (*TransferHandle, error)
	// FindPriorMovement returns the most recent executed outbound movement
	// for a line and product, or (nil, nil) when the line has no movement
	// history.
	FindPriorMovement(ctx context.Context, lineID, productID uuid.UUID) (*PriorMovement, error)
}

// WarehouseResolver resolves the default warehouse of a company
type WarehouseResolver interface {
	DefaultWarehouse(ctx context.Context, companyID uuid.UUID) (*Warehouse, error)
}

// AuditLog records document change history. Composed onto documents as a
// capability the services call, not inherited behavior.
type AuditLog interface {
	Record(ctx context.Context, rc RequestContext, aggregateType string, aggregateID uuid.UUID, action, detail string) error
}
