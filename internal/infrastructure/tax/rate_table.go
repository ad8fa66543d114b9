package tax

import (
	"context"
	"errors"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RateRecord is one flat tax rate keyed by tax group. PriceIncluded marks
// groups whose configured prices already carry the tax.
type RateRecord struct {
	TaxGroup      string          `gorm:"type:varchar(30);primaryKey"`
	RatePercent   decimal.Decimal `gorm:"type:decimal(8,4);not null"`
	PriceIncluded bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName overrides the gorm table name
func (RateRecord) TableName() string {
	return "tax_rates"
}

// RateTable is the flat rate-table tax collaborator. Lines without a tax
// group, and groups without a configured rate, compute as untaxed.
type RateTable struct {
	db *gorm.DB
}

// NewRateTable creates a new RateTable
func NewRateTable(db *gorm.DB) *RateTable {
	return &RateTable{db: db}
}

// ComputeAll computes tax, tax-included and tax-excluded totals for a
// discounted unit price and quantity
func (t *RateTable) ComputeAll(ctx context.Context, taxGroup string, price valueobject.Money, quantity decimal.Decimal, productID, counterpartyID uuid.UUID) (rental.TaxResult, error) {
	base := price.Amount().Mul(quantity)

	record, err := t.findRate(ctx, taxGroup)
	if err != nil {
		return rental.TaxResult{}, err
	}
	if record == nil {
		return rental.TaxResult{
			TaxAmount:     decimal.Zero,
			TotalIncluded: base,
			TotalExcluded: base,
		}, nil
	}
	return Compute(record.RatePercent, record.PriceIncluded, base), nil
}

// TaxIncludedUnitPrice normalizes a unit price to the tax-included
// convention. Prices of price-included groups are returned unchanged.
func (t *RateTable) TaxIncludedUnitPrice(ctx context.Context, taxGroup string, price valueobject.Money) (valueobject.Money, error) {
	record, err := t.findRate(ctx, taxGroup)
	if err != nil {
		return valueobject.Money{}, err
	}
	if record == nil || record.PriceIncluded {
		return price, nil
	}
	factor := decimal.NewFromInt(1).Add(record.RatePercent.Div(decimal.NewFromInt(100)))
	return price.Mul(factor), nil
}

func (t *RateTable) findRate(ctx context.Context, taxGroup string) (*RateRecord, error) {
	if taxGroup == "" {
		return nil, nil
	}
	var record RateRecord
	err := t.db.WithContext(ctx).
		Where("tax_group = ?", taxGroup).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Compute applies a flat percentage rate to a base amount. For
// price-included groups the base already carries the tax and is decomposed;
// otherwise the tax is added on top.
func Compute(ratePercent decimal.Decimal, priceIncluded bool, base decimal.Decimal) rental.TaxResult {
	hundred := decimal.NewFromInt(100)
	if priceIncluded {
		excluded := base.Mul(hundred).Div(hundred.Add(ratePercent))
		return rental.TaxResult{
			TaxAmount:     base.Sub(excluded),
			TotalIncluded: base,
			TotalExcluded: excluded,
		}
	}
	taxAmount := base.Mul(ratePercent).Div(hundred)
	return rental.TaxResult{
		TaxAmount:     taxAmount,
		TotalIncluded: base.Add(taxAmount),
		TotalExcluded: base,
	}
}

// Ensure RateTable implements TaxService
var _ rental.TaxService = (*RateTable)(nil)
