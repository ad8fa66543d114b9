package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/gdi/rental-backend/internal/infrastructure/tax"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceRule is one duration-tier price of a product: the per-unit rental
// price for a given duration unit
type PriceRule struct {
	ID           uuid.UUID                `gorm:"type:uuid;primaryKey"`
	ProductID    uuid.UUID                `gorm:"type:uuid;not null;index:idx_price_rules_product_unit,unique"`
	DurationUnit valueobject.DurationUnit `gorm:"type:varchar(10);not null;index:idx_price_rules_product_unit,unique"`
	Price        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	TaxGroup     string                   `gorm:"type:varchar(30)"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides the gorm table name
func (PriceRule) TableName() string {
	return "rental_price_rules"
}

// GormPricingService implements the pricing collaborator on the
// rental_price_rules table, with tax-included normalization delegated to the
// rate table
type GormPricingService struct {
	db    *gorm.DB
	rates *tax.RateTable
}

// NewGormPricingService creates a new GormPricingService
func NewGormPricingService(db *gorm.DB, rates *tax.RateTable) *GormPricingService {
	return &GormPricingService{db: db, rates: rates}
}

// GetDurationPriceTable returns the product's duration-tiered price table,
// or (nil, nil) when the product has no rental pricing configured
func (s *GormPricingService) GetDurationPriceTable(ctx context.Context, productID uuid.UUID) (map[valueobject.DurationUnit]decimal.Decimal, error) {
	var rules []PriceRule
	if err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&rules).Error; err != nil {
		return nil, err
	}
	if len(rules) == 0 {
		return nil, nil
	}

	table := make(map[valueobject.DurationUnit]decimal.Decimal, len(rules))
	for _, rule := range rules {
		table[rule.DurationUnit] = rule.Price
	}
	return table, nil
}

// ToTaxIncludedUnitPrice normalizes a base price to the tax-included
// convention of the product's tax group. Products without a tax group keep
// the base price.
func (s *GormPricingService) ToTaxIncludedUnitPrice(ctx context.Context, rc rental.RequestContext, date time.Time, productID uuid.UUID, basePrice valueobject.Money) (valueobject.Money, error) {
	taxGroup, err := s.productTaxGroup(ctx, productID)
	if err != nil {
		return valueobject.Money{}, err
	}
	if taxGroup == "" {
		return basePrice, nil
	}
	return s.rates.TaxIncludedUnitPrice(ctx, taxGroup, basePrice)
}

func (s *GormPricingService) productTaxGroup(ctx context.Context, productID uuid.UUID) (string, error) {
	var taxGroup string
	err := s.db.WithContext(ctx).
		Model(&PriceRule{}).
		Select("tax_group").
		Where("product_id = ?", productID).
		Take(&taxGroup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return taxGroup, nil
}

// Ensure GormPricingService implements PricingService
var _ rental.PricingService = (*GormPricingService)(nil)
