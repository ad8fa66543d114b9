package rental

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingResolver resolves duration-tiered rental prices for unit lines.
// Set lines are never priced here: their aggregate price is the bottom-up
// sum of component subtotals (LineItem.RefreshSetPrice), each component
// priced per-product through the same table lookup. The asymmetry is
// deliberate; keep the two paths separate.
type PricingResolver struct {
	pricing PricingService
}

// NewPricingResolver creates a PricingResolver
func NewPricingResolver(pricing PricingService) *PricingResolver {
	return &PricingResolver{pricing: pricing}
}

// ResolveUnitPrice looks up the product's duration price table and computes
// the tax-normalized unit price for the requested duration:
// basePrice = table[unit] * value, then tax-inclusive normalization.
func (r *PricingResolver) ResolveUnitPrice(ctx context.Context, rc RequestContext, productID uuid.UUID, d valueobject.Duration, orderDate time.Time) (valueobject.Money, error) {
	table, err := r.pricing.GetDurationPriceTable(ctx, productID)
	if err != nil {
		return valueobject.Money{}, err
	}
	if len(table) == 0 {
		return valueobject.Money{}, shared.NewDomainError(shared.ErrCodeUnconfiguredPricing,
			fmt.Sprintf("Rental price for the selected duration (%s) is not configured for this product. Please contact the administrator or choose different duration.", d.Unit))
	}
	perUnit, ok := table[d.Unit]
	if !ok {
		return valueobject.Money{}, shared.NewDomainError(shared.ErrCodeUnsupportedDurationUnit,
			fmt.Sprintf("This product is not available for rental by %s. Please choose from the available options: %s.", d.Unit, supportedUnits(table)))
	}

	basePrice, err := valueobject.NewMoney(perUnit.Mul(decimal.NewFromInt(int64(d.Value))), rc.Currency)
	if err != nil {
		return valueobject.Money{}, err
	}
	return r.pricing.ToTaxIncludedUnitPrice(ctx, rc, orderDate, productID, basePrice)
}

// ResolveComponentPrice resolves a component's per-unit price from the same
// duration table. Components are charged for the parent line's duration.
func (r *PricingResolver) ResolveComponentPrice(ctx context.Context, rc RequestContext, componentProductID uuid.UUID, d valueobject.Duration, orderDate time.Time) (valueobject.Money, error) {
	return r.ResolveUnitPrice(ctx, rc, componentProductID, d, orderDate)
}

// supportedUnits renders the table keys in canonical unit order
func supportedUnits(table map[valueobject.DurationUnit]decimal.Decimal) string {
	units := make([]string, 0, len(table))
	for _, u := range valueobject.DurationUnits() {
		if _, ok := table[u]; ok {
			units = append(units, u.String())
		}
	}
	return strings.Join(units, ", ")
}
