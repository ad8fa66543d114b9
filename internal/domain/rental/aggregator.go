package rental

import (
	"context"

	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentTotals are the rolled-up monetary totals of a document header
type DocumentTotals struct {
	Untaxed decimal.Decimal
	Tax     decimal.Decimal
	Total   decimal.Decimal
}

// LineAggregator computes per-line monetary amounts through the external tax
// service and rolls them up to document totals.
type LineAggregator struct {
	tax TaxService
}

// NewLineAggregator creates a LineAggregator
func NewLineAggregator(tax TaxService) *LineAggregator {
	return &LineAggregator{tax: tax}
}

// RecomputeLine recalculates a line's subtotal, tax and total from its
// discounted unit price and quantity and stores them on the line.
func (a *LineAggregator) RecomputeLine(ctx context.Context, currency valueobject.Currency, counterpartyID uuid.UUID, line *LineItem) error {
	price, err := valueobject.NewMoney(line.DiscountedUnitPrice(), currency)
	if err != nil {
		return err
	}
	qty := line.Quantity
	if line.ItemType == ItemTypeSet {
		// Set quantity is not independently meaningful; the aggregate price
		// already carries the component quantities.
		qty = decimal.NewFromInt(1)
	}
	res, err := a.tax.ComputeAll(ctx, line.TaxGroup, price, qty, line.ProductID, counterpartyID)
	if err != nil {
		return err
	}
	line.ApplyTaxResult(res)
	return nil
}

// RecomputeDocument recalculates amounts for every line and returns the
// rolled-up header totals.
func (a *LineAggregator) RecomputeDocument(ctx context.Context, currency valueobject.Currency, counterpartyID uuid.UUID, lines []LineItem) (DocumentTotals, error) {
	for i := range lines {
		if err := a.RecomputeLine(ctx, currency, counterpartyID, &lines[i]); err != nil {
			return DocumentTotals{}, err
		}
	}
	return SumTotals(lines), nil
}

// SumTotals rolls line amounts up to header totals
func SumTotals(lines []LineItem) DocumentTotals {
	totals := DocumentTotals{
		Untaxed: decimal.Zero,
		Tax:     decimal.Zero,
		Total:   decimal.Zero,
	}
	for i := range lines {
		totals.Untaxed = totals.Untaxed.Add(lines[i].Subtotal)
		totals.Tax = totals.Tax.Add(lines[i].TaxAmount)
	}
	totals.Total = totals.Untaxed.Add(totals.Tax)
	return totals
}
