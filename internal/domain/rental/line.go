package rental

import (
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemType distinguishes plain rental units from composite sets
type ItemType string

const (
	// ItemTypeUnit is a single rentable product, priced top-down by duration
	ItemTypeUnit ItemType = "unit"
	// ItemTypeSet is a composite item whose price is the sum of its component
	// subtotals and whose stock moves are expanded per component
	ItemTypeSet ItemType = "set"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	return t == ItemTypeUnit || t == ItemTypeSet
}

// LineRentalState is the per-line rental state on order lines.
// It advances only as a side effect of document transitions.
type LineRentalState string

const (
	LineStateDraft   LineRentalState = "draft"
	LineStateActive  LineRentalState = "active"
	LineStateHireoff LineRentalState = "hireoff"
)

// ComponentLine is a sub-part of a set line, priced and moved independently
type ComponentLine struct {
	shared.BaseEntity
	LineID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit        string          `gorm:"type:varchar(20)"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

// TableName overrides the gorm table name
func (ComponentLine) TableName() string {
	return "rental_component_lines"
}

// NewComponentLine creates a component line for a set line
func NewComponentLine(lineID, productID uuid.UUID, description, unit string, quantity, unitPrice decimal.Decimal) (*ComponentLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Component product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Component quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Component unit price cannot be negative")
	}
	return &ComponentLine{
		BaseEntity:  shared.NewBaseEntity(),
		LineID:      lineID,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		Unit:        unit,
		UnitPrice:   unitPrice,
	}, nil
}

// Subtotal returns UnitPrice * Quantity
func (c *ComponentLine) Subtotal() decimal.Decimal {
	return c.UnitPrice.Mul(c.Quantity)
}

// copyFor returns a copy of the component attached to another line
func (c *ComponentLine) copyFor(lineID uuid.UUID) ComponentLine {
	cp := *c
	cp.BaseEntity = shared.NewBaseEntity()
	cp.LineID = lineID
	return cp
}

// LineItem is one rented product entry on a quotation, order or contract.
// The shape is identical at each lifecycle stage; copies stamp OriginLineID
// with the line they were copied from.
type LineItem struct {
	shared.BaseEntity
	DocumentID      uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Sequence        int                       `gorm:"not null;default:10"`
	ItemCode        string                    `gorm:"type:varchar(50)"`
	ProductID       uuid.UUID                 `gorm:"type:uuid;not null"`
	Description     string                    `gorm:"type:text;not null"`
	Quantity        decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	Unit            string                    `gorm:"type:varchar(20)"`
	UnitPrice       decimal.Decimal           `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal           `gorm:"type:decimal(8,4);not null;default:0"`
	TaxGroup        string                    `gorm:"type:varchar(30)"`
	ItemType        ItemType                  `gorm:"type:varchar(10);not null;default:'unit'"`
	Period          valueobject.RentalPeriod  `gorm:"embedded"`
	Components      []ComponentLine           `gorm:"foreignKey:LineID"`
	OriginLineID    *uuid.UUID                `gorm:"type:uuid;index"`
	RentalState     LineRentalState           `gorm:"type:varchar(10);not null;default:'draft'"`
	Subtotal        decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
	Total           decimal.Decimal           `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName overrides the gorm table name
func (LineItem) TableName() string {
	return "rental_line_items"
}

// NewLineItem creates a rental line attached to a document
func NewLineItem(documentID uuid.UUID, sequence int, itemType ItemType, productID uuid.UUID, itemCode, description, unit string, quantity decimal.Decimal, period valueobject.RentalPeriod) (*LineItem, error) {
	if !itemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Item type must be unit or set")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if itemType == ItemTypeUnit && quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return &LineItem{
		BaseEntity:  shared.NewBaseEntity(),
		DocumentID:  documentID,
		Sequence:    sequence,
		ItemCode:    itemCode,
		ProductID:   productID,
		Description: description,
		Quantity:    quantity,
		Unit:        unit,
		ItemType:    itemType,
		Period:      period,
		RentalState: LineStateDraft,
		Components:  make([]ComponentLine, 0),
	}, nil
}

// AddComponent appends a component to a set line and refreshes the
// bottom-up aggregate unit price
func (l *LineItem) AddComponent(productID uuid.UUID, description, unit string, quantity, unitPrice decimal.Decimal) (*ComponentLine, error) {
	if l.ItemType != ItemTypeSet {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", "Components can only be added to set lines")
	}
	comp, err := NewComponentLine(l.ID, productID, description, unit, quantity, unitPrice)
	if err != nil {
		return nil, err
	}
	l.Components = append(l.Components, *comp)
	l.RefreshSetPrice()
	l.UpdatedAt = time.Now()
	return comp, nil
}

// RefreshSetPrice recomputes the aggregate unit price of a set line as the
// sum of its component subtotals. Unit lines are left untouched: their price
// comes from the duration-tiered table.
func (l *LineItem) RefreshSetPrice() {
	if l.ItemType != ItemTypeSet {
		return
	}
	total := decimal.Zero
	for i := range l.Components {
		total = total.Add(l.Components[i].Subtotal())
	}
	l.UnitPrice = total
}

// SetPricing sets the resolved unit price on a unit line
func (l *LineItem) SetPricing(unitPrice valueobject.Money) error {
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	l.UnitPrice = unitPrice.Amount()
	l.UpdatedAt = time.Now()
	return nil
}

// SetDiscount sets the line discount percentage
func (l *LineItem) SetDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount must be between 0 and 100 percent")
	}
	l.DiscountPercent = percent
	l.UpdatedAt = time.Now()
	return nil
}

// DiscountedUnitPrice returns the unit price after the line discount
func (l *LineItem) DiscountedUnitPrice() decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(l.DiscountPercent.Div(decimal.NewFromInt(100)))
	return l.UnitPrice.Mul(factor)
}

// ApplyTaxResult stores the aggregator output on the line
func (l *LineItem) ApplyTaxResult(res TaxResult) {
	l.Subtotal = res.TotalExcluded
	l.TaxAmount = res.TaxAmount
	l.Total = res.TotalIncluded
	l.UpdatedAt = time.Now()
}

// IsActive reports whether the line is currently out on rental
func (l *LineItem) IsActive() bool {
	return l.RentalState == LineStateActive
}

// markActive flags the line as delivered. Called by the fulfillment engine
// after outbound derivation; components are not individually marked.
func (l *LineItem) markActive() {
	l.RentalState = LineStateActive
	l.UpdatedAt = time.Now()
}

// markHiredOff flags an active line as returned
func (l *LineItem) markHiredOff() {
	l.RentalState = LineStateHireoff
	l.UpdatedAt = time.Now()
}

// copyFor returns a deep copy of the line attached to a new document,
// stamping the origin back-reference. Pricing is carried over, never
// re-resolved.
func (l *LineItem) copyFor(documentID uuid.UUID) LineItem {
	cp := *l
	cp.BaseEntity = shared.NewBaseEntity()
	cp.DocumentID = documentID
	origin := l.ID
	cp.OriginLineID = &origin
	cp.RentalState = LineStateDraft
	cp.Components = make([]ComponentLine, 0, len(l.Components))
	for i := range l.Components {
		cp.Components = append(cp.Components, l.Components[i].copyFor(cp.ID))
	}
	return cp
}
