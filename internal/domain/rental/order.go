package rental

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a rental order
type OrderStatus string

const (
	// OrderStatusConfirmed is the initial state: an order is born confirmed,
	// from a confirmed quotation
	OrderStatusConfirmed OrderStatus = "confirm"
	// OrderStatusOngoing means the rental has started and goods are out
	OrderStatusOngoing OrderStatus = "ongoing"
	// OrderStatusHiredOff means all items were returned and the rental ended
	OrderStatusHiredOff OrderStatus = "hireoff"
	OrderStatusCancelled OrderStatus = "cancel"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusOngoing, OrderStatusHiredOff, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusConfirmed:
		return target == OrderStatusOngoing || target == OrderStatusCancelled
	case OrderStatusOngoing:
		return target == OrderStatusHiredOff || target == OrderStatusCancelled
	case OrderStatusHiredOff, OrderStatusCancelled:
		return false
	}
	return false
}

// Order is the rental order aggregate root. Starting the rental creates a
// contract and an outbound movement; hiring off returns all active items.
type Order struct {
	shared.BaseAggregateRoot
	Reference          string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	QuotationID        *uuid.UUID               `gorm:"type:uuid;index"`
	CompanyID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	CounterpartyID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	CounterpartyName   string                   `gorm:"type:varchar(200)"`
	DeliveryLocationID uuid.UUID                `gorm:"type:uuid"`
	CustomerReference  string                   `gorm:"type:varchar(100)"`
	CustomerPONumber   string                   `gorm:"type:varchar(100)"`
	PricingListID      uuid.UUID                `gorm:"type:uuid"`
	Currency           valueobject.Currency     `gorm:"type:varchar(3);not null"`
	OrderDate          time.Time                `gorm:"not null"`
	Period             valueobject.RentalPeriod `gorm:"embedded"`
	Lines              []LineItem               `gorm:"foreignKey:DocumentID"`
	Status             OrderStatus              `gorm:"type:varchar(10);not null;default:'confirm'"`
	AmountUntaxed      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTax          decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTotal        decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Note               string                   `gorm:"type:text"`
	ContractID         *uuid.UUID               `gorm:"type:uuid"`
	EffectiveEndDate   *time.Time               `gorm:"type:date"`
	HireoffDate        *time.Time               `gorm:"type:date"`
	HireoffReason      string                   `gorm:"type:text"`
	CancelReason       string                   `gorm:"type:text"`
}

// TableName overrides the gorm table name
func (Order) TableName() string {
	return "rental_orders"
}

// NewOrder creates a rental order in confirmed state
func NewOrder(reference string, companyID, counterpartyID uuid.UUID, counterpartyName string, currency valueobject.Currency, orderDate time.Time, period valueobject.RentalPeriod) (*Order, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Order reference cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		CompanyID:         companyID,
		CounterpartyID:    counterpartyID,
		CounterpartyName:  counterpartyName,
		Currency:          currency,
		OrderDate:         orderDate,
		Period:            period,
		Status:            OrderStatusConfirmed,
		AmountUntaxed:     decimal.Zero,
		AmountTax:         decimal.Zero,
		AmountTotal:       decimal.Zero,
		Lines:             make([]LineItem, 0),
	}
	order.AddDomainEvent(NewOrderCreatedEvent(order))
	return order, nil
}

// GetLine returns a line by its ID
func (o *Order) GetLine(lineID uuid.UUID) *LineItem {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// ReconcileDuration bubbles the longest line duration up to the header
func (o *Order) ReconcileDuration() {
	durations := make([]valueobject.Duration, 0, len(o.Lines))
	for i := range o.Lines {
		durations = append(durations, o.Lines[i].Period.Duration)
	}
	o.Period = o.Period.WithDuration(valueobject.LongestDuration(o.Period.Duration, durations))
}

// ApplyTotals stores the aggregator's rolled-up totals on the header
func (o *Order) ApplyTotals(totals DocumentTotals) {
	o.AmountUntaxed = totals.Untaxed
	o.AmountTax = totals.Tax
	o.AmountTotal = totals.Total
	o.UpdatedAt = time.Now()
}

// ActiveLines returns the lines currently out on rental, in document order
func (o *Order) ActiveLines() []*LineItem {
	active := make([]*LineItem, 0, len(o.Lines))
	for idx := range o.Lines {
		if o.Lines[idx].IsActive() {
			active = append(active, &o.Lines[idx])
		}
	}
	return active
}

// ValidateRentalPeriods checks every line has a resolved rental period
// before the rental can start. The error itemizes each offending item code.
func (o *Order) ValidateRentalPeriods() error {
	missing := make([]string, 0)
	for idx := range o.Lines {
		if !o.Lines[idx].Period.IsResolved() {
			code := o.Lines[idx].ItemCode
			if code == "" {
				code = o.Lines[idx].Description
			}
			missing = append(missing, code)
		}
	}
	if len(missing) > 0 {
		return shared.NewDomainError(shared.ErrCodeMissingRentalPeriod,
			fmt.Sprintf("Cannot start rental: the following items have no rental period set: %s", strings.Join(missing, ", ")))
	}
	return nil
}

// BuildContract copies the order header and lines into a new contract in
// draft state. Pricing is carried over, not re-resolved; the contract only
// becomes ongoing once its outbound transfer has been confirmed.
func (o *Order) BuildContract(reference string, level DateDefinitionLevel) (*Contract, error) {
	if o.Status != OrderStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot generate a contract for an order in %s status", o.Status))
	}
	if err := o.ValidateRentalPeriods(); err != nil {
		return nil, err
	}
	contract, err := NewContract(reference, o.ID, o.CompanyID, o.CounterpartyID, o.CounterpartyName, o.Currency, o.Period, level)
	if err != nil {
		return nil, err
	}
	contract.PricingListID = o.PricingListID
	contract.CustomerReference = o.CustomerReference
	contract.CustomerPONumber = o.CustomerPONumber
	for i := range o.Lines {
		contract.Lines = append(contract.Lines, o.Lines[i].copyFor(contract.ID))
	}
	contract.AmountUntaxed = o.AmountUntaxed
	contract.AmountTax = o.AmountTax
	contract.AmountTotal = o.AmountTotal
	return contract, nil
}

// StartRental transitions the order to ongoing after its outbound movement
// committed. Stamps the effective end date from the header period. The
// fulfillment engine has already marked the delivered lines active.
func (o *Order) StartRental(contractID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusOngoing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start rental for an order in %s status", o.Status))
	}
	o.Status = OrderStatusOngoing
	o.ContractID = &contractID
	o.EffectiveEndDate = o.Period.End()
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewRentalStartedEvent(o))
	return nil
}

// HireOff marks the given lines returned after the inbound movement
// committed. The order transitions to hired-off only once no line remains
// active; a partial return keeps it ongoing so the rest of the equipment
// can still come back. At least one line must have been active;
// enforcement happens before derivation via RequireActiveLines.
func (o *Order) HireOff(reason string, hireoffDate time.Time, lineIDs []uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusHiredOff) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot hire off an order in %s status", o.Status))
	}
	for _, lineID := range lineIDs {
		line := o.GetLine(lineID)
		if line == nil {
			return shared.NewDomainError("LINE_NOT_FOUND", "Order line not found")
		}
		line.markHiredOff()
	}
	o.UpdatedAt = time.Now()
	if len(o.ActiveLines()) > 0 {
		return nil
	}
	day := valueobject.DateOf(hireoffDate)
	o.Status = OrderStatusHiredOff
	o.HireoffDate = &day
	o.HireoffReason = reason
	o.AddDomainEvent(NewOrderHiredOffEvent(o))
	return nil
}

// RequireActiveLines fails with a validation error when no line is active
func (o *Order) RequireActiveLines() error {
	if len(o.ActiveLines()) == 0 {
		return shared.NewDomainError(shared.ErrCodeNoActiveLines, "Cannot hire off: the order has no active rental items")
	}
	return nil
}

// Cancel cancels a confirmed or ongoing order
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel an order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}
