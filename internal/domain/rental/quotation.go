package rental

import (
	"fmt"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the status of a rental quotation
type QuotationStatus string

const (
	QuotationStatusDraft     QuotationStatus = "draft"
	QuotationStatusSent      QuotationStatus = "sent"
	QuotationStatusConfirmed QuotationStatus = "confirm"
	QuotationStatusCancelled QuotationStatus = "cancel"
)

// IsValid checks if the status is a valid QuotationStatus
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusConfirmed, QuotationStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of QuotationStatus
func (s QuotationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	switch s {
	case QuotationStatusDraft:
		return target == QuotationStatusSent || target == QuotationStatusCancelled
	case QuotationStatusSent:
		return target == QuotationStatusConfirmed || target == QuotationStatusCancelled
	case QuotationStatusConfirmed, QuotationStatusCancelled:
		return false
	}
	return false
}

// Quotation is the rental quotation aggregate root. Confirming a quotation
// produces a rental order and locks the quotation.
type Quotation struct {
	shared.BaseAggregateRoot
	Reference          string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	CompanyID          uuid.UUID                `gorm:"type:uuid;not null;index"`
	CounterpartyID     uuid.UUID                `gorm:"type:uuid;not null;index"`
	CounterpartyName   string                   `gorm:"type:varchar(200)"`
	DeliveryLocationID uuid.UUID                `gorm:"type:uuid"`
	CustomerReference  string                   `gorm:"type:varchar(100)"`
	CustomerPONumber   string                   `gorm:"type:varchar(100)"`
	PricingListID      uuid.UUID                `gorm:"type:uuid"`
	Currency           valueobject.Currency     `gorm:"type:varchar(3);not null"`
	OrderDate          time.Time                `gorm:"not null"`
	ValidityDate       *time.Time               `gorm:"type:date"`
	Period             valueobject.RentalPeriod `gorm:"embedded"`
	Lines              []LineItem               `gorm:"foreignKey:DocumentID"`
	Status             QuotationStatus          `gorm:"type:varchar(10);not null;default:'draft'"`
	AmountUntaxed      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTax          decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTotal        decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Note               string                   `gorm:"type:text"`
	OrderID            *uuid.UUID               `gorm:"type:uuid"`
}

// TableName overrides the gorm table name
func (Quotation) TableName() string {
	return "rental_quotations"
}

// NewQuotation creates a rental quotation in draft state
func NewQuotation(reference string, companyID, counterpartyID uuid.UUID, counterpartyName string, currency valueobject.Currency, orderDate time.Time, period valueobject.RentalPeriod) (*Quotation, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Quotation reference cannot be empty")
	}
	if counterpartyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COUNTERPARTY", "Counterparty ID cannot be empty")
	}
	if !currency.IsValid() {
		currency = valueobject.DefaultCurrency
	}

	q := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Reference:         reference,
		CompanyID:         companyID,
		CounterpartyID:    counterpartyID,
		CounterpartyName:  counterpartyName,
		Currency:          currency,
		OrderDate:         orderDate,
		Period:            period,
		Status:            QuotationStatusDraft,
		AmountUntaxed:     decimal.Zero,
		AmountTax:         decimal.Zero,
		AmountTotal:       decimal.Zero,
		Lines:             make([]LineItem, 0),
	}
	q.AddDomainEvent(NewQuotationCreatedEvent(q))
	return q, nil
}

// CanModify returns true if quotation lines can still change
func (q *Quotation) CanModify() bool {
	return q.Status == QuotationStatusDraft || q.Status == QuotationStatusSent
}

// AddLine appends a rental line and reconciles the header duration
func (q *Quotation) AddLine(itemType ItemType, productID uuid.UUID, itemCode, description, unit string, quantity decimal.Decimal, period valueobject.RentalPeriod) (*LineItem, error) {
	if !q.CanModify() {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to a confirmed or cancelled quotation")
	}
	line, err := NewLineItem(q.ID, q.nextSequence(), itemType, productID, itemCode, description, unit, quantity, period)
	if err != nil {
		return nil, err
	}
	q.Lines = append(q.Lines, *line)
	q.ReconcileDuration()
	q.UpdatedAt = time.Now()
	return &q.Lines[len(q.Lines)-1], nil
}

// RemoveLine removes a line and reconciles the header duration
func (q *Quotation) RemoveLine(lineID uuid.UUID) error {
	if !q.CanModify() {
		return shared.NewDomainError("INVALID_STATE", "Cannot remove lines from a confirmed or cancelled quotation")
	}
	for idx := range q.Lines {
		if q.Lines[idx].ID == lineID {
			q.Lines = append(q.Lines[:idx], q.Lines[idx+1:]...)
			q.ReconcileDuration()
			q.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("LINE_NOT_FOUND", "Quotation line not found")
}

// GetLine returns a line by its ID
func (q *Quotation) GetLine(lineID uuid.UUID) *LineItem {
	for idx := range q.Lines {
		if q.Lines[idx].ID == lineID {
			return &q.Lines[idx]
		}
	}
	return nil
}

// ReconcileDuration bubbles the longest line duration (by comparable days)
// up to the header. Idempotent; recomputed on every line mutation.
func (q *Quotation) ReconcileDuration() {
	durations := make([]valueobject.Duration, 0, len(q.Lines))
	for i := range q.Lines {
		durations = append(durations, q.Lines[i].Period.Duration)
	}
	q.Period = q.Period.WithDuration(valueobject.LongestDuration(q.Period.Duration, durations))
}

// ApplyTotals stores the aggregator's rolled-up totals on the header
func (q *Quotation) ApplyTotals(totals DocumentTotals) {
	q.AmountUntaxed = totals.Untaxed
	q.AmountTax = totals.Tax
	q.AmountTotal = totals.Total
	q.UpdatedAt = time.Now()
}

// SetCustomerReferences records the customer's own reference and PO number
func (q *Quotation) SetCustomerReferences(customerReference, poNumber string) {
	q.CustomerReference = customerReference
	q.CustomerPONumber = poNumber
	q.UpdatedAt = time.Now()
}

// Send transitions the quotation from draft to sent
func (q *Quotation) Send() error {
	if q.Status == QuotationStatusSent {
		return nil
	}
	if !q.Status.CanTransitionTo(QuotationStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send quotation in %s status", q.Status))
	}
	q.Status = QuotationStatusSent
	q.UpdatedAt = time.Now()
	q.AddDomainEvent(NewQuotationSentEvent(q))
	return nil
}

// IsExpired reports whether a sent quotation passed its validity date
func (q *Quotation) IsExpired(today time.Time) bool {
	return q.Status == QuotationStatusSent && q.ValidityDate != nil && q.ValidityDate.Before(valueobject.DateOf(today))
}

// Confirm validates the quotation and transitions it to confirmed. The
// caller creates the order via BuildOrder and stamps it with LinkOrder.
// Confirm requires both customer references; a quotation still in draft is
// confirmed directly per the documented sent-optional flow.
func (q *Quotation) Confirm() error {
	if q.Status != QuotationStatusDraft && !q.Status.CanTransitionTo(QuotationStatusConfirmed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm quotation in %s status", q.Status))
	}
	if q.CustomerReference == "" || q.CustomerPONumber == "" {
		return shared.NewDomainError("MISSING_CUSTOMER_REFERENCE", "Please input Customer Reference and Customer Ref. PO !")
	}
	if len(q.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot confirm quotation without lines")
	}
	q.Status = QuotationStatusConfirmed
	q.UpdatedAt = time.Now()
	q.AddDomainEvent(NewQuotationConfirmedEvent(q))
	return nil
}

// LinkOrder stamps the back-reference to the created order
func (q *Quotation) LinkOrder(orderID uuid.UUID) {
	q.OrderID = &orderID
	q.UpdatedAt = time.Now()
}

// Cancel cancels a draft or sent quotation
func (q *Quotation) Cancel() error {
	if !q.Status.CanTransitionTo(QuotationStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel quotation in %s status", q.Status))
	}
	q.Status = QuotationStatusCancelled
	q.UpdatedAt = time.Now()
	q.AddDomainEvent(NewQuotationCancelledEvent(q))
	return nil
}

// BuildOrder copies the quotation header and lines into a new rental order.
// Line pricing and periods are carried over as-is; every copied line stamps
// its origin back-reference.
func (q *Quotation) BuildOrder(reference string) (*Order, error) {
	if q.Status != QuotationStatusConfirmed {
		return nil, shared.NewDomainError("INVALID_STATE", "Order can only be built from a confirmed quotation")
	}
	order, err := NewOrder(reference, q.CompanyID, q.CounterpartyID, q.CounterpartyName, q.Currency, q.OrderDate, q.Period)
	if err != nil {
		return nil, err
	}
	order.QuotationID = &q.ID
	order.DeliveryLocationID = q.DeliveryLocationID
	order.PricingListID = q.PricingListID
	order.CustomerReference = q.CustomerReference
	order.CustomerPONumber = q.CustomerPONumber
	order.Note = q.Note
	for i := range q.Lines {
		order.Lines = append(order.Lines, q.Lines[i].copyFor(order.ID))
	}
	order.AmountUntaxed = q.AmountUntaxed
	order.AmountTax = q.AmountTax
	order.AmountTotal = q.AmountTotal
	return order, nil
}

// nextSequence returns the next line sequence, spaced by 10 like the
// original document layouts expect
func (q *Quotation) nextSequence() int {
	max := 0
	for i := range q.Lines {
		if q.Lines[i].Sequence > max {
			max = q.Lines[i].Sequence
		}
	}
	return max + 10
}
