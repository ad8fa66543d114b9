package rental

import (
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeQuotation = "RentalQuotation"
	AggregateTypeOrder     = "RentalOrder"
	AggregateTypeContract  = "RentalContract"
)

// Event type constants
const (
	EventTypeQuotationCreated   = "RentalQuotationCreated"
	EventTypeQuotationSent      = "RentalQuotationSent"
	EventTypeQuotationConfirmed = "RentalQuotationConfirmed"
	EventTypeQuotationCancelled = "RentalQuotationCancelled"
	EventTypeOrderCreated       = "RentalOrderCreated"
	EventTypeRentalStarted      = "RentalStarted"
	EventTypeOrderHiredOff      = "RentalOrderHiredOff"
	EventTypeOrderCancelled     = "RentalOrderCancelled"
	EventTypeContractCreated    = "RentalContractCreated"
	EventTypeContractActivated  = "RentalContractActivated"
	EventTypeContractClosed     = "RentalContractClosed"
)

// QuotationCreatedEvent is raised when a new quotation is created
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID    uuid.UUID `json:"quotation_id"`
	Reference      string    `json:"reference"`
	CounterpartyID uuid.UUID `json:"counterparty_id"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		Reference:       q.Reference,
		CounterpartyID:  q.CounterpartyID,
	}
}

// QuotationSentEvent is raised when a quotation is sent to the customer
type QuotationSentEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Reference   string    `json:"reference"`
}

// NewQuotationSentEvent creates a new QuotationSentEvent
func NewQuotationSentEvent(q *Quotation) *QuotationSentEvent {
	return &QuotationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSent, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		Reference:       q.Reference,
	}
}

// QuotationConfirmedEvent is raised when a quotation is confirmed into an order
type QuotationConfirmedEvent struct {
	shared.BaseDomainEvent
	QuotationID    uuid.UUID `json:"quotation_id"`
	Reference      string    `json:"reference"`
	CounterpartyID uuid.UUID `json:"counterparty_id"`
	LineCount      int       `json:"line_count"`
}

// NewQuotationConfirmedEvent creates a new QuotationConfirmedEvent
func NewQuotationConfirmedEvent(q *Quotation) *QuotationConfirmedEvent {
	return &QuotationConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationConfirmed, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		Reference:       q.Reference,
		CounterpartyID:  q.CounterpartyID,
		LineCount:       len(q.Lines),
	}
}

// QuotationCancelledEvent is raised when a quotation is cancelled
type QuotationCancelledEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Reference   string    `json:"reference"`
}

// NewQuotationCancelledEvent creates a new QuotationCancelledEvent
func NewQuotationCancelledEvent(q *Quotation) *QuotationCancelledEvent {
	return &QuotationCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCancelled, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		Reference:       q.Reference,
	}
}

// OrderCreatedEvent is raised when a rental order is created from a quotation
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID  `json:"order_id"`
	Reference      string     `json:"reference"`
	QuotationID    *uuid.UUID `json:"quotation_id,omitempty"`
	CounterpartyID uuid.UUID  `json:"counterparty_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		QuotationID:     o.QuotationID,
		CounterpartyID:  o.CounterpartyID,
	}
}

// RentalStartedEvent is raised when an order's rental starts: the contract
// exists and the outbound transfer committed
type RentalStartedEvent struct {
	shared.BaseDomainEvent
	OrderID          uuid.UUID  `json:"order_id"`
	Reference        string     `json:"reference"`
	ContractID       *uuid.UUID `json:"contract_id,omitempty"`
	EffectiveEndDate *time.Time `json:"effective_end_date,omitempty"`
}

// NewRentalStartedEvent creates a new RentalStartedEvent
func NewRentalStartedEvent(o *Order) *RentalStartedEvent {
	return &RentalStartedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeRentalStarted, AggregateTypeOrder, o.ID),
		OrderID:          o.ID,
		Reference:        o.Reference,
		ContractID:       o.ContractID,
		EffectiveEndDate: o.EffectiveEndDate,
	}
}

// OrderHiredOffEvent is raised when an order is hired off
type OrderHiredOffEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID  `json:"order_id"`
	Reference   string     `json:"reference"`
	HireoffDate *time.Time `json:"hireoff_date,omitempty"`
	Reason      string     `json:"reason"`
}

// NewOrderHiredOffEvent creates a new OrderHiredOffEvent
func NewOrderHiredOffEvent(o *Order) *OrderHiredOffEvent {
	return &OrderHiredOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderHiredOff, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		HireoffDate:     o.HireoffDate,
		Reason:          o.HireoffReason,
	}
}

// OrderCancelledEvent is raised when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	Reference string    `json:"reference"`
	Reason    string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		Reason:          o.CancelReason,
	}
}

// ContractCreatedEvent is raised when a contract is created in draft
type ContractCreatedEvent struct {
	shared.BaseDomainEvent
	ContractID uuid.UUID `json:"contract_id"`
	Reference  string    `json:"reference"`
	OrderID    uuid.UUID `json:"order_id"`
}

// NewContractCreatedEvent creates a new ContractCreatedEvent
func NewContractCreatedEvent(c *Contract) *ContractCreatedEvent {
	return &ContractCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractCreated, AggregateTypeContract, c.ID),
		ContractID:      c.ID,
		Reference:       c.Reference,
		OrderID:         c.OrderID,
	}
}

// ContractActivatedEvent is raised when the outbound transfer commits and
// the contract becomes ongoing
type ContractActivatedEvent struct {
	shared.BaseDomainEvent
	ContractID         uuid.UUID  `json:"contract_id"`
	Reference          string     `json:"reference"`
	OutboundTransferID *uuid.UUID `json:"outbound_transfer_id,omitempty"`
}

// NewContractActivatedEvent creates a new ContractActivatedEvent
func NewContractActivatedEvent(c *Contract) *ContractActivatedEvent {
	return &ContractActivatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeContractActivated, AggregateTypeContract, c.ID),
		ContractID:         c.ID,
		Reference:          c.Reference,
		OutboundTransferID: c.OutboundTransferID,
	}
}

// ContractClosedEvent is raised when a contract closes at hire-off
type ContractClosedEvent struct {
	shared.BaseDomainEvent
	ContractID  uuid.UUID  `json:"contract_id"`
	Reference   string     `json:"reference"`
	HireoffDate *time.Time `json:"hireoff_date,omitempty"`
}

// NewContractClosedEvent creates a new ContractClosedEvent
func NewContractClosedEvent(c *Contract) *ContractClosedEvent {
	return &ContractClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeContractClosed, AggregateTypeContract, c.ID),
		ContractID:      c.ID,
		Reference:       c.Reference,
		HireoffDate:     c.HireoffDate,
	}
}
