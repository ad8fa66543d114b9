package rental

import (
	"fmt"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractStatus represents the status of a rental contract
type ContractStatus string

const (
	// ContractStatusDraft is the state a contract is created in. It stays
	// draft until the inventory service confirms the outbound transfer;
	// the movement is the gating event, not a clerical flag.
	ContractStatusDraft ContractStatus = "draft"
	// ContractStatusOngoing means the outbound transfer committed and the
	// contract is in force
	ContractStatusOngoing ContractStatus = "ongoing"
	// ContractStatusClosed means the rental was hired off
	ContractStatusClosed ContractStatus = "closed"
)

// IsValid checks if the status is a valid ContractStatus
func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusDraft, ContractStatusOngoing, ContractStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ContractStatus
func (s ContractStatus) String() string {
	return string(s)
}

// DateDefinitionLevel indicates whether rental dates are defined at the
// order level or per order item
type DateDefinitionLevel string

const (
	DateLevelOrder DateDefinitionLevel = "order"
	DateLevelItem  DateDefinitionLevel = "item"
)

// IsValid checks if the level is valid
func (l DateDefinitionLevel) IsValid() bool {
	return l == DateLevelOrder || l == DateLevelItem
}

// Contract is the rental contract aggregate root, created when an order's
// rental starts. It keeps a weak back-reference to the originating order.
type Contract struct {
	shared.BaseAggregateRoot
	Reference           string                   `gorm:"type:varchar(50);not null;uniqueIndex"`
	OrderID             uuid.UUID                `gorm:"type:uuid;not null;index"`
	CompanyID           uuid.UUID                `gorm:"type:uuid;not null;index"`
	CounterpartyID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	CounterpartyName    string                   `gorm:"type:varchar(200)"`
	CustomerReference   string                   `gorm:"type:varchar(100)"`
	CustomerPONumber    string                   `gorm:"type:varchar(100)"`
	PricingListID       uuid.UUID                `gorm:"type:uuid"`
	Currency            valueobject.Currency     `gorm:"type:varchar(3);not null"`
	Period              valueobject.RentalPeriod `gorm:"embedded"`
	DateDefinitionLevel DateDefinitionLevel      `gorm:"type:varchar(10);not null;default:'order'"`
	Lines               []LineItem               `gorm:"foreignKey:DocumentID"`
	Status              ContractStatus           `gorm:"type:varchar(10);not null;default:'draft'"`
	AmountUntaxed       decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTax           decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountTotal         decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	EffectiveEndDate    *time.Time               `gorm:"type:date"`
	HireoffDate         *time.Time               `gorm:"type:date"`
	OutboundTransferID  *uuid.UUID               `gorm:"type:uuid"`
}

// TableName overrides the gorm table name
func (Contract) TableName() string {
	return "rental_contracts"
}

// NewContract creates a contract in draft state
func NewContract(reference string, orderID, companyID, counterpartyID uuid.UUID, counterpartyName string, currency valueobject.Currency, period valueobject.RentalPeriod, level DateDefinitionLevel) (*Contract, error) {
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Contract reference cannot be empty")
	}
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Contract must reference a rental order")
	}
	if !level.IsValid() {
		level = DateLevelOrder
	}

	contract := &Contract{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Reference:           reference,
		OrderID:             orderID,
		CompanyID:           companyID,
		CounterpartyID:      counterpartyID,
		CounterpartyName:    counterpartyName,
		Currency:            currency,
		Period:              period,
		DateDefinitionLevel: level,
		Status:              ContractStatusDraft,
		AmountUntaxed:       decimal.Zero,
		AmountTax:           decimal.Zero,
		AmountTotal:         decimal.Zero,
		Lines:               make([]LineItem, 0),
	}
	contract.AddDomainEvent(NewContractCreatedEvent(contract))
	return contract, nil
}

// Activate transitions the contract to ongoing. Only legal once the
// outbound transfer has been confirmed by the inventory service.
func (c *Contract) Activate(outboundTransferID uuid.UUID) error {
	if c.Status != ContractStatusDraft {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot activate a contract in %s status", c.Status))
	}
	if outboundTransferID == uuid.Nil {
		return shared.NewDomainError("MISSING_TRANSFER", "Contract activation requires a confirmed outbound transfer")
	}
	c.Status = ContractStatusOngoing
	c.OutboundTransferID = &outboundTransferID
	c.EffectiveEndDate = c.Period.End()
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewContractActivatedEvent(c))
	return nil
}

// Close closes an ongoing contract at hire-off
func (c *Contract) Close(hireoffDate time.Time) error {
	if c.Status != ContractStatusOngoing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close a contract in %s status", c.Status))
	}
	day := valueobject.DateOf(hireoffDate)
	c.Status = ContractStatusClosed
	c.HireoffDate = &day
	c.UpdatedAt = time.Now()
	c.AddDomainEvent(NewContractClosedEvent(c))
	return nil
}

// GetLine returns a line by its ID
func (c *Contract) GetLine(lineID uuid.UUID) *LineItem {
	for idx := range c.Lines {
		if c.Lines[idx].ID == lineID {
			return &c.Lines[idx]
		}
	}
	return nil
}

// LineByOrigin returns the contract line copied from the given order line
func (c *Contract) LineByOrigin(orderLineID uuid.UUID) *LineItem {
	for idx := range c.Lines {
		if c.Lines[idx].OriginLineID != nil && *c.Lines[idx].OriginLineID == orderLineID {
			return &c.Lines[idx]
		}
	}
	return nil
}
