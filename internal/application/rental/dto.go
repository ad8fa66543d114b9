package rental

import (
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Quotation DTOs ====================

// RentalPeriodInput carries an optional start date and duration for a
// document or line
type RentalPeriodInput struct {
	StartDate     *time.Time                `json:"start_date"`
	DurationValue int                       `json:"duration_value" binding:"omitempty,min=1"`
	DurationUnit  valueobject.DurationUnit  `json:"duration_unit" binding:"omitempty,durationunit"`
}

// IsZero reports whether no period information was supplied
func (p RentalPeriodInput) IsZero() bool {
	return p.StartDate == nil && p.DurationValue == 0 && p.DurationUnit == ""
}

// ComponentInput is one component of a set line
type ComponentInput struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Unit        string          `json:"unit" binding:"omitempty,max=20"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// QuotationLineInput is one rental line in a create or add-line request
type QuotationLineInput struct {
	ItemType        rental.ItemType   `json:"item_type" binding:"required,oneof=unit set"`
	ProductID       uuid.UUID         `json:"product_id" binding:"required"`
	ItemCode        string            `json:"item_code" binding:"omitempty,max=50"`
	Description     string            `json:"description" binding:"required,min=1,max=500"`
	Unit            string            `json:"unit" binding:"omitempty,max=20"`
	Quantity        decimal.Decimal   `json:"quantity"`
	DiscountPercent *decimal.Decimal  `json:"discount_percent"`
	TaxGroup        string            `json:"tax_group" binding:"omitempty,max=30"`
	Period          RentalPeriodInput `json:"period"`
	Components      []ComponentInput  `json:"components" binding:"omitempty,dive"`
}

// CreateQuotationRequest creates a rental quotation with its lines
type CreateQuotationRequest struct {
	CounterpartyID     uuid.UUID            `json:"counterparty_id" binding:"required"`
	CounterpartyName   string               `json:"counterparty_name" binding:"required,min=1,max=200"`
	DeliveryLocationID uuid.UUID            `json:"delivery_location_id"`
	PricingListID      uuid.UUID            `json:"pricing_list_id"`
	Currency           valueobject.Currency `json:"currency"`
	OrderDate          *time.Time           `json:"order_date"`
	ValidityDate       *time.Time           `json:"validity_date"`
	Period             RentalPeriodInput    `json:"period" binding:"required"`
	Note               string               `json:"note"`
	Lines              []QuotationLineInput `json:"lines" binding:"omitempty,dive"`
}

// SetCustomerReferencesRequest records the customer's reference and PO number
type SetCustomerReferencesRequest struct {
	CustomerReference string `json:"customer_reference" binding:"required,min=1,max=100"`
	CustomerPONumber  string `json:"customer_po_number" binding:"required,min=1,max=100"`
}

// QuotationListFilter filters the quotation list
type QuotationListFilter struct {
	Search         string                  `form:"search"`
	CounterpartyID *uuid.UUID              `form:"counterparty_id"`
	Status         *rental.QuotationStatus `form:"status"`
	StartDate      *time.Time              `form:"start_date"`
	EndDate        *time.Time              `form:"end_date"`
	Page           int                     `form:"page" binding:"omitempty,min=1"`
	PageSize       int                     `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string                  `form:"order_by"`
	OrderDir       string                  `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Order DTOs ====================

// StartRentalRequest starts the rental for a confirmed order
type StartRentalRequest struct {
	DateDefinitionLevel rental.DateDefinitionLevel `json:"date_definition_level" binding:"omitempty,oneof=order item"`
}

// HireOffRequest ends the rental and returns the goods. Line IDs default to
// every active line when omitted; the reason is always required.
type HireOffRequest struct {
	Reason      string      `json:"reason" binding:"required,min=1,max=500"`
	HireoffDate *time.Time  `json:"hireoff_date"`
	LineIDs     []uuid.UUID `json:"line_ids"`
}

// CancelRequest cancels an order with a mandatory reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter filters the order list
type OrderListFilter struct {
	Search         string              `form:"search"`
	CounterpartyID *uuid.UUID          `form:"counterparty_id"`
	Status         *rental.OrderStatus `form:"status"`
	Page           int                 `form:"page" binding:"omitempty,min=1"`
	PageSize       int                 `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string              `form:"order_by"`
	OrderDir       string              `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ContractListFilter filters the contract list
type ContractListFilter struct {
	Search         string                 `form:"search"`
	CounterpartyID *uuid.UUID             `form:"counterparty_id"`
	Status         *rental.ContractStatus `form:"status"`
	Page           int                    `form:"page" binding:"omitempty,min=1"`
	PageSize       int                    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string                 `form:"order_by"`
	OrderDir       string                 `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ==================== Responses ====================

// RentalPeriodResponse renders a period with its derived end date
type RentalPeriodResponse struct {
	StartDate     *time.Time               `json:"start_date,omitempty"`
	DurationValue int                      `json:"duration_value"`
	DurationUnit  valueobject.DurationUnit `json:"duration_unit"`
	EndDate       *time.Time               `json:"end_date,omitempty"`
}

// ComponentResponse is one set component in API responses
type ComponentResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// LineResponse is one rental line in API responses
type LineResponse struct {
	ID              uuid.UUID            `json:"id"`
	Sequence        int                  `json:"sequence"`
	ItemCode        string               `json:"item_code"`
	ProductID       uuid.UUID            `json:"product_id"`
	Description     string               `json:"description"`
	Quantity        decimal.Decimal      `json:"quantity"`
	Unit            string               `json:"unit"`
	UnitPrice       decimal.Decimal      `json:"unit_price"`
	DiscountPercent decimal.Decimal      `json:"discount_percent"`
	TaxGroup        string               `json:"tax_group,omitempty"`
	ItemType        rental.ItemType      `json:"item_type"`
	Period          RentalPeriodResponse `json:"period"`
	Components      []ComponentResponse  `json:"components,omitempty"`
	OriginLineID    *uuid.UUID           `json:"origin_line_id,omitempty"`
	RentalState     string               `json:"rental_state"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	TaxAmount       decimal.Decimal      `json:"tax_amount"`
	Total           decimal.Decimal      `json:"total"`
}

// QuotationResponse is a rental quotation in API responses
type QuotationResponse struct {
	ID                 uuid.UUID            `json:"id"`
	Reference          string               `json:"reference"`
	CompanyID          uuid.UUID            `json:"company_id"`
	CounterpartyID     uuid.UUID            `json:"counterparty_id"`
	CounterpartyName   string               `json:"counterparty_name"`
	DeliveryLocationID uuid.UUID            `json:"delivery_location_id"`
	CustomerReference  string               `json:"customer_reference,omitempty"`
	CustomerPONumber   string               `json:"customer_po_number,omitempty"`
	Currency           valueobject.Currency `json:"currency"`
	OrderDate          time.Time            `json:"order_date"`
	ValidityDate       *time.Time           `json:"validity_date,omitempty"`
	Period             RentalPeriodResponse `json:"period"`
	Lines              []LineResponse       `json:"lines"`
	Status             string               `json:"status"`
	AmountUntaxed      decimal.Decimal      `json:"amount_untaxed"`
	AmountTax          decimal.Decimal      `json:"amount_tax"`
	AmountTotal        decimal.Decimal      `json:"amount_total"`
	Note               string               `json:"note,omitempty"`
	OrderID            *uuid.UUID           `json:"order_id,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

// OrderResponse is a rental order in API responses
type OrderResponse struct {
	ID                uuid.UUID            `json:"id"`
	Reference         string               `json:"reference"`
	QuotationID       *uuid.UUID           `json:"quotation_id,omitempty"`
	CompanyID         uuid.UUID            `json:"company_id"`
	CounterpartyID    uuid.UUID            `json:"counterparty_id"`
	CounterpartyName  string               `json:"counterparty_name"`
	CustomerReference string               `json:"customer_reference,omitempty"`
	CustomerPONumber  string               `json:"customer_po_number,omitempty"`
	Currency          valueobject.Currency `json:"currency"`
	OrderDate         time.Time            `json:"order_date"`
	Period            RentalPeriodResponse `json:"period"`
	Lines             []LineResponse       `json:"lines"`
	Status            string               `json:"status"`
	AmountUntaxed     decimal.Decimal      `json:"amount_untaxed"`
	AmountTax         decimal.Decimal      `json:"amount_tax"`
	AmountTotal       decimal.Decimal      `json:"amount_total"`
	ContractID        *uuid.UUID           `json:"contract_id,omitempty"`
	EffectiveEndDate  *time.Time           `json:"effective_end_date,omitempty"`
	HireoffDate       *time.Time           `json:"hireoff_date,omitempty"`
	HireoffReason     string               `json:"hireoff_reason,omitempty"`
	CancelReason      string               `json:"cancel_reason,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// ContractResponse is a rental contract in API responses
type ContractResponse struct {
	ID                  uuid.UUID            `json:"id"`
	Reference           string               `json:"reference"`
	OrderID             uuid.UUID            `json:"order_id"`
	CompanyID           uuid.UUID            `json:"company_id"`
	CounterpartyID      uuid.UUID            `json:"counterparty_id"`
	CounterpartyName    string               `json:"counterparty_name"`
	CustomerReference   string               `json:"customer_reference,omitempty"`
	CustomerPONumber    string               `json:"customer_po_number,omitempty"`
	Currency            valueobject.Currency `json:"currency"`
	Period              RentalPeriodResponse `json:"period"`
	DateDefinitionLevel string               `json:"date_definition_level"`
	Lines               []LineResponse       `json:"lines"`
	Status              string               `json:"status"`
	AmountUntaxed       decimal.Decimal      `json:"amount_untaxed"`
	AmountTax           decimal.Decimal      `json:"amount_tax"`
	AmountTotal         decimal.Decimal      `json:"amount_total"`
	EffectiveEndDate    *time.Time           `json:"effective_end_date,omitempty"`
	HireoffDate         *time.Time           `json:"hireoff_date,omitempty"`
	OutboundTransferID  *uuid.UUID           `json:"outbound_transfer_id,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// ==================== Converters ====================

// ToRentalPeriodResponse converts a rental period including the derived end
func ToRentalPeriodResponse(p valueobject.RentalPeriod) RentalPeriodResponse {
	return RentalPeriodResponse{
		StartDate:     p.Start,
		DurationValue: p.Value,
		DurationUnit:  p.Unit,
		EndDate:       p.End(),
	}
}

// ToComponentResponse converts a component line
func ToComponentResponse(c *rental.ComponentLine) ComponentResponse {
	return ComponentResponse{
		ID:          c.ID,
		ProductID:   c.ProductID,
		Description: c.Description,
		Unit:        c.Unit,
		Quantity:    c.Quantity,
		UnitPrice:   c.UnitPrice,
		Subtotal:    c.Subtotal(),
	}
}

// ToLineResponse converts a rental line
func ToLineResponse(l *rental.LineItem) LineResponse {
	components := make([]ComponentResponse, 0, len(l.Components))
	for i := range l.Components {
		components = append(components, ToComponentResponse(&l.Components[i]))
	}
	return LineResponse{
		ID:              l.ID,
		Sequence:        l.Sequence,
		ItemCode:        l.ItemCode,
		ProductID:       l.ProductID,
		Description:     l.Description,
		Quantity:        l.Quantity,
		Unit:            l.Unit,
		UnitPrice:       l.UnitPrice,
		DiscountPercent: l.DiscountPercent,
		TaxGroup:        l.TaxGroup,
		ItemType:        l.ItemType,
		Period:          ToRentalPeriodResponse(l.Period),
		Components:      components,
		OriginLineID:    l.OriginLineID,
		RentalState:     string(l.RentalState),
		Subtotal:        l.Subtotal,
		TaxAmount:       l.TaxAmount,
		Total:           l.Total,
	}
}

func toLineResponses(lines []rental.LineItem) []LineResponse {
	out := make([]LineResponse, 0, len(lines))
	for i := range lines {
		out = append(out, ToLineResponse(&lines[i]))
	}
	return out
}

// ToQuotationResponse converts a quotation aggregate
func ToQuotationResponse(q *rental.Quotation) QuotationResponse {
	return QuotationResponse{
		ID:                 q.ID,
		Reference:          q.Reference,
		CompanyID:          q.CompanyID,
		CounterpartyID:     q.CounterpartyID,
		CounterpartyName:   q.CounterpartyName,
		DeliveryLocationID: q.DeliveryLocationID,
		CustomerReference:  q.CustomerReference,
		CustomerPONumber:   q.CustomerPONumber,
		Currency:           q.Currency,
		OrderDate:          q.OrderDate,
		ValidityDate:       q.ValidityDate,
		Period:             ToRentalPeriodResponse(q.Period),
		Lines:              toLineResponses(q.Lines),
		Status:             q.Status.String(),
		AmountUntaxed:      q.AmountUntaxed,
		AmountTax:          q.AmountTax,
		AmountTotal:        q.AmountTotal,
		Note:               q.Note,
		OrderID:            q.OrderID,
		CreatedAt:          q.CreatedAt,
		UpdatedAt:          q.UpdatedAt,
	}
}

// ToOrderResponse converts an order aggregate
func ToOrderResponse(o *rental.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		Reference:         o.Reference,
		QuotationID:       o.QuotationID,
		CompanyID:         o.CompanyID,
		CounterpartyID:    o.CounterpartyID,
		CounterpartyName:  o.CounterpartyName,
		CustomerReference: o.CustomerReference,
		CustomerPONumber:  o.CustomerPONumber,
		Currency:          o.Currency,
		OrderDate:         o.OrderDate,
		Period:            ToRentalPeriodResponse(o.Period),
		Lines:             toLineResponses(o.Lines),
		Status:            o.Status.String(),
		AmountUntaxed:     o.AmountUntaxed,
		AmountTax:         o.AmountTax,
		AmountTotal:       o.AmountTotal,
		ContractID:        o.ContractID,
		EffectiveEndDate:  o.EffectiveEndDate,
		HireoffDate:       o.HireoffDate,
		HireoffReason:     o.HireoffReason,
		CancelReason:      o.CancelReason,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

// ToContractResponse converts a contract aggregate
func ToContractResponse(c *rental.Contract) ContractResponse {
	return ContractResponse{
		ID:                  c.ID,
		Reference:           c.Reference,
		OrderID:             c.OrderID,
		CompanyID:           c.CompanyID,
		CounterpartyID:      c.CounterpartyID,
		CounterpartyName:    c.CounterpartyName,
		CustomerReference:   c.CustomerReference,
		CustomerPONumber:    c.CustomerPONumber,
		Currency:            c.Currency,
		Period:              ToRentalPeriodResponse(c.Period),
		DateDefinitionLevel: string(c.DateDefinitionLevel),
		Lines:               toLineResponses(c.Lines),
		Status:              c.Status.String(),
		AmountUntaxed:       c.AmountUntaxed,
		AmountTax:           c.AmountTax,
		AmountTotal:         c.AmountTotal,
		EffectiveEndDate:    c.EffectiveEndDate,
		HireoffDate:         c.HireoffDate,
		OutboundTransferID:  c.OutboundTransferID,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
