package rental

import (
	"context"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document reference prefixes
const (
	PrefixQuotation = "RQ"
	PrefixOrder     = "RO"
	PrefixContract  = "CONTRACT-"
)

// QuotationService handles rental quotation business operations
type QuotationService struct {
	quotationRepo  rental.QuotationRepository
	orderRepo      rental.OrderRepository
	sequences      rental.SequenceService
	pricing        *rental.PricingResolver
	aggregator     *rental.LineAggregator
	audit          rental.AuditLog
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo rental.QuotationRepository,
	orderRepo rental.OrderRepository,
	sequences rental.SequenceService,
	pricing *rental.PricingResolver,
	aggregator *rental.LineAggregator,
) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		orderRepo:     orderRepo,
		sequences:     sequences,
		pricing:       pricing,
		aggregator:    aggregator,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAuditLog sets the audit log recorder
func (s *QuotationService) SetAuditLog(audit rental.AuditLog) {
	s.audit = audit
}

// Create creates a rental quotation with its lines, resolving duration
// pricing per line and rolling up document totals.
func (s *QuotationService) Create(ctx context.Context, rc rental.RequestContext, req CreateQuotationRequest) (*QuotationResponse, error) {
	seq, err := s.sequences.NextReference(ctx, rental.SequenceQuotation)
	if err != nil {
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}
	period, err := toPeriod(req.Period)
	if err != nil {
		return nil, err
	}

	quotation, err := rental.NewQuotation(PrefixQuotation+seq, rc.CompanyID, req.CounterpartyID, req.CounterpartyName, rc.Currency, orderDate, period)
	if err != nil {
		return nil, err
	}
	quotation.DeliveryLocationID = req.DeliveryLocationID
	quotation.PricingListID = req.PricingListID
	quotation.Note = req.Note
	if req.ValidityDate != nil {
		validity := valueobject.DateOf(*req.ValidityDate)
		quotation.ValidityDate = &validity
	}

	for _, input := range req.Lines {
		if err := s.addLine(ctx, rc, quotation, input); err != nil {
			return nil, err
		}
	}
	if err := s.recompute(ctx, quotation); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.Save(ctx, quotation); err != nil {
		return nil, err
	}
	s.record(ctx, rc, quotation.ID, "create", quotation.Reference)
	s.publishEvents(ctx, quotation)

	response := ToQuotationResponse(quotation)
	return &response, nil
}

// addLine appends one line to the quotation and resolves its pricing. Unit
// lines are priced top-down from the duration table; set lines price each
// component through the same table and aggregate bottom-up.
func (s *QuotationService) addLine(ctx context.Context, rc rental.RequestContext, q *rental.Quotation, input QuotationLineInput) error {
	period := q.Period
	if !input.Period.IsZero() {
		p, err := toPeriod(input.Period)
		if err != nil {
			return err
		}
		if p.Start == nil {
			p.Start = q.Period.Start
		}
		period = p
	}

	quantity := input.Quantity
	if input.ItemType == rental.ItemTypeSet && quantity.IsZero() {
		quantity = decimal.NewFromInt(1)
	}

	line, err := q.AddLine(input.ItemType, input.ProductID, input.ItemCode, input.Description, input.Unit, quantity, period)
	if err != nil {
		return err
	}
	line.TaxGroup = input.TaxGroup
	if input.DiscountPercent != nil {
		if err := line.SetDiscount(*input.DiscountPercent); err != nil {
			return err
		}
	}

	switch input.ItemType {
	case rental.ItemTypeUnit:
		price, err := s.pricing.ResolveUnitPrice(ctx, rc, input.ProductID, period.Duration, q.OrderDate)
		if err != nil {
			return err
		}
		if err := line.SetPricing(price); err != nil {
			return err
		}
	case rental.ItemTypeSet:
		for _, comp := range input.Components {
			price, err := s.pricing.ResolveComponentPrice(ctx, rc, comp.ProductID, period.Duration, q.OrderDate)
			if err != nil {
				return err
			}
			if _, err := line.AddComponent(comp.ProductID, comp.Description, comp.Unit, comp.Quantity, price.Amount()); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddLine adds a line to an existing quotation and recomputes totals
func (s *QuotationService) AddLine(ctx context.Context, rc rental.RequestContext, quotationID uuid.UUID, input QuotationLineInput) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := s.addLine(ctx, rc, quotation, input); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, quotation); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// RemoveLine removes a line from a quotation and recomputes totals
func (s *QuotationService) RemoveLine(ctx context.Context, quotationID, lineID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.RemoveLine(lineID); err != nil {
		return nil, err
	}
	if err := s.recompute(ctx, quotation); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// GetByReference retrieves a quotation by its document reference
func (s *QuotationService) GetByReference(ctx context.Context, reference string) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, filter QuotationListFilter) (*shared.Paginated[QuotationResponse], error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.CounterpartyID != nil {
		domainFilter.Filters["counterparty_id"] = *filter.CounterpartyID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}
	if filter.StartDate != nil {
		domainFilter.Filters["order_date_from"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["order_date_to"] = *filter.EndDate
	}

	quotations, err := s.quotationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.quotationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]QuotationResponse, 0, len(quotations))
	for i := range quotations {
		items = append(items, ToQuotationResponse(&quotations[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// SetCustomerReferences records the customer reference and PO number
func (s *QuotationService) SetCustomerReferences(ctx context.Context, quotationID uuid.UUID, req SetCustomerReferencesRequest) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	quotation.SetCustomerReferences(req.CustomerReference, req.CustomerPONumber)
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Send marks the quotation as sent to the customer
func (s *QuotationService) Send(ctx context.Context, rc rental.RequestContext, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.Send(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	s.record(ctx, rc, quotation.ID, "send", quotation.Reference)
	s.publishEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// Confirm confirms the quotation and creates its rental order. The order is
// a full copy of the quotation; pricing is carried over, not re-resolved.
func (s *QuotationService) Confirm(ctx context.Context, rc rental.RequestContext, quotationID uuid.UUID) (*OrderResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.Confirm(); err != nil {
		return nil, err
	}

	seq, err := s.sequences.NextReference(ctx, rental.SequenceOrder)
	if err != nil {
		return nil, err
	}
	order, err := quotation.BuildOrder(PrefixOrder + seq)
	if err != nil {
		return nil, err
	}
	quotation.LinkOrder(order.ID)

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	s.record(ctx, rc, quotation.ID, "confirm", order.Reference)
	s.publishEvents(ctx, quotation)
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels a draft or sent quotation
func (s *QuotationService) Cancel(ctx context.Context, rc rental.RequestContext, quotationID uuid.UUID) (*QuotationResponse, error) {
	quotation, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	if err := quotation.Cancel(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, quotation); err != nil {
		return nil, err
	}
	s.record(ctx, rc, quotation.ID, "cancel", quotation.Reference)
	s.publishEvents(ctx, quotation)
	response := ToQuotationResponse(quotation)
	return &response, nil
}

// recompute reprices every line through the tax service and applies the
// rolled-up totals to the header
func (s *QuotationService) recompute(ctx context.Context, q *rental.Quotation) error {
	totals, err := s.aggregator.RecomputeDocument(ctx, q.Currency, q.CounterpartyID, q.Lines)
	if err != nil {
		return err
	}
	q.ApplyTotals(totals)
	return nil
}

func (s *QuotationService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range agg.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Log but don't fail the operation
		}
	}
	agg.ClearDomainEvents()
}

func (s *QuotationService) record(ctx context.Context, rc rental.RequestContext, id uuid.UUID, action, detail string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, rc, rental.AggregateTypeQuotation, id, action, detail)
}

// toPeriod converts a period input to the domain value object
func toPeriod(input RentalPeriodInput) (valueobject.RentalPeriod, error) {
	return valueobject.NewRentalPeriod(input.StartDate, input.DurationValue, input.DurationUnit)
}

// buildFilter applies the list defaults shared by every document list
func buildFilter(page, pageSize int, orderBy, orderDir, search string) shared.Filter {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	if orderBy != "" {
		f.OrderBy = orderBy
	}
	if orderDir != "" {
		f.OrderDir = orderDir
	}
	f.Search = search
	return f
}
