package rental

import (
	"context"
	"errors"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OperationTypeNames carries the configured inventory operation type names
// the rental flow depends on
type OperationTypeNames struct {
	Delivery string
	Return   string
}

// OrderService handles rental order business operations: starting the
// rental (contract creation plus outbound movement) and hiring off
// (inbound movement plus contract closure).
type OrderService struct {
	orderRepo      rental.OrderRepository
	contractRepo   rental.ContractRepository
	sequences      rental.SequenceService
	inventory      rental.InventoryService
	warehouses     rental.WarehouseResolver
	engine         *rental.FulfillmentEngine
	operationTypes OperationTypeNames
	audit          rental.AuditLog
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo rental.OrderRepository,
	contractRepo rental.ContractRepository,
	sequences rental.SequenceService,
	inventory rental.InventoryService,
	warehouses rental.WarehouseResolver,
	engine *rental.FulfillmentEngine,
	operationTypes OperationTypeNames,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		contractRepo:   contractRepo,
		sequences:      sequences,
		inventory:      inventory,
		warehouses:     warehouses,
		engine:         engine,
		operationTypes: operationTypes,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetAuditLog sets the audit log recorder
func (s *OrderService) SetAuditLog(audit rental.AuditLog) {
	s.audit = audit
}

// GetByID retrieves a rental order by ID
func (s *OrderService) GetByID(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByReference retrieves a rental order by its document reference
func (s *OrderService) GetByReference(ctx context.Context, reference string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves rental orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) (*shared.Paginated[OrderResponse], error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.CounterpartyID != nil {
		domainFilter.Filters["counterparty_id"] = *filter.CounterpartyID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToOrderResponse(&orders[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// StartRental starts the rental for a confirmed order: it generates the
// contract, derives the outbound movement, executes the transfer, and only
// then transitions contract and order. The movement request is fully built
// before anything is persisted, so a derivation failure leaves the order
// untouched.
func (s *OrderService) StartRental(ctx context.Context, rc rental.RequestContext, orderID uuid.UUID, req StartRentalRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	level := req.DateDefinitionLevel
	if level == "" {
		level = rental.DateLevelOrder
	}
	seq, err := s.sequences.NextReference(ctx, rental.SequenceContract)
	if err != nil {
		return nil, err
	}
	contract, err := order.BuildContract(PrefixContract+seq, level)
	if err != nil {
		return nil, err
	}

	op, err := s.findOperationType(ctx, s.operationTypes.Delivery)
	if err != nil {
		return nil, err
	}
	if op.SourceLocationID == uuid.Nil {
		// Operation types without a configured source ship from the
		// company's default warehouse
		warehouse, err := s.warehouses.DefaultWarehouse(ctx, order.CompanyID)
		if err != nil {
			return nil, err
		}
		op.SourceLocationID = warehouse.StockLocationID
	}

	lines := make([]*rental.LineItem, 0, len(order.Lines))
	for i := range order.Lines {
		lines = append(lines, &order.Lines[i])
	}
	movement, err := s.engine.BuildOutbound(order.ID, order.Reference, lines, op, order.DeliveryLocationID)
	if err != nil {
		return nil, err
	}
	if movement.IsEmpty() {
		return nil, shared.NewDomainError("NO_MOVABLE_ITEMS", "Cannot start rental: no items produce a stock movement")
	}

	transfer, err := s.inventory.CreateAndValidateTransfer(ctx, movement)
	if err != nil {
		return nil, err
	}

	if err := contract.Activate(transfer.ID); err != nil {
		return nil, err
	}
	if err := order.StartRental(contract.ID); err != nil {
		return nil, err
	}

	if err := s.contractRepo.Save(ctx, contract); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.record(ctx, rc, order.ID, "start_rental", contract.Reference)
	s.publishEvents(ctx, contract)
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// HireOff returns the selected lines: it derives the return movement
// mirroring each line's prior outbound move, executes the transfer, and
// marks the lines returned. Order and contract close only when no active
// line remains; a partial return leaves both ongoing. Lines without
// movement history are skipped with a warning instead of failing the
// whole return.
func (s *OrderService) HireOff(ctx context.Context, rc rental.RequestContext, orderID uuid.UUID, req HireOffRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.RequireActiveLines(); err != nil {
		return nil, err
	}

	selected, err := selectHireOffLines(order, req.LineIDs)
	if err != nil {
		return nil, err
	}

	op, err := s.findOperationType(ctx, s.operationTypes.Return)
	if err != nil {
		return nil, err
	}

	movement, skipped, err := s.engine.BuildInbound(ctx, order.ID, order.Reference, selected, op)
	if err != nil {
		return nil, err
	}
	for _, skip := range skipped {
		logger.L(ctx).Warn("return derivation skipped a line without movement history",
			zap.String("order", order.Reference),
			zap.String("line_id", skip.LineID.String()),
			zap.String("product_id", skip.ProductID.String()),
			zap.String("reason", skip.Reason),
		)
	}

	if movement.IsEmpty() {
		// Every selected line was skipped. Lines that never produced an
		// outbound move (an empty set, say) still have to come off hire,
		// so the return proceeds without a transfer.
		logger.L(ctx).Warn("return derivation produced no moves, proceeding without a transfer",
			zap.String("order", order.Reference),
		)
	} else {
		if _, err := s.inventory.CreateAndValidateTransfer(ctx, movement); err != nil {
			return nil, err
		}
	}

	hireoffDate := time.Now()
	if req.HireoffDate != nil {
		hireoffDate = *req.HireoffDate
	}
	lineIDs := make([]uuid.UUID, 0, len(selected))
	for _, line := range selected {
		lineIDs = append(lineIDs, line.ID)
	}
	if err := order.HireOff(req.Reason, hireoffDate, lineIDs); err != nil {
		return nil, err
	}

	if order.Status == rental.OrderStatusHiredOff {
		contract, err := s.contractRepo.FindByOrder(ctx, order.ID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if contract != nil && contract.Status == rental.ContractStatusOngoing {
			if err := contract.Close(hireoffDate); err != nil {
				return nil, err
			}
			if err := s.contractRepo.SaveWithLock(ctx, contract); err != nil {
				return nil, err
			}
			s.publishEvents(ctx, contract)
		}
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.record(ctx, rc, order.ID, "hireoff", req.Reason)
	s.publishEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// Cancel cancels a rental order with a mandatory reason
func (s *OrderService) Cancel(ctx context.Context, rc rental.RequestContext, orderID uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.record(ctx, rc, order.ID, "cancel", req.Reason)
	s.publishEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

// findOperationType resolves a configured operation type by name. A missing
// operation type is a fatal configuration error.
func (s *OrderService) findOperationType(ctx context.Context, name string) (*rental.OperationType, error) {
	op, err := s.inventory.FindOperationType(ctx, name)
	if err != nil {
		return nil, err
	}
	if op == nil {
		return nil, shared.NewDomainError(shared.ErrCodeMissingOperationType,
			"Inventory operation type \""+name+"\" is not configured")
	}
	return op, nil
}

// selectHireOffLines resolves the lines to return: the given IDs, which
// must all be active lines of the order, or every active line when omitted
func selectHireOffLines(order *rental.Order, lineIDs []uuid.UUID) ([]*rental.LineItem, error) {
	active := order.ActiveLines()
	if len(lineIDs) == 0 {
		return active, nil
	}
	byID := make(map[uuid.UUID]*rental.LineItem, len(active))
	for _, line := range active {
		byID[line.ID] = line
	}
	selected := make([]*rental.LineItem, 0, len(lineIDs))
	for _, id := range lineIDs {
		line, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("LINE_NOT_FOUND", "Hire-off line is not an active line of this order")
		}
		selected = append(selected, line)
	}
	return selected, nil
}

func (s *OrderService) publishEvents(ctx context.Context, agg shared.AggregateRoot) {
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

func (s *OrderService) record(ctx context.Context, rc rental.RequestContext, id uuid.UUID, action, detail string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, rc, rental.AggregateTypeOrder, id, action, detail)
}
