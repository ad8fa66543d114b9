package rental

import (
	"testing"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	orderRepo    *MockOrderRepository
	contractRepo *MockContractRepository
	sequences    *MockSequenceService
	inventory    *MockInventoryService
	warehouses   *MockWarehouseResolver
	service      *OrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orderRepo:    new(MockOrderRepository),
		contractRepo: new(MockContractRepository),
		sequences:    new(MockSequenceService),
		inventory:    new(MockInventoryService),
		warehouses:   new(MockWarehouseResolver),
	}
	f.service = NewOrderService(
		f.orderRepo,
		f.contractRepo,
		f.sequences,
		f.inventory,
		f.warehouses,
		rental.NewFulfillmentEngine(f.inventory),
		OperationTypeNames{Delivery: "Rental Delivery", Return: "Rental Return"},
	)
	return f
}

func newStartableOrder(t *testing.T, rc rental.RequestContext) *rental.Order {
	t.Helper()
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	order, err := rental.NewOrder("RO00001", rc.CompanyID, uuid.New(), "PT Berkah Konstruksi",
		valueobject.USD, start, valueobject.RentalPeriod{Start: &start, Duration: valueobject.Duration{Value: 2, Unit: valueobject.DurationUnitWeek}})
	require.NoError(t, err)
	order.DeliveryLocationID = uuid.New()

	line, err := rental.NewLineItem(order.ID, 10, rental.ItemTypeUnit, uuid.New(), "EXC-01", "Excavator 20t", "unit",
		decimal.NewFromInt(1), valueobject.RentalPeriod{Start: &start, Duration: valueobject.Duration{Value: 2, Unit: valueobject.DurationUnitWeek}})
	require.NoError(t, err)
	order.Lines = append(order.Lines, *line)
	order.ClearDomainEvents()
	return order
}

func deliveryOp() *rental.OperationType {
	return &rental.OperationType{
		ID:               uuid.New(),
		Name:             "Rental Delivery",
		SourceLocationID: uuid.New(),
		DestLocationID:   uuid.New(),
	}
}

func TestOrderService_StartRental(t *testing.T) {
	ctx, rc := testContext()

	t.Run("creates contract, executes transfer and transitions the order", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)
		op := deliveryOp()
		transfer := &rental.TransferHandle{ID: uuid.New(), Reference: "WH/OUT/0001"}

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.sequences.On("NextReference", ctx, rental.SequenceContract).Return("00001", nil)
		f.inventory.On("FindOperationType", ctx, "Rental Delivery").Return(op, nil)
		f.inventory.On("CreateAndValidateTransfer", ctx, mock.MatchedBy(func(req *rental.MovementRequest) bool {
			return req.Direction == rental.MovementOut && len(req.Entries) == 1
		})).Return(transfer, nil)
		f.contractRepo.On("Save", ctx, mock.MatchedBy(func(c *rental.Contract) bool {
			return c.Reference == "CONTRACT-00001" && c.Status == rental.ContractStatusOngoing &&
				c.OutboundTransferID != nil && *c.OutboundTransferID == transfer.ID
		})).Return(nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		resp, err := f.service.StartRental(ctx, rc, order.ID, StartRentalRequest{})
		require.NoError(t, err)

		assert.Equal(t, "ongoing", resp.Status)
		require.NotNil(t, resp.ContractID)
		require.NotNil(t, resp.EffectiveEndDate)
		assert.Equal(t, time.Date(2026, time.March, 24, 0, 0, 0, 0, time.UTC), *resp.EffectiveEndDate)
		assert.Equal(t, "active", resp.Lines[0].RentalState)
		f.contractRepo.AssertExpectations(t)
		f.inventory.AssertExpectations(t)
	})

	t.Run("missing delivery operation type aborts before any mutation", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.sequences.On("NextReference", ctx, rental.SequenceContract).Return("00002", nil)
		f.inventory.On("FindOperationType", ctx, "Rental Delivery").Return(nil, nil)

		_, err := f.service.StartRental(ctx, rc, order.ID, StartRentalRequest{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeMissingOperationType, domainErr.Code)
		assert.Equal(t, rental.OrderStatusConfirmed, order.Status)
		f.orderRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
		f.contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unresolved line period blocks the start", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)
		order.Lines[0].Period.Start = nil

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.sequences.On("NextReference", ctx, rental.SequenceContract).Return("00003", nil)

		_, err := f.service.StartRental(ctx, rc, order.ID, StartRentalRequest{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeMissingRentalPeriod, domainErr.Code)
	})

	t.Run("operation type without source ships from the default warehouse", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)
		op := deliveryOp()
		op.SourceLocationID = uuid.Nil
		warehouse := &rental.Warehouse{ID: uuid.New(), Name: "Main Yard", StockLocationID: uuid.New()}
		transfer := &rental.TransferHandle{ID: uuid.New(), Reference: "WH/OUT/0002"}

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.sequences.On("NextReference", ctx, rental.SequenceContract).Return("00005", nil)
		f.inventory.On("FindOperationType", ctx, "Rental Delivery").Return(op, nil)
		f.warehouses.On("DefaultWarehouse", ctx, order.CompanyID).Return(warehouse, nil)
		f.inventory.On("CreateAndValidateTransfer", ctx, mock.MatchedBy(func(req *rental.MovementRequest) bool {
			return len(req.Entries) == 1 && req.Entries[0].SourceLocationID == warehouse.StockLocationID
		})).Return(transfer, nil)
		f.contractRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		_, err := f.service.StartRental(ctx, rc, order.ID, StartRentalRequest{})
		require.NoError(t, err)
		f.warehouses.AssertExpectations(t)
		f.inventory.AssertExpectations(t)
	})

	t.Run("no default warehouse blocks the start", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)
		op := deliveryOp()
		op.SourceLocationID = uuid.Nil

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.sequences.On("NextReference", ctx, rental.SequenceContract).Return("00006", nil)
		f.inventory.On("FindOperationType", ctx, "Rental Delivery").Return(op, nil)
		f.warehouses.On("DefaultWarehouse", ctx, order.CompanyID).
			Return(nil, shared.NewDomainError(shared.ErrCodeMissingWarehouse, "No default warehouse is configured for the company"))

		_, err := f.service.StartRental(ctx, rc, order.ID, StartRentalRequest{})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeMissingWarehouse, domainErr.Code)
		f.contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("failed transfer leaves order and contract untouched", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.sequences.On("NextReference", ctx, rental.SequenceContract).Return("00004", nil)
		f.inventory.On("FindOperationType", ctx, "Rental Delivery").Return(deliveryOp(), nil)
		f.inventory.On("CreateAndValidateTransfer", ctx, mock.Anything).Return(nil, assert.AnError)

		_, err := f.service.StartRental(ctx, rc, order.ID, StartRentalRequest{})
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, rental.OrderStatusConfirmed, order.Status)
		f.contractRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_HireOff(t *testing.T) {
	ctx, rc := testContext()

	newOngoingOrder := func(t *testing.T) (*rental.Order, *rental.Contract) {
		order := newStartableOrder(t, rc)
		engine := rental.NewFulfillmentEngine(nil)
		lines := []*rental.LineItem{&order.Lines[0]}
		_, err := engine.BuildOutbound(order.ID, order.Reference, lines, deliveryOp(), order.DeliveryLocationID)
		require.NoError(t, err)

		contract, err := order.BuildContract("CONTRACT-00010", rental.DateLevelOrder)
		require.NoError(t, err)
		require.NoError(t, contract.Activate(uuid.New()))
		require.NoError(t, order.StartRental(contract.ID))
		order.ClearDomainEvents()
		contract.ClearDomainEvents()
		return order, contract
	}

	t.Run("returns goods, closes order and contract", func(t *testing.T) {
		f := newOrderServiceFixture()
		order, contract := newOngoingOrder(t)
		line := &order.Lines[0]
		returnOp := &rental.OperationType{ID: uuid.New(), Name: "Rental Return", SourceLocationID: uuid.New()}
		priorSource := uuid.New()

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.inventory.On("FindOperationType", ctx, "Rental Return").Return(returnOp, nil)
		f.inventory.On("FindPriorMovement", ctx, line.ID, line.ProductID).Return(&rental.PriorMovement{
			MoveID:           uuid.New(),
			SourceLocationID: priorSource,
		}, nil)
		f.inventory.On("CreateAndValidateTransfer", ctx, mock.MatchedBy(func(req *rental.MovementRequest) bool {
			return req.Direction == rental.MovementIn && len(req.Entries) == 1 &&
				req.Entries[0].DestLocationID == priorSource
		})).Return(&rental.TransferHandle{ID: uuid.New()}, nil)
		f.contractRepo.On("FindByOrder", ctx, order.ID).Return(contract, nil)
		f.contractRepo.On("SaveWithLock", ctx, contract).Return(nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		resp, err := f.service.HireOff(ctx, rc, order.ID, HireOffRequest{Reason: "project finished"})
		require.NoError(t, err)

		assert.Equal(t, "hireoff", resp.Status)
		assert.Equal(t, "project finished", resp.HireoffReason)
		assert.Equal(t, "hireoff", resp.Lines[0].RentalState)
		assert.Equal(t, rental.ContractStatusClosed, contract.Status)
		f.inventory.AssertExpectations(t)
	})

	t.Run("a line without movement history is skipped without a transfer entry", func(t *testing.T) {
		f := newOrderServiceFixture()
		order, contract := newOngoingOrder(t)
		line := &order.Lines[0]
		returnOp := &rental.OperationType{ID: uuid.New(), Name: "Rental Return", SourceLocationID: uuid.New()}

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.inventory.On("FindOperationType", ctx, "Rental Return").Return(returnOp, nil)
		f.inventory.On("FindPriorMovement", ctx, line.ID, line.ProductID).Return(nil, nil)
		f.contractRepo.On("FindByOrder", ctx, order.ID).Return(contract, nil)
		f.contractRepo.On("SaveWithLock", ctx, contract).Return(nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		resp, err := f.service.HireOff(ctx, rc, order.ID, HireOffRequest{Reason: "lost unit write-off"})
		require.NoError(t, err)

		assert.Equal(t, "hireoff", resp.Status)
		f.inventory.AssertNotCalled(t, "CreateAndValidateTransfer", mock.Anything, mock.Anything)
	})

	t.Run("partial return keeps order and contract ongoing", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)
		second, err := rental.NewLineItem(order.ID, 20, rental.ItemTypeUnit, uuid.New(), "GEN-05", "Generator 50kVA", "unit",
			decimal.NewFromInt(1), order.Lines[0].Period)
		require.NoError(t, err)
		order.Lines = append(order.Lines, *second)

		engine := rental.NewFulfillmentEngine(nil)
		lines := []*rental.LineItem{&order.Lines[0], &order.Lines[1]}
		_, err = engine.BuildOutbound(order.ID, order.Reference, lines, deliveryOp(), order.DeliveryLocationID)
		require.NoError(t, err)

		contract, err := order.BuildContract("CONTRACT-00011", rental.DateLevelOrder)
		require.NoError(t, err)
		require.NoError(t, contract.Activate(uuid.New()))
		require.NoError(t, order.StartRental(contract.ID))
		order.ClearDomainEvents()

		returned := &order.Lines[0]
		returnOp := &rental.OperationType{ID: uuid.New(), Name: "Rental Return", SourceLocationID: uuid.New()}

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
		f.inventory.On("FindOperationType", ctx, "Rental Return").Return(returnOp, nil)
		f.inventory.On("FindPriorMovement", ctx, returned.ID, returned.ProductID).Return(&rental.PriorMovement{
			MoveID:           uuid.New(),
			SourceLocationID: uuid.New(),
		}, nil)
		f.inventory.On("CreateAndValidateTransfer", ctx, mock.Anything).Return(&rental.TransferHandle{ID: uuid.New()}, nil)
		f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

		resp, err := f.service.HireOff(ctx, rc, order.ID, HireOffRequest{
			Reason:  "early return of the excavator",
			LineIDs: []uuid.UUID{returned.ID},
		})
		require.NoError(t, err)

		assert.Equal(t, "ongoing", resp.Status)
		assert.Nil(t, resp.HireoffDate)
		assert.Equal(t, "hireoff", resp.Lines[0].RentalState)
		assert.Equal(t, "active", resp.Lines[1].RentalState)
		assert.Equal(t, rental.ContractStatusOngoing, contract.Status)
		f.contractRepo.AssertNotCalled(t, "FindByOrder", mock.Anything, mock.Anything)
	})

	t.Run("no active lines fails before derivation", func(t *testing.T) {
		f := newOrderServiceFixture()
		order := newStartableOrder(t, rc)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.service.HireOff(ctx, rc, order.ID, HireOffRequest{Reason: "nothing out"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeNoActiveLines, domainErr.Code)
		f.inventory.AssertNotCalled(t, "FindOperationType", mock.Anything, mock.Anything)
	})

	t.Run("unknown line selection fails", func(t *testing.T) {
		f := newOrderServiceFixture()
		order, _ := newOngoingOrder(t)

		f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

		_, err := f.service.HireOff(ctx, rc, order.ID, HireOffRequest{
			Reason:  "partial",
			LineIDs: []uuid.UUID{uuid.New()},
		})
		assert.Error(t, err)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx, rc := testContext()
	f := newOrderServiceFixture()
	order := newStartableOrder(t, rc)

	f.orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)
	f.orderRepo.On("SaveWithLock", ctx, order).Return(nil)

	resp, err := f.service.Cancel(ctx, rc, order.ID, CancelRequest{Reason: "counterparty withdrew"})
	require.NoError(t, err)
	assert.Equal(t, "cancel", resp.Status)
	assert.Equal(t, "counterparty withdrew", resp.CancelReason)
}
