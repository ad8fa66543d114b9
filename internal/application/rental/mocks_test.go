package rental

import (
	"context"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockQuotationRepository is a mock implementation of rental.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByReference(ctx context.Context, reference string) (*rental.Quotation, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Quotation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, quotation *rental.Quotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *MockQuotationRepository) SaveWithLock(ctx context.Context, quotation *rental.Quotation) error {
	args := m.Called(ctx, quotation)
	return args.Error(0)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of rental.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByReference(ctx context.Context, reference string) (*rental.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByStatus(ctx context.Context, status rental.OrderStatus, filter shared.Filter) ([]rental.Order, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *rental.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *rental.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockContractRepository is a mock implementation of rental.ContractRepository
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*rental.Contract, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Contract), args.Error(1)
}

func (m *MockContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Contract, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rental.Contract), args.Error(1)
}

func (m *MockContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContractRepository) Save(ctx context.Context, contract *rental.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) SaveWithLock(ctx context.Context, contract *rental.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSequenceService is a mock implementation of rental.SequenceService
type MockSequenceService struct {
	mock.Mock
}

func (m *MockSequenceService) NextReference(ctx context.Context, sequenceCode string) (string, error) {
	args := m.Called(ctx, sequenceCode)
	return args.String(0), args.Error(1)
}

// MockPricingService is a mock implementation of rental.PricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) GetDurationPriceTable(ctx context.Context, productID uuid.UUID) (map[valueobject.DurationUnit]decimal.Decimal, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[valueobject.DurationUnit]decimal.Decimal), args.Error(1)
}

func (m *MockPricingService) ToTaxIncludedUnitPrice(ctx context.Context, rc rental.RequestContext, date time.Time, productID uuid.UUID, basePrice valueobject.Money) (valueobject.Money, error) {
	args := m.Called(ctx, rc, date, productID, basePrice)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

// MockTaxService is a mock implementation of rental.TaxService
type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) ComputeAll(ctx context.Context, taxGroup string, price valueobject.Money, quantity decimal.Decimal, productID, counterpartyID uuid.UUID) (rental.TaxResult, error) {
	args := m.Called(ctx, taxGroup, price, quantity, productID, counterpartyID)
	return args.Get(0).(rental.TaxResult), args.Error(1)
}

// MockInventoryService is a mock implementation of rental.InventoryService
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) FindOperationType(ctx context.Context, name string) (*rental.OperationType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.OperationType), args.Error(1)
}

func (m *MockInventoryService) CreateAndValidateTransfer(ctx context.Context, req *rental.MovementRequest) (*rental.TransferHandle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.TransferHandle), args.Error(1)
}

func (m *MockInventoryService) FindPriorMovement(ctx context.Context, lineID, productID uuid.UUID) (*rental.PriorMovement, error) {
	args := m.Called(ctx, lineID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.PriorMovement), args.Error(1)
}

// MockWarehouseResolver is a mock implementation of rental.WarehouseResolver
type MockWarehouseResolver struct {
	mock.Mock
}

func (m *MockWarehouseResolver) DefaultWarehouse(ctx context.Context, companyID uuid.UUID) (*rental.Warehouse, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rental.Warehouse), args.Error(1)
}
