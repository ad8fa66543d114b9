package rental

import (
	"context"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

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

func (m *MockPricingService) ToTaxIncludedUnitPrice(ctx context.Context, rc RequestContext, date time.Time, productID uuid.UUID, basePrice valueobject.Money) (valueobject.Money, error) {
	args := m.Called(ctx, rc, date, productID, basePrice)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

type MockTaxService struct {
	mock.Mock
}

func (m *MockTaxService) ComputeAll(ctx context.Context, taxGroup string, price valueobject.Money, quantity decimal.Decimal, productID, counterpartyID uuid.UUID) (TaxResult, error) {
	args := m.Called(ctx, taxGroup, price, quantity, productID, counterpartyID)
	return args.Get(0).(TaxResult), args.Error(1)
}

type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) FindOperationType(ctx context.Context, name string) (*OperationType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*OperationType), args.Error(1)
}

func (m *MockInventoryService) CreateAndValidateTransfer(ctx context.Context, req *MovementRequest) (*TransferHandle, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TransferHandle), args.Error(1)
}

func (m *MockInventoryService) FindPriorMovement(ctx context.Context, lineID, productID uuid.UUID) (*PriorMovement, error) {
	args := m.Called(ctx, lineID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PriorMovement), args.Error(1)
}

func dayPeriod(start time.Time, value int, unit valueobject.DurationUnit) valueobject.RentalPeriod {
	day := valueobject.DateOf(start)
	return valueobject.RentalPeriod{
		Start:    &day,
		Duration: valueobject.Duration{Value: value, Unit: unit},
	}
}

func durationOnly(value int, unit valueobject.DurationUnit) valueobject.RentalPeriod {
	return valueobject.RentalPeriod{Duration: valueobject.Duration{Value: value, Unit: unit}}
}
