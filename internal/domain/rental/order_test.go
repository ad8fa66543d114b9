package rental

import (
	"testing"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	o, err := NewOrder("RO00001", uuid.New(), uuid.New(), "PT Berkah Konstruksi",
		valueobject.USD, start, dayPeriod(start, 2, valueobject.DurationUnitWeek))
	require.NoError(t, err)
	return o
}

func addOrderLine(t *testing.T, o *Order, period valueobject.RentalPeriod) *LineItem {
	t.Helper()
	line, err := NewLineItem(o.ID, (len(o.Lines)+1)*10, ItemTypeUnit, uuid.New(), "EXC-01", "Excavator 20t", "unit",
		decimal.NewFromInt(1), period)
	require.NoError(t, err)
	o.Lines = append(o.Lines, *line)
	return &o.Lines[len(o.Lines)-1]
}

func TestOrder_StatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusConfirmed, OrderStatusOngoing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusHiredOff, false},
		{OrderStatusOngoing, OrderStatusHiredOff, true},
		{OrderStatusOngoing, OrderStatusCancelled, true},
		{OrderStatusOngoing, OrderStatusConfirmed, false},
		{OrderStatusHiredOff, OrderStatusOngoing, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrder_ValidateRentalPeriods(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("all resolved", func(t *testing.T) {
		o := newTestOrder(t)
		addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		assert.NoError(t, o.ValidateRentalPeriods())
	})

	t.Run("missing start dates are itemized by item code", func(t *testing.T) {
		o := newTestOrder(t)
		addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		bad := addOrderLine(t, o, durationOnly(1, valueobject.DurationUnitWeek))
		bad.ItemCode = "CRN-02"

		err := o.ValidateRentalPeriods()
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrCodeMissingRentalPeriod, domainErr.Code)
		assert.Contains(t, domainErr.Message, "CRN-02")
		assert.NotContains(t, domainErr.Message, "EXC-01")
	})

	t.Run("falls back to description when item code is empty", func(t *testing.T) {
		o := newTestOrder(t)
		bad := addOrderLine(t, o, durationOnly(1, valueobject.DurationUnitWeek))
		bad.ItemCode = ""

		err := o.ValidateRentalPeriods()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Excavator 20t")
	})
}

func TestOrder_BuildContract(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	t.Run("copies header and lines into a draft contract", func(t *testing.T) {
		o := newTestOrder(t)
		line := addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		o.ApplyTotals(DocumentTotals{
			Untaxed: decimal.NewFromInt(500),
			Tax:     decimal.NewFromInt(55),
			Total:   decimal.NewFromInt(555),
		})

		contract, err := o.BuildContract("CONTRACT-00001", DateLevelItem)
		require.NoError(t, err)
		assert.Equal(t, ContractStatusDraft, contract.Status)
		assert.Equal(t, o.ID, contract.OrderID)
		assert.Equal(t, DateLevelItem, contract.DateDefinitionLevel)
		assert.True(t, contract.AmountTotal.Equal(o.AmountTotal))
		require.Len(t, contract.Lines, 1)
		assert.Equal(t, line.ID, *contract.Lines[0].OriginLineID)
	})

	t.Run("refuses unresolved periods", func(t *testing.T) {
		o := newTestOrder(t)
		addOrderLine(t, o, durationOnly(3, valueobject.DurationUnitDay))
		_, err := o.BuildContract("CONTRACT-00002", DateLevelOrder)
		assert.Error(t, err)
	})

	t.Run("refuses non-confirmed orders", func(t *testing.T) {
		o := newTestOrder(t)
		addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		require.NoError(t, o.StartRental(uuid.New()))
		_, err := o.BuildContract("CONTRACT-00003", DateLevelOrder)
		assert.Error(t, err)
	})
}

func TestOrder_StartRental(t *testing.T) {
	o := newTestOrder(t)
	contractID := uuid.New()

	require.NoError(t, o.StartRental(contractID))
	assert.Equal(t, OrderStatusOngoing, o.Status)
	assert.Equal(t, contractID, *o.ContractID)
	require.NotNil(t, o.EffectiveEndDate)
	// 2 weeks from March 10
	assert.Equal(t, time.Date(2026, time.March, 24, 0, 0, 0, 0, time.UTC), *o.EffectiveEndDate)

	assert.Error(t, o.StartRental(contractID))
}

func TestOrder_HireOff(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	hireoffAt := time.Date(2026, time.March, 18, 15, 30, 0, 0, time.UTC)

	t.Run("marks lines returned and stamps the header", func(t *testing.T) {
		o := newTestOrder(t)
		line := addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		line.markActive()
		require.NoError(t, o.StartRental(uuid.New()))

		require.NoError(t, o.HireOff("customer project finished", hireoffAt, []uuid.UUID{line.ID}))
		assert.Equal(t, OrderStatusHiredOff, o.Status)
		assert.Equal(t, LineStateHireoff, line.RentalState)
		assert.Equal(t, "customer project finished", o.HireoffReason)
		require.NotNil(t, o.HireoffDate)
		assert.Equal(t, time.Date(2026, time.March, 18, 0, 0, 0, 0, time.UTC), *o.HireoffDate, "hire-off date is truncated to the day")
	})

	t.Run("partial return keeps the order ongoing", func(t *testing.T) {
		o := newTestOrder(t)
		addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		addOrderLine(t, o, dayPeriod(start, 5, valueobject.DurationUnitDay))
		first, second := &o.Lines[0], &o.Lines[1]
		first.markActive()
		second.markActive()
		require.NoError(t, o.StartRental(uuid.New()))

		require.NoError(t, o.HireOff("damaged unit swap", hireoffAt, []uuid.UUID{first.ID}))
		assert.Equal(t, OrderStatusOngoing, o.Status)
		assert.Equal(t, LineStateHireoff, first.RentalState)
		assert.Equal(t, LineStateActive, second.RentalState)
		assert.Nil(t, o.HireoffDate)

		// returning the last active line closes the order
		require.NoError(t, o.HireOff("customer project finished", hireoffAt, []uuid.UUID{second.ID}))
		assert.Equal(t, OrderStatusHiredOff, o.Status)
		require.NotNil(t, o.HireoffDate)
		assert.Equal(t, "customer project finished", o.HireoffReason)
	})

	t.Run("unknown line fails", func(t *testing.T) {
		o := newTestOrder(t)
		addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))
		require.NoError(t, o.StartRental(uuid.New()))
		assert.Error(t, o.HireOff("r", hireoffAt, []uuid.UUID{uuid.New()}))
	})

	t.Run("only ongoing orders hire off", func(t *testing.T) {
		o := newTestOrder(t)
		assert.Error(t, o.HireOff("r", hireoffAt, nil))
	})
}

func TestOrder_RequireActiveLines(t *testing.T) {
	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	o := newTestOrder(t)
	line := addOrderLine(t, o, dayPeriod(start, 3, valueobject.DurationUnitDay))

	err := o.RequireActiveLines()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.ErrCodeNoActiveLines, domainErr.Code)

	line.markActive()
	assert.NoError(t, o.RequireActiveLines())
	assert.Len(t, o.ActiveLines(), 1)
}

func TestOrder_Cancel(t *testing.T) {
	o := newTestOrder(t)

	t.Run("reason is required", func(t *testing.T) {
		assert.Error(t, o.Cancel(""))
	})

	t.Run("cancel from confirmed", func(t *testing.T) {
		require.NoError(t, o.Cancel("counterparty withdrew"))
		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, "counterparty withdrew", o.CancelReason)
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		assert.Error(t, o.Cancel("again"))
	})
}
