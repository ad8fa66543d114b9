package rental

import (
	"testing"
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUnitLine(t *testing.T) *LineItem {
	t.Helper()
	line, err := NewLineItem(uuid.New(), 10, ItemTypeUnit, uuid.New(), "EXC-01", "Excavator 20t", "unit",
		decimal.NewFromInt(2), durationOnly(3, valueobject.DurationUnitDay))
	require.NoError(t, err)
	return line
}

func newTestSetLine(t *testing.T) *LineItem {
	t.Helper()
	line, err := NewLineItem(uuid.New(), 20, ItemTypeSet, uuid.New(), "SCF-SET", "Scaffolding set", "set",
		decimal.NewFromInt(1), durationOnly(1, valueobject.DurationUnitWeek))
	require.NoError(t, err)
	return line
}

func TestNewLineItem(t *testing.T) {
	t.Run("valid unit line", func(t *testing.T) {
		line := newTestUnitLine(t)
		assert.Equal(t, ItemTypeUnit, line.ItemType)
		assert.Equal(t, LineStateDraft, line.RentalState)
		assert.Empty(t, line.Components)
	})

	t.Run("invalid item type", func(t *testing.T) {
		_, err := NewLineItem(uuid.New(), 10, ItemType("bundle"), uuid.New(), "", "x", "unit",
			decimal.NewFromInt(1), durationOnly(1, valueobject.DurationUnitDay))
		assert.Error(t, err)
	})

	t.Run("nil product", func(t *testing.T) {
		_, err := NewLineItem(uuid.New(), 10, ItemTypeUnit, uuid.Nil, "", "x", "unit",
			decimal.NewFromInt(1), durationOnly(1, valueobject.DurationUnitDay))
		assert.Error(t, err)
	})

	t.Run("unit line requires positive quantity", func(t *testing.T) {
		_, err := NewLineItem(uuid.New(), 10, ItemTypeUnit, uuid.New(), "", "x", "unit",
			decimal.Zero, durationOnly(1, valueobject.DurationUnitDay))
		assert.Error(t, err)
	})
}

func TestLineItem_AddComponent(t *testing.T) {
	t.Run("set price is the sum of component subtotals", func(t *testing.T) {
		line := newTestSetLine(t)

		_, err := line.AddComponent(uuid.New(), "Frame", "pcs", decimal.NewFromInt(10), decimal.NewFromInt(5))
		require.NoError(t, err)
		_, err = line.AddComponent(uuid.New(), "Brace", "pcs", decimal.NewFromInt(4), decimal.NewFromFloat(2.5))
		require.NoError(t, err)

		// 10*5 + 4*2.5 = 60
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(60)), "got %s", line.UnitPrice)
	})

	t.Run("adding a component updates the aggregate price incrementally", func(t *testing.T) {
		line := newTestSetLine(t)
		_, err := line.AddComponent(uuid.New(), "Frame", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(5))
		require.NoError(t, err)
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(5)))

		_, err = line.AddComponent(uuid.New(), "Brace", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(7))
		require.NoError(t, err)
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(12)))
	})

	t.Run("components rejected on unit lines", func(t *testing.T) {
		line := newTestUnitLine(t)
		_, err := line.AddComponent(uuid.New(), "Frame", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(5))
		assert.Error(t, err)
	})

	t.Run("component validation", func(t *testing.T) {
		line := newTestSetLine(t)
		_, err := line.AddComponent(uuid.Nil, "Frame", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(5))
		assert.Error(t, err)
		_, err = line.AddComponent(uuid.New(), "Frame", "pcs", decimal.Zero, decimal.NewFromInt(5))
		assert.Error(t, err)
		_, err = line.AddComponent(uuid.New(), "Frame", "pcs", decimal.NewFromInt(1), decimal.NewFromInt(-5))
		assert.Error(t, err)
	})
}

func TestLineItem_RefreshSetPrice(t *testing.T) {
	t.Run("unit lines are untouched", func(t *testing.T) {
		line := newTestUnitLine(t)
		require.NoError(t, line.SetPricing(valueobject.NewMoneyUSDFromFloat(150)))
		line.RefreshSetPrice()
		assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(150)))
	})

	t.Run("set with no components prices to zero", func(t *testing.T) {
		line := newTestSetLine(t)
		line.RefreshSetPrice()
		assert.True(t, line.UnitPrice.IsZero())
	})
}

func TestLineItem_Discount(t *testing.T) {
	line := newTestUnitLine(t)
	require.NoError(t, line.SetPricing(valueobject.NewMoneyUSDFromFloat(200)))

	t.Run("discounted unit price", func(t *testing.T) {
		require.NoError(t, line.SetDiscount(decimal.NewFromInt(25)))
		assert.True(t, line.DiscountedUnitPrice().Equal(decimal.NewFromInt(150)))
	})

	t.Run("out of range discount", func(t *testing.T) {
		assert.Error(t, line.SetDiscount(decimal.NewFromInt(-1)))
		assert.Error(t, line.SetDiscount(decimal.NewFromInt(101)))
	})
}

func TestLineItem_CopyFor(t *testing.T) {
	line := newTestSetLine(t)
	_, err := line.AddComponent(uuid.New(), "Frame", "pcs", decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	line.markActive()

	targetDoc := uuid.New()
	cp := line.copyFor(targetDoc)

	assert.NotEqual(t, line.ID, cp.ID)
	assert.Equal(t, targetDoc, cp.DocumentID)
	require.NotNil(t, cp.OriginLineID)
	assert.Equal(t, line.ID, *cp.OriginLineID)
	assert.Equal(t, LineStateDraft, cp.RentalState, "copies start over in draft")
	assert.True(t, cp.UnitPrice.Equal(line.UnitPrice), "pricing is carried, not re-resolved")

	require.Len(t, cp.Components, 1)
	assert.NotEqual(t, line.Components[0].ID, cp.Components[0].ID)
	assert.Equal(t, cp.ID, cp.Components[0].LineID)
	assert.Equal(t, line.Components[0].ProductID, cp.Components[0].ProductID)

	// mutating the copy's components must not leak into the original
	cp.Components[0].Quantity = decimal.NewFromInt(99)
	assert.True(t, line.Components[0].Quantity.Equal(decimal.NewFromInt(10)))
}

func TestLineItem_ApplyTaxResult(t *testing.T) {
	line := newTestUnitLine(t)
	before := line.UpdatedAt
	time.Sleep(time.Millisecond)
	line.ApplyTaxResult(TaxResult{
		TaxAmount:     decimal.NewFromInt(11),
		TotalIncluded: decimal.NewFromInt(111),
		TotalExcluded: decimal.NewFromInt(100),
	})
	assert.True(t, line.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, line.TaxAmount.Equal(decimal.NewFromInt(11)))
	assert.True(t, line.Total.Equal(decimal.NewFromInt(111)))
	assert.True(t, line.UpdatedAt.After(before))
}
