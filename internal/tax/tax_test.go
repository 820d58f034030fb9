package tax

import (
	"context"
	"testing"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOrder(cents int64) *domain.Order {
	return &domain.Order{
		Items: []domain.Item{{
			Quantity:  1,
			UnitPrice: domain.NewMoney(cents, "NZD"),
		}},
	}
}

func TestFlatFeeCalculator(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the rate to the subtotal", func(t *testing.T) {
		calc := NewFlatFeeCalculator(0.15, "GST")
		mod, err := calc.Calculate(ctx, testOrder(1000))
		require.NoError(t, err)
		assert.Equal(t, "GST", mod.Description)
		assert.Equal(t, domain.NewMoney(150, "NZD"), mod.Amount)
	})

	t.Run("rounds to the nearest cent", func(t *testing.T) {
		calc := NewFlatFeeCalculator(0.15, "")
		mod, err := calc.Calculate(ctx, testOrder(1050))
		require.NoError(t, err)
		assert.Equal(t, "Tax", mod.Description)
		assert.Equal(t, int64(158), mod.Amount.Cents) // 157.5 rounds up
	})
}

func TestNoTaxCalculator(t *testing.T) {
	calc := NewNoTaxCalculator()
	mod, err := calc.Calculate(context.Background(), testOrder(1000))
	require.NoError(t, err)
	assert.True(t, mod.Amount.IsZero())
	assert.Equal(t, "NZD", mod.Amount.Currency)
}
