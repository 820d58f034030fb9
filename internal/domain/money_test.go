package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAdd(t *testing.T) {
	t.Run("same currency", func(t *testing.T) {
		sum, err := NewMoney(1000, "NZD").Add(NewMoney(250, "NZD"))
		require.NoError(t, err)
		assert.Equal(t, NewMoney(1250, "NZD"), sum)
	})

	t.Run("mismatched currencies", func(t *testing.T) {
		_, err := NewMoney(1000, "NZD").Add(NewMoney(250, "USD"))
		assert.ErrorIs(t, err, ErrCurrencyMismatch)
	})

	t.Run("zero-currency accumulator adopts operand currency", func(t *testing.T) {
		var total Money
		sum, err := total.Add(NewMoney(500, "USD"))
		require.NoError(t, err)
		assert.Equal(t, "USD", sum.Currency)
		assert.Equal(t, int64(500), sum.Cents)
	})

	t.Run("zero-currency operand adopts receiver currency", func(t *testing.T) {
		sum, err := NewMoney(500, "USD").Add(Money{Cents: 100})
		require.NoError(t, err)
		assert.Equal(t, NewMoney(600, "USD"), sum)
	})
}

func TestMoneyMul(t *testing.T) {
	assert.Equal(t, NewMoney(3150, "NZD"), NewMoney(1050, "NZD").Mul(3))
	assert.Equal(t, NewMoney(0, "NZD"), NewMoney(1050, "NZD").Mul(0))
}

func TestMoneyPredicates(t *testing.T) {
	assert.True(t, NewMoney(-1, "NZD").IsNegative())
	assert.False(t, NewMoney(0, "NZD").IsNegative())
	assert.True(t, NewMoney(0, "NZD").IsZero())
	assert.True(t, NewMoney(100, "NZD").Equals(NewMoney(100, "NZD")))
	assert.False(t, NewMoney(100, "NZD").Equals(NewMoney(100, "USD")))
	assert.Equal(t, NewMoney(0, "NZD"), NewMoney(950, "NZD").Zero())
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "1050 NZD", NewMoney(1050, "NZD").String())
}
