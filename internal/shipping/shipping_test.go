package shipping

import (
	"context"
	"testing"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatRateProvider(t *testing.T) {
	provider := NewFlatRateProvider(domain.NewMoney(800, "NZD"), "")
	mod, err := provider.Rate(context.Background(), &domain.Order{})
	require.NoError(t, err)
	assert.Equal(t, "Shipping", mod.Description)
	assert.Equal(t, domain.NewMoney(800, "NZD"), mod.Amount)
}

func TestFreeShippingProvider(t *testing.T) {
	order := &domain.Order{
		Items: []domain.Item{{Quantity: 1, UnitPrice: domain.NewMoney(500, "NZD")}},
	}
	provider := NewFreeShippingProvider()
	mod, err := provider.Rate(context.Background(), order)
	require.NoError(t, err)
	assert.True(t, mod.Amount.IsZero())
	assert.Equal(t, "NZD", mod.Amount.Currency)
}
