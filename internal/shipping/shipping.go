// Package shipping is the shipping side of the modifier pipeline.
package shipping

import (
	"context"

	"github.com/dukerupert/strand/internal/domain"
)

// Provider computes the shipping modification for an order.
// Implementations: FlatRateProvider, FreeShippingProvider.
type Provider interface {
	Rate(ctx context.Context, order *domain.Order) (domain.Modification, error)
}

// FreeShippingProvider contributes a zero modification.
type FreeShippingProvider struct{}

// NewFreeShippingProvider creates a provider that never charges shipping.
func NewFreeShippingProvider() Provider {
	return &FreeShippingProvider{}
}

// Rate returns a zero-amount modification.
func (p *FreeShippingProvider) Rate(ctx context.Context, order *domain.Order) (domain.Modification, error) {
	return domain.Modification{
		Description: "Free shipping",
		Amount:      order.SubTotal().Zero(),
	}, nil
}
