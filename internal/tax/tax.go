// Package tax is the tax side of the modifier pipeline. Calculators
// consume an order's items and subtotal and contribute a named
// modification toward the total; the core treats the amount as opaque.
package tax

import (
	"context"

	"github.com/dukerupert/strand/internal/domain"
)

// Calculator computes the tax modification for an order.
// Implementations: FlatFeeCalculator, NoTaxCalculator.
type Calculator interface {
	Calculate(ctx context.Context, order *domain.Order) (domain.Modification, error)
}

// NoTaxCalculator contributes a zero modification, for regions where the
// storefront does not collect tax.
type NoTaxCalculator struct{}

// NewNoTaxCalculator creates a calculator that never charges tax.
func NewNoTaxCalculator() Calculator {
	return &NoTaxCalculator{}
}

// Calculate returns a zero-amount modification.
func (c *NoTaxCalculator) Calculate(ctx context.Context, order *domain.Order) (domain.Modification, error) {
	return domain.Modification{
		Description: "No tax",
		Amount:      order.SubTotal().Zero(),
	}, nil
}
