package tax

import (
	"context"
	"math"

	"github.com/dukerupert/strand/internal/domain"
)

// FlatFeeCalculator applies a single percentage rate to the order
// subtotal.
type FlatFeeCalculator struct {
	rate        float64 // e.g. 0.15 for 15%
	description string
}

// NewFlatFeeCalculator creates a flat-rate tax calculator.
func NewFlatFeeCalculator(rate float64, description string) Calculator {
	if description == "" {
		description = "Tax"
	}
	return &FlatFeeCalculator{rate: rate, description: description}
}

// Calculate computes rate * subtotal, rounded to the nearest cent.
func (c *FlatFeeCalculator) Calculate(ctx context.Context, order *domain.Order) (domain.Modification, error) {
	subtotal := order.SubTotal()
	cents := int64(math.Round(float64(subtotal.Cents) * c.rate))
	return domain.Modification{
		Description: c.description,
		Amount:      domain.NewMoney(cents, subtotal.Currency),
	}, nil
}
