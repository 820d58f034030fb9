package shipping

import (
	"context"

	"github.com/dukerupert/strand/internal/domain"
)

// FlatRateProvider charges a fixed fee per order regardless of contents.
// Used when real carrier integration is not needed.
type FlatRateProvider struct {
	fee         domain.Money
	description string
}

// NewFlatRateProvider creates a flat-fee shipping provider.
func NewFlatRateProvider(fee domain.Money, description string) Provider {
	if description == "" {
		description = "Shipping"
	}
	return &FlatRateProvider{fee: fee, description: description}
}

// Rate returns the configured flat fee.
func (p *FlatRateProvider) Rate(ctx context.Context, order *domain.Order) (domain.Modification, error) {
	return domain.Modification{
		Description: p.description,
		Amount:      p.fee,
	}, nil
}
