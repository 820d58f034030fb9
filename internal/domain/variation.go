package domain

// VariationStatus is the operator-facing availability flag on a variation.
type VariationStatus string

const (
	VariationEnabled  VariationStatus = "Enabled"
	VariationDisabled VariationStatus = "Disabled"
)

// Variation is one concrete purchasable configuration of a product: one
// option per product attribute plus a price delta added to the base price.
// Variations are versioned independently of their product so orders can
// keep referring to the configuration that was purchased.
type Variation struct {
	ID        int64
	ProductID int64

	// PriceDelta is added to the product base price. Negative deltas are
	// rejected at save time.
	PriceDelta Money

	Status VariationStatus

	// OptionIDs holds exactly one option per attribute currently on the
	// product; completeness is enforced by the validity engine.
	OptionIDs []int64

	Version int
}

// IsEnabled reports the status flag of this record. Catalog-side
// enable/disable is decided against the latest persisted version, not a
// snapshot; see the validity engine.
func (v *Variation) IsEnabled() bool {
	return v.Status == VariationEnabled
}

// HasOption reports whether the variation carries the given option.
func (v *Variation) HasOption(optionID int64) bool {
	for _, id := range v.OptionIDs {
		if id == optionID {
			return true
		}
	}
	return false
}
