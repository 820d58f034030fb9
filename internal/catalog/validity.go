package catalog

import (
	"context"
	"errors"

	"github.com/dukerupert/strand/internal/domain"
)

// Engine decides whether a variation is a legal, enabled, non-duplicate
// representative of its product's current attribute set. All checks read
// the store's current state, never a cart's frozen snapshot: disabling or
// deleting a variation applies retroactively to every cart holding it.
type Engine struct {
	store Store
}

// NewEngine creates a validity engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// HasValidOptions reports whether the variation covers exactly the
// attributes currently on its product, with each chosen option drawn from
// that attribute's valid options. A variation left behind by an attribute
// change (missing or extra axis) fails in either direction.
func (e *Engine) HasValidOptions(ctx context.Context, v *domain.Variation) (bool, error) {
	product, err := e.store.GetProduct(ctx, v.ProductID)
	if err != nil {
		return false, err
	}

	// Attribute -> set of valid option ids, restricted to attributes
	// currently on the product. Options for detached attributes are stale
	// and do not count.
	productOptions, err := e.store.ProductOptions(ctx, v.ProductID)
	if err != nil {
		return false, err
	}
	validOptions := make(map[int64]map[int64]bool)
	for _, opt := range productOptions {
		if !product.HasAttribute(opt.AttributeID) {
			continue
		}
		if validOptions[opt.AttributeID] == nil {
			validOptions[opt.AttributeID] = make(map[int64]bool)
		}
		validOptions[opt.AttributeID][opt.ID] = true
	}

	chosen, err := e.OptionsByAttribute(ctx, v)
	if err != nil {
		return false, err
	}
	if len(chosen) == 0 {
		return false, nil
	}

	if len(chosen) != len(validOptions) {
		return false, nil
	}
	for attributeID, optionID := range chosen {
		valid, ok := validOptions[attributeID]
		if !ok || !valid[optionID] {
			return false, nil
		}
	}
	return true, nil
}

// IsDuplicate reports whether another live variation of the same product
// already has the candidate option set, keyed by attribute id.
func (e *Engine) IsDuplicate(ctx context.Context, v *domain.Variation, candidate map[int64]int64) (bool, error) {
	if len(candidate) == 0 {
		return false, nil
	}

	siblings, err := e.store.ProductVariations(ctx, v.ProductID)
	if err != nil {
		return false, err
	}
	for i := range siblings {
		sibling := &siblings[i]
		if sibling.ID == v.ID {
			continue
		}
		existing, err := e.OptionsByAttribute(ctx, sibling)
		if err != nil {
			return false, err
		}
		if sameOptionSet(existing, candidate) {
			return true, nil
		}
	}
	return false, nil
}

// IsEnabled reads the status flag of the latest persisted version of the
// variation, not any snapshot held by a cart. A cart can hold an enabled
// version while the operator has since disabled the variation; the latest
// version wins.
func (e *Engine) IsEnabled(ctx context.Context, variationID int64) (bool, error) {
	latest, err := e.store.LatestVariation(ctx, variationID)
	if err != nil {
		if errors.Is(err, domain.ErrVariationNotFound) || domain.IsCode(err, domain.ENOTFOUND) {
			return false, nil
		}
		return false, err
	}
	return latest.IsEnabled(), nil
}

// IsDeleted reports whether the live row is gone. A deleted variation can
// still exist in version history; deletion and disabled state are
// independent checks.
func (e *Engine) IsDeleted(ctx context.Context, variationID int64) (bool, error) {
	_, err := e.store.GetVariation(ctx, variationID)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrVariationNotFound) || domain.IsCode(err, domain.ENOTFOUND) {
		return true, nil
	}
	return false, err
}

// ValidateForCart aggregates the three independent shopper-facing checks.
// Multiple issues may be reported at once. This runs both when an
// add-to-cart request is submitted and again for every cart item at
// checkout time.
func (e *Engine) ValidateForCart(ctx context.Context, v *domain.Variation) (*domain.ValidationResult, error) {
	result := &domain.ValidationResult{}

	valid, err := e.HasValidOptions(ctx, v)
	if err != nil {
		return nil, err
	}
	if !valid {
		result.AddError(
			"This product does not have valid options set",
			domain.CodeVariationInvalidOptions,
		)
	}

	enabled, err := e.IsEnabled(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	if !enabled {
		result.AddError(
			"These product options are not available, please choose again",
			domain.CodeVariationNotAvailable,
		)
	}

	deleted, err := e.IsDeleted(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	if deleted {
		result.AddError(
			"These product options have been deleted, please choose again",
			domain.CodeVariationDeleted,
		)
	}

	return result, nil
}

// ValidateForSave is the operator-facing save-time check: duplicate option
// sets and negative price deltas abort the write entirely.
func (e *Engine) ValidateForSave(ctx context.Context, v *domain.Variation) (*domain.ValidationResult, error) {
	result := &domain.ValidationResult{}

	candidate, err := e.OptionsByAttribute(ctx, v)
	if err != nil {
		return nil, err
	}
	duplicate, err := e.IsDuplicate(ctx, v, candidate)
	if err != nil {
		return nil, err
	}
	if duplicate {
		result.AddError(
			"Duplicate variation for this product",
			domain.CodeVariationDuplicate,
		)
	}

	if v.PriceDelta.IsNegative() {
		result.AddError(
			"Variation price difference is a negative amount",
			domain.CodeVariationNegativePrice,
		)
	}

	return result, nil
}

// OptionsByAttribute builds the variation's attribute -> option mapping
// from its persisted options.
func (e *Engine) OptionsByAttribute(ctx context.Context, v *domain.Variation) (map[int64]int64, error) {
	mapping := make(map[int64]int64, len(v.OptionIDs))
	for _, optionID := range v.OptionIDs {
		opt, err := e.store.GetOption(ctx, optionID)
		if err != nil {
			return nil, err
		}
		mapping[opt.AttributeID] = opt.ID
	}
	return mapping, nil
}

// OptionForAttribute returns the variation's chosen option for one
// attribute, or nil if the variation has none for it.
func (e *Engine) OptionForAttribute(ctx context.Context, variationID, attributeID int64) (*domain.Option, error) {
	v, err := e.store.GetVariation(ctx, variationID)
	if err != nil {
		return nil, err
	}
	for _, optionID := range v.OptionIDs {
		opt, err := e.store.GetOption(ctx, optionID)
		if err != nil {
			return nil, err
		}
		if opt.AttributeID == attributeID {
			return opt, nil
		}
	}
	return nil, nil
}

func sameOptionSet(a, b map[int64]int64) bool {
	if len(a) != len(b) {
		return false
	}
	for attributeID, optionID := range a {
		if b[attributeID] != optionID {
			return false
		}
	}
	return true
}
