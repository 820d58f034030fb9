package service

import (
	"context"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
)

// CatalogService wraps operator-facing catalog writes with the consistency
// rules that keep variations and publish state coherent:
//
//   - a variation save is rejected atomically on a duplicate option set or
//     negative price delta;
//   - after any variation write, a product left with no enabled variations
//     is unpublished;
//   - after a product edit, enabled variations whose option sets no longer
//     match the product's attributes are disabled;
//   - a product requiring variations cannot be published until at least
//     one is enabled.
type CatalogService interface {
	SaveProduct(ctx context.Context, p *domain.Product) error
	PublishProduct(ctx context.Context, id int64) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error

	// SaveAttribute creates a variation axis. SaveOption creates an option
	// on an axis; an option with no product is a default, cloned onto each
	// product that later adopts the attribute.
	SaveAttribute(ctx context.Context, a *domain.Attribute) error
	SaveOption(ctx context.Context, o *domain.Option) error

	// AttachAttribute links an attribute to a product, cloning the
	// attribute's default options onto the product the first time, then
	// disables variations made non-compliant by the new axis.
	AttachAttribute(ctx context.Context, productID, attributeID int64) error
	DetachAttribute(ctx context.Context, productID, attributeID int64) error

	// SaveVariation validates and persists a variation, creating it when
	// it has no id yet. The stock level, when non-nil, is written with it.
	SaveVariation(ctx context.Context, v *domain.Variation, stockLevel *int) error
	DeleteVariation(ctx context.Context, id int64) error
}

type catalogService struct {
	store  catalog.Store
	engine *catalog.Engine
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store catalog.Store) CatalogService {
	return &catalogService{
		store:  store,
		engine: catalog.NewEngine(store),
	}
}

// SaveProduct persists draft changes, then disables any enabled variation
// whose option set no longer matches the product's attributes.
func (s *catalogService) SaveProduct(ctx context.Context, p *domain.Product) error {
	const op = "catalog.save_product"

	if p.ID == 0 {
		if err := s.store.CreateProduct(ctx, p); err != nil {
			return domain.Internal(err, op, "failed to create product")
		}
		return nil
	}

	// Field edits never change attribute membership; that happens only
	// through AttachAttribute and DetachAttribute. Carry the current set
	// so a title or price edit cannot strip the variation axes.
	current, err := s.store.GetProduct(ctx, p.ID)
	if err != nil {
		return err
	}
	p.AttributeIDs = current.AttributeIDs

	if err := s.store.UpdateProduct(ctx, p); err != nil {
		return err
	}
	return s.disableNonCompliantVariations(ctx, p.ID)
}

// PublishProduct snapshots the draft as the published version. A product
// that requires variations must have at least one enabled.
func (s *catalogService) PublishProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "catalog.publish_product"

	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.RequiresVariation() {
		enabled, err := s.hasEnabledVariation(ctx, id)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to check variations")
		}
		if !enabled {
			return nil, domain.Invalid(op,
				"cannot publish product when no variations are enabled")
		}
	}
	return s.store.PublishProduct(ctx, id)
}

// DeleteProduct unpublishes and removes the live row; version history
// stays queryable for orders holding old snapshots.
func (s *catalogService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.store.UnpublishProduct(ctx, id); err != nil {
		return err
	}
	return s.store.DeleteProduct(ctx, id)
}

// SaveAttribute creates a new attribute.
func (s *catalogService) SaveAttribute(ctx context.Context, a *domain.Attribute) error {
	const op = "catalog.save_attribute"

	if a.Title == "" {
		return domain.Invalid(op, "attribute title is required")
	}
	if err := s.store.CreateAttribute(ctx, a); err != nil {
		return domain.Internal(err, op, "failed to create attribute")
	}
	return nil
}

// SaveOption creates a new option under an attribute.
func (s *catalogService) SaveOption(ctx context.Context, o *domain.Option) error {
	const op = "catalog.save_option"

	if o.Title == "" {
		return domain.Invalid(op, "option title is required")
	}
	if _, err := s.store.GetAttribute(ctx, o.AttributeID); err != nil {
		return err
	}
	if err := s.store.CreateOption(ctx, o); err != nil {
		return domain.Internal(err, op, "failed to create option")
	}
	return nil
}

// AttachAttribute links an attribute, seeding product options from the
// attribute's defaults on first reference.
func (s *catalogService) AttachAttribute(ctx context.Context, productID, attributeID int64) error {
	const op = "catalog.attach_attribute"

	if err := s.store.AttachAttribute(ctx, productID, attributeID); err != nil {
		return err
	}

	existing, err := s.store.ProductOptions(ctx, productID)
	if err != nil {
		return domain.Internal(err, op, "failed to list product options")
	}
	hasOptions := false
	for _, opt := range existing {
		if opt.AttributeID == attributeID {
			hasOptions = true
			break
		}
	}
	if !hasOptions {
		defaults, err := s.store.DefaultOptions(ctx, attributeID)
		if err != nil {
			return domain.Internal(err, op, "failed to list default options")
		}
		for _, def := range defaults {
			clone := domain.Option{
				AttributeID: attributeID,
				ProductID:   productID,
				Title:       def.Title,
			}
			if err := s.store.CreateOption(ctx, &clone); err != nil {
				return domain.Internal(err, op, "failed to clone default option")
			}
		}
	}

	// Existing variations lack an option for the new axis and must be
	// disabled rather than sold in an incomplete configuration.
	return s.disableNonCompliantVariations(ctx, productID)
}

// DetachAttribute unlinks an attribute and disables variations whose
// option sets now carry an extra axis.
func (s *catalogService) DetachAttribute(ctx context.Context, productID, attributeID int64) error {
	if err := s.store.DetachAttribute(ctx, productID, attributeID); err != nil {
		return err
	}
	return s.disableNonCompliantVariations(ctx, productID)
}

// SaveVariation validates and writes a variation. Duplicate option sets
// and negative price deltas abort the write with nothing persisted.
func (s *catalogService) SaveVariation(ctx context.Context, v *domain.Variation, stockLevel *int) error {
	const op = "catalog.save_variation"

	result, err := s.engine.ValidateForSave(ctx, v)
	if err != nil {
		return domain.Internal(err, op, "failed to validate variation")
	}
	if err := result.Err(op); err != nil {
		return err
	}

	if v.ID == 0 {
		if err := s.store.CreateVariation(ctx, v); err != nil {
			return domain.Internal(err, op, "failed to create variation")
		}
	} else {
		if err := s.store.UpdateVariation(ctx, v); err != nil {
			return err
		}
	}

	// Stock is an explicit parameter of the write, not ambient state.
	if stockLevel != nil {
		if err := s.store.SetStockLevel(ctx, domain.VariationRef(v.ID), *stockLevel); err != nil {
			return domain.Internal(err, op, "failed to set stock level")
		}
	}

	return s.unpublishIfNoEnabledVariations(ctx, v.ProductID)
}

// DeleteVariation removes the live row, then unpublishes the product if
// no enabled variations remain.
func (s *catalogService) DeleteVariation(ctx context.Context, id int64) error {
	v, err := s.store.GetVariation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteVariation(ctx, id); err != nil {
		return err
	}
	return s.unpublishIfNoEnabledVariations(ctx, v.ProductID)
}

func (s *catalogService) hasEnabledVariation(ctx context.Context, productID int64) (bool, error) {
	variations, err := s.store.ProductVariations(ctx, productID)
	if err != nil {
		return false, err
	}
	for i := range variations {
		if variations[i].IsEnabled() {
			return true, nil
		}
	}
	return false, nil
}

func (s *catalogService) unpublishIfNoEnabledVariations(ctx context.Context, productID int64) error {
	const op = "catalog.unpublish_check"

	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return domain.Internal(err, op, "failed to load product")
	}
	if !p.RequiresVariation() || !p.IsPublished() {
		return nil
	}
	enabled, err := s.hasEnabledVariation(ctx, productID)
	if err != nil {
		return domain.Internal(err, op, "failed to check variations")
	}
	if enabled {
		return nil
	}
	return s.store.UnpublishProduct(ctx, productID)
}

func (s *catalogService) disableNonCompliantVariations(ctx context.Context, productID int64) error {
	const op = "catalog.disable_check"

	variations, err := s.store.ProductVariations(ctx, productID)
	if err != nil {
		return domain.Internal(err, op, "failed to list variations")
	}
	for i := range variations {
		v := &variations[i]
		if !v.IsEnabled() {
			continue
		}
		valid, err := s.engine.HasValidOptions(ctx, v)
		if err != nil {
			return domain.Internal(err, op, "failed to check variation options")
		}
		if valid {
			continue
		}
		v.Status = domain.VariationDisabled
		if err := s.store.UpdateVariation(ctx, v); err != nil {
			return domain.Internal(err, op, "failed to disable variation")
		}
	}
	return s.unpublishIfNoEnabledVariations(ctx, productID)
}
