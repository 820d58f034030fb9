package service

import (
	"context"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
)

// ProductService provides the shopper-facing read side of the catalog.
type ProductService interface {
	// GetPublishedProduct returns the version of the product shoppers buy.
	GetPublishedProduct(ctx context.Context, id int64) (*domain.Product, error)

	// OptionsForAttribute returns the options a shopper can still pick for
	// one attribute, drawn from enabled, in-stock variations rather than
	// the raw option list.
	OptionsForAttribute(ctx context.Context, productID, attributeID int64) ([]domain.Option, error)

	// PriceForSelection resolves the effective price (base plus variation
	// delta) for a submitted option selection. Selection may be empty for
	// products without attributes.
	PriceForSelection(ctx context.Context, productID int64, selection map[int64]int64) (domain.Money, error)

	// InStock reports whether the product can be bought at all: its own
	// ledger for plain products, any enabled in-stock variation otherwise.
	InStock(ctx context.Context, productID int64) (bool, error)

	// UnprocessedQuantity reports units of the product held in carts and
	// in placed-but-unprocessed orders.
	UnprocessedQuantity(ctx context.Context, productID int64) (inCarts, inOrders int, err error)
}

type productService struct {
	store  catalog.Store
	orders catalog.OrderStore
	engine *catalog.Engine
}

// NewProductService creates a new ProductService instance.
func NewProductService(store catalog.Store, orders catalog.OrderStore) ProductService {
	return &productService{
		store:  store,
		orders: orders,
		engine: catalog.NewEngine(store),
	}
}

func (s *productService) GetPublishedProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.GetPublishedProduct(ctx, id)
}

func (s *productService) OptionsForAttribute(ctx context.Context, productID, attributeID int64) ([]domain.Option, error) {
	const op = "product.options_for_attribute"

	variations, err := s.store.ProductVariations(ctx, productID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list variations")
	}

	seen := make(map[int64]bool)
	var options []domain.Option
	for i := range variations {
		v := &variations[i]
		enabled, err := s.engine.IsEnabled(ctx, v.ID)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to check variation")
		}
		if !enabled {
			continue
		}
		inStock, err := s.variationInStock(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		if !inStock {
			continue
		}
		opt, err := s.engine.OptionForAttribute(ctx, v.ID, attributeID)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to resolve option")
		}
		if opt != nil && !seen[opt.ID] {
			seen[opt.ID] = true
			options = append(options, *opt)
		}
	}
	return options, nil
}

func (s *productService) PriceForSelection(ctx context.Context, productID int64, selection map[int64]int64) (domain.Money, error) {
	const op = "product.price_for_selection"

	published, err := s.store.GetPublishedProduct(ctx, productID)
	if err != nil {
		return domain.Money{}, err
	}
	if len(selection) == 0 {
		return published.Price, nil
	}

	variations, err := s.store.ProductVariations(ctx, productID)
	if err != nil {
		return domain.Money{}, domain.Internal(err, op, "failed to list variations")
	}
	for i := range variations {
		v := &variations[i]
		mapping, err := s.engine.OptionsByAttribute(ctx, v)
		if err != nil {
			return domain.Money{}, domain.Internal(err, op, "failed to map options")
		}
		if len(mapping) != len(selection) {
			continue
		}
		match := true
		for attributeID, optionID := range selection {
			if mapping[attributeID] != optionID {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		price, err := published.Price.Add(v.PriceDelta)
		if err != nil {
			return domain.Money{}, domain.Internal(err, op, "mismatched variation currency")
		}
		return price, nil
	}
	return domain.Money{}, domain.ErrVariationNotFound
}

func (s *productService) InStock(ctx context.Context, productID int64) (bool, error) {
	const op = "product.in_stock"

	p, err := s.store.GetProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	if !p.RequiresVariation() {
		level, err := s.store.StockLevel(ctx, domain.ProductRef(productID))
		if err != nil {
			return false, domain.Internal(err, op, "failed to read stock")
		}
		return level != 0, nil
	}

	variations, err := s.store.ProductVariations(ctx, productID)
	if err != nil {
		return false, domain.Internal(err, op, "failed to list variations")
	}
	for i := range variations {
		inStock, err := s.variationInStock(ctx, variations[i].ID)
		if err != nil {
			return false, err
		}
		if inStock {
			return true, nil
		}
	}
	return false, nil
}

func (s *productService) UnprocessedQuantity(ctx context.Context, productID int64) (int, int, error) {
	return s.orders.UnprocessedQuantity(ctx, domain.ProductRef(productID))
}

func (s *productService) variationInStock(ctx context.Context, variationID int64) (bool, error) {
	level, err := s.store.StockLevel(ctx, domain.VariationRef(variationID))
	if err != nil {
		return false, domain.Internal(err, "product.variation_in_stock", "failed to read stock")
	}
	return level != 0, nil
}
