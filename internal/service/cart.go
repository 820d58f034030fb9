package service

import (
	"context"
	"time"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/telemetry"
	"github.com/google/uuid"
)

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// CurrentOrder resolves the open cart for an identity, creating a new
	// Cart-status order (and session token, if needed) when none exists.
	// Returns the order and the session token to hand back to the shopper.
	CurrentOrder(ctx context.Context, identity domain.CartIdentity) (*domain.Order, string, error)

	// AddItem adds a purchasable to the cart, merging into an existing line
	// when the frozen (version, options) match. The selection maps
	// attribute id to chosen option id; it must be empty for products
	// without attributes.
	AddItem(ctx context.Context, orderID int64, productID int64, quantity int, selection map[int64]int64) (*domain.Order, error)

	// UpdateItemQuantity sets a line's quantity, removing the line at zero.
	// The stock ledger is adjusted by the difference.
	UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*domain.Order, error)

	// RemoveItem deletes a line and returns its quantity to the ledger.
	RemoveItem(ctx context.Context, orderID, itemID int64) (*domain.Order, error)

	// CleanupAbandoned deletes carts idle past maxAge, restocking their
	// items. Returns the number of carts removed.
	CleanupAbandoned(ctx context.Context, maxAge time.Duration) (int, error)
}

type cartService struct {
	store   catalog.Store
	orders  catalog.OrderStore
	engine  *catalog.Engine
	metrics *telemetry.Metrics
}

// NewCartService creates a new CartService instance.
func NewCartService(store catalog.Store, orders catalog.OrderStore, metrics *telemetry.Metrics) CartService {
	return &cartService{
		store:   store,
		orders:  orders,
		engine:  catalog.NewEngine(store),
		metrics: metrics,
	}
}

// CurrentOrder resolves the open cart for an identity, creating one if needed.
func (s *cartService) CurrentOrder(ctx context.Context, identity domain.CartIdentity) (*domain.Order, string, error) {
	if identity.SessionID == "" && identity.CustomerID == 0 {
		identity.SessionID = uuid.New().String()
	}

	order, err := s.orders.CurrentOrder(ctx, identity)
	if err == nil {
		return order, identity.SessionID, nil
	}
	if !domain.IsCode(err, domain.ENOTFOUND) {
		return nil, "", domain.Internal(err, "cart.current_order", "failed to look up current order")
	}

	order = &domain.Order{
		Status:     domain.OrderStatusCart,
		CustomerID: identity.CustomerID,
		SessionID:  identity.SessionID,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, "", domain.Internal(err, "cart.current_order", "failed to create cart")
	}
	if s.metrics != nil {
		s.metrics.CartsCreated.Inc()
	}
	return order, identity.SessionID, nil
}

// AddItem implements the cart mutation protocol. Validation runs fully
// before any mutation: a failed add leaves the cart, and the stock ledger,
// untouched.
func (s *cartService) AddItem(ctx context.Context, orderID int64, productID int64, quantity int, selection map[int64]int64) (*domain.Order, error) {
	const op = "cart.add_item"

	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsCart() {
		return nil, domain.ErrCartLocked
	}

	// The purchasable must be currently published; the snapshot is taken
	// from the published version, not the draft.
	published, err := s.store.GetPublishedProduct(ctx, productID)
	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			return nil, domain.ErrNotPurchasable
		}
		return nil, domain.Internal(err, op, "failed to load product")
	}

	ref := domain.ProductRef(productID)
	version := published.PublishedVersion
	price := published.Price
	stockRef := ref
	var itemOptions []domain.ItemOption

	if published.RequiresVariation() {
		variation, err := s.resolveVariation(ctx, productID, selection)
		if err != nil {
			return nil, err
		}

		result, err := s.engine.ValidateForCart(ctx, variation)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to validate variation")
		}
		if err := result.Err(op); err != nil {
			return nil, err
		}

		price, err = price.Add(variation.PriceDelta)
		if err != nil {
			return nil, domain.Internal(err, op, "mismatched variation currency")
		}
		stockRef = domain.VariationRef(variation.ID)
		itemOptions = []domain.ItemOption{{
			Ref:     stockRef,
			Version: variation.Version,
		}}
	} else if len(selection) > 0 {
		return nil, domain.Invalid(op, "product does not take options")
	}

	// Merge rule: an existing line must match the frozen product version
	// and the frozen variation snapshot exactly. A later published version
	// never merges into an older line, so frozen prices stay intact.
	if existing := order.FindItem(ref, version, itemOptions); existing != nil {
		existing.Quantity += quantity
	} else {
		order.Items = append(order.Items, domain.Item{
			Ref:       ref,
			Version:   version,
			Quantity:  quantity,
			UnitPrice: price,
			Options:   itemOptions,
		})
	}

	// Stock depletes before the order write. If the write then fails the
	// hold is released again, so an error on either side leaves the cart
	// exactly as the shopper last saw it.
	if err := s.store.AdjustStock(ctx, stockRef, -quantity); err != nil {
		return nil, domain.Internal(err, op, "failed to adjust stock")
	}
	if err := s.orders.SaveOrder(ctx, order); err != nil {
		if restockErr := s.store.AdjustStock(ctx, stockRef, quantity); restockErr != nil {
			return nil, domain.Internal(restockErr, op, "failed to release stock after save failure")
		}
		return nil, domain.Internal(err, op, "failed to save order")
	}

	if s.metrics != nil {
		s.metrics.ItemsAdded.Add(float64(quantity))
	}
	return order, nil
}

// resolveVariation finds the single enabled variation whose option set
// equals the submitted selection.
func (s *cartService) resolveVariation(ctx context.Context, productID int64, selection map[int64]int64) (*domain.Variation, error) {
	const op = "cart.resolve_variation"

	if len(selection) == 0 {
		return nil, domain.Invalid(op, "this product requires options to be selected")
	}

	variations, err := s.store.ProductVariations(ctx, productID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list variations")
	}
	for i := range variations {
		v := &variations[i]
		mapping, err := s.engine.OptionsByAttribute(ctx, v)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to map variation options")
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
		if match {
			return v, nil
		}
	}

	result := &domain.ValidationResult{}
	result.AddError(
		"No product matches the selected options",
		domain.CodeVariationInvalidOptions,
	)
	return nil, result.Err(op)
}

// UpdateItemQuantity sets a line's quantity and settles the difference
// with the stock ledger.
func (s *cartService) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*domain.Order, error) {
	const op = "cart.update_item"

	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, orderID, itemID)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsCart() {
		return nil, domain.ErrCartLocked
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID != itemID {
			continue
		}
		delta := item.Quantity - quantity
		item.Quantity = quantity
		if err := s.orders.SaveOrder(ctx, order); err != nil {
			return nil, domain.Internal(err, op, "failed to save order")
		}
		if err := s.store.AdjustStock(ctx, stockRefForItem(item), delta); err != nil {
			return nil, domain.Internal(err, op, "failed to adjust stock")
		}
		return order, nil
	}
	return nil, domain.NotFound(op, "item", itemID)
}

// RemoveItem deletes a line and returns its quantity to the ledger.
func (s *cartService) RemoveItem(ctx context.Context, orderID, itemID int64) (*domain.Order, error) {
	const op = "cart.remove_item"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsCart() {
		return nil, domain.ErrCartLocked
	}

	for i := range order.Items {
		item := order.Items[i]
		if item.ID != itemID {
			continue
		}
		order.Items = append(order.Items[:i], order.Items[i+1:]...)
		if err := s.orders.SaveOrder(ctx, order); err != nil {
			return nil, domain.Internal(err, op, "failed to save order")
		}
		if err := s.store.AdjustStock(ctx, stockRefForItem(&item), item.Quantity); err != nil {
			return nil, domain.Internal(err, op, "failed to adjust stock")
		}
		return order, nil
	}
	return nil, domain.NotFound(op, "item", itemID)
}

// CleanupAbandoned deletes idle carts and restocks their items.
func (s *cartService) CleanupAbandoned(ctx context.Context, maxAge time.Duration) (int, error) {
	const op = "cart.cleanup_abandoned"

	stale, err := s.orders.StaleCarts(ctx, time.Now().Add(-maxAge))
	if err != nil {
		return 0, domain.Internal(err, op, "failed to list stale carts")
	}
	removed := 0
	for i := range stale {
		cart := &stale[i]
		for j := range cart.Items {
			item := &cart.Items[j]
			if err := s.store.AdjustStock(ctx, stockRefForItem(item), item.Quantity); err != nil {
				return removed, domain.Internal(err, op, "failed to restock item")
			}
		}
		if err := s.orders.DeleteOrder(ctx, cart.ID); err != nil {
			return removed, domain.Internal(err, op, "failed to delete cart")
		}
		removed++
	}
	return removed, nil
}

// stockRefForItem is the ledger entry an item depletes: its variation when
// it has one, otherwise the product itself.
func stockRefForItem(item *domain.Item) domain.PurchasableRef {
	if ref, _, ok := item.VariationRef(); ok {
		return ref
	}
	return item.Ref
}
