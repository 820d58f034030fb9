// Package catalog defines the versioned catalog store the storefront core
// depends on, and the validity rules for product variations. The store
// replaces framework-managed persistence with an explicit contract: every
// mutable entity is keyed by (id, version) with the published/live pointer
// held as a separate indirection.
package catalog

import (
	"context"
	"time"

	"github.com/dukerupert/strand/internal/domain"
)

// Store persists products, attributes, options and variations with version
// history and publish state, plus the stock ledger.
//
// Store invariants:
//   - ids are allocated from a monotonic sequence and never reused, so a
//     deleted variation's id cannot be taken over by a new record;
//   - writes are visible to subsequent reads immediately (read-after-write),
//     so validity checks never pass on stale catalog state;
//   - AdjustStock is atomic, not read-then-write.
type Store interface {
	// GetProduct returns the live draft row. Deleted products are not found.
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)

	// GetProductVersion returns a historical snapshot, which remains
	// queryable after the live row is deleted.
	GetProductVersion(ctx context.Context, id int64, version int) (*domain.Product, error)

	// GetPublishedProduct returns the currently published version snapshot.
	// Unpublished or deleted products are not found.
	GetPublishedProduct(ctx context.Context, id int64) (*domain.Product, error)

	// CreateProduct writes a new draft at version 1 and assigns the id.
	CreateProduct(ctx context.Context, p *domain.Product) error

	// UpdateProduct writes draft changes and bumps the draft version.
	UpdateProduct(ctx context.Context, p *domain.Product) error

	// PublishProduct snapshots the current draft as the published version.
	PublishProduct(ctx context.Context, id int64) (*domain.Product, error)

	// UnpublishProduct clears the published pointer. History is kept.
	UnpublishProduct(ctx context.Context, id int64) error

	// DeleteProduct removes the live row and unpublishes. Version history
	// remains queryable.
	DeleteProduct(ctx context.Context, id int64) error

	GetAttribute(ctx context.Context, id int64) (*domain.Attribute, error)
	CreateAttribute(ctx context.Context, a *domain.Attribute) error

	// AttachAttribute links an attribute to a product's draft;
	// DetachAttribute removes the link. Option cloning and variation
	// compliance are service-level concerns layered on top.
	AttachAttribute(ctx context.Context, productID, attributeID int64) error
	DetachAttribute(ctx context.Context, productID, attributeID int64) error

	// ProductAttributes returns the attributes currently on the product.
	ProductAttributes(ctx context.Context, productID int64) ([]domain.Attribute, error)

	// ProductOptions returns the options owned by the product, across all
	// of its attributes.
	ProductOptions(ctx context.Context, productID int64) ([]domain.Option, error)

	// DefaultOptions returns the unowned template options for an attribute
	// (ProductID zero).
	DefaultOptions(ctx context.Context, attributeID int64) ([]domain.Option, error)

	GetOption(ctx context.Context, id int64) (*domain.Option, error)
	CreateOption(ctx context.Context, o *domain.Option) error

	// GetVariation returns the live row. Deleted variations are not found
	// even though their versions remain.
	GetVariation(ctx context.Context, id int64) (*domain.Variation, error)

	// GetVariationVersion returns a historical snapshot.
	GetVariationVersion(ctx context.Context, id int64, version int) (*domain.Variation, error)

	// LatestVariation returns the highest persisted version, whether or not
	// the live row still exists. Enable/disable is read from here so it
	// applies retroactively to carts holding older snapshots.
	LatestVariation(ctx context.Context, id int64) (*domain.Variation, error)

	// ProductVariations returns the live variations of a product.
	ProductVariations(ctx context.Context, productID int64) ([]domain.Variation, error)

	// CreateVariation writes version 1 and assigns the id.
	CreateVariation(ctx context.Context, v *domain.Variation) error

	// UpdateVariation writes the live row and records a new version.
	UpdateVariation(ctx context.Context, v *domain.Variation) error

	// DeleteVariation removes the live row, keeping version history.
	DeleteVariation(ctx context.Context, id int64) error

	// StockLevel reports the ledger level for a purchasable;
	// domain.UnlimitedStock means the ledger never depletes.
	StockLevel(ctx context.Context, ref domain.PurchasableRef) (int, error)

	// SetStockLevel sets the ledger level directly (operator action).
	SetStockLevel(ctx context.Context, ref domain.PurchasableRef, level int) error

	// AdjustStock atomically adds delta to the ledger, clamping at zero.
	// The unlimited sentinel is exempt. Negative delta on add-to-cart,
	// positive on removal.
	AdjustStock(ctx context.Context, ref domain.PurchasableRef, delta int) error
}

// OrderStore persists orders with their items and item options. The order
// aggregate is saved as a whole; items and options cascade with it.
type OrderStore interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)

	// CurrentOrder returns the open Cart-status order for the identity.
	CurrentOrder(ctx context.Context, identity domain.CartIdentity) (*domain.Order, error)

	// CreateOrder assigns an id and persists a new order.
	CreateOrder(ctx context.Context, o *domain.Order) error

	// SaveOrder persists the full aggregate: status, contact fields, items,
	// item options and modifications.
	SaveOrder(ctx context.Context, o *domain.Order) error

	// DeleteOrder destroys the order and, by cascade, its items and
	// item options.
	DeleteOrder(ctx context.Context, id int64) error

	// OrdersByCustomer returns all orders for a customer, newest first.
	OrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error)

	// UnprocessedQuantity reports how many units of a purchasable are held
	// in carts versus placed-but-unprocessed orders (Pending, Processing),
	// across all item versions.
	UnprocessedQuantity(ctx context.Context, ref domain.PurchasableRef) (inCarts, inOrders int, err error)

	// StaleCarts returns Cart-status orders not updated since the cutoff,
	// for abandoned-cart cleanup.
	StaleCarts(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
}
