package domain

import "time"

// Purchasable object classes, stored on order items so a line can reference
// either a product or a variation snapshot.
const (
	ClassProduct   = "Product"
	ClassVariation = "Variation"
)

// UnlimitedStock is the sentinel stock level meaning the ledger never
// depletes for this purchasable.
const UnlimitedStock = -1

// PurchasableRef identifies a versioned catalog object by (class, id).
type PurchasableRef struct {
	Class string
	ID    int64
}

// ProductRef returns a reference to a product.
func ProductRef(id int64) PurchasableRef {
	return PurchasableRef{Class: ClassProduct, ID: id}
}

// VariationRef returns a reference to a variation.
func VariationRef(id int64) PurchasableRef {
	return PurchasableRef{Class: ClassVariation, ID: id}
}

// Product is a sellable catalog entity. The live row is the operator's
// draft; publishing snapshots it as a new immutable version. A product
// with attributes is only purchasable through one of its variations.
type Product struct {
	ID    int64
	Title string
	Price Money

	// Version counts draft edits. PublishedVersion points at the version
	// snapshot shoppers buy; zero means not published.
	Version          int
	PublishedVersion int
	PublishedAt      time.Time

	// AttributeIDs are the attributes currently attached to this product.
	AttributeIDs []int64
}

// RequiresVariation reports whether a variation must be selected before
// this product can enter a cart.
func (p *Product) RequiresVariation() bool {
	return len(p.AttributeIDs) > 0
}

// IsPublished reports whether a published version exists.
func (p *Product) IsPublished() bool {
	return p.PublishedVersion > 0
}

// HasAttribute reports whether the attribute is currently on the product.
func (p *Product) HasAttribute(attributeID int64) bool {
	for _, id := range p.AttributeIDs {
		if id == attributeID {
			return true
		}
	}
	return false
}

// Attribute is a named axis of variation, e.g. Size.
type Attribute struct {
	ID          int64
	Title       string
	Label       string
	Description string
}

// Option is one value on an attribute, e.g. Small. A ProductID of zero
// marks a default option, cloned onto a product the first time that
// product references the attribute.
type Option struct {
	ID          int64
	AttributeID int64
	ProductID   int64
	Title       string
}

// IsDefault reports whether this option is an unowned template option.
func (o *Option) IsDefault() bool {
	return o.ProductID == 0
}
