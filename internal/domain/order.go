package domain

import "time"

// OrderStatus is the lifecycle state of an order. An order in Cart status
// is the shopper's mutable cart; Pending and later states are immutable
// except through explicit modifiers.
type OrderStatus string

const (
	OrderStatusCart       OrderStatus = "Cart"
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPaid       OrderStatus = "Paid"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// CartIdentity resolves the current order for a request: an anonymous
// session token, a customer id, or both. Exactly one open cart exists per
// identity at a time.
type CartIdentity struct {
	SessionID  string
	CustomerID int64
}

// Order is the aggregate root for a cart and, after checkout, the placed
// order. It exclusively owns its Items; Items exclusively own their
// ItemOptions. Destroying the order cascades to both.
type Order struct {
	ID         int64
	Status     OrderStatus
	CustomerID int64 // zero for anonymous carts
	SessionID  string

	Items         []Item
	Modifications []Modification

	// Checkout contact details, captured at submission.
	Email           string
	Name            string
	ShippingAddress string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCart reports whether the order is still a mutable cart.
func (o *Order) IsCart() bool {
	return o.Status == OrderStatusCart
}

// SubTotal sums the item line totals. An empty cart yields a zero amount
// with no currency.
func (o *Order) SubTotal() Money {
	var total Money
	for _, item := range o.Items {
		// Currencies are uniform within an order; Add only fails on a
		// mixed-currency order, which the mutation protocol prevents.
		sum, err := total.Add(item.Subtotal())
		if err != nil {
			return total
		}
		total = sum
	}
	return total
}

// Total is SubTotal plus the sum of modification amounts (tax, shipping).
func (o *Order) Total() Money {
	total := o.SubTotal()
	for _, mod := range o.Modifications {
		sum, err := total.Add(mod.Amount)
		if err != nil {
			return total
		}
		total = sum
	}
	return total
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// FindItem locates the line a new (ref, version, options) request merges
// into, or nil. Two lines merge only when the purchasable reference, its
// frozen version, and the full frozen option set are identical; a later
// published version always gets its own line so frozen prices stay intact.
func (o *Order) FindItem(ref PurchasableRef, version int, options []ItemOption) *Item {
	for i := range o.Items {
		item := &o.Items[i]
		if item.Ref == ref && item.Version == version && sameItemOptions(item.Options, options) {
			return item
		}
	}
	return nil
}

func sameItemOptions(a, b []ItemOption) bool {
	if len(a) != len(b) {
		return false
	}
	for _, opt := range a {
		found := false
		for _, other := range b {
			if opt.Ref == other.Ref && opt.Version == other.Version {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Item is one order line: a purchasable frozen at a specific version and
// unit price, with any chosen variation frozen alongside it.
type Item struct {
	ID       int64
	Ref      PurchasableRef
	Version  int
	Quantity int

	// UnitPrice is the effective price (base plus variation delta)
	// snapshotted at add-to-cart time, immune to later catalog edits.
	UnitPrice Money

	Options []ItemOption
}

// Subtotal is quantity times the frozen unit price.
func (i *Item) Subtotal() Money {
	return i.UnitPrice.Mul(i.Quantity)
}

// VariationRef returns the frozen variation reference, if the item
// carries one.
func (i *Item) VariationRef() (PurchasableRef, int, bool) {
	for _, opt := range i.Options {
		if opt.Ref.Class == ClassVariation {
			return opt.Ref, opt.Version, true
		}
	}
	return PurchasableRef{}, 0, false
}

// ItemOption is the frozen snapshot of a variation chosen for an item.
type ItemOption struct {
	ID      int64
	Ref     PurchasableRef
	Version int
}

// Modification is an opaque named adjustment contributed by the modifier
// pipeline (tax, shipping). The core only sums amounts into the total.
type Modification struct {
	ID          int64
	Description string
	Amount      Money
}
