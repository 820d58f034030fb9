package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dukerupert/strand/internal/domain"
)

// Order persistence for the in-memory store. The aggregate is stored as a
// deep copy so callers never share item slices with the store.

func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	clone := cloneOrder(*o)
	return &clone, nil
}

func (s *Store) CurrentOrder(ctx context.Context, identity domain.CartIdentity) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.Status != domain.OrderStatusCart {
			continue
		}
		if identity.CustomerID != 0 && o.CustomerID == identity.CustomerID {
			clone := cloneOrder(*o)
			return &clone, nil
		}
		if identity.CustomerID == 0 && identity.SessionID != "" && o.SessionID == identity.SessionID {
			clone := cloneOrder(*o)
			return &clone, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = s.nextID()
	now := time.Now()
	o.CreatedAt = now
	o.UpdatedAt = now
	clone := cloneOrder(*o)
	s.orders[o.ID] = &clone
	return nil
}

func (s *Store) SaveOrder(ctx context.Context, o *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID]; !ok {
		return domain.ErrOrderNotFound
	}
	o.UpdatedAt = time.Now()
	for i := range o.Items {
		if o.Items[i].ID == 0 {
			o.Items[i].ID = s.nextID()
		}
		for j := range o.Items[i].Options {
			if o.Items[i].Options[j].ID == 0 {
				o.Items[i].Options[j].ID = s.nextID()
			}
		}
	}
	clone := cloneOrder(*o)
	s.orders[o.ID] = &clone
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return domain.ErrOrderNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) OrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []domain.Order
	for _, o := range s.orders {
		if o.CustomerID == customerID {
			orders = append(orders, cloneOrder(*o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *Store) UnprocessedQuantity(ctx context.Context, ref domain.PurchasableRef) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inCarts, inOrders := 0, 0
	for _, o := range s.orders {
		switch o.Status {
		case domain.OrderStatusCart, domain.OrderStatusPending, domain.OrderStatusProcessing:
		default:
			continue
		}
		for i := range o.Items {
			item := &o.Items[i]
			matched := item.Ref == ref
			if !matched {
				for _, opt := range item.Options {
					if opt.Ref == ref {
						matched = true
						break
					}
				}
			}
			if !matched {
				continue
			}
			if o.Status == domain.OrderStatusCart {
				inCarts += item.Quantity
			} else {
				inOrders += item.Quantity
			}
		}
	}
	return inCarts, inOrders, nil
}

func (s *Store) StaleCarts(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stale []domain.Order
	for _, o := range s.orders {
		if o.Status == domain.OrderStatusCart && o.UpdatedAt.Before(cutoff) {
			stale = append(stale, cloneOrder(*o))
		}
	}
	return stale, nil
}

func cloneOrder(o domain.Order) domain.Order {
	items := make([]domain.Item, len(o.Items))
	for i, item := range o.Items {
		item.Options = append([]domain.ItemOption(nil), item.Options...)
		items[i] = item
	}
	o.Items = items
	o.Modifications = append([]domain.Modification(nil), o.Modifications...)
	return o
}
