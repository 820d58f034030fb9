package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
)

// OrderStore implements catalog.OrderStore backed by a pgx connection
// pool. The order aggregate is rewritten as a whole on SaveOrder; items,
// item options and modifications cascade with the order row.
type OrderStore struct {
	pool *pgxpool.Pool
}

var _ catalog.OrderStore = (*OrderStore)(nil)

// NewOrderStore creates a PostgreSQL-backed order store.
func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

func (s *OrderStore) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o := &domain.Order{ID: id}
	err := s.pool.QueryRow(ctx, `
		SELECT status, customer_id, session_id, email, name, shipping_address, created_at, updated_at
		FROM orders WHERE id = $1`, id).
		Scan(&o.Status, &o.CustomerID, &o.SessionID, &o.Email, &o.Name, &o.ShippingAddress, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "postgres.get_order", "failed to get order")
	}
	if err := s.loadAggregate(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OrderStore) CurrentOrder(ctx context.Context, identity domain.CartIdentity) (*domain.Order, error) {
	var row pgx.Row
	if identity.CustomerID != 0 {
		row = s.pool.QueryRow(ctx, `
			SELECT id FROM orders WHERE status = 'Cart' AND customer_id = $1
			ORDER BY updated_at DESC LIMIT 1`, identity.CustomerID)
	} else {
		row = s.pool.QueryRow(ctx, `
			SELECT id FROM orders WHERE status = 'Cart' AND session_id = $1 AND customer_id = 0
			ORDER BY updated_at DESC LIMIT 1`, identity.SessionID)
	}
	var id int64
	if err := row.Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "postgres.current_order", "failed to resolve cart")
	}
	return s.GetOrder(ctx, id)
}

func (s *OrderStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	if o.Status == "" {
		o.Status = domain.OrderStatusCart
	}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO orders (status, customer_id, session_id, email, name, shipping_address)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`,
		o.Status, o.CustomerID, o.SessionID, o.Email, o.Name, o.ShippingAddress).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Internal(err, "postgres.create_order", "failed to insert order")
	}
	return nil
}

// SaveOrder rewrites the whole aggregate in one transaction: the order
// row, then a delete-and-reinsert of items, item options and
// modifications. Partial writes never become visible.
func (s *OrderStore) SaveOrder(ctx context.Context, o *domain.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.Internal(err, "postgres.save_order", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $2, customer_id = $3, session_id = $4, email = $5, name = $6,
		    shipping_address = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		o.ID, o.Status, o.CustomerID, o.SessionID, o.Email, o.Name, o.ShippingAddress).
		Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return domain.Internal(err, "postgres.save_order", "failed to update order")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return domain.Internal(err, "postgres.save_order", "failed to clear items")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM order_modifications WHERE order_id = $1`, o.ID); err != nil {
		return domain.Internal(err, "postgres.save_order", "failed to clear modifications")
	}

	for i := range o.Items {
		item := &o.Items[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, object_class, object_id, object_version, quantity, price_cents, currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			o.ID, item.Ref.Class, item.Ref.ID, item.Version, item.Quantity, item.UnitPrice.Cents, item.UnitPrice.Currency).
			Scan(&item.ID)
		if err != nil {
			return domain.Internal(err, "postgres.save_order", "failed to insert item")
		}
		for j := range item.Options {
			opt := &item.Options[j]
			err := tx.QueryRow(ctx, `
				INSERT INTO order_item_options (item_id, object_class, object_id, object_version)
				VALUES ($1, $2, $3, $4)
				RETURNING id`,
				item.ID, opt.Ref.Class, opt.Ref.ID, opt.Version).Scan(&opt.ID)
			if err != nil {
				return domain.Internal(err, "postgres.save_order", "failed to insert item option")
			}
		}
	}

	for i := range o.Modifications {
		mod := &o.Modifications[i]
		err := tx.QueryRow(ctx, `
			INSERT INTO order_modifications (order_id, description, amount_cents, currency)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			o.ID, mod.Description, mod.Amount.Cents, mod.Amount.Currency).Scan(&mod.ID)
		if err != nil {
			return domain.Internal(err, "postgres.save_order", "failed to insert modification")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Internal(err, "postgres.save_order", "failed to commit")
	}
	return nil
}

func (s *OrderStore) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return domain.Internal(err, "postgres.delete_order", "failed to delete order")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *OrderStore) OrdersByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	ids, err := s.orderIDs(ctx, `
		SELECT id FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	return s.loadOrders(ctx, ids)
}

func (s *OrderStore) UnprocessedQuantity(ctx context.Context, ref domain.PurchasableRef) (inCarts, inOrders int, err error) {
	// An item holds the purchasable either directly or as a frozen item
	// option, so both paths count toward the reservation.
	err = s.pool.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(i.quantity) FILTER (WHERE o.status = 'Cart'), 0),
			COALESCE(SUM(i.quantity) FILTER (WHERE o.status IN ('Pending', 'Processing')), 0)
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE (i.object_class = $1 AND i.object_id = $2)
		   OR EXISTS (
			SELECT 1 FROM order_item_options io
			WHERE io.item_id = i.id AND io.object_class = $1 AND io.object_id = $2
		   )`, ref.Class, ref.ID).Scan(&inCarts, &inOrders)
	if err != nil {
		return 0, 0, domain.Internal(err, "postgres.unprocessed_quantity", "failed to sum reservations")
	}
	return inCarts, inOrders, nil
}

func (s *OrderStore) StaleCarts(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	ids, err := s.orderIDs(ctx, `
		SELECT id FROM orders WHERE status = 'Cart' AND updated_at < $1 ORDER BY updated_at`, cutoff)
	if err != nil {
		return nil, err
	}
	return s.loadOrders(ctx, ids)
}

func (s *OrderStore) orderIDs(ctx context.Context, query string, arg any) ([]int64, error) {
	rows, err := s.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, domain.Internal(err, "postgres.order_ids", "failed to list orders")
	}
	return collectIDs(rows)
}

func (s *OrderStore) loadOrders(ctx context.Context, ids []int64) ([]domain.Order, error) {
	orders := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

func (s *OrderStore) loadAggregate(ctx context.Context, o *domain.Order) error {
	rows, err := s.pool.Query(ctx, `
		SELECT id, object_class, object_id, object_version, quantity, price_cents, currency
		FROM order_items WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return domain.Internal(err, "postgres.load_order", "failed to list items")
	}
	defer rows.Close()

	o.Items = nil
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Ref.Class, &item.Ref.ID, &item.Version, &item.Quantity, &item.UnitPrice.Cents, &item.UnitPrice.Currency); err != nil {
			return domain.Internal(err, "postgres.load_order", "failed to scan item")
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Internal(err, "postgres.load_order", "failed to read items")
	}
	rows.Close()

	for i := range o.Items {
		item := &o.Items[i]
		optRows, err := s.pool.Query(ctx, `
			SELECT id, object_class, object_id, object_version
			FROM order_item_options WHERE item_id = $1 ORDER BY id`, item.ID)
		if err != nil {
			return domain.Internal(err, "postgres.load_order", "failed to list item options")
		}
		for optRows.Next() {
			var opt domain.ItemOption
			if err := optRows.Scan(&opt.ID, &opt.Ref.Class, &opt.Ref.ID, &opt.Version); err != nil {
				optRows.Close()
				return domain.Internal(err, "postgres.load_order", "failed to scan item option")
			}
			item.Options = append(item.Options, opt)
		}
		if err := optRows.Err(); err != nil {
			optRows.Close()
			return domain.Internal(err, "postgres.load_order", "failed to read item options")
		}
		optRows.Close()
	}

	modRows, err := s.pool.Query(ctx, `
		SELECT id, description, amount_cents, currency
		FROM order_modifications WHERE order_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return domain.Internal(err, "postgres.load_order", "failed to list modifications")
	}
	defer modRows.Close()

	o.Modifications = nil
	for modRows.Next() {
		var mod domain.Modification
		if err := modRows.Scan(&mod.ID, &mod.Description, &mod.Amount.Cents, &mod.Amount.Currency); err != nil {
			return domain.Internal(err, "postgres.load_order", "failed to scan modification")
		}
		o.Modifications = append(o.Modifications, mod)
	}
	return modRows.Err()
}
