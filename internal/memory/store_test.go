package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	p := &domain.Product{Title: "Coffee", Price: domain.NewMoney(1500, "NZD")}
	require.NoError(t, store.CreateProduct(ctx, p))
	assert.Equal(t, 1, p.Version)

	t.Run("updates bump the draft version", func(t *testing.T) {
		p.Title = "Coffee Deluxe"
		require.NoError(t, store.UpdateProduct(ctx, p))
		assert.Equal(t, 2, p.Version)

		v1, err := store.GetProductVersion(ctx, p.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Coffee", v1.Title)
	})

	t.Run("publish pins the current draft", func(t *testing.T) {
		published, err := store.PublishProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, published.PublishedVersion)

		// Draft edits after publish do not leak into the published view.
		p.Price = domain.NewMoney(9999, "NZD")
		require.NoError(t, store.UpdateProduct(ctx, p))

		snap, err := store.GetPublishedProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.NewMoney(1500, "NZD"), snap.Price)
		assert.Equal(t, 2, snap.PublishedVersion)
	})

	t.Run("unpublish clears the pointer but keeps history", func(t *testing.T) {
		require.NoError(t, store.UnpublishProduct(ctx, p.ID))
		_, err := store.GetPublishedProduct(ctx, p.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))

		_, err = store.GetProductVersion(ctx, p.ID, 2)
		assert.NoError(t, err)
	})

	t.Run("delete removes the live row, not the versions", func(t *testing.T) {
		require.NoError(t, store.DeleteProduct(ctx, p.ID))
		_, err := store.GetProduct(ctx, p.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))

		v1, err := store.GetProductVersion(ctx, p.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, "Coffee", v1.Title)
	})
}

func TestIDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	v1 := &domain.Variation{ProductID: 1, Status: domain.VariationEnabled}
	require.NoError(t, store.CreateVariation(ctx, v1))
	require.NoError(t, store.DeleteVariation(ctx, v1.ID))

	v2 := &domain.Variation{ProductID: 1, Status: domain.VariationEnabled}
	require.NoError(t, store.CreateVariation(ctx, v2))
	assert.Greater(t, v2.ID, v1.ID, "a deleted id must not be taken over")
}

func TestVariationVersioning(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	v := &domain.Variation{ProductID: 1, Status: domain.VariationEnabled, OptionIDs: []int64{10}}
	require.NoError(t, store.CreateVariation(ctx, v))
	assert.Equal(t, 1, v.Version)

	v.Status = domain.VariationDisabled
	require.NoError(t, store.UpdateVariation(ctx, v))
	assert.Equal(t, 2, v.Version)

	latest, err := store.LatestVariation(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.False(t, latest.IsEnabled())

	t.Run("latest survives deletion of the live row", func(t *testing.T) {
		require.NoError(t, store.DeleteVariation(ctx, v.ID))
		_, err := store.GetVariation(ctx, v.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))

		latest, err := store.LatestVariation(ctx, v.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Version)
	})
}

func TestStockLedger(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.VariationRef(7)

	t.Run("unknown refs are unlimited", func(t *testing.T) {
		level, err := store.StockLevel(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, domain.UnlimitedStock, level)
	})

	t.Run("unlimited never depletes", func(t *testing.T) {
		require.NoError(t, store.SetStockLevel(ctx, ref, domain.UnlimitedStock))
		require.NoError(t, store.AdjustStock(ctx, ref, -5))
		level, err := store.StockLevel(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, domain.UnlimitedStock, level)
	})

	t.Run("adjustments clamp at zero", func(t *testing.T) {
		require.NoError(t, store.SetStockLevel(ctx, ref, 3))
		require.NoError(t, store.AdjustStock(ctx, ref, -5))
		level, err := store.StockLevel(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, 0, level)

		require.NoError(t, store.AdjustStock(ctx, ref, 2))
		level, err = store.StockLevel(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, 2, level)
	})
}

func TestOrderPersistence(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	order := &domain.Order{
		Status:    domain.OrderStatusCart,
		SessionID: "sess-1",
		Items: []domain.Item{{
			Ref:       domain.ProductRef(1),
			Version:   2,
			Quantity:  1,
			UnitPrice: domain.NewMoney(1500, "NZD"),
			Options:   []domain.ItemOption{{Ref: domain.VariationRef(9), Version: 1}},
		}},
	}
	require.NoError(t, store.CreateOrder(ctx, order))
	require.NotZero(t, order.ID)

	t.Run("save assigns item and option ids", func(t *testing.T) {
		require.NoError(t, store.SaveOrder(ctx, order))
		assert.NotZero(t, order.Items[0].ID)
		assert.NotZero(t, order.Items[0].Options[0].ID)
	})

	t.Run("readers get deep copies", func(t *testing.T) {
		loaded, err := store.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		loaded.Items[0].Quantity = 99

		again, err := store.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, again.Items[0].Quantity)
	})

	t.Run("delete cascades the aggregate", func(t *testing.T) {
		require.NoError(t, store.DeleteOrder(ctx, order.ID))
		_, err := store.GetOrder(ctx, order.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}

func TestCurrentOrder(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	anon := &domain.Order{Status: domain.OrderStatusCart, SessionID: "sess-1"}
	require.NoError(t, store.CreateOrder(ctx, anon))
	customer := &domain.Order{Status: domain.OrderStatusCart, CustomerID: 42}
	require.NoError(t, store.CreateOrder(ctx, customer))
	placed := &domain.Order{Status: domain.OrderStatusPending, SessionID: "sess-2"}
	require.NoError(t, store.CreateOrder(ctx, placed))

	t.Run("by session", func(t *testing.T) {
		o, err := store.CurrentOrder(ctx, domain.CartIdentity{SessionID: "sess-1"})
		require.NoError(t, err)
		assert.Equal(t, anon.ID, o.ID)
	})

	t.Run("customer id takes precedence", func(t *testing.T) {
		o, err := store.CurrentOrder(ctx, domain.CartIdentity{SessionID: "sess-1", CustomerID: 42})
		require.NoError(t, err)
		assert.Equal(t, customer.ID, o.ID)
	})

	t.Run("placed orders are not carts", func(t *testing.T) {
		_, err := store.CurrentOrder(ctx, domain.CartIdentity{SessionID: "sess-2"})
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}

func TestUnprocessedQuantity(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ref := domain.VariationRef(9)

	cart := &domain.Order{
		Status: domain.OrderStatusCart,
		Items: []domain.Item{{
			Ref:      domain.ProductRef(1),
			Quantity: 2,
			Options:  []domain.ItemOption{{Ref: ref, Version: 1}},
		}},
	}
	require.NoError(t, store.CreateOrder(ctx, cart))

	pending := &domain.Order{
		Status: domain.OrderStatusPending,
		Items: []domain.Item{{
			Ref:      domain.ProductRef(1),
			Quantity: 3,
			Options:  []domain.ItemOption{{Ref: ref, Version: 2}},
		}},
	}
	require.NoError(t, store.CreateOrder(ctx, pending))

	paid := &domain.Order{
		Status: domain.OrderStatusPaid,
		Items:  []domain.Item{{Ref: domain.ProductRef(1), Quantity: 5}},
	}
	require.NoError(t, store.CreateOrder(ctx, paid))

	t.Run("variation ref matches across frozen versions", func(t *testing.T) {
		inCarts, inOrders, err := store.UnprocessedQuantity(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, 2, inCarts)
		assert.Equal(t, 3, inOrders)
	})

	t.Run("product ref matches items directly", func(t *testing.T) {
		inCarts, inOrders, err := store.UnprocessedQuantity(ctx, domain.ProductRef(1))
		require.NoError(t, err)
		assert.Equal(t, 2, inCarts)
		assert.Equal(t, 3, inOrders, "paid orders are processed and do not count")
	})
}

func TestStaleCarts(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	old := &domain.Order{Status: domain.OrderStatusCart, SessionID: "old"}
	require.NoError(t, store.CreateOrder(ctx, old))
	fresh := &domain.Order{Status: domain.OrderStatusCart, SessionID: "fresh"}
	require.NoError(t, store.CreateOrder(ctx, fresh))

	// Only carts idle past the cutoff qualify.
	stale, err := store.StaleCarts(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, stale)

	stale, err = store.StaleCarts(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, stale, 2)
}
