package service

import (
	"context"
	"testing"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPublishedProduct(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewProductService(f.store, f.store)

	p, err := svc.GetPublishedProduct(ctx, f.plain.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Title)

	require.NoError(t, f.store.UnpublishProduct(ctx, f.plain.ID))
	_, err = svc.GetPublishedProduct(ctx, f.plain.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

func TestOptionsForAttribute(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewProductService(f.store, f.store)

	t.Run("all enabled variations contribute", func(t *testing.T) {
		opts, err := svc.OptionsForAttribute(ctx, f.varied.ID, f.size.ID)
		require.NoError(t, err)

		titles := make([]string, len(opts))
		for i, o := range opts {
			titles[i] = o.Title
		}
		assert.ElementsMatch(t, []string{"Small", "Large"}, titles)
	})

	t.Run("disabled variations drop out", func(t *testing.T) {
		f.smallVar.Status = domain.VariationDisabled
		require.NoError(t, f.store.UpdateVariation(ctx, f.smallVar))

		opts, err := svc.OptionsForAttribute(ctx, f.varied.ID, f.size.ID)
		require.NoError(t, err)
		require.Len(t, opts, 1)
		assert.Equal(t, "Large", opts[0].Title)
	})

	t.Run("out-of-stock variations drop out", func(t *testing.T) {
		require.NoError(t, f.store.SetStockLevel(ctx, domain.VariationRef(f.largeVar.ID), 0))

		opts, err := svc.OptionsForAttribute(ctx, f.varied.ID, f.size.ID)
		require.NoError(t, err)
		assert.Empty(t, opts)
	})
}

func TestPriceForSelection(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewProductService(f.store, f.store)

	t.Run("empty selection returns the base price", func(t *testing.T) {
		price, err := svc.PriceForSelection(ctx, f.plain.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.NewMoney(1200, "NZD"), price)
	})

	t.Run("selection adds the variation delta", func(t *testing.T) {
		price, err := svc.PriceForSelection(ctx, f.varied.ID, map[int64]int64{f.size.ID: f.large.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.NewMoney(1800, "NZD"), price)
	})

	t.Run("no match is not found", func(t *testing.T) {
		_, err := svc.PriceForSelection(ctx, f.varied.ID, map[int64]int64{f.size.ID: 9999})
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}

func TestInStock(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewProductService(f.store, f.store)

	t.Run("plain products read their own ledger", func(t *testing.T) {
		inStock, err := svc.InStock(ctx, f.plain.ID)
		require.NoError(t, err)
		assert.True(t, inStock, "an untracked ledger entry is unlimited")

		require.NoError(t, f.store.SetStockLevel(ctx, domain.ProductRef(f.plain.ID), 0))
		inStock, err = svc.InStock(ctx, f.plain.ID)
		require.NoError(t, err)
		assert.False(t, inStock)
	})

	t.Run("variation products need one sellable variation", func(t *testing.T) {
		inStock, err := svc.InStock(ctx, f.varied.ID)
		require.NoError(t, err)
		assert.True(t, inStock)

		require.NoError(t, f.store.SetStockLevel(ctx, domain.VariationRef(f.smallVar.ID), 0))
		require.NoError(t, f.store.SetStockLevel(ctx, domain.VariationRef(f.largeVar.ID), 0))
		inStock, err = svc.InStock(ctx, f.varied.ID)
		require.NoError(t, err)
		assert.False(t, inStock)
	})
}

func TestProductUnprocessedQuantity(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	cartSvc := NewCartService(f.store, f.store, nil)
	svc := NewProductService(f.store, f.store)
	cart := f.newCart(t)

	_, err := cartSvc.AddItem(ctx, cart.ID, f.plain.ID, 3, nil)
	require.NoError(t, err)

	inCarts, inOrders, err := svc.UnprocessedQuantity(ctx, f.plain.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, inCarts)
	assert.Equal(t, 0, inOrders)
}
