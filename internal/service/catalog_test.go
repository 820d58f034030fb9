package service

import (
	"context"
	"testing"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Products and attributes
// ============================================================================

func TestSaveProduct(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewCatalogService(store)

	p := &domain.Product{Title: "Coffee", Price: domain.NewMoney(1500, "NZD")}
	require.NoError(t, svc.SaveProduct(ctx, p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, 1, p.Version)

	p.Title = "Coffee Deluxe"
	require.NoError(t, svc.SaveProduct(ctx, p))
	assert.Equal(t, 2, p.Version)
}

func TestSaveProductKeepsAttributes(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	// A price edit arrives without the attribute list, the way the admin
	// endpoint submits it.
	edit := &domain.Product{ID: f.varied.ID, Title: "Coffee", Price: domain.NewMoney(1200, "NZD")}
	require.NoError(t, svc.SaveProduct(ctx, edit))

	p, err := f.store.GetProduct(ctx, f.varied.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), p.Price.Cents)
	assert.ElementsMatch(t, []int64{f.size.ID}, p.AttributeIDs, "edit must not detach attributes")
	assert.True(t, p.IsPublished(), "edit must not unpublish the product")

	latest, err := f.store.LatestVariation(ctx, f.smallVar.ID)
	require.NoError(t, err)
	assert.True(t, latest.IsEnabled(), "edit must not disable variations")
}

func TestSaveAttributeAndOption(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewCatalogService(store)

	t.Run("attribute title is required", func(t *testing.T) {
		err := svc.SaveAttribute(ctx, &domain.Attribute{})
		assert.True(t, domain.IsCode(err, domain.EINVALID))
	})

	t.Run("option title is required", func(t *testing.T) {
		err := svc.SaveOption(ctx, &domain.Option{AttributeID: 1})
		assert.True(t, domain.IsCode(err, domain.EINVALID))
	})

	t.Run("option needs an existing attribute", func(t *testing.T) {
		err := svc.SaveOption(ctx, &domain.Option{AttributeID: 9999, Title: "Small"})
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})

	t.Run("creates attribute and option", func(t *testing.T) {
		attr := &domain.Attribute{Title: "Size"}
		require.NoError(t, svc.SaveAttribute(ctx, attr))
		require.NotZero(t, attr.ID)

		opt := &domain.Option{AttributeID: attr.ID, Title: "Small"}
		require.NoError(t, svc.SaveOption(ctx, opt))
		assert.NotZero(t, opt.ID)
	})
}

func TestAttachAttribute(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	roast := &domain.Attribute{Title: "Roast"}
	require.NoError(t, f.store.CreateAttribute(ctx, roast))

	// Default options are templates with no owning product.
	for _, title := range []string{"Light", "Dark"} {
		def := &domain.Option{AttributeID: roast.ID, Title: title}
		require.NoError(t, f.store.CreateOption(ctx, def))
	}

	require.NoError(t, svc.AttachAttribute(ctx, f.varied.ID, roast.ID))

	t.Run("defaults are cloned onto the product", func(t *testing.T) {
		opts, err := f.store.ProductOptions(ctx, f.varied.ID)
		require.NoError(t, err)

		var cloned []string
		for _, o := range opts {
			if o.AttributeID == roast.ID {
				assert.Equal(t, f.varied.ID, o.ProductID)
				cloned = append(cloned, o.Title)
			}
		}
		assert.ElementsMatch(t, []string{"Light", "Dark"}, cloned)
	})

	t.Run("existing variations are disabled by the new axis", func(t *testing.T) {
		latest, err := f.store.LatestVariation(ctx, f.smallVar.ID)
		require.NoError(t, err)
		assert.False(t, latest.IsEnabled())
	})

	t.Run("the product is unpublished with no enabled variations left", func(t *testing.T) {
		_, err := f.store.GetPublishedProduct(ctx, f.varied.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})

	t.Run("attaching twice does not clone twice", func(t *testing.T) {
		require.NoError(t, svc.AttachAttribute(ctx, f.varied.ID, roast.ID))
		opts, err := f.store.ProductOptions(ctx, f.varied.ID)
		require.NoError(t, err)
		count := 0
		for _, o := range opts {
			if o.AttributeID == roast.ID {
				count++
			}
		}
		assert.Equal(t, 2, count)
	})
}

func TestDetachAttribute(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	require.NoError(t, svc.DetachAttribute(ctx, f.varied.ID, f.size.ID))

	// Variations now carry an option for an axis the product lost.
	latest, err := f.store.LatestVariation(ctx, f.smallVar.ID)
	require.NoError(t, err)
	assert.False(t, latest.IsEnabled())

	_, err = f.store.GetPublishedProduct(ctx, f.varied.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
}

// ============================================================================
// Publishing
// ============================================================================

func TestPublishProduct(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	t.Run("refused with no enabled variations", func(t *testing.T) {
		f.smallVar.Status = domain.VariationDisabled
		require.NoError(t, f.store.UpdateVariation(ctx, f.smallVar))
		f.largeVar.Status = domain.VariationDisabled
		require.NoError(t, f.store.UpdateVariation(ctx, f.largeVar))

		_, err := svc.PublishProduct(ctx, f.varied.ID)
		assert.True(t, domain.IsCode(err, domain.EINVALID))
	})

	t.Run("allowed once a variation is re-enabled", func(t *testing.T) {
		f.smallVar.Status = domain.VariationEnabled
		require.NoError(t, f.store.UpdateVariation(ctx, f.smallVar))

		p, err := svc.PublishProduct(ctx, f.varied.ID)
		require.NoError(t, err)
		assert.True(t, p.IsPublished())
	})

	t.Run("plain products publish without variations", func(t *testing.T) {
		p, err := svc.PublishProduct(ctx, f.plain.ID)
		require.NoError(t, err)
		assert.True(t, p.IsPublished())
	})
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	require.NoError(t, svc.DeleteProduct(ctx, f.plain.ID))

	_, err := f.store.GetProduct(ctx, f.plain.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND))

	// History stays for orders holding frozen snapshots.
	v1, err := f.store.GetProductVersion(ctx, f.plain.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Mug", v1.Title)
}

// ============================================================================
// Variations
// ============================================================================

func TestSaveVariation(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	t.Run("negative price delta aborts with nothing persisted", func(t *testing.T) {
		v := &domain.Variation{
			ProductID:  f.varied.ID,
			Status:     domain.VariationEnabled,
			PriceDelta: domain.NewMoney(-100, "NZD"),
		}
		err := svc.SaveVariation(ctx, v, nil)
		require.Error(t, err)
		result := domain.ValidationResultFromError(err)
		require.NotNil(t, result)
		assert.True(t, result.HasCode(domain.CodeVariationNegativePrice))
		assert.Zero(t, v.ID)
	})

	t.Run("duplicate option set is rejected", func(t *testing.T) {
		v := &domain.Variation{
			ProductID: f.varied.ID,
			Status:    domain.VariationEnabled,
			OptionIDs: []int64{f.small.ID},
		}
		err := svc.SaveVariation(ctx, v, nil)
		require.Error(t, err)
		result := domain.ValidationResultFromError(err)
		require.NotNil(t, result)
		assert.True(t, result.HasCode(domain.CodeVariationDuplicate))
		assert.Zero(t, v.ID)
	})

	t.Run("saves with an explicit stock level", func(t *testing.T) {
		f.smallVar.PriceDelta = domain.NewMoney(100, "NZD")
		stock := 25
		require.NoError(t, svc.SaveVariation(ctx, f.smallVar, &stock))

		level, err := f.store.StockLevel(ctx, domain.VariationRef(f.smallVar.ID))
		require.NoError(t, err)
		assert.Equal(t, 25, level)
	})

	t.Run("disabling the last enabled variation unpublishes the product", func(t *testing.T) {
		f.smallVar.Status = domain.VariationDisabled
		require.NoError(t, svc.SaveVariation(ctx, f.smallVar, nil))
		f.largeVar.Status = domain.VariationDisabled
		require.NoError(t, svc.SaveVariation(ctx, f.largeVar, nil))

		_, err := f.store.GetPublishedProduct(ctx, f.varied.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}

func TestDeleteVariation(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	svc := NewCatalogService(f.store)

	require.NoError(t, svc.DeleteVariation(ctx, f.smallVar.ID))

	_, err := f.store.GetPublishedProduct(ctx, f.varied.ID)
	assert.NoError(t, err, "one enabled variation remains")

	require.NoError(t, svc.DeleteVariation(ctx, f.largeVar.ID))

	_, err = f.store.GetPublishedProduct(ctx, f.varied.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND), "last variation gone, product unpublished")

	t.Run("deleting twice is not found", func(t *testing.T) {
		err := svc.DeleteVariation(ctx, f.smallVar.ID)
		assert.True(t, domain.IsCode(err, domain.ENOTFOUND))
	})
}
