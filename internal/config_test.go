package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, uint16(3000), cfg.Port)
	assert.Equal(t, "postgres", cfg.Store)
	assert.Equal(t, "NZD", cfg.Currency)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.Zero(t, cfg.Checkout.TaxRate)
	assert.Zero(t, cfg.Checkout.FlatShippingCents)
	assert.Zero(t, cfg.Cart.AbandonedAfterHours)
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "prod")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PORT", "8080")
	t.Setenv("STORE", "memory")
	t.Setenv("CURRENCY", "USD")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("TAX_RATE", "0.15")
	t.Setenv("SHIPPING_FLAT_CENTS", "500")
	t.Setenv("CART_ABANDONED_AFTER_HOURS", "48")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, uint16(8080), cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 0.15, cfg.Checkout.TaxRate)
	assert.Equal(t, int64(500), cfg.Checkout.FlatShippingCents)
	assert.Equal(t, 48, cfg.Cart.AbandonedAfterHours)
}

func TestNewConfigValidation(t *testing.T) {
	t.Run("unknown store backend", func(t *testing.T) {
		t.Setenv("STORE", "cassandra")
		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("tax rate out of range", func(t *testing.T) {
		t.Setenv("TAX_RATE", "1.5")
		_, err := NewConfig()
		assert.Error(t, err)
	})

	t.Run("invalid env falls back to prod", func(t *testing.T) {
		t.Setenv("ENV", "staging")
		cfg, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "prod", cfg.Env)
	})

	t.Run("invalid log level falls back to info", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "verbose")
		cfg, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.LogLevel)
	})
}
