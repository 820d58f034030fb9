package routes

import (
	"github.com/dukerupert/strand/internal/handler/admin"
	"github.com/dukerupert/strand/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for shopper-facing routes
type StorefrontDeps struct {
	// Products (detail, options, pricing, stock)
	ProductHandler *storefront.ProductHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Checkout
	CheckoutHandler *storefront.CheckoutHandler
}

// AdminDeps contains dependencies for operator routes
type AdminDeps struct {
	CatalogHandler *admin.CatalogHandler
}
