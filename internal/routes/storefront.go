package routes

import (
	"github.com/dukerupert/strand/internal/router"
)

// RegisterStorefrontRoutes registers all shopper-facing routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Product browsing
	r.Get("/products/{id}", deps.ProductHandler.Detail)
	r.Get("/products/{id}/stock", deps.ProductHandler.Stock)
	r.Get("/products/{id}/attributes/{attribute_id}/options", deps.ProductHandler.Options)
	r.Post("/products/{id}/price", deps.ProductHandler.Price)

	// Shopping cart
	r.Get("/cart", deps.CartHandler.View)
	r.Post("/cart/items", deps.CartHandler.Add)
	r.Patch("/cart/items/{id}", deps.CartHandler.Update)
	r.Delete("/cart/items/{id}", deps.CartHandler.Remove)

	// Checkout flow
	r.Get("/checkout/validate", deps.CheckoutHandler.Validate)
	r.Post("/checkout", deps.CheckoutHandler.Submit)
}
