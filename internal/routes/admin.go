package routes

import (
	"github.com/dukerupert/strand/internal/router"
)

// RegisterAdminRoutes registers all operator catalog routes.
// These routes are served at /admin/* and share the same port as the
// storefront. Authentication is expected to sit in front of them at the
// proxy.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	// Product management
	r.Post("/admin/products", deps.CatalogHandler.SaveProduct)
	r.Post("/admin/products/{id}/publish", deps.CatalogHandler.PublishProduct)
	r.Delete("/admin/products/{id}", deps.CatalogHandler.DeleteProduct)

	// Variation axes
	r.Post("/admin/attributes", deps.CatalogHandler.SaveAttribute)
	r.Post("/admin/options", deps.CatalogHandler.SaveOption)
	r.Post("/admin/products/{id}/attributes/{attribute_id}", deps.CatalogHandler.AttachAttribute)
	r.Delete("/admin/products/{id}/attributes/{attribute_id}", deps.CatalogHandler.DetachAttribute)

	// Variation management
	r.Post("/admin/variations", deps.CatalogHandler.SaveVariation)
	r.Delete("/admin/variations/{id}", deps.CatalogHandler.DeleteVariation)
}
