// Package admin contains the operator-facing JSON handlers for catalog
// management: products, attributes, options, variations and stock.
package admin

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/handler"
	"github.com/dukerupert/strand/internal/service"
)

// CatalogHandler handles operator catalog writes.
type CatalogHandler struct {
	catalogService service.CatalogService
	currency       string
}

// NewCatalogHandler creates a new catalog handler. Amounts submitted
// without a currency adopt the store currency.
func NewCatalogHandler(catalogService service.CatalogService, currency string) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		currency:       currency,
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, domain.Invalid("admin.catalog", "invalid "+name)
	}
	return id, nil
}

func (h *CatalogHandler) money(cents int64, currency string) domain.Money {
	if currency == "" {
		currency = h.currency
	}
	return domain.Money{Cents: cents, Currency: currency}
}

type productRequest struct {
	ID         int64  `json:"id,omitempty"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency,omitempty"`
}

type productResponse struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	PriceCents       int64  `json:"price_cents"`
	Currency         string `json:"currency"`
	Version          int    `json:"version"`
	PublishedVersion int    `json:"published_version"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:               p.ID,
		Title:            p.Title,
		PriceCents:       p.Price.Cents,
		Currency:         p.Price.Currency,
		Version:          p.Version,
		PublishedVersion: p.PublishedVersion,
	}
}

// SaveProduct handles POST /admin/products. A request without an id
// creates a draft; with an id it writes a new draft version.
func (h *CatalogHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.Title == "" {
		handler.ErrorResponse(w, r, domain.Invalid("catalog.save_product", "title is required"))
		return
	}

	p := &domain.Product{
		ID:    req.ID,
		Title: req.Title,
		Price: h.money(req.PriceCents, req.Currency),
	}
	if err := h.catalogService.SaveProduct(r.Context(), p); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toProductResponse(p))
}

// PublishProduct handles POST /admin/products/{id}/publish
func (h *CatalogHandler) PublishProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	p, err := h.catalogService.PublishProduct(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toProductResponse(p))
}

// DeleteProduct handles DELETE /admin/products/{id}
func (h *CatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

type attributeRequest struct {
	Title       string `json:"title"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
}

// SaveAttribute handles POST /admin/attributes
func (h *CatalogHandler) SaveAttribute(w http.ResponseWriter, r *http.Request) {
	var req attributeRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	a := &domain.Attribute{
		Title:       req.Title,
		Label:       req.Label,
		Description: req.Description,
	}
	if err := h.catalogService.SaveAttribute(r.Context(), a); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]int64{"id": a.ID})
}

type optionRequest struct {
	AttributeID int64  `json:"attribute_id"`
	ProductID   int64  `json:"product_id,omitempty"`
	Title       string `json:"title"`
}

// SaveOption handles POST /admin/options. Omitting product_id creates a
// default option, cloned onto products that adopt the attribute later.
func (h *CatalogHandler) SaveOption(w http.ResponseWriter, r *http.Request) {
	var req optionRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	o := &domain.Option{
		AttributeID: req.AttributeID,
		ProductID:   req.ProductID,
		Title:       req.Title,
	}
	if err := h.catalogService.SaveOption(r.Context(), o); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]int64{"id": o.ID})
}

// AttachAttribute handles POST /admin/products/{id}/attributes/{attribute_id}
func (h *CatalogHandler) AttachAttribute(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	attributeID, err := pathID(r, "attribute_id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.catalogService.AttachAttribute(r.Context(), productID, attributeID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

// DetachAttribute handles DELETE /admin/products/{id}/attributes/{attribute_id}
func (h *CatalogHandler) DetachAttribute(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	attributeID, err := pathID(r, "attribute_id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.catalogService.DetachAttribute(r.Context(), productID, attributeID); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}

type variationRequest struct {
	ID              int64   `json:"id,omitempty"`
	ProductID       int64   `json:"product_id"`
	PriceDeltaCents int64   `json:"price_delta_cents"`
	Currency        string  `json:"currency,omitempty"`
	Enabled         bool    `json:"enabled"`
	OptionIDs       []int64 `json:"option_ids"`
	StockLevel      *int    `json:"stock_level,omitempty"`
}

type variationResponse struct {
	ID      int64 `json:"id"`
	Version int   `json:"version"`
}

// SaveVariation handles POST /admin/variations. Stock, when present, is
// written with the variation; a duplicate option set or negative price
// delta rejects the whole request with nothing persisted.
func (h *CatalogHandler) SaveVariation(w http.ResponseWriter, r *http.Request) {
	var req variationRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	status := domain.VariationDisabled
	if req.Enabled {
		status = domain.VariationEnabled
	}
	v := &domain.Variation{
		ID:         req.ID,
		ProductID:  req.ProductID,
		PriceDelta: h.money(req.PriceDeltaCents, req.Currency),
		Status:     status,
		OptionIDs:  req.OptionIDs,
	}
	if err := h.catalogService.SaveVariation(r.Context(), v, req.StockLevel); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, variationResponse{ID: v.ID, Version: v.Version})
}

// DeleteVariation handles DELETE /admin/variations/{id}
func (h *CatalogHandler) DeleteVariation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if err := h.catalogService.DeleteVariation(r.Context(), id); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusNoContent, nil)
}
