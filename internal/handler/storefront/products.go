package storefront

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/handler"
	"github.com/dukerupert/strand/internal/service"
)

// ProductHandler serves published product data: detail, selectable
// options, selection pricing, and stock.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func productID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, domain.Invalid("product.get", "invalid product id")
	}
	return id, nil
}

type productResponse struct {
	ID                int64         `json:"id"`
	Title             string        `json:"title"`
	Price             moneyResponse `json:"price"`
	Version           int           `json:"version"`
	RequiresSelection bool          `json:"requires_selection"`
	AttributeIDs      []int64       `json:"attribute_ids,omitempty"`
	InStock           bool          `json:"in_stock"`
}

// Detail handles GET /products/{id}
func (h *ProductHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	p, err := h.productService.GetPublishedProduct(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	inStock, err := h.productService.InStock(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, productResponse{
		ID:                p.ID,
		Title:             p.Title,
		Price:             toMoneyResponse(p.Price),
		Version:           p.PublishedVersion,
		RequiresSelection: p.RequiresVariation(),
		AttributeIDs:      p.AttributeIDs,
		InStock:           inStock,
	})
}

type optionResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Options handles GET /products/{id}/attributes/{attribute_id}/options.
// Only options reachable through an enabled, in-stock variation are
// returned.
func (h *ProductHandler) Options(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	attributeID, err := strconv.ParseInt(r.PathValue("attribute_id"), 10, 64)
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("product.options", "invalid attribute id"))
		return
	}

	options, err := h.productService.OptionsForAttribute(r.Context(), id, attributeID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	resp := make([]optionResponse, 0, len(options))
	for _, o := range options {
		resp = append(resp, optionResponse{ID: o.ID, Title: o.Title})
	}
	handler.RespondJSON(w, http.StatusOK, resp)
}

type priceRequest struct {
	Options map[int64]int64 `json:"options,omitempty"`
}

// Price handles POST /products/{id}/price, resolving the effective price
// for a submitted option selection.
func (h *ProductHandler) Price(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	var req priceRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	price, err := h.productService.PriceForSelection(r.Context(), id, req.Options)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toMoneyResponse(price))
}

type stockResponse struct {
	InStock  bool `json:"in_stock"`
	InCarts  int  `json:"in_carts"`
	InOrders int  `json:"in_orders"`
}

// Stock handles GET /products/{id}/stock, reporting availability plus
// how many units are reserved in carts and unprocessed orders.
func (h *ProductHandler) Stock(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	inStock, err := h.productService.InStock(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	inCarts, inOrders, err := h.productService.UnprocessedQuantity(r.Context(), id)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, stockResponse{
		InStock:  inStock,
		InCarts:  inCarts,
		InOrders: inOrders,
	})
}
