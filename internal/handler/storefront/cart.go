// Package storefront contains the shopper-facing JSON handlers: cart,
// checkout, and product availability lookups.
package storefront

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/strand/internal/cookie"
	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/handler"
	"github.com/dukerupert/strand/internal/service"
)

// CartHandler handles all cart routes.
type CartHandler struct {
	cartService  service.CartService
	cookieConfig *cookie.Config
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService, cookieConfig *cookie.Config) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		cookieConfig: cookieConfig,
	}
}

// moneyResponse is the wire form of a money amount.
type moneyResponse struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

func toMoneyResponse(m domain.Money) moneyResponse {
	return moneyResponse{Cents: m.Cents, Currency: m.Currency}
}

type itemOptionResponse struct {
	Class   string `json:"class"`
	ID      int64  `json:"id"`
	Version int    `json:"version"`
}

type itemResponse struct {
	ID        int64                `json:"id"`
	Class     string               `json:"class"`
	ProductID int64                `json:"product_id"`
	Version   int                  `json:"version"`
	Quantity  int                  `json:"quantity"`
	UnitPrice moneyResponse        `json:"unit_price"`
	Subtotal  moneyResponse        `json:"subtotal"`
	Options   []itemOptionResponse `json:"options,omitempty"`
}

type modificationResponse struct {
	Description string        `json:"description"`
	Amount      moneyResponse `json:"amount"`
}

type orderResponse struct {
	ID            int64                  `json:"id"`
	Status        string                 `json:"status"`
	Items         []itemResponse         `json:"items"`
	Modifications []modificationResponse `json:"modifications,omitempty"`
	ItemCount     int                    `json:"item_count"`
	SubTotal      moneyResponse          `json:"sub_total"`
	Total         moneyResponse          `json:"total"`
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:        o.ID,
		Status:    string(o.Status),
		Items:     make([]itemResponse, 0, len(o.Items)),
		ItemCount: o.ItemCount(),
		SubTotal:  toMoneyResponse(o.SubTotal()),
		Total:     toMoneyResponse(o.Total()),
	}
	for i := range o.Items {
		item := &o.Items[i]
		ir := itemResponse{
			ID:        item.ID,
			Class:     item.Ref.Class,
			ProductID: item.Ref.ID,
			Version:   item.Version,
			Quantity:  item.Quantity,
			UnitPrice: toMoneyResponse(item.UnitPrice),
			Subtotal:  toMoneyResponse(item.Subtotal()),
		}
		for _, opt := range item.Options {
			ir.Options = append(ir.Options, itemOptionResponse{
				Class:   opt.Ref.Class,
				ID:      opt.Ref.ID,
				Version: opt.Version,
			})
		}
		resp.Items = append(resp.Items, ir)
	}
	for _, mod := range o.Modifications {
		resp.Modifications = append(resp.Modifications, modificationResponse{
			Description: mod.Description,
			Amount:      toMoneyResponse(mod.Amount),
		})
	}
	return resp
}

// currentCart resolves the shopper's cart from the session cookie,
// creating a cart and setting the cookie on first contact.
func (h *CartHandler) currentCart(w http.ResponseWriter, r *http.Request) (*domain.Order, error) {
	identity := domain.CartIdentity{SessionID: GetSessionIDFromCookie(r)}
	order, sessionID, err := h.cartService.CurrentOrder(r.Context(), identity)
	if err != nil {
		return nil, err
	}
	if sessionID != identity.SessionID {
		SetSessionCookie(w, sessionID, h.cookieConfig)
	}
	return order, nil
}

// View handles GET /cart
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	order, err := h.currentCart(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toOrderResponse(order))
}

// addItemRequest is the body for POST /cart/items. Options maps
// attribute id to the chosen option id.
type addItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Options   map[int64]int64 `json:"options,omitempty"`
}

// Add handles POST /cart/items
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.currentCart(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err = h.cartService.AddItem(r.Context(), order.ID, req.ProductID, req.Quantity, req.Options)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toOrderResponse(order))
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// Update handles PATCH /cart/items/{id}
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.update_item", "invalid item id"))
		return
	}

	var req updateItemRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.currentCart(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err = h.cartService.UpdateItemQuantity(r.Context(), order.ID, itemID, req.Quantity)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toOrderResponse(order))
}

// Remove handles DELETE /cart/items/{id}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	itemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("cart.remove_item", "invalid item id"))
		return
	}

	order, err := h.currentCart(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err = h.cartService.RemoveItem(r.Context(), order.ID, itemID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toOrderResponse(order))
}
