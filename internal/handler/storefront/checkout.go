package storefront

import (
	"net/http"

	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/handler"
	"github.com/dukerupert/strand/internal/service"
)

// CheckoutHandler handles checkout submission and pre-validation.
type CheckoutHandler struct {
	cartService     service.CartService
	checkoutService service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(cartService service.CartService, checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// resolveCart looks up the shopper's cart without creating one; checkout
// on a never-seen session is just an empty cart.
func (h *CheckoutHandler) resolveCart(r *http.Request) (*domain.Order, error) {
	sessionID := GetSessionIDFromCookie(r)
	if sessionID == "" {
		return nil, domain.ErrEmptyCart
	}
	order, _, err := h.cartService.CurrentOrder(r.Context(), domain.CartIdentity{SessionID: sessionID})
	return order, err
}

type validateResponse struct {
	Valid  bool          `json:"valid"`
	Issues []issueDetail `json:"issues,omitempty"`
}

type issueDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Validate handles GET /checkout/validate. It runs the checkout gate
// without submitting, so the storefront can surface problems before the
// shopper fills in the form.
func (h *CheckoutHandler) Validate(w http.ResponseWriter, r *http.Request) {
	order, err := h.resolveCart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	result, err := h.checkoutService.ValidateCart(r.Context(), order.ID)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	resp := validateResponse{Valid: result.Valid()}
	if result != nil {
		for _, issue := range result.Issues {
			resp.Issues = append(resp.Issues, issueDetail{Code: issue.Code, Message: issue.Message})
		}
	}
	handler.RespondJSON(w, http.StatusOK, resp)
}

type submitRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	ShippingAddress string `json:"shipping_address"`
}

// Submit handles POST /checkout. On success the cart becomes a Pending
// order; on any validation failure the cart is left untouched and every
// issue is reported.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := handler.DecodeJSON(r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	order, err := h.resolveCart(r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	placed, err := h.checkoutService.Submit(r.Context(), order.ID, service.CheckoutForm{
		Email:           req.Email,
		Name:            req.Name,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, toOrderResponse(placed))
}
