package service

import (
	"context"

	"github.com/dukerupert/strand/internal/catalog"
	"github.com/dukerupert/strand/internal/domain"
	"github.com/dukerupert/strand/internal/shipping"
	"github.com/dukerupert/strand/internal/tax"
	"github.com/dukerupert/strand/internal/telemetry"
	"github.com/go-playground/validator/v10"
)

// CheckoutService runs the checkout validation gate and order submission.
type CheckoutService interface {
	// ValidateCart re-validates every cart item against current catalog
	// state: published products, live variations, complete option sets.
	// Any failure rejects checkout in full; the cart is left unchanged so
	// the shopper can correct it.
	ValidateCart(ctx context.Context, orderID int64) (*domain.ValidationResult, error)

	// Submit runs the gate plus required-field validation, applies the
	// modifier pipeline, and moves the order from Cart to Pending. The
	// cart contents become immutable from here.
	Submit(ctx context.Context, orderID int64, form CheckoutForm) (*domain.Order, error)

	// OnAfterPayment is invoked by the payment collaborator after a
	// successful capture; it moves the order to Paid.
	OnAfterPayment(ctx context.Context, orderID int64) error
}

// CheckoutForm carries the contact and delivery details required to place
// an order. Field validation covers the core's refusal to finalize an
// order lacking required data; form presentation is the caller's concern.
type CheckoutForm struct {
	Email           string `validate:"required,email"`
	Name            string `validate:"required"`
	ShippingAddress string `validate:"required"`
}

type checkoutService struct {
	store    catalog.Store
	orders   catalog.OrderStore
	engine   *catalog.Engine
	taxCalc  tax.Calculator
	shipping shipping.Provider
	validate *validator.Validate
	metrics  *telemetry.Metrics
}

// NewCheckoutService creates a new CheckoutService instance.
func NewCheckoutService(
	store catalog.Store,
	orders catalog.OrderStore,
	taxCalc tax.Calculator,
	shippingProvider shipping.Provider,
	metrics *telemetry.Metrics,
) CheckoutService {
	return &checkoutService{
		store:    store,
		orders:   orders,
		engine:   catalog.NewEngine(store),
		taxCalc:  taxCalc,
		shipping: shippingProvider,
		validate: validator.New(),
		metrics:  metrics,
	}
}

// ValidateCart is the checkout validation gate.
func (s *checkoutService) ValidateCart(ctx context.Context, orderID int64) (*domain.ValidationResult, error) {
	const op = "checkout.validate_cart"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := &domain.ValidationResult{}
	if len(order.Items) == 0 {
		result.AddError("Your cart is empty", domain.CodeEmptyCart)
		return result, nil
	}

	for i := range order.Items {
		item := &order.Items[i]

		// The purchasable must still be published and not deleted. The
		// frozen snapshot in the cart does not exempt it.
		if _, err := s.store.GetPublishedProduct(ctx, item.Ref.ID); err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				result.AddError(
					"A product in your cart is no longer available",
					domain.CodeNotPurchasable,
				)
				continue
			}
			return nil, domain.Internal(err, op, "failed to load product")
		}

		variationRef, _, ok := item.VariationRef()
		if !ok {
			continue
		}

		// Validity is checked against the variation's current catalog
		// state, not the frozen version: disabling or deleting applies
		// retroactively to carts.
		live, err := s.store.GetVariation(ctx, variationRef.ID)
		if err != nil {
			if domain.IsCode(err, domain.ENOTFOUND) {
				result.AddError(
					"Product options in your cart have been deleted, please choose again",
					domain.CodeVariationDeleted,
				)
				continue
			}
			return nil, domain.Internal(err, op, "failed to load variation")
		}

		itemResult, err := s.engine.ValidateForCart(ctx, live)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to validate variation")
		}
		result.Merge(itemResult)
	}
	return result, nil
}

// Submit finalizes a cart into a Pending order.
func (s *checkoutService) Submit(ctx context.Context, orderID int64, form CheckoutForm) (*domain.Order, error) {
	const op = "checkout.submit"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsCart() {
		return nil, domain.ErrCartLocked
	}

	result, err := s.ValidateCart(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(form); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				result.AddError(
					"Required field missing or invalid: "+fe.Field(),
					domain.CodeMissingRequiredField,
				)
			}
		} else {
			return nil, domain.Internal(err, op, "form validation failed")
		}
	}

	if err := result.Err(op); err != nil {
		if s.metrics != nil {
			s.metrics.CheckoutsRejected.Inc()
		}
		return nil, err
	}

	order.Email = form.Email
	order.Name = form.Name
	order.ShippingAddress = form.ShippingAddress

	// Modifier pipeline: each collaborator contributes a named adjustment
	// to the total. The core treats the amounts as opaque.
	order.Modifications = nil
	if s.taxCalc != nil {
		mod, err := s.taxCalc.Calculate(ctx, order)
		if err != nil {
			return nil, domain.Internal(err, op, "tax calculation failed")
		}
		order.Modifications = append(order.Modifications, mod)
	}
	if s.shipping != nil {
		mod, err := s.shipping.Rate(ctx, order)
		if err != nil {
			return nil, domain.Internal(err, op, "shipping calculation failed")
		}
		order.Modifications = append(order.Modifications, mod)
	}

	order.Status = domain.OrderStatusPending
	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return nil, domain.Internal(err, op, "failed to save order")
	}

	if s.metrics != nil {
		s.metrics.CheckoutsCompleted.Inc()
	}
	return order, nil
}

// OnAfterPayment moves a Pending order to Paid. The payment collaborator
// decides when to call it; the core does not speak gateway protocols.
func (s *checkoutService) OnAfterPayment(ctx context.Context, orderID int64) error {
	const op = "checkout.on_after_payment"

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusProcessing {
		return domain.Conflict(op, "order is not awaiting payment")
	}
	order.Status = domain.OrderStatusPaid
	if err := s.orders.SaveOrder(ctx, order); err != nil {
		return domain.Internal(err, op, "failed to save order")
	}
	if s.metrics != nil {
		s.metrics.OrdersPaid.Inc()
	}
	return nil
}
