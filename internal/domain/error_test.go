package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "message only",
			err: &Error{
				Code:    EINVALID,
				Message: "invalid input",
			},
			expected: "invalid input",
		},
		{
			name: "with operation",
			err: &Error{
				Code:    EINVALID,
				Op:      "catalog.save_product",
				Message: "invalid input",
			},
			expected: "catalog.save_product: invalid input",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "cart.add_item",
				Message: "failed to save order",
				Err:     errors.New("database connection failed"),
			},
			expected: "cart.add_item: failed to save order: database connection failed",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to save order",
				Err:     errors.New("database connection failed"),
			},
			expected: "failed to save order: database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", &Error{Code: ENOTFOUND, Message: "gone"}, ENOTFOUND},
		{"wrapped domain error", fmt.Errorf("outer: %w", &Error{Code: ECONFLICT}), ECONFLICT},
		{"non-domain error", errors.New("plain"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	const generic = "An internal error occurred. Please try again later."

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"user-facing message", &Error{Code: EINVALID, Message: "quantity must be positive"}, "quantity must be positive"},
		{"internal errors are hidden", &Error{Code: EINTERNAL, Message: "pool exhausted"}, generic},
		{"non-domain errors are hidden", errors.New("pq: deadlock detected"), generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	err := NotFound("catalog.get_product", "product", 42)
	if !IsCode(err, ENOTFOUND) {
		t.Error("expected ENOTFOUND")
	}
	if IsCode(err, EINVALID) {
		t.Error("did not expect EINVALID")
	}

	wrapped := Internal(err, "outer.op", "lookup failed")
	if !IsCode(wrapped, EINTERNAL) {
		t.Error("expected the outer code to win")
	}
}

func TestErrorConstructors(t *testing.T) {
	t.Run("NotFound", func(t *testing.T) {
		err := NotFound("catalog.get_product", "product", 42)
		if got := ErrorMessage(err); got != "product not found: 42" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		err := Invalid("checkout.submit", "cart is empty")
		if !IsCode(err, EINVALID) {
			t.Error("expected EINVALID")
		}
	})

	t.Run("Conflict", func(t *testing.T) {
		err := Conflict("checkout.on_after_payment", "order is not awaiting payment")
		if !IsCode(err, ECONFLICT) {
			t.Error("expected ECONFLICT")
		}
	})

	t.Run("Errorf formats the message", func(t *testing.T) {
		err := Errorf(EINVALID, "cart.add_item", "quantity must be positive, got %d", -1)
		if got := ErrorMessage(err); got != "quantity must be positive, got -1" {
			t.Errorf("message = %q", got)
		}
	})

	t.Run("Internal wraps the cause", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := Internal(cause, "cart.save", "failed to save order")
		if !errors.Is(err, cause) {
			t.Error("expected the cause to be reachable via errors.Is")
		}
	})
}
