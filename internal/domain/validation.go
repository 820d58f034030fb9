package domain

import (
	"fmt"
	"strings"
)

// Validation issue codes surfaced across the cart/checkout boundary.
// Callers (handlers) decide how to present them; services never panic
// across this boundary.
const (
	CodeVariationInvalidOptions = "variation_invalid_options"
	CodeVariationNotAvailable   = "variation_not_available"
	CodeVariationDeleted        = "variation_deleted"
	CodeVariationDuplicate      = "variation_duplicate"
	CodeVariationNegativePrice  = "variation_negative_price"
	CodeNotPurchasable          = "not_purchasable"
	CodeEmptyCart               = "empty_cart"
	CodeMissingRequiredField    = "missing_required_field"
)

// ValidationIssue is a single (message, code) pair in a ValidationResult.
type ValidationIssue struct {
	Message string
	Code    string
}

// ValidationResult collects validation failures from independent checks.
// A nil or empty result is valid. Checks append issues rather than
// short-circuiting so callers can report every problem at once.
type ValidationResult struct {
	Issues []ValidationIssue
}

// AddError records a validation failure.
func (r *ValidationResult) AddError(message, code string) {
	r.Issues = append(r.Issues, ValidationIssue{Message: message, Code: code})
}

// Valid reports whether no issues were recorded.
func (r *ValidationResult) Valid() bool {
	return r == nil || len(r.Issues) == 0
}

// HasCode reports whether any recorded issue carries the given code.
func (r *ValidationResult) HasCode(code string) bool {
	if r == nil {
		return false
	}
	for _, issue := range r.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

// Merge appends all issues from other.
func (r *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

// Err converts the result into a domain error, or nil if valid.
// The error carries the result so handlers can render individual issues.
func (r *ValidationResult) Err(op string) error {
	if r.Valid() {
		return nil
	}
	msgs := make([]string, len(r.Issues))
	for i, issue := range r.Issues {
		msgs[i] = issue.Message
	}
	return &ValidationFailedError{
		Op:     op,
		Result: r,
		msg:    strings.Join(msgs, "; "),
	}
}

// ValidationFailedError wraps a ValidationResult as an error crossing the
// service boundary.
type ValidationFailedError struct {
	Op     string
	Result *ValidationResult
	msg    string
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.msg)
	}
	return e.msg
}

// As allows a ValidationFailedError to satisfy errors.As(&Error) checks
// with code EINVALID.
func (e *ValidationFailedError) As(target interface{}) bool {
	if t, ok := target.(**Error); ok {
		*t = &Error{Code: EINVALID, Op: e.Op, Message: e.msg}
		return true
	}
	return false
}

// ValidationResultFromError extracts a ValidationResult from an error chain.
// Returns nil if the error does not carry one.
func ValidationResultFromError(err error) *ValidationResult {
	for err != nil {
		if ve, ok := err.(*ValidationFailedError); ok {
			return ve.Result
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = u.Unwrap()
	}
	return nil
}
