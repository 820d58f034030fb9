package domain

import "fmt"

// Money is an amount in minor units (cents) with an ISO 4217 currency code.
// Display formatting belongs to callers; the core only compares and adds.
type Money struct {
	Cents    int64
	Currency string
}

// NewMoney constructs a Money value.
func NewMoney(cents int64, currency string) Money {
	return Money{Cents: cents, Currency: currency}
}

// Zero returns the zero amount in the same currency.
func (m Money) Zero() Money {
	return Money{Currency: m.Currency}
}

// IsZero reports whether the amount is zero, regardless of currency.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Equals compares amount and currency.
func (m Money) Equals(other Money) bool {
	return m.Cents == other.Cents && m.Currency == other.Currency
}

// Add returns m + other. Adding two different currencies is disallowed;
// a zero-currency operand adopts the other side's currency so empty
// aggregates can accumulate naturally.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency == "" {
		return Money{Cents: m.Cents + other.Cents, Currency: other.Currency}, nil
	}
	if other.Currency != "" && other.Currency != m.Currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{Cents: m.Cents + other.Cents, Currency: m.Currency}, nil
}

// Mul returns the amount multiplied by a quantity.
func (m Money) Mul(quantity int) Money {
	return Money{Cents: m.Cents * int64(quantity), Currency: m.Currency}
}

// String renders the amount for logs and errors, e.g. "1050 NZD".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.Cents, m.Currency)
}
