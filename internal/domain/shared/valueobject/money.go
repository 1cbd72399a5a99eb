package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is a lowercase ISO 4217 code, the form Stripe expects
type Currency string

const (
	USD Currency = "usd"
	EUR Currency = "eur"
	GBP Currency = "gbp"
	CAD Currency = "cad"

	DefaultCurrency = USD
)

// cents is the exponent of every supported currency
const cents = 2

var errEmptyCurrency = errors.New("currency cannot be empty")

func ParseCurrency(code string) (Currency, error) {
	c := strings.ToLower(strings.TrimSpace(code))
	if len(c) != 3 || strings.Trim(c, "abcdefghijklmnopqrstuvwxyz") != "" {
		return "", fmt.Errorf("invalid currency code %q", code)
	}
	return Currency(c), nil
}

// Money is an immutable amount in one currency. The zero value has no
// currency and is never produced by the constructors.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if currency == "" {
		return Money{}, errEmptyCurrency
	}
	return Money{amount: amount, currency: currency}, nil
}

// NewMoneyFromString accepts decimal text such as "49.99" or " 30 "
func NewMoneyFromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return NewMoney(d, currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// MinorUnits is the amount in cents, rounding half away from zero
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(cents).Round(0).IntPart()
}

// Round drops anything below a cent
func (m Money) Round() Money {
	m.amount = m.amount.Round(cents)
	return m
}

// Equals compares by value, so 30 and 30.00 are equal
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders e.g. "49.99 usd"
func (m Money) String() string {
	return m.amount.StringFixed(cents) + " " + string(m.currency)
}
