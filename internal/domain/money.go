package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is a price as the catalog reported it. Reconciliation treats it as
// opaque; only display totals do arithmetic on it.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) && m.Currency == other.Currency
}

// Code returns the ISO code of the currency, or "" when none is set.
func (m Money) Code() string {
	if m.Currency == (currency.Unit{}) {
		return ""
	}
	return m.Currency.String()
}

func (m Money) Times(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%s + %s: %w", m.Code(), other.Code(), ErrCurrencyMismatch)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}
