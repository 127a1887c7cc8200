// Package core holds the ledger domain: users, transactions, budgets,
// monetary amounts and the budget threshold signal.
//
// Amounts are kept in integer cents so sums stay exact; decimal strings
// at the edges are parsed and rendered through shopspring/decimal.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount in cents. Aggregates are plain int64
// addition, so no binary floating point error can accumulate. Negative
// values only appear in derived figures such as savings.
type Money struct {
	Cents int64
}

// ParseAmount converts a decimal string like "12.34" to Money with
// half-up rounding on the third decimal place. Zero is legal; negative
// amounts are not.
//
// Examples:
//
//	ParseAmount("12.34")  -> 1234 cents
//	ParseAmount("12.345") -> 1235 cents
//	ParseAmount("0")      -> 0 cents
//	ParseAmount("-1")     -> error
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: d.Shift(2).Round(0).IntPart()}, nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Decimal returns the amount as a decimal value, e.g. 1234 cents -> 12.34.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two decimal places, the
// canonical report representation.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}
