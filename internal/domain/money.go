// internal/domain/money.go
package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// AmountScale is the number of decimal places kept for every amount.
const AmountScale = 2

var (
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// ToCents converts d to integer minor units. It fails if d carries more
// precision than AmountScale or does not fit in an int64 of cents.
func ToCents(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(AmountScale)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d.String(), AmountScale)
	}
	if shifted.LessThan(minCents) || shifted.GreaterThan(maxCents) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return shifted.IntPart(), nil
}

// FromCents converts minor units back to a decimal amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -AmountScale)
}

// PositiveCents validates that d is a positive amount and converts it.
func PositiveCents(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() {
		return 0, fmt.Errorf("amount %s must be positive", d.String())
	}
	return ToCents(d)
}
