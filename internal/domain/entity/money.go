package entity

import (
	"math"

	"github.com/shopspring/decimal"

	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
)

// Monetary values are stored as int64 cents. The wire protocol carries them
// as decimal strings with two fractional digits; conversion happens only at
// the boundaries.

var centsFactor = decimal.NewFromInt(100)

// AmountToCents converts a wire-level decimal amount to cents. Amounts with
// more than two decimal places are rejected rather than silently rounded.
func AmountToCents(amount decimal.Decimal) (int64, error) {
	if amount.Exponent() < -2 {
		return 0, errs.ErrInvalidAmount
	}

	cents := amount.Mul(centsFactor)
	if !cents.IsInteger() {
		return 0, errs.ErrInvalidAmount
	}
	if cents.Cmp(decimal.NewFromInt(math.MaxInt64)) > 0 ||
		cents.Cmp(decimal.NewFromInt(math.MinInt64)) < 0 {
		return 0, errs.ErrAmountOverflow
	}
	return cents.IntPart(), nil
}

// CentsToAmount converts cents back to a decimal with two fractional digits.
func CentsToAmount(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders cents as a fixed two-decimal string, e.g. 12345 -> "123.45".
func FormatCents(cents int64) string {
	return CentsToAmount(cents).StringFixed(2)
}

// AddCents adds two cent amounts and fails on int64 overflow instead of
// wrapping around.
func AddCents(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, errs.ErrAmountOverflow
	}
	return sum, nil
}
