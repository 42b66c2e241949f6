package entity

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// ParseAmount converts a decimal string (as received from callers or returned
// by the store) into int64 minor units. The conversion is exact: values go
// through shopspring/decimal, never through binary floating point.
// Amounts must be strictly positive with at most two decimal places.
func ParseAmount(amount string) (int64, error) {
	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return 0, errs.ErrInvalidAmount
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, errs.ErrInvalidAmount
	}

	if d.Sign() <= 0 {
		return 0, errs.ErrNegativeAmount
	}

	cents := d.Shift(MaxDecimalPlaces)
	if !cents.IsInteger() {
		return 0, errs.ErrInvalidAmount
	}

	if !cents.BigInt().IsInt64() {
		return 0, errs.ErrAmountOverflow
	}

	return cents.IntPart(), nil
}

// FormatAmount renders minor units as a decimal string with exactly two
// decimal places, e.g. 1015 -> "10.15".
func FormatAmount(cents int64) string {
	return decimal.New(cents, -MaxDecimalPlaces).StringFixed(MaxDecimalPlaces)
}

// AddAmounts adds two minor-unit values, failing on int64 overflow instead of
// wrapping around.
func AddAmounts(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, errs.ErrAmountOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, errs.ErrAmountOverflow
	}
	return a + b, nil
}
