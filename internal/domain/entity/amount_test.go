package entity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "github.com/mkorolev/ledger-service/internal/domain/error"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid amounts", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected int64
		}{
			{"100.00", 10000},
			{"0.01", 1},
			{"0.10", 10},
			{"1", 100},
			{"1.5", 150},
			{"10.15", 1015},
			{"1234567.89", 123456789},
			{" 25.00 ", 2500},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				cents, err := ParseAmount(tc.input)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, cents)
			})
		}
	})

	t.Run("Invalid amounts", func(t *testing.T) {
		testCases := []struct {
			input       string
			errorType   error
			description string
		}{
			{"", errs.ErrInvalidAmount, "Empty string"},
			{"   ", errs.ErrInvalidAmount, "Whitespace only"},
			{"-1.00", errs.ErrNegativeAmount, "Negative amount"},
			{"0", errs.ErrNegativeAmount, "Zero"},
			{"0.00", errs.ErrNegativeAmount, "Zero with decimals"},
			{"1.234", errs.ErrInvalidAmount, "Too many decimal places"},
			{"abc", errs.ErrInvalidAmount, "Non-numeric"},
			{"1,000.00", errs.ErrInvalidAmount, "Comma as thousands separator"},
			{"1.00.00", errs.ErrInvalidAmount, "Multiple decimal points"},
			{"$100", errs.ErrInvalidAmount, "Currency symbol"},
			{"92233720368547758.08", errs.ErrAmountOverflow, "Exceeds int64 minor units"},
		}

		for _, tc := range testCases {
			t.Run(tc.description, func(t *testing.T) {
				_, err := ParseAmount(tc.input)
				assert.Error(t, err)
				assert.ErrorIs(t, err, tc.errorType)
			})
		}
	})

	t.Run("No float drift on awkward decimals", func(t *testing.T) {
		// 0.29 and 10.15 are classic binary-float traps
		cents, err := ParseAmount("0.29")
		assert.NoError(t, err)
		assert.Equal(t, int64(29), cents)

		cents, err = ParseAmount("10.15")
		assert.NoError(t, err)
		assert.Equal(t, int64(1015), cents)
	})
}

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{10, "0.10"},
		{100, "1.00"},
		{150, "1.50"},
		{1015, "10.15"},
		{123456789, "1234567.89"},
		{0, "0.00"},
		{-10000, "-100.00"},
		{-1, "-0.01"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAmount(tc.cents))
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	testCases := []string{"0.01", "1.00", "10.15", "999999.99", "123.45"}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			cents, err := ParseAmount(tc)
			assert.NoError(t, err)
			assert.Equal(t, tc, FormatAmount(cents))
		})
	}
}

func TestAddAmounts(t *testing.T) {
	t.Run("Normal addition", func(t *testing.T) {
		sum, err := AddAmounts(100, 250)
		assert.NoError(t, err)
		assert.Equal(t, int64(350), sum)
	})

	t.Run("Overflow is rejected", func(t *testing.T) {
		_, err := AddAmounts(math.MaxInt64, 1)
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})

	t.Run("Underflow is rejected", func(t *testing.T) {
		_, err := AddAmounts(math.MinInt64, -1)
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})
}
