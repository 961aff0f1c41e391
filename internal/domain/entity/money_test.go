package entity

import (
	"math"
	"testing"

	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountToCents(t *testing.T) {
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
			{"1234567.89", 123456789},
			{"0.00", 0},
			{"-50.25", -5025},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				amount, err := decimal.NewFromString(tc.input)
				require.NoError(t, err)

				cents, err := AmountToCents(amount)
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, cents)
			})
		}
	})

	t.Run("More than two decimal places", func(t *testing.T) {
		amount, err := decimal.NewFromString("1.234")
		require.NoError(t, err)

		_, err = AmountToCents(amount)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Overflow", func(t *testing.T) {
		amount := decimal.NewFromInt(math.MaxInt64)

		_, err := AmountToCents(amount)
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})
}

func TestFormatCents(t *testing.T) {
	testCases := []struct {
		cents    int64
		expected string
	}{
		{10000, "100.00"},
		{1, "0.01"},
		{10, "0.10"},
		{150, "1.50"},
		{0, "0.00"},
		{-10000, "-100.00"},
		{-1, "-0.01"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatCents(tc.cents))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// string -> cents -> string returns the original representation
	testCases := []string{
		"0.00",
		"0.01",
		"1.00",
		"10.50",
		"1234.56",
		"9999999.99",
	}

	for _, tc := range testCases {
		t.Run(tc, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc)
			require.NoError(t, err)

			cents, err := AmountToCents(amount)
			require.NoError(t, err)

			assert.Equal(t, tc, FormatCents(cents))
		})
	}
}

func TestAddCents(t *testing.T) {
	t.Run("Normal addition", func(t *testing.T) {
		sum, err := AddCents(100, 50)
		assert.NoError(t, err)
		assert.Equal(t, int64(150), sum)

		sum, err = AddCents(100, -150)
		assert.NoError(t, err)
		assert.Equal(t, int64(-50), sum)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := AddCents(math.MaxInt64, 1)
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)

		_, err = AddCents(math.MinInt64, -1)
		assert.ErrorIs(t, err, errs.ErrAmountOverflow)
	})
}
