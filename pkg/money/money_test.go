package money

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fractionDigits(s string) int {
	i := strings.LastIndex(s, ".")
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

func TestFormatMinor_ZeroExponentCurrency(t *testing.T) {
	out, err := FormatMinor(9050, "JPY")
	require.NoError(t, err)
	assert.Equal(t, 0, fractionDigits(out), out)
	assert.True(t, strings.HasSuffix(out, "9,050"), out)
}

func TestFormatMinor_TwoDigitCurrency(t *testing.T) {
	out, err := FormatMinor(9050, "USD")
	require.NoError(t, err)
	assert.Equal(t, 2, fractionDigits(out), out)
	assert.True(t, strings.HasSuffix(out, "90.50"), out)
	assert.True(t, strings.HasPrefix(out, "$"), out)
}

func TestFormatMinor_Cases(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		code     string
		suffix   string
		fraction int
	}{
		{name: "lowercase code", amount: 100, code: "usd", suffix: "1.00", fraction: 2},
		{name: "three digit currency", amount: 1234, code: "BHD", suffix: "1.234", fraction: 3},
		{name: "zero", amount: 0, code: "EUR", suffix: "0.00", fraction: 2},
		{name: "grouping", amount: 123456789, code: "USD", suffix: "1,234,567.89", fraction: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatMinor(tt.amount, tt.code)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(out, tt.suffix), out)
			assert.Equal(t, tt.fraction, fractionDigits(out), out)
		})
	}
}

func TestFormatMinor_Negative(t *testing.T) {
	out, err := FormatMinor(-9050, "USD")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "-"), out)
	assert.True(t, strings.HasSuffix(out, "90.50"), out)
}

func TestFormatMinor_UnknownCurrency(t *testing.T) {
	_, err := FormatMinor(100, "XYZW")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
	assert.False(t, Valid("??"))
	assert.Equal(t, "100 XYZW", MustFormatMinor(100, "xyzw"))
}

func TestExponent(t *testing.T) {
	for code, want := range map[string]int{"USD": 2, "JPY": 0, "BHD": 3, "EUR": 2} {
		got, err := Exponent(code)
		require.NoError(t, err)
		assert.Equal(t, want, got, code)
	}
}

func TestFormatMinor_LargeAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		code   string
		want   string
	}{
		{name: "above float precision", amount: 9007199254740993, code: "USD", want: "$90,071,992,547,409.93"},
		{name: "max int64", amount: math.MaxInt64, code: "USD", want: "$92,233,720,368,547,758.07"},
		{name: "min int64", amount: math.MinInt64, code: "USD", want: "-$92,233,720,368,547,758.08"},
		{name: "zero padded fraction", amount: -1001, code: "BHD", want: "1.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := FormatMinor(tt.amount, tt.code)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(out, tt.want), out)
			wantMinus := 0
			if tt.amount < 0 {
				wantMinus = 1
			}
			assert.Equal(t, wantMinus, strings.Count(out, "-"), out)
		})
	}
}
