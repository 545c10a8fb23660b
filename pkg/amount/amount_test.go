package amount

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
	}{
		{"1.5 with 18 decimals", "1.5", 18, "1500000000000000000"},
		{"0.1 with 8 decimals", "0.1", 8, "10000000"},
		{"100 no decimal point", "100", 18, "100000000000000000000"},
		{".5 no integer part", ".5", 18, "500000000000000000"},
		{"zero", "0", 18, "0"},
		{"zero with fraction", "0.0", 8, "0"},
		{"excess digits truncated", "1.123456789012345678901234", 18, "1123456789012345678"},
		{"fewer digits padded", "1.1", 8, "110000000"},
		{"usdc amount", "12.5", 6, "12500000"},
		{"zero decimals", "42", 0, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimal(tt.amount, tt.decimals)
			require.NoError(t, err)
			require.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseDecimalInvalid(t *testing.T) {
	invalid := []struct {
		name   string
		amount string
	}{
		{"empty", ""},
		{"negative", "-1"},
		{"double point", "1.2.3"},
		{"letters", "abc"},
		{"letters in fraction", "1.abc"},
		{"letters in integer", "abc.1"},
		{"leading space", " 1.5"},
		{"lone point", "."},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDecimal(tt.amount, 18)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidAmount))
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		decimals int
		want     string
	}{
		{"1.5 eth", "1500000000000000000", 18, "1.5"},
		{"whole number", "100000000000000000000", 18, "100"},
		{"small fraction", "500000000000000000", 18, "0.5"},
		{"zero", "0", 18, "0"},
		{"usdc", "12500000", 6, "12.5"},
		{"zero decimals", "42", 0, "42"},
		{"tiny value", "1", 18, "0.000000000000000001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := new(big.Int).SetString(tt.value, 10)
			require.True(t, ok)
			require.Equal(t, tt.want, Format(v, tt.decimals))
		})
	}
}

func TestFormatNil(t *testing.T) {
	require.Equal(t, "0", Format(nil, 18))
}

// Amounts expressible exactly in the given precision must survive a
// parse/format round trip unchanged.
func TestRoundTrip(t *testing.T) {
	cases := []struct {
		amount   string
		decimals int
	}{
		{"1.5", 18},
		{"0.000000000000000001", 18},
		{"123456789.987654321", 9},
		{"12.5", 6},
		{"0.00001", 5},
		{"7", 0},
	}

	for _, tc := range cases {
		v, err := ParseDecimal(tc.amount, tc.decimals)
		require.NoError(t, err)
		require.Equal(t, tc.amount, Format(v, tc.decimals), "round trip for %s/%d", tc.amount, tc.decimals)
	}
}
