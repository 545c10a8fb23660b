// Package amount converts between human-readable decimal strings and
// smallest-unit integers without going through binary floating point.
package amount

import (
	"errors"
	"math/big"
	"strings"
)

// ErrInvalidAmount indicates the amount string is not a valid
// non-negative decimal number.
var ErrInvalidAmount = errors.New("invalid amount format")

// ParseDecimal converts a decimal amount string to a smallest-unit
// integer with the given decimal count. "1.5" with 18 decimals yields
// 1500000000000000000. Digits beyond the decimal count are truncated.
func ParseDecimal(amount string, decimals int) (*big.Int, error) {
	if amount == "" || decimals < 0 {
		return nil, ErrInvalidAmount
	}

	if strings.HasPrefix(amount, "-") {
		return nil, ErrInvalidAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return nil, ErrInvalidAmount
	}

	intPart := parts[0]
	decPart := ""
	if len(parts) == 2 {
		decPart = parts[1]
	}
	if intPart == "" && decPart == "" {
		return nil, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}

	for _, c := range intPart {
		if c < '0' || c > '9' {
			return nil, ErrInvalidAmount
		}
	}
	intVal, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}

	multiplier := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	result := new(big.Int).Mul(intVal, multiplier)

	if decPart != "" {
		for _, c := range decPart {
			if c < '0' || c > '9' {
				return nil, ErrInvalidAmount
			}
		}

		for len(decPart) < decimals {
			decPart += "0"
		}
		decPart = decPart[:decimals]

		if decPart != "" {
			decVal, ok := new(big.Int).SetString(decPart, 10)
			if !ok {
				return nil, ErrInvalidAmount
			}
			result.Add(result, decVal)
		}
	}

	return result, nil
}

// Format converts a smallest-unit integer to a human-readable decimal
// string with the given decimal count. Trailing zeros after the decimal
// point are trimmed; 1500000000000000000 with 18 decimals yields "1.5".
func Format(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}

	str := v.String()
	if decimals <= 0 {
		return str
	}

	for len(str) <= decimals {
		str = "0" + str
	}

	pos := len(str) - decimals
	result := str[:pos] + "." + str[pos:]

	result = strings.TrimRight(result, "0")
	result = strings.TrimSuffix(result, ".")
	return result
}
