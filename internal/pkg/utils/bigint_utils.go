package utils

import (
	"math/big"
	"strings"
)

// FormatBigInt renders amount as a decimal string scaled down by 10^decimals,
// without trailing zeros. Example: amount=1234500000000000000, decimals=18 => "1.2345".
// A nil amount formats as "0".
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	neg := amount.Sign() < 0
	digits := new(big.Int).Abs(amount).String()

	// дополняем нулями слева, чтобы целая часть была хотя бы "0"
	if pad := int(decimals) + 1 - len(digits); pad > 0 {
		digits = strings.Repeat("0", pad) + digits
	}
	cut := len(digits) - int(decimals)
	intPart, fracPart := digits[:cut], strings.TrimRight(digits[cut:], "0")

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ParseBigInt parses a base-10 (or 0x-prefixed hex) integer. Empty input yields nil, true.
func ParseBigInt(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, false
	}
	return v, true
}
