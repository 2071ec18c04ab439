package services

import (
	"errors"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// TokenDecimals is the fixed-point scale of ProfeCoin amounts.
const TokenDecimals = 18

var (
	ErrInvalidAmount    = errors.New("amount is not a non-negative base-10 number")
	ErrTooManyDecimals  = errors.New("amount has more fractional digits than the token supports")
	ErrAmountOutOfRange = errors.New("amount does not fit in uint256")
)

var (
	amountPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
	maxUint256    = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
)

// ParseUnits converts a decimal string into its fixed-point integer with the
// given number of fractional digits. It never rounds.
func ParseUnits(amount string, decimals int32) (*big.Int, error) {
	if !amountPattern.MatchString(amount) {
		return nil, ErrInvalidAmount
	}
	if dot := strings.IndexByte(amount, '.'); dot >= 0 && int32(len(amount)-dot-1) > decimals {
		return nil, ErrTooManyDecimals
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, ErrInvalidAmount
	}

	raw := value.Shift(decimals).BigInt()
	if raw.Cmp(maxUint256) > 0 {
		return nil, ErrAmountOutOfRange
	}

	return raw, nil
}

// FormatUnits renders raw scaled down by 10^decimals. Whole numbers keep one
// fractional digit ("100.0"), matching how ethers formats amounts.
func FormatUnits(raw *big.Int, decimals int32) string {
	if raw == nil {
		raw = new(big.Int)
	}

	formatted := decimal.NewFromBigInt(raw, -decimals).String()
	if !strings.Contains(formatted, ".") {
		formatted += ".0"
	}
	return formatted
}
