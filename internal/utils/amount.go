package utils

import (
	"fmt"
	"math/big"
)

// NormalizeAmount converts an amount expressed in the source ledger's
// smallest unit into the destination ledger's smallest unit.
//
// When fromPrecision > toPrecision the conversion is a truncating integer
// division and therefore lossy: the second return value is the remainder
// that cannot be represented on the destination ledger. Callers must log it
// for audit. When fromPrecision < toPrecision the conversion is an exact
// multiplication and the remainder is zero.
//
// All arithmetic is arbitrary precision. Bridged magnitudes routinely exceed
// the float64 exact-integer range, so no floating point is permitted here.
func NormalizeAmount(amount *big.Int, fromPrecision, toPrecision int) (*big.Int, *big.Int, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, nil, fmt.Errorf("amount must be a positive integer")
	}
	if fromPrecision < 0 || toPrecision < 0 {
		return nil, nil, fmt.Errorf("precision must not be negative")
	}

	diff := fromPrecision - toPrecision
	if diff == 0 {
		return new(big.Int).Set(amount), big.NewInt(0), nil
	}

	if diff > 0 {
		factor := pow10(diff)
		converted, loss := new(big.Int).QuoRem(amount, factor, new(big.Int))
		return converted, loss, nil
	}

	factor := pow10(-diff)
	return new(big.Int).Mul(amount, factor), big.NewInt(0), nil
}

// ParsePositiveBigInt parses a base-10 integer string and requires it to be
// strictly positive. Used for inbound bridge amounts, which are never
// accepted as floats.
func ParsePositiveBigInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a base-10 integer: %q", s)
	}
	if v.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}
	return v, nil
}

func pow10(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}
