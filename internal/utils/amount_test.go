package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmountScalesDown(t *testing.T) {
	// 1 token at 18 decimals becomes 1 token at 9 decimals.
	amount, ok := new(big.Int).SetString("1000000000000000000", 10)
	require.True(t, ok)

	converted, loss, err := NormalizeAmount(amount, 18, 9)
	require.NoError(t, err)
	assert.Equal(t, "1000000000", converted.String())
	assert.Equal(t, int64(0), loss.Int64())
}

func TestNormalizeAmountScalesUp(t *testing.T) {
	converted, loss, err := NormalizeAmount(big.NewInt(5), 9, 18)
	require.NoError(t, err)
	assert.Equal(t, "5000000000", converted.String())
	assert.Equal(t, int64(0), loss.Int64())
}

func TestNormalizeAmountSamePrecision(t *testing.T) {
	amount := big.NewInt(123456789)
	converted, loss, err := NormalizeAmount(amount, 9, 9)
	require.NoError(t, err)
	assert.Equal(t, amount.String(), converted.String())
	assert.Equal(t, int64(0), loss.Int64())

	// The returned value must be a copy, not an alias.
	converted.Add(converted, big.NewInt(1))
	assert.Equal(t, "123456789", amount.String())
}

func TestNormalizeAmountTruncates(t *testing.T) {
	// 18 -> 9 decimals with a sub-precision tail: the tail is returned as loss.
	amount, ok := new(big.Int).SetString("1000000000123456789", 10)
	require.True(t, ok)

	converted, loss, err := NormalizeAmount(amount, 18, 9)
	require.NoError(t, err)
	assert.Equal(t, "1000000000", converted.String())
	assert.Equal(t, "123456789", loss.String())
}

func TestNormalizeAmountBelowDestinationPrecision(t *testing.T) {
	// An amount smaller than one destination unit converts to zero with the
	// full amount as loss.
	converted, loss, err := NormalizeAmount(big.NewInt(999999999), 18, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(0), converted.Int64())
	assert.Equal(t, "999999999", loss.String())
}

func TestNormalizeAmountBeyondFloat64Range(t *testing.T) {
	// 2^90 is far outside the float64 exact-integer range; the conversion
	// must stay exact.
	amount := new(big.Int).Lsh(big.NewInt(1), 90)
	converted, loss, err := NormalizeAmount(amount, 18, 9)
	require.NoError(t, err)

	expected, expectedLoss := new(big.Int).QuoRem(amount, big.NewInt(1_000_000_000), new(big.Int))
	assert.Equal(t, expected.String(), converted.String())
	assert.Equal(t, expectedLoss.String(), loss.String())
}

func TestNormalizeAmountNeverManufacturesValue(t *testing.T) {
	// Truncation may destroy the sub-precision tail but never create value:
	// scaling the converted amount back up plus the reported loss must
	// reproduce the input exactly, and never exceed it.
	scale := big.NewInt(1_000_000_000)
	for _, raw := range []string{
		"1",
		"999999999",
		"1000000000",
		"1000000001",
		"123456789123456789",
		"999999999999999999999999999",
	} {
		amount, ok := new(big.Int).SetString(raw, 10)
		require.True(t, ok)

		converted, loss, err := NormalizeAmount(amount, 18, 9)
		require.NoError(t, err)

		back := new(big.Int).Mul(converted, scale)
		assert.True(t, back.Cmp(amount) <= 0, "converted value exceeds input for %s", raw)
		assert.Equal(t, amount.String(), new(big.Int).Add(back, loss).String())

		// Scaling the surviving value back up is exact.
		if converted.Sign() > 0 {
			up, upLoss, err := NormalizeAmount(converted, 9, 18)
			require.NoError(t, err)
			assert.Equal(t, back.String(), up.String())
			assert.Equal(t, int64(0), upLoss.Int64())
		}
	}
}

func TestNormalizeAmountRejectsNonPositive(t *testing.T) {
	_, _, err := NormalizeAmount(nil, 18, 9)
	assert.Error(t, err)

	_, _, err = NormalizeAmount(big.NewInt(0), 18, 9)
	assert.Error(t, err)

	_, _, err = NormalizeAmount(big.NewInt(-5), 18, 9)
	assert.Error(t, err)
}

func TestNormalizeAmountRejectsNegativePrecision(t *testing.T) {
	_, _, err := NormalizeAmount(big.NewInt(1), -1, 9)
	assert.Error(t, err)

	_, _, err = NormalizeAmount(big.NewInt(1), 18, -1)
	assert.Error(t, err)
}

func TestParsePositiveBigInt(t *testing.T) {
	v, err := ParsePositiveBigInt("1000000000000000000000000")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000000000", v.String())

	_, err = ParsePositiveBigInt("0")
	assert.Error(t, err)

	_, err = ParsePositiveBigInt("-1")
	assert.Error(t, err)

	_, err = ParsePositiveBigInt("1.5")
	assert.Error(t, err)

	_, err = ParsePositiveBigInt("1e18")
	assert.Error(t, err)

	_, err = ParsePositiveBigInt("")
	assert.Error(t, err)

	_, err = ParsePositiveBigInt("0x10")
	assert.Error(t, err)
}
