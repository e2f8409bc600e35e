package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEthAddress(t *testing.T) {
	assert.True(t, IsValidEthAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F"))
	assert.True(t, IsValidEthAddress("0x0000000000000000000000000000000000000000"))

	// go-ethereum accepts the unprefixed form as well
	assert.True(t, IsValidEthAddress("71C7656EC7ab88b098defB751B7401B5f6d8976F"))

	assert.False(t, IsValidEthAddress(""))
	assert.False(t, IsValidEthAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976"))   // too short
	assert.False(t, IsValidEthAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F1")) // too long
	assert.False(t, IsValidEthAddress("0x"+strings.Repeat("z", 40)))
}

func TestIsValidSuiAddress(t *testing.T) {
	assert.True(t, IsValidSuiAddress("0x"+strings.Repeat("a", 64)))
	assert.True(t, IsValidSuiAddress("0x2")) // short form

	assert.False(t, IsValidSuiAddress(""))
	assert.False(t, IsValidSuiAddress("0x"))
	assert.False(t, IsValidSuiAddress("0x"+strings.Repeat("a", 65)))
	assert.False(t, IsValidSuiAddress(strings.Repeat("a", 64)))
	assert.False(t, IsValidSuiAddress("0x"+strings.Repeat("g", 64)))
}

func TestIsValidSuiObjectID(t *testing.T) {
	assert.True(t, IsValidSuiObjectID("0x"+strings.Repeat("1", 64)))
	assert.False(t, IsValidSuiObjectID("0x"+strings.Repeat("1", 64)+"ff"))
}
