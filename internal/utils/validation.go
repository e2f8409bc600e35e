package utils

import (
	"regexp"

	"github.com/ethereum/go-ethereum/common"
)

// Sui addresses are 0x-prefixed hex of up to 32 bytes. Short forms are
// accepted and treated as left-padded, matching the node's own parsing.
var suiAddressRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// IsValidEthAddress checks if the provided address is a valid 20-byte
// 0x-prefixed Ethereum address.
// Note: it does not check the address exists on chain.
func IsValidEthAddress(address string) bool {
	return common.IsHexAddress(address)
}

// IsValidSuiAddress checks if the provided address is a valid Sui address.
// Note: it does not check the address exists on chain.
func IsValidSuiAddress(address string) bool {
	return suiAddressRegex.MatchString(address)
}

// IsValidSuiObjectID checks if the provided string is a valid Sui object ID.
// Object IDs share the address format.
func IsValidSuiObjectID(objectID string) bool {
	return suiAddressRegex.MatchString(objectID)
}
