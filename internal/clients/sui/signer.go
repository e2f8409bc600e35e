package sui

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

const ed25519SchemeFlag = 0x00

// Intent prefix for transaction data: scope TransactionData, version 0,
// app id Sui.
var transactionIntent = []byte{0, 0, 0}

// signTransaction produces the serialized Sui signature for raw BCS
// transaction bytes: blake2b-256 over the intent message, signed with
// ed25519, serialized as flag || signature || pubkey, base64 encoded.
func signTransaction(privKey ed25519.PrivateKey, txBytes []byte) string {
	intentMessage := make([]byte, 0, len(transactionIntent)+len(txBytes))
	intentMessage = append(intentMessage, transactionIntent...)
	intentMessage = append(intentMessage, txBytes...)

	digest := blake2b.Sum256(intentMessage)
	signature := ed25519.Sign(privKey, digest[:])

	pubKey := privKey.Public().(ed25519.PublicKey)
	serialized := make([]byte, 0, 1+len(signature)+len(pubKey))
	serialized = append(serialized, ed25519SchemeFlag)
	serialized = append(serialized, signature...)
	serialized = append(serialized, pubKey...)

	return base64.StdEncoding.EncodeToString(serialized)
}

// deriveAddress computes the Sui address of an ed25519 key:
// blake2b-256 over flag || pubkey.
func deriveAddress(pubKey ed25519.PublicKey) string {
	data := make([]byte, 0, 1+len(pubKey))
	data = append(data, ed25519SchemeFlag)
	data = append(data, pubKey...)

	digest := blake2b.Sum256(data)
	return "0x" + hex.EncodeToString(digest[:])
}
