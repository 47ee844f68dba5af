package ethrecover

import (
	"golang.org/x/crypto/sha3"
)

// Keccak256 hashes message with the original Keccak-256 padding used by
// Ethereum. It is not FIPS 202 SHA3-256.
func Keccak256(message []byte) [32]byte {
	var digest [32]byte
	h := sha3.NewLegacyKeccak256()
	h.Write(message)
	h.Sum(digest[:0])
	return digest
}
