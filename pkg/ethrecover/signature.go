package ethrecover

import (
	"github.com/ethereum/go-ethereum/common"
)

// Signature is an ECDSA signature without the recovery byte.
type Signature struct {
	R [32]byte // r component, big-endian
	S [32]byte // s component, big-endian
}

// Bytes returns the 64-byte r || s encoding.
func (s Signature) Bytes() []byte {
	out := make([]byte, 64)
	copy(out[:32], s.R[:])
	copy(out[32:], s.S[:])
	return out
}

// RecoveryID selects the candidate point R during public-key recovery.
// Only 0 and 1 are accepted.
type RecoveryID uint8

// PublicKey is an uncompressed secp256k1 point encoded as x || y.
type PublicKey [64]byte

// Address returns the Ethereum address derived from the key.
func (pk PublicKey) Address() common.Address {
	return PubkeyToAddress(pk)
}

// Request is one verification call as delivered by a transport layer.
//
// When PublicKey is all zeros and Address is set, the request is checked
// against the address instead of the full key.
type Request struct {
	PublicKey  PublicKey
	Address    common.Address
	Message    []byte
	Signature  Signature
	RecoveryID RecoveryID
}

// Verify checks the request and returns nil on success.
func (r *Request) Verify() error {
	if r.PublicKey == (PublicKey{}) && r.Address != (common.Address{}) {
		return VerifyAddress(r.Message, r.Signature, r.RecoveryID, r.Address)
	}
	return Verify(r.Message, r.Signature, r.RecoveryID, r.PublicKey)
}

// Outcome is the verdict for one request of a batch.
type Outcome struct {
	Index int   // Position of the request in the batch
	Err   error // nil when the signature verified
}

// OK reports whether the request verified.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Kind returns the failure kind, or KindNone on success.
func (o Outcome) Kind() ErrorKind {
	return KindOf(o.Err)
}
