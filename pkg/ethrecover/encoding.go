package ethrecover

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// SignatureLength is the size of r || s.
	SignatureLength = 64

	// CompactSignatureLength is the size of r || s || v.
	CompactSignatureLength = 65

	// PublicKeyLength is the size of an uncompressed key without the 0x04 prefix.
	PublicKeyLength = 64
)

// ParseSignature decodes a 64-byte r || s signature. Range checks happen
// during verification.
func ParseSignature(b []byte) (Signature, error) {
	var sig Signature
	if len(b) != SignatureLength {
		return sig, fmt.Errorf("%w: signature must be %d bytes, got %d", ErrMalformedInput, SignatureLength, len(b))
	}
	copy(sig.R[:], b[:32])
	copy(sig.S[:], b[32:])
	return sig, nil
}

// ParsePublicKey decodes a 64-byte x || y public key. Curve membership is
// checked by Validate.
func ParsePublicKey(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("%w: public key must be %d bytes, got %d", ErrMalformedInput, PublicKeyLength, len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// NewPublicKey converts a decoded secp256k1 key to its x || y form.
func NewPublicKey(pub *secp256k1.PublicKey) PublicKey {
	var pk PublicKey
	copy(pk[:], pub.SerializeUncompressed()[1:])
	return pk
}

// Validate reports whether the key is a point on secp256k1. The point at
// infinity has no 64-byte encoding and is always rejected.
func (pk PublicKey) Validate() error {
	var buf [65]byte
	buf[0] = 0x04
	copy(buf[1:], pk[:])
	if _, err := secp256k1.ParsePubKey(buf[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKeyEncoding, err)
	}
	return nil
}

// RecoveryIDFromV normalizes the wallet v value to a recovery id.
//
// Accepted encodings are 0/1 (raw), 27/28 (legacy Ethereum) and
// 35 + 2*chainID + {0, 1} (EIP-155).
func RecoveryIDFromV(v uint64) (RecoveryID, error) {
	switch {
	case v == 0 || v == 1:
		return RecoveryID(v), nil
	case v == 27 || v == 28:
		return RecoveryID(v - 27), nil
	case v >= 35:
		return RecoveryID((v - 35) % 2), nil
	default:
		return 0, fmt.Errorf("%w: unsupported v value %d", ErrInvalidRecoveryID, v)
	}
}

// V returns the legacy Ethereum encoding (27 or 28) of the recovery id.
func (id RecoveryID) V() uint8 {
	return uint8(id) + 27
}

// SplitCompact splits a 65-byte r || s || v signature into its parts.
func SplitCompact(b []byte) (Signature, RecoveryID, error) {
	if len(b) != CompactSignatureLength {
		return Signature{}, 0, fmt.Errorf("%w: compact signature must be %d bytes, got %d", ErrMalformedInput, CompactSignatureLength, len(b))
	}
	sig, err := ParseSignature(b[:SignatureLength])
	if err != nil {
		return Signature{}, 0, err
	}
	id, err := RecoveryIDFromV(uint64(b[SignatureLength]))
	if err != nil {
		return Signature{}, 0, err
	}
	return sig, id, nil
}
