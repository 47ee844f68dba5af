package edverify

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
)

const (
	// PublicKeySize is the size of an encoded Ed25519 point.
	PublicKeySize = 32

	// SignatureSize is the size of R || S.
	SignatureSize = 64
)

var (
	// ErrMalformedSignature is returned for wrong lengths and non-canonical S.
	ErrMalformedSignature = errors.New("malformed ed25519 signature")

	// ErrInvalidPublicKey is returned when the key does not decode to a point.
	ErrInvalidPublicKey = errors.New("invalid ed25519 public key")

	// ErrInvalidSignature is returned when [S]B != R + [k]A.
	ErrInvalidSignature = errors.New("ed25519 signature verification failed")
)

// Verify checks signature = R || S over message for publicKey.
//
// k = SHA-512(R || A || M) mod l, and the signature holds when
// [S]B - [k]A encodes to the same bytes as R.
func Verify(publicKey [PublicKeySize]byte, message []byte, signature [SignatureSize]byte) error {
	A, err := new(edwards25519.Point).SetBytes(publicKey[:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	S, err := edwards25519.NewScalar().SetCanonicalBytes(signature[32:])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}

	h := sha512.New()
	h.Write(signature[:32])
	h.Write(publicKey[:])
	h.Write(message)
	var digest [64]byte
	h.Sum(digest[:0])

	k, err := edwards25519.NewScalar().SetUniformBytes(digest[:])
	if err != nil {
		return fmt.Errorf("failed to reduce challenge: %w", err)
	}

	minusA := new(edwards25519.Point).Negate(A)
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, S)

	if !bytes.Equal(signature[:32], R.Bytes()) {
		return ErrInvalidSignature
	}
	return nil
}

// VerifyBytes is Verify for unsized inputs.
func VerifyBytes(publicKey, message, signature []byte) error {
	if len(publicKey) != PublicKeySize {
		return fmt.Errorf("%w: public key must be %d bytes, got %d", ErrInvalidPublicKey, PublicKeySize, len(publicKey))
	}
	if len(signature) != SignatureSize {
		return fmt.Errorf("%w: signature must be %d bytes, got %d", ErrMalformedSignature, SignatureSize, len(signature))
	}
	return Verify([PublicKeySize]byte(publicKey), message, [SignatureSize]byte(signature))
}
