package ethrecover

import (
	"errors"
)

// ErrorKind classifies a failed verification so the host can report it.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindMalformedInput
	KindInvalidRecoveryID
	KindInvalidSignatureRange
	KindInvalidPublicKeyEncoding
	KindMismatchedKey
	KindUnknown
)

var (
	// ErrMalformedInput is returned when a fixed-size field has the wrong length.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInvalidRecoveryID is returned for recovery ids outside {0, 1}.
	ErrInvalidRecoveryID = errors.New("invalid recovery id")

	// ErrInvalidSignatureRange is returned when r or s is zero or not less than the curve order.
	ErrInvalidSignatureRange = errors.New("signature component out of range")

	// ErrInvalidPublicKeyEncoding is returned when the claimed key is not a point on secp256k1.
	ErrInvalidPublicKeyEncoding = errors.New("invalid public key encoding")

	// ErrMismatchedKey is returned when the signature does not recover to the claimed key.
	ErrMismatchedKey = errors.New("recovered key does not match claimed key")
)

var kindNames = map[ErrorKind]string{
	KindNone:                     "None",
	KindMalformedInput:           "MalformedInput",
	KindInvalidRecoveryID:        "InvalidRecoveryId",
	KindInvalidSignatureRange:    "InvalidSignatureRange",
	KindInvalidPublicKeyEncoding: "InvalidPublicKeyEncoding",
	KindMismatchedKey:            "MismatchedKey",
	KindUnknown:                  "Unknown",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// KindOf maps err to its ErrorKind. A nil error is KindNone; errors that
// did not come from this package are KindUnknown.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, ErrInvalidRecoveryID):
		return KindInvalidRecoveryID
	case errors.Is(err, ErrInvalidSignatureRange):
		return KindInvalidSignatureRange
	case errors.Is(err, ErrInvalidPublicKeyEncoding):
		return KindInvalidPublicKeyEncoding
	case errors.Is(err, ErrMismatchedKey):
		return KindMismatchedKey
	default:
		return KindUnknown
	}
}
