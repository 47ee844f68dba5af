package program

import (
	"errors"
	"fmt"

	"github.com/mahdiidarabi/secp256k1-recover/pkg/edverify"
	"github.com/mahdiidarabi/secp256k1-recover/pkg/ethrecover"
)

// Framework error codes.
const (
	CodeInstructionMissing           uint32 = 100
	CodeInstructionFallbackNotFound  uint32 = 101
	CodeInstructionDidNotDeserialize uint32 = 102
)

// Program error codes start at 6000.
const (
	CodeInvalidPublicKey uint32 = 6000 + iota
	CodeInvalidRecoveryID
	CodeInvalidSignatureRange
	CodeInvalidPublicKeyEncoding
	CodeMalformedInput
	CodeInvalidEd25519Signature
)

var codeNames = map[uint32]string{
	CodeInstructionMissing:           "InstructionMissing",
	CodeInstructionFallbackNotFound:  "InstructionFallbackNotFound",
	CodeInstructionDidNotDeserialize: "InstructionDidNotDeserialize",
	CodeInvalidPublicKey:             "InvalidPublicKey",
	CodeInvalidRecoveryID:            "InvalidRecoveryId",
	CodeInvalidSignatureRange:        "InvalidSignatureRange",
	CodeInvalidPublicKeyEncoding:     "InvalidPublicKeyEncoding",
	CodeMalformedInput:               "MalformedInput",
	CodeInvalidEd25519Signature:      "InvalidEd25519Signature",
}

// Error aborts the enclosing operation. Code identifies the failure to the
// caller; Err keeps the underlying cause for errors.Is.
type Error struct {
	Code uint32
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("program error %d (%s): %v", e.Code, e.Name(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Name returns the symbolic name of the code.
func (e *Error) Name() string {
	if name, ok := codeNames[e.Code]; ok {
		return name
	}
	return "Unknown"
}

// CodeOf returns the abort code carried by err, or 0 if err is not an *Error.
func CodeOf(err error) uint32 {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Code
	}
	return 0
}

// fromVerifyError maps a verifier failure to its abort code.
func fromVerifyError(err error) *Error {
	code := CodeMalformedInput
	switch ethrecover.KindOf(err) {
	case ethrecover.KindMismatchedKey:
		code = CodeInvalidPublicKey
	case ethrecover.KindInvalidRecoveryID:
		code = CodeInvalidRecoveryID
	case ethrecover.KindInvalidSignatureRange:
		code = CodeInvalidSignatureRange
	case ethrecover.KindInvalidPublicKeyEncoding:
		code = CodeInvalidPublicKeyEncoding
	}
	return &Error{Code: code, Err: err}
}

func fromEd25519Error(err error) *Error {
	code := CodeInvalidEd25519Signature
	switch {
	case errors.Is(err, edverify.ErrInvalidPublicKey):
		code = CodeInvalidPublicKeyEncoding
	case errors.Is(err, edverify.ErrMalformedSignature):
		code = CodeMalformedInput
	}
	return &Error{Code: code, Err: err}
}
