package ethrecover

import (
	"fmt"
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// curveParams holds G, p and n for secp256k1. It is never written after init.
var curveParams = secp256k1.Params()

// Secp256k1CurveOrder returns a copy of the order n of the secp256k1 group.
func Secp256k1CurveOrder() *big.Int {
	return new(big.Int).Set(curveParams.N)
}

// Secp256k1FieldPrime returns a copy of the field prime p.
func Secp256k1FieldPrime() *big.Int {
	return new(big.Int).Set(curveParams.P)
}

// Verify hashes message with Keccak-256, recovers the signer's public key and
// compares it with claimed. It returns nil only when the keys are identical.
func Verify(message []byte, sig Signature, recoveryID RecoveryID, claimed PublicKey) error {
	return VerifyDigest(Keccak256(message), sig, recoveryID, claimed)
}

// VerifyDigest is Verify for callers that already hold the 32-byte digest.
func VerifyDigest(digest [32]byte, sig Signature, recoveryID RecoveryID, claimed PublicKey) error {
	if err := checkRecoveryID(recoveryID); err != nil {
		return err
	}
	r, s, err := parseRS(&sig)
	if err != nil {
		return err
	}
	if err := claimed.Validate(); err != nil {
		return err
	}

	recovered, err := recoverKey(&digest, &sig, r, s, recoveryID)
	if err != nil {
		return err
	}
	if recovered != claimed {
		return fmt.Errorf("%w: recovered %x", ErrMismatchedKey, recovered[:])
	}
	return nil
}

// RecoverPublicKey recovers the public key that produced sig over digest.
//
// Recovery ids 2 and 3 (R.x = r + n) are rejected with ErrInvalidRecoveryID.
func RecoverPublicKey(digest [32]byte, sig Signature, recoveryID RecoveryID) (PublicKey, error) {
	if err := checkRecoveryID(recoveryID); err != nil {
		return PublicKey{}, err
	}
	r, s, err := parseRS(&sig)
	if err != nil {
		return PublicKey{}, err
	}
	return recoverKey(&digest, &sig, r, s, recoveryID)
}

// IsHighS reports whether s is in the upper half of the group order. Such
// signatures are valid but malleable; Ethereum transactions reject them.
func IsHighS(sig Signature) bool {
	var s secp256k1.ModNScalar
	s.SetBytes(&sig.S)
	return s.IsOverHalfOrder()
}

func checkRecoveryID(recoveryID RecoveryID) error {
	if recoveryID > 1 {
		return fmt.Errorf("%w: %d not in {0, 1}", ErrInvalidRecoveryID, recoveryID)
	}
	return nil
}

func parseRS(sig *Signature) (*secp256k1.ModNScalar, *secp256k1.ModNScalar, error) {
	r, err := parseScalar(&sig.R, "r")
	if err != nil {
		return nil, nil, err
	}
	s, err := parseScalar(&sig.S, "s")
	if err != nil {
		return nil, nil, err
	}
	return r, s, nil
}

// parseScalar accepts values in [1, n-1] only; SetBytes would silently reduce.
func parseScalar(b *[32]byte, name string) (*secp256k1.ModNScalar, error) {
	v := new(secp256k1.ModNScalar)
	if overflow := v.SetBytes(b); overflow != 0 {
		return nil, fmt.Errorf("%w: %s >= curve order", ErrInvalidSignatureRange, name)
	}
	if v.IsZero() {
		return nil, fmt.Errorf("%w: %s is zero", ErrInvalidSignatureRange, name)
	}
	return v, nil
}

// recoverKey computes Q = r⁻¹(sR - eG) with R.x = r and the parity of R.y
// taken from the low bit of recoveryID.
func recoverKey(digest *[32]byte, sig *Signature, r, s *secp256k1.ModNScalar, recoveryID RecoveryID) (PublicKey, error) {
	// r < n < p, so the field value never overflows.
	var bigR secp256k1.JacobianPoint
	bigR.X.SetBytes(&sig.R)
	if !secp256k1.DecompressY(&bigR.X, recoveryID&1 == 1, &bigR.Y) {
		return PublicKey{}, fmt.Errorf("%w: no curve point has x = r", ErrMismatchedKey)
	}
	bigR.Y.Normalize()
	bigR.Z.SetInt(1)

	// The digest is reduced mod n like any other ECDSA message hash.
	var e secp256k1.ModNScalar
	e.SetBytes(digest)

	w := new(secp256k1.ModNScalar).InverseValNonConst(r)
	u1 := new(secp256k1.ModNScalar).Mul2(&e, w).Negate()
	u2 := new(secp256k1.ModNScalar).Mul2(s, w)

	var u1G, u2R, q secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(u1, &u1G)
	secp256k1.ScalarMultNonConst(u2, &bigR, &u2R)
	secp256k1.AddNonConst(&u1G, &u2R, &q)

	if (q.X.IsZero() && q.Y.IsZero()) || q.Z.IsZero() {
		return PublicKey{}, fmt.Errorf("%w: recovered point at infinity", ErrMismatchedKey)
	}
	q.ToAffine()

	var pk PublicKey
	q.X.PutBytesUnchecked(pk[:32])
	q.Y.PutBytesUnchecked(pk[32:])
	return pk, nil
}
