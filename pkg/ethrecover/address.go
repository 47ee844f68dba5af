package ethrecover

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// PubkeyToAddress returns the last 20 bytes of Keccak-256(x || y).
func PubkeyToAddress(pk PublicKey) common.Address {
	digest := Keccak256(pk[:])
	return common.BytesToAddress(digest[12:])
}

// VerifyAddress is Verify for callers that only know the signer's Ethereum
// address.
func VerifyAddress(message []byte, sig Signature, recoveryID RecoveryID, claimed common.Address) error {
	recovered, err := RecoverPublicKey(Keccak256(message), sig, recoveryID)
	if err != nil {
		return err
	}
	if addr := PubkeyToAddress(recovered); addr != claimed {
		return fmt.Errorf("%w: recovered address %s, claimed %s", ErrMismatchedKey, addr.Hex(), claimed.Hex())
	}
	return nil
}
