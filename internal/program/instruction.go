package program

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// Instruction names, as exposed by the on-chain program interface.
const (
	Secp256k1RecoverName = "secp256k1_recover_ins"
	Secp256k1VerifyName  = "secp256k1_verify_ins"
	VerifyEd25519Name    = "verify_ed25519"
)

// DiscriminatorSize is the length of the instruction selector prefix.
const DiscriminatorSize = 8

// Discriminator is the first 8 bytes of sha256("global:" + name).
type Discriminator [DiscriminatorSize]byte

// NewDiscriminator derives the selector for a global instruction.
func NewDiscriminator(name string) Discriminator {
	sum := sha256.Sum256([]byte("global:" + name))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

var (
	secp256k1RecoverDisc = NewDiscriminator(Secp256k1RecoverName)
	secp256k1VerifyDisc  = NewDiscriminator(Secp256k1VerifyName)
	verifyEd25519Disc    = NewDiscriminator(VerifyEd25519Name)
)

// Secp256k1RecoverArgs carries a claimed 64-byte public key.
type Secp256k1RecoverArgs struct {
	PublicKey  [64]byte
	Message    []byte
	Signature  [64]byte
	RecoveryID uint8
}

// Secp256k1VerifyArgs carries a claimed 20-byte Ethereum address.
type Secp256k1VerifyArgs struct {
	EthAddress [20]byte
	Message    []byte
	Signature  [64]byte
	RecoveryID uint8
}

// VerifyEd25519Args carries a 32-byte Ed25519 public key.
type VerifyEd25519Args struct {
	PublicKey [32]byte
	Message   []byte
	Signature [64]byte
}

// EncodeSecp256k1Recover builds instruction data for secp256k1_recover_ins.
func EncodeSecp256k1Recover(args Secp256k1RecoverArgs) ([]byte, error) {
	return encode(secp256k1RecoverDisc, &args)
}

// EncodeSecp256k1Verify builds instruction data for secp256k1_verify_ins.
func EncodeSecp256k1Verify(args Secp256k1VerifyArgs) ([]byte, error) {
	return encode(secp256k1VerifyDisc, &args)
}

// EncodeVerifyEd25519 builds instruction data for verify_ed25519.
func EncodeVerifyEd25519(args VerifyEd25519Args) ([]byte, error) {
	return encode(verifyEd25519Disc, &args)
}

func encode(disc Discriminator, args interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(args); err != nil {
		return nil, fmt.Errorf("failed to encode instruction args: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(payload []byte, args interface{}) error {
	return bin.NewBorshDecoder(payload).Decode(args)
}
