package ethrecover

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// fixturesDir returns the path to the fixtures directory (works regardless of test cwd).
func fixturesDir() string {
	_, f, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(f), "..", "..", "fixtures")
}

// activationVector is one entry of fixtures/activation_vectors.json.
type activationVector struct {
	PrivateKey string `json:"private_key"`
	Message    string `json:"message"`
	Digest     string `json:"digest"`
	R          string `json:"r"`
	S          string `json:"s"`
	RecoveryID uint8  `json:"recovery_id"`
	PublicKey  string `json:"public_key"`
	Address    string `json:"address"`
}

func loadActivationVectors(t *testing.T) []activationVector {
	t.Helper()

	file, err := os.Open(filepath.Join(fixturesDir(), "activation_vectors.json"))
	if err != nil {
		t.Fatalf("Failed to open vectors: %v", err)
	}
	defer file.Close()

	var vectors []activationVector
	if err := json.NewDecoder(file).Decode(&vectors); err != nil {
		t.Fatalf("Failed to parse vectors: %v", err)
	}
	return vectors
}

// depinKey is the 0x11..11 key used by the activation flow tests.
func depinKey() *secp256k1.PrivateKey {
	return secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
}

// signActivation signs Keccak-256(message) with an external signer and
// returns the signature in the verifier's convention.
func signActivation(t *testing.T, priv *secp256k1.PrivateKey, message []byte) (Signature, RecoveryID) {
	t.Helper()

	digest := Keccak256(message)
	// [27 + recid] || r || s
	compact := ecdsa.SignCompact(priv, digest[:], false)

	var sig Signature
	copy(sig.R[:], compact[1:33])
	copy(sig.S[:], compact[33:65])
	return sig, RecoveryID(compact[0] - 27)
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hexDecode(s)
	if err != nil {
		t.Fatalf("Failed to decode hex %q: %v", s, err)
	}
	return b
}
