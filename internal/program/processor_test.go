package program

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdiidarabi/secp256k1-recover/pkg/ethrecover"
)

type signed struct {
	pub   ethrecover.PublicKey
	sig   [64]byte
	recID uint8
}

func signDePIN(t *testing.T, message []byte) signed {
	t.Helper()

	priv := secp256k1.PrivKeyFromBytes(bytes.Repeat([]byte{0x11}, 32))
	digest := ethrecover.Keccak256(message)
	compact := ecdsa.SignCompact(priv, digest[:], false)

	var out signed
	out.pub = ethrecover.NewPublicKey(priv.PubKey())
	copy(out.sig[:], compact[1:])
	out.recID = compact[0] - 27
	return out
}

func newTestProcessor() (*Processor, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewProcessor(logger), hook
}

func TestDiscriminator(t *testing.T) {
	d := NewDiscriminator(Secp256k1RecoverName)
	assert.Len(t, d, DiscriminatorSize)
	assert.NotEqual(t, d, NewDiscriminator(Secp256k1VerifyName))
	assert.NotEqual(t, d, NewDiscriminator(VerifyEd25519Name))
	assert.Equal(t, d, NewDiscriminator("secp256k1_recover_ins"))
}

func TestEncodeSecp256k1Recover_Layout(t *testing.T) {
	s := signDePIN(t, []byte("DePIN"))
	data, err := EncodeSecp256k1Recover(Secp256k1RecoverArgs{
		PublicKey:  s.pub,
		Message:    []byte("DePIN"),
		Signature:  s.sig,
		RecoveryID: s.recID,
	})
	require.NoError(t, err)

	// discriminator | public_key | u32 len | message | signature | recovery_id
	require.Len(t, data, 8+64+4+5+64+1)
	disc := NewDiscriminator(Secp256k1RecoverName)
	assert.Equal(t, disc[:], data[:8])
	assert.Equal(t, s.pub[:], data[8:72])
	assert.Equal(t, []byte{5, 0, 0, 0}, data[72:76])
	assert.Equal(t, []byte("DePIN"), data[76:81])
	assert.Equal(t, s.sig[:], data[81:145])
	assert.Equal(t, s.recID, data[145])
}

func TestProcess_Secp256k1Recover(t *testing.T) {
	message := []byte("DePIN")
	s := signDePIN(t, message)

	encode := func(t *testing.T, args Secp256k1RecoverArgs) []byte {
		data, err := EncodeSecp256k1Recover(args)
		require.NoError(t, err)
		return data
	}
	valid := Secp256k1RecoverArgs{PublicKey: s.pub, Message: message, Signature: s.sig, RecoveryID: s.recID}

	t.Run("valid", func(t *testing.T) {
		p, hook := newTestProcessor()
		require.NoError(t, p.Process(encode(t, valid)))
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.DebugLevel, entry.Level)
		assert.Equal(t, Secp256k1RecoverName, entry.Data["instruction"])
	})

	t.Run("tampered message", func(t *testing.T) {
		p, hook := newTestProcessor()
		args := valid
		args.Message = []byte("DePIn")
		err := p.Process(encode(t, args))
		require.Error(t, err)
		assert.Equal(t, CodeInvalidPublicKey, CodeOf(err))
		assert.ErrorIs(t, err, ethrecover.ErrMismatchedKey)
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "InvalidPublicKey", hook.LastEntry().Data["error_name"])
	})

	t.Run("invalid recovery id", func(t *testing.T) {
		p, _ := newTestProcessor()
		args := valid
		args.RecoveryID = 2
		assert.Equal(t, CodeInvalidRecoveryID, CodeOf(p.Process(encode(t, args))))
	})

	t.Run("zero r", func(t *testing.T) {
		p, _ := newTestProcessor()
		args := valid
		copy(args.Signature[:32], make([]byte, 32))
		assert.Equal(t, CodeInvalidSignatureRange, CodeOf(p.Process(encode(t, args))))
	})

	t.Run("off-curve public key", func(t *testing.T) {
		p, _ := newTestProcessor()
		args := valid
		args.PublicKey[63] ^= 0x01
		assert.Equal(t, CodeInvalidPublicKeyEncoding, CodeOf(p.Process(encode(t, args))))
	})
}

func TestProcess_HighSWarning(t *testing.T) {
	message := []byte("DePIN")
	s := signDePIN(t, message)

	var sVal secp256k1.ModNScalar
	sVal.SetByteSlice(s.sig[32:])
	sVal.Negate()
	highS := sVal.Bytes()

	args := Secp256k1RecoverArgs{PublicKey: s.pub, Message: message, Signature: s.sig, RecoveryID: s.recID ^ 1}
	copy(args.Signature[32:], highS[:])

	data, err := EncodeSecp256k1Recover(args)
	require.NoError(t, err)

	p, hook := newTestProcessor()
	require.NoError(t, p.Process(data))

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "signature with high-s value" {
			warned = true
		}
	}
	assert.True(t, warned, "expected a high-s warning")
}

func TestProcess_Secp256k1Verify(t *testing.T) {
	message := []byte("activate:device-0001")
	s := signDePIN(t, message)

	args := Secp256k1VerifyArgs{
		EthAddress: ethrecover.PubkeyToAddress(s.pub),
		Message:    message,
		Signature:  s.sig,
		RecoveryID: s.recID,
	}
	data, err := EncodeSecp256k1Verify(args)
	require.NoError(t, err)

	p, _ := newTestProcessor()
	require.NoError(t, p.Process(data))

	args.EthAddress[0] ^= 0xff
	data, err = EncodeSecp256k1Verify(args)
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidPublicKey, CodeOf(p.Process(data)))
}

func TestProcess_VerifyEd25519(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, ed25519.SeedSize)
	priv := ed25519.NewKeyFromSeed(seed)
	message := []byte("DePIN")

	var args VerifyEd25519Args
	copy(args.PublicKey[:], priv.Public().(ed25519.PublicKey))
	copy(args.Signature[:], ed25519.Sign(priv, message))
	args.Message = message

	p, _ := newTestProcessor()

	data, err := EncodeVerifyEd25519(args)
	require.NoError(t, err)
	require.NoError(t, p.Process(data))

	args.Message = []byte("DePIn")
	data, err = EncodeVerifyEd25519(args)
	require.NoError(t, err)
	assert.Equal(t, CodeInvalidEd25519Signature, CodeOf(p.Process(data)))
}

func TestProcess_FrameworkErrors(t *testing.T) {
	p, _ := newTestProcessor()

	t.Run("missing", func(t *testing.T) {
		err := p.Process([]byte{1, 2, 3})
		assert.Equal(t, CodeInstructionMissing, CodeOf(err))
	})

	t.Run("unknown discriminator", func(t *testing.T) {
		data := NewDiscriminator("initialize")
		err := p.Process(data[:])
		assert.Equal(t, CodeInstructionFallbackNotFound, CodeOf(err))
	})

	t.Run("truncated args", func(t *testing.T) {
		data := NewDiscriminator(Secp256k1RecoverName)
		err := p.Process(append(data[:], 0x01, 0x02))
		assert.Equal(t, CodeInstructionDidNotDeserialize, CodeOf(err))
	})

	t.Run("trailing bytes ignored", func(t *testing.T) {
		s := signDePIN(t, []byte("DePIN"))
		data, err := EncodeSecp256k1Recover(Secp256k1RecoverArgs{
			PublicKey: s.pub, Message: []byte("DePIN"), Signature: s.sig, RecoveryID: s.recID,
		})
		require.NoError(t, err)
		assert.NoError(t, p.Process(append(data, 0xde, 0xad)))
	})
}

func TestError(t *testing.T) {
	err := &Error{Code: CodeInvalidRecoveryID, Err: ethrecover.ErrInvalidRecoveryID}
	assert.Equal(t, "InvalidRecoveryId", err.Name())
	assert.Contains(t, err.Error(), "6001")
	assert.ErrorIs(t, err, ethrecover.ErrInvalidRecoveryID)
	assert.Equal(t, "Unknown", (&Error{Code: 42}).Name())
	assert.Zero(t, CodeOf(ethrecover.ErrMismatchedKey))
}
