package program

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/mahdiidarabi/secp256k1-recover/pkg/edverify"
	"github.com/mahdiidarabi/secp256k1-recover/pkg/ethrecover"
)

// Processor executes verification instructions. A nil return means the
// instruction completed; any error aborts the enclosing operation.
type Processor struct {
	log logrus.FieldLogger
}

// NewProcessor creates a processor that logs through logger. A nil logger
// uses the logrus standard logger.
func NewProcessor(logger logrus.FieldLogger) *Processor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Processor{log: logger}
}

// Process decodes instruction data and runs the selected instruction.
func (p *Processor) Process(data []byte) error {
	if len(data) < DiscriminatorSize {
		return p.abort("", &Error{
			Code: CodeInstructionMissing,
			Err:  fmt.Errorf("instruction data is %d bytes, need at least %d", len(data), DiscriminatorSize),
		})
	}

	var disc Discriminator
	copy(disc[:], data[:DiscriminatorSize])
	payload := data[DiscriminatorSize:]

	switch disc {
	case secp256k1RecoverDisc:
		var args Secp256k1RecoverArgs
		if err := decode(payload, &args); err != nil {
			return p.abort(Secp256k1RecoverName, &Error{Code: CodeInstructionDidNotDeserialize, Err: err})
		}
		return p.finish(Secp256k1RecoverName, p.secp256k1Recover(&args))

	case secp256k1VerifyDisc:
		var args Secp256k1VerifyArgs
		if err := decode(payload, &args); err != nil {
			return p.abort(Secp256k1VerifyName, &Error{Code: CodeInstructionDidNotDeserialize, Err: err})
		}
		return p.finish(Secp256k1VerifyName, p.secp256k1Verify(&args))

	case verifyEd25519Disc:
		var args VerifyEd25519Args
		if err := decode(payload, &args); err != nil {
			return p.abort(VerifyEd25519Name, &Error{Code: CodeInstructionDidNotDeserialize, Err: err})
		}
		return p.finish(VerifyEd25519Name, p.verifyEd25519(&args))

	default:
		return p.abort("", &Error{
			Code: CodeInstructionFallbackNotFound,
			Err:  fmt.Errorf("unknown instruction discriminator %x", disc[:]),
		})
	}
}

func (p *Processor) secp256k1Recover(args *Secp256k1RecoverArgs) *Error {
	sig := ethrecover.Signature{}
	copy(sig.R[:], args.Signature[:32])
	copy(sig.S[:], args.Signature[32:])
	p.warnHighS(Secp256k1RecoverName, sig)

	err := ethrecover.Verify(args.Message, sig, ethrecover.RecoveryID(args.RecoveryID), ethrecover.PublicKey(args.PublicKey))
	if err != nil {
		return fromVerifyError(err)
	}
	return nil
}

func (p *Processor) secp256k1Verify(args *Secp256k1VerifyArgs) *Error {
	sig := ethrecover.Signature{}
	copy(sig.R[:], args.Signature[:32])
	copy(sig.S[:], args.Signature[32:])
	p.warnHighS(Secp256k1VerifyName, sig)

	err := ethrecover.VerifyAddress(args.Message, sig, ethrecover.RecoveryID(args.RecoveryID), common.Address(args.EthAddress))
	if err != nil {
		return fromVerifyError(err)
	}
	return nil
}

func (p *Processor) verifyEd25519(args *VerifyEd25519Args) *Error {
	if err := edverify.Verify(args.PublicKey, args.Message, args.Signature); err != nil {
		return fromEd25519Error(err)
	}
	return nil
}

// warnHighS logs malleable signatures; they are still accepted.
func (p *Processor) warnHighS(name string, sig ethrecover.Signature) {
	if ethrecover.IsHighS(sig) {
		p.log.WithField("instruction", name).Warn("signature with high-s value")
	}
}

func (p *Processor) finish(name string, perr *Error) error {
	if perr != nil {
		return p.abort(name, perr)
	}
	p.log.WithField("instruction", name).Debug("instruction completed")
	return nil
}

func (p *Processor) abort(name string, perr *Error) error {
	p.log.WithFields(logrus.Fields{
		"instruction": name,
		"code":        perr.Code,
		"error_name":  perr.Name(),
	}).Warnf("instruction aborted: %v", perr.Err)
	return perr
}
