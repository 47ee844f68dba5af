// Package ethrecover verifies Ethereum-style secp256k1 ECDSA signatures by
// public-key recovery.
//
// A signer proves control of an externally owned Ethereum key by signing an
// activation message. The verifier hashes the message with legacy
// Keccak-256, recovers the public key from the (r, s) pair and the recovery
// identifier, and compares it byte for byte with the key the caller claims.
//
// # Quick Start
//
//	import "github.com/mahdiidarabi/secp256k1-recover/pkg/ethrecover"
//
//	sig, err := ethrecover.ParseSignature(rs) // 64 bytes, r || s
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pub, err := ethrecover.ParsePublicKey(xy) // 64 bytes, x || y
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := ethrecover.Verify([]byte("DePIN"), sig, ethrecover.RecoveryID(1), pub); err != nil {
//	    log.Fatalf("activation rejected (%s): %v", ethrecover.KindOf(err), err)
//	}
//
// # Signature conventions
//
// Wallets usually return a 65-byte signature whose last byte v is 27 or 28
// (or an EIP-155 value). The verifier only accepts the normalized recovery
// identifier 0 or 1; use RecoveryIDFromV or SplitCompact at the boundary.
//
// # Files and batches
//
// Requests can be read from JSON, CSV or CBOR files and verified in parallel:
//
//	client := ethrecover.NewClient().
//	    WithParser(&ethrecover.CSVParser{}).
//	    WithWorkers(8)
//
//	outcomes, err := client.VerifyFile(ctx, "requests.csv")
package ethrecover
