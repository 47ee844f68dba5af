// Package edverify checks Ed25519 signatures over arbitrary messages.
//
// It is the Ed25519 counterpart of ethrecover: a caller that holds a 32-byte
// Ed25519 public key instead of an Ethereum key proves control of it by
// signing the activation message.
//
//	if err := edverify.Verify(pub, []byte("DePIN"), sig); err != nil {
//	    log.Fatal(err)
//	}
package edverify
