// Package cryptoengine defines the server-side certificate and private-key
// collaborator spec.md §6 calls out: "a CryptoEngine exposing certificates(),
// sign_key, enc_key". original_source/tlcp/src/crypto_engine/mod.rs models
// this as a Rust trait; here it is a plain Go interface the handshake driver
// consumes, so callers can plug in a PEM-backed engine, an HSM-backed one, or
// a test fixture without the driver knowing the difference.
package cryptoengine

import (
	"github.com/emmansun/gmsm/sm2"
)

// Engine owns the server's SM2 signing and encryption key pairs and produces
// the certificate chain the handshake sends, per spec.md §4.6: "[0] signing
// cert, [1] encryption cert".
type Engine interface {
	// Certificates returns the DER-encoded [signing, encryption] certificate
	// pair sent in the handshake Certificate message.
	Certificates() (signCertDER, encCertDER []byte, err error)
	// SignKey returns the server's SM2 signing private key, used to produce
	// the ServerKeyExchange signature.
	SignKey() (*sm2.PrivateKey, error)
	// EncKey returns the server's SM2 encryption private key, used to
	// decrypt the ClientKeyExchange pre-master secret.
	EncKey() (*sm2.PrivateKey, error)
}
