package cryptoengine

import (
	"encoding/pem"
	"errors"

	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

// ErrNotSM2Key signals that a loaded private key was not an SM2 key.
var ErrNotSM2Key = errors.New("cryptoengine: not an sm2 private key")

// FileCryptoEngine loads a signing cert+key and an encryption cert+key from
// PEM bytes, mirroring the shape of original_source/tlcp/src/crypto_engine
// while staying an ordinary Go value rather than a trait object.
type FileCryptoEngine struct {
	SignCertDER []byte
	EncCertDER  []byte
	signKey     *sm2.PrivateKey
	encKey      *sm2.PrivateKey
}

// NewFileCryptoEngine parses the four PEM blocks (certificate, then private
// key, for each of the signing and encryption pairs).
func NewFileCryptoEngine(signCertPEM, signKeyPEM, encCertPEM, encKeyPEM []byte) (*FileCryptoEngine, error) {
	signCertDER, err := decodeCertPEM(signCertPEM)
	if err != nil {
		return nil, err
	}
	encCertDER, err := decodeCertPEM(encCertPEM)
	if err != nil {
		return nil, err
	}
	signKey, err := decodeSM2KeyPEM(signKeyPEM)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeSM2KeyPEM(encKeyPEM)
	if err != nil {
		return nil, err
	}
	return &FileCryptoEngine{
		SignCertDER: signCertDER,
		EncCertDER:  encCertDER,
		signKey:     signKey,
		encKey:      encKey,
	}, nil
}

// Certificates implements Engine.
func (e *FileCryptoEngine) Certificates() (signCertDER, encCertDER []byte, err error) {
	return e.SignCertDER, e.EncCertDER, nil
}

// SignKey implements Engine.
func (e *FileCryptoEngine) SignKey() (*sm2.PrivateKey, error) { return e.signKey, nil }

// EncKey implements Engine.
func (e *FileCryptoEngine) EncKey() (*sm2.PrivateKey, error) { return e.encKey, nil }

func decodeCertPEM(b []byte) ([]byte, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("cryptoengine: no PEM block found for certificate")
	}
	if _, err := smx509.ParseCertificate(block.Bytes); err != nil {
		return nil, err
	}
	return block.Bytes, nil
}

func decodeSM2KeyPEM(b []byte) (*sm2.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("cryptoengine: no PEM block found for private key")
	}
	key, err := smx509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	sm2Key, ok := key.(*sm2.PrivateKey)
	if !ok {
		return nil, ErrNotSM2Key
	}
	return sm2Key, nil
}
