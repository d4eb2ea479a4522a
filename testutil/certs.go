// Package testutil generates throwaway SM2 signing and encryption
// certificates for tests and the demo CLI, grounded on the self-signed
// certificate pattern in lirlia-100day_challenge_backend's proxy cert
// manager, adapted from crypto/x509 to gmsm's smx509.
package testutil

import (
	"crypto/rand"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"time"

	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"

	"github.com/opengm-libs/opengm/cryptoengine"
)

// GenerateSelfSignedSM2 creates a self-signed SM2 certificate for commonName
// with keyUsage and returns its DER bytes alongside the private key.
func GenerateSelfSignedSM2(commonName string, keyUsage smx509.KeyUsage) ([]byte, *sm2.PrivateKey, error) {
	priv, err := sm2.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, err
	}
	now := time.Now()
	template := &smx509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: commonName},
		NotBefore:             now.Add(-time.Hour),
		NotAfter:              now.Add(365 * 24 * time.Hour),
		KeyUsage:              keyUsage,
		BasicConstraintsValid: true,
	}
	der, err := smx509.CreateCertificate(rand.Reader, template, template, &priv.PublicKey, priv)
	if err != nil {
		return nil, nil, err
	}
	return der, priv, nil
}

// NewEngine builds a FileCryptoEngine backed by two fresh, unrelated SM2
// certificates: one for signing (ServerKeyExchange), one for key
// encipherment (ClientKeyExchange), matching spec.md §4.6's two-cert chain.
func NewEngine(commonName string) (*cryptoengine.FileCryptoEngine, error) {
	signDER, signKey, err := GenerateSelfSignedSM2(commonName+"-sign", smx509.KeyUsageDigitalSignature)
	if err != nil {
		return nil, err
	}
	encDER, encKey, err := GenerateSelfSignedSM2(commonName+"-enc", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		return nil, err
	}

	signCertPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: signDER})
	encCertPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: encDER})

	signKeyDER, err := smx509.MarshalPKCS8PrivateKey(signKey)
	if err != nil {
		return nil, err
	}
	encKeyDER, err := smx509.MarshalPKCS8PrivateKey(encKey)
	if err != nil {
		return nil, err
	}
	signKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: signKeyDER})
	encKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: encKeyDER})

	return cryptoengine.NewFileCryptoEngine(signCertPEM, signKeyPEM, encCertPEM, encKeyPEM)
}
