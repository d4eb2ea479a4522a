package tlcp

import (
	"crypto/ecdsa"

	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/smx509"
)

// ExtractSM2PublicKey parses enough of a DER certificate to pull out its SM2
// public key (OID 1.2.840.10045.2.1 with named curve 1.2.156.10197.1.301,
// subject-public-key 04||X(32)||Y(32) inside a BIT STRING), per spec.md §4.8.
// No chain validation is performed; that remains the caller's responsibility
// (spec.md §9 open question 4).
func ExtractSM2PublicKey(der []byte) (*ecdsa.PublicKey, error) {
	cert, err := smx509.ParseCertificate(der)
	if err != nil {
		return nil, wrap(StageCert, AlertDecodeError, ErrDecodeSM2PublicFailure)
	}
	pub, ok := cert.PublicKey.(*ecdsa.PublicKey)
	if !ok || pub.Curve != sm2.P256() {
		return nil, wrap(StageCert, AlertDecodeError, ErrDecodeSM2PublicFailure)
	}
	return pub, nil
}
