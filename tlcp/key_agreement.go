package tlcp

import (
	"crypto/ecdsa"
	"io"

	"github.com/emmansun/gmsm/sm2"
	"github.com/opengm-libs/opengm/internal/bin"
	"github.com/opengm-libs/opengm/internal/gmcrypto"
)

// buildSKXDigest reconstructs the 32-byte "e" digest the server signs and
// the client verifies, per spec.md §4.6:
//
//	Z       = sm2-precompute(signer_public_key, default_user_id)
//	to_sign = Z || client_random(32) || server_random(32) ||
//	          uint24(len(enc_cert_DER)) || enc_cert_DER
//	e       = SM3(to_sign)
//
// The u24 length prefix of the encryption certificate is the non-obvious
// inclusion spec.md §9 calls out by name; omitting it breaks interop.
func buildSKXDigest(signerPub *ecdsa.PublicKey, clientRandom, serverRandom [randomLen]byte, encCertDER []byte) ([32]byte, error) {
	z, err := gmcrypto.PrecomputeZ(signerPub, nil)
	if err != nil {
		return [32]byte{}, err
	}
	var lenPrefix [3]byte
	bin.PutU24BE(lenPrefix[:], uint32(len(encCertDER)))
	return gmcrypto.SumSM3(z[:], clientRandom[:], serverRandom[:], lenPrefix[:], encCertDER), nil
}

// BuildServerKeyExchange signs the transcript digest with the server's SM2
// signing private key, producing the ServerKeyExchange wire message.
func BuildServerKeyExchange(signPriv *sm2.PrivateKey, clientRandom, serverRandom [randomLen]byte, encCertDER []byte) (*ServerKeyExchange, error) {
	signerPub := &signPriv.PublicKey
	e, err := buildSKXDigest(signerPub, clientRandom, serverRandom, encCertDER)
	if err != nil {
		return nil, wrap(StageKeyAgree, AlertInternalError, err)
	}
	sig, err := gmcrypto.SignDigest(signPriv, e[:])
	if err != nil {
		return nil, wrap(StageKeyAgree, AlertInternalError, err)
	}
	return &ServerKeyExchange{Signature: sig}, nil
}

// VerifyServerKeyExchange reconstructs to_sign from [signingCertDER, encCertDER]
// and the client's random, and checks the SM2 signature, per spec.md §4.6.
func VerifyServerKeyExchange(signCertDER, encCertDER []byte, clientRandom, serverRandom [randomLen]byte, skx *ServerKeyExchange) error {
	signerPub, err := ExtractSM2PublicKey(signCertDER)
	if err != nil {
		return err
	}
	e, err := buildSKXDigest(signerPub, clientRandom, serverRandom, encCertDER)
	if err != nil {
		return wrap(StageKeyAgree, AlertInternalError, err)
	}
	if !gmcrypto.VerifyDigest(signerPub, e[:], skx.Signature) {
		return wrap(StageKeyAgree, AlertHandshakeFailure, ErrVerifyServerKeyExchange)
	}
	return nil
}

// BuildPreMaster draws the 46 random bytes and prepends the two bytes of
// clientVersion, the version the client offered (0x01,0x01 for TLCP), per
// spec.md §4.6 and §9 open question 2.
func BuildPreMaster(rng io.Reader, clientVersion uint16) ([preMasterSecretLen]byte, error) {
	var pm [preMasterSecretLen]byte
	pm[0] = byte(clientVersion >> 8)
	pm[1] = byte(clientVersion)
	if _, err := io.ReadFull(rng, pm[2:]); err != nil {
		return pm, wrap(StageKeyAgree, AlertInternalError, err)
	}
	return pm, nil
}

// BuildClientKeyExchange encrypts the pre-master secret under the server's
// SM2 encryption public key and wraps it as ClientKeyExchange.
func BuildClientKeyExchange(encPub *ecdsa.PublicKey, preMaster [preMasterSecretLen]byte) (*ClientKeyExchange, error) {
	ct, err := gmcrypto.EncryptASN1(encPub, preMaster[:])
	if err != nil {
		return nil, wrap(StageKeyAgree, AlertInternalError, err)
	}
	return &ClientKeyExchange{EncryptedPreMaster: ct}, nil
}

// DecryptClientKeyExchange decrypts the pre-master secret under the server's
// SM2 encryption private key.
func DecryptClientKeyExchange(encPriv *sm2.PrivateKey, ckx *ClientKeyExchange) ([preMasterSecretLen]byte, error) {
	var pm [preMasterSecretLen]byte
	plain, err := gmcrypto.DecryptASN1(encPriv, ckx.EncryptedPreMaster)
	if err != nil {
		return pm, wrap(StageKeyAgree, AlertDecryptError, ErrDecryptError)
	}
	if len(plain) != preMasterSecretLen {
		return pm, wrap(StageKeyAgree, AlertDecryptError, ErrDecryptError)
	}
	copy(pm[:], plain)
	return pm, nil
}
