// Package gmcrypto is the single adapter boundary onto the external SM2/SM3/SM4
// primitives. spec.md treats those primitives, and the ASN.1/X.509 layer that
// carries SM2 keys, as collaborators outside this module's scope; everything in
// this package is a thin pass-through to github.com/emmansun/gmsm. The rest of
// the engine calls the primitive operations through it, but still imports gmsm
// directly for SM2 key types, smx509 certificate parsing and the SM3 hash
// behind tlcp.FinishedHash.
package gmcrypto

import (
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/hmac"
	"crypto/rand"
	"hash"

	"github.com/emmansun/gmsm/sm2"
	"github.com/emmansun/gmsm/sm3"
	"github.com/emmansun/gmsm/sm4"
)

// DefaultUserID is the user identifier used when no explicit one is supplied,
// matching the GB/T 32918.2 default (the ASCII string "1234567812345678").
var DefaultUserID = []byte("1234567812345678")

// SumSM3 hashes the concatenation of parts with SM3.
func SumSM3(parts ...[]byte) [32]byte {
	h := sm3.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// NewHMACSM3 builds an HMAC-SM3 instance for the given key.
func NewHMACSM3(key []byte) hash.Hash {
	return hmac.New(sm3.New, key)
}

// NewSM4Block constructs an SM4 block cipher (128-bit block, 128-bit key).
func NewSM4Block(key []byte) (cipher.Block, error) {
	return sm4.NewCipher(key)
}

// GenerateSM2Key creates a fresh SM2 signing/encryption-capable key pair.
func GenerateSM2Key() (*sm2.PrivateKey, error) {
	return sm2.GenerateKey(rand.Reader)
}

// PrecomputeZ computes the SM2 "ZA" digest-preprocessing value for a public key
// and user id, per GB/T 32918.2. A nil uid falls back to DefaultUserID.
func PrecomputeZ(pub *ecdsa.PublicKey, uid []byte) ([32]byte, error) {
	if uid == nil {
		uid = DefaultUserID
	}
	z, err := sm2.CalculateZA(pub, uid)
	if err != nil {
		return [32]byte{}, err
	}
	var out [32]byte
	copy(out[:], z)
	return out, nil
}

// SignDigest produces a DER SEQUENCE{r,s} SM2 signature over a pre-computed
// 32-byte digest (the caller has already folded in Z and the message).
func SignDigest(priv *sm2.PrivateKey, digest []byte) ([]byte, error) {
	return sm2.SignASN1(rand.Reader, priv, digest)
}

// VerifyDigest checks a DER SEQUENCE{r,s} SM2 signature over a pre-computed digest.
func VerifyDigest(pub *ecdsa.PublicKey, digest, sig []byte) bool {
	return sm2.VerifyASN1(pub, digest, sig)
}

// EncryptASN1 encrypts msg under pub, returning the canonical ASN.1
// SEQUENCE{C1x, C1y, hash, C2} SM2 cipher envelope.
func EncryptASN1(pub *ecdsa.PublicKey, msg []byte) ([]byte, error) {
	return sm2.EncryptASN1(rand.Reader, pub, msg)
}

// DecryptASN1 decrypts an ASN.1 SM2 cipher envelope produced by EncryptASN1.
func DecryptASN1(priv *sm2.PrivateKey, ciphertext []byte) ([]byte, error) {
	return sm2.DecryptASN1(priv, ciphertext)
}
