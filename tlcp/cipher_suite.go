package tlcp

import "crypto/cipher"

// CipherSuiteID identifies a negotiated cipher suite.
type CipherSuiteID uint16

const (
	// ECC_SM4_CBC_SM3 is the MAC-then-encrypt suite.
	SuiteECC_SM4_CBC_SM3 CipherSuiteID = 0xE013
	// ECC_SM4_GCM_SM3 is the AEAD suite.
	SuiteECC_SM4_GCM_SM3 CipherSuiteID = 0xE053
)

// suiteFlags records which key-agreement family a suite uses. Only ECC is
// implemented; the other slots are reserved per spec.md §1's non-goals.
type suiteFlags uint8

const (
	flagECC suiteFlags = 1 << iota
)

// CipherSuite is the immutable descriptor spec.md §3 calls a "cipher-suite
// descriptor": fixed key/MAC/IV sizes and a mode flag. Suites are a closed,
// compile-time set (spec.md §9's "avoid heap allocation when the set is
// closed") so factories are plain functions, not an interface registry.
type CipherSuite struct {
	ID      CipherSuiteID
	KeyLen  int
	MACLen  int
	IVLen   int
	IsAEAD  bool
	flags   suiteFlags
}

var cipherSuiteECCSM4CBCSM3 = CipherSuite{
	ID:     SuiteECC_SM4_CBC_SM3,
	KeyLen: 16,
	MACLen: 32,
	IVLen:  0,
	IsAEAD: false,
	flags:  flagECC,
}

var cipherSuiteECCSM4GCMSM3 = CipherSuite{
	ID:     SuiteECC_SM4_GCM_SM3,
	KeyLen: 16,
	MACLen: 0,
	IVLen:  4,
	IsAEAD: true,
	flags:  flagECC,
}

// CipherSuiteByID looks a suite up in the closed registry.
func CipherSuiteByID(id CipherSuiteID) (CipherSuite, bool) {
	switch id {
	case SuiteECC_SM4_CBC_SM3:
		return cipherSuiteECCSM4CBCSM3, true
	case SuiteECC_SM4_GCM_SM3:
		return cipherSuiteECCSM4GCMSM3, true
	default:
		return CipherSuite{}, false
	}
}

// AllCipherSuites returns the closed set of registered suites, in a stable order.
func AllCipherSuites() []CipherSuite {
	return []CipherSuite{cipherSuiteECCSM4CBCSM3, cipherSuiteECCSM4GCMSM3}
}

// HasECC reports whether the suite uses ECC key agreement (the only family
// implemented; DHE/IBC/IBSDH/RSA slots are reserved but unimplemented).
func (s CipherSuite) HasECC() bool { return s.flags&flagECC != 0 }

// cipherHalf is the concrete per-direction cipher implementation a suite's
// cipher triple resolves to: either CBC-with-MAC or AEAD-GCM. Representing
// this as a closed two-case sum (spec.md §9's "avoid Box<dyn>") lets
// HalfConn.write_crypt/read_crypt dispatch on IsAEAD without an interface.
type cipherHalf struct {
	suite CipherSuite

	// CBC mode.
	block  cipher.Block
	macKey []byte

	// AEAD mode.
	aead        cipher.AEAD
	noncePrefix []byte // fixed_nonce: first 4 bytes of the key-block IV
}
