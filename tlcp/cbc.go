package tlcp

import (
	"crypto/cipher"
	"crypto/subtle"
	"io"

	"github.com/opengm-libs/opengm/internal/gmcrypto"
)

// newSuiteBlock constructs the SM4 block cipher used by both CBC and GCM modes.
func newSuiteBlock(key []byte) (cipher.Block, error) {
	return gmcrypto.NewSM4Block(key)
}

// blockSize is SM4's fixed 16-byte block, named at the call sites below for
// readability rather than re-deriving it from the cipher.Block each time.
const blockSize = 16

// cbcEncryptRecord implements spec.md §4.1.1's write path: emit
// IV(B) || CBC-encrypt(plaintext || MAC || padding).
func cbcEncryptRecord(h *cipherHalf, r *Record, seq uint64, ctype ContentType, version uint16, plaintext []byte, rng io.Reader) error {
	ad := additionalData(seq, ctype, version, len(plaintext))
	macSum := computeMAC(h.macKey, ad[:], plaintext)

	padLen := blockSize - ((len(plaintext) + len(macSum)) % blockSize)
	total := len(plaintext) + len(macSum) + padLen

	r.Type = ctype
	r.Version = version
	r.SetFragment(make([]byte, blockSize+total))

	iv, body := r.SplitAtMut(blockSize)
	if _, err := rng.Read(iv); err != nil {
		return wrap(StageRecord, AlertInternalError, err)
	}
	n := copy(body, plaintext)
	n += copy(body[n:], macSum)
	for i := n; i < total; i++ {
		body[i] = byte(padLen - 1)
	}

	enc := cipher.NewCBCEncrypter(h.block, iv)
	enc.CryptBlocks(body, body)
	return nil
}

// computeMAC runs HMAC-SM3 over additionalData || plaintext.
func computeMAC(key, ad, plaintext []byte) []byte {
	m := gmcrypto.NewHMACSM3(key)
	m.Write(ad)
	m.Write(plaintext)
	return m.Sum(nil)
}

// cbcDecryptRecord implements spec.md §4.1.1's read path. All CBC decryption
// failures (bad padding, bad MAC, bad length) collapse to ErrBadRecordMAC so
// the error surface never reveals which check failed (spec.md §7's
// constant-time policy).
func cbcDecryptRecord(h *cipherHalf, r *Record, seq uint64) error {
	fragLen := r.Len()
	macLen := h.suite.MACLen
	if fragLen <= blockSize+macLen || fragLen%blockSize != 0 {
		return wrap(StageRecord, AlertBadRecordMAC, ErrBadRecordMAC)
	}

	iv, body := r.SplitAtMut(blockSize)
	dec := cipher.NewCBCDecrypter(h.block, iv)
	dec.CryptBlocks(body, body)

	padLen := int(body[len(body)-1]) + 1
	paddingOK := 1
	if padLen <= 0 || padLen > len(body) {
		paddingOK = 0
		padLen = 0 // avoid an out-of-range slice below; MAC check still runs over the whole body
	} else {
		for i := len(body) - padLen; i < len(body); i++ {
			eq := subtle.ConstantTimeByteEq(body[i], byte(padLen-1))
			paddingOK &= eq
		}
	}

	plainEnd := len(body) - padLen - macLen
	if plainEnd < 0 {
		plainEnd = 0
		paddingOK = 0
	}
	plaintext := body[:plainEnd]
	gotMAC := body[plainEnd : plainEnd+macLen]

	ad := additionalData(seq, r.Type, r.Version, len(plaintext))
	wantMAC := computeMAC(h.macKey, ad[:], plaintext)
	macOK := subtle.ConstantTimeCompare(wantMAC, gotMAC)

	if paddingOK&macOK != 1 {
		return wrap(StageRecord, AlertBadRecordMAC, ErrBadRecordMAC)
	}

	r.ShiftLeft(blockSize)
	r.Resize(len(plaintext), 0)
	return nil
}
