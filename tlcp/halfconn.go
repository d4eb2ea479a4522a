package tlcp

import (
	"io"

	"github.com/opengm-libs/opengm/internal/bin"
)

// halfConnState is the small state machine spec.md §9 asks for in place of a
// "pending-then-active cipher triple that appears mutable from a default
// empty state": Unprotected -> Armed(pending) -> Active, with the single
// legal transition being ChangeCipherSpec.
type halfConnState uint8

const (
	stateUnprotected halfConnState = iota
	stateArmed
	stateActive
)

// HalfConn is the per-direction cipher state described in spec.md §3/§4.2:
// an active triple, a staged pending triple, and the direction's role
// (read vs write). The caller of PrepareCipherSpec passes the key-block
// slice for that direction; isRead itself does not select it.
type HalfConn struct {
	isRead bool
	rng    io.Reader

	state   halfConnState
	active  *cipherHalf
	pending *cipherHalf
}

// NewHalfConn creates an unprotected half-connection. rng is the shared RNG
// handle (spec.md §5: "shared by reference-counted handle... re-entrant from
// a single thread") used for CBC IVs; it is never used for the AEAD explicit
// nonce, which is derived from the sequence number (spec.md §4.1.2).
func NewHalfConn(isRead bool, rng io.Reader) *HalfConn {
	return &HalfConn{isRead: isRead, rng: rng}
}

// PrepareCipherSpec builds the pending cipher triple from a negotiated suite
// and the appropriate slice of the key block, per spec.md §4.2.
func (h *HalfConn) PrepareCipherSpec(suite CipherSuite, macKey, encKey, iv []byte) error {
	half := &cipherHalf{suite: suite}
	if suite.IsAEAD {
		block, err := newSuiteBlock(encKey)
		if err != nil {
			return wrap(StageRecord, AlertInternalError, err)
		}
		aead, err := newGCM(block)
		if err != nil {
			return wrap(StageRecord, AlertInternalError, err)
		}
		half.aead = aead
		half.noncePrefix = append([]byte(nil), iv...)
	} else {
		block, err := newSuiteBlock(encKey)
		if err != nil {
			return wrap(StageRecord, AlertInternalError, err)
		}
		half.block = block
		half.macKey = append([]byte(nil), macKey...)
	}
	h.pending = half
	h.state = stateArmed
	return nil
}

// ChangeCipherSpec atomically moves the pending triple to active and clears
// pending; reinstalling requires a new PrepareCipherSpec (spec.md §3 invariant).
func (h *HalfConn) ChangeCipherSpec() error {
	if h.state != stateArmed || h.pending == nil {
		return wrap(StageRecord, AlertInternalError, ErrChangeCipherSpecNoPending)
	}
	h.active = h.pending
	h.pending = nil
	h.state = stateActive
	return nil
}

// IsActive reports whether a cipher spec has been installed on this half.
func (h *HalfConn) IsActive() bool { return h.state == stateActive }

// additionalData builds the 13-byte MAC/AEAD associated-data string from
// spec.md §4.1: seq_num(8be) || type(1) || version(2be) || plaintext_length(2be).
func additionalData(seq uint64, ctype ContentType, version uint16, plaintextLen int) [13]byte {
	var ad [13]byte
	bin.PutU64BE(ad[0:8], seq)
	ad[8] = byte(ctype)
	bin.PutU16BE(ad[9:11], version)
	bin.PutU16BE(ad[11:13], uint16(plaintextLen))
	return ad
}

// WriteCrypt seals chunk into r, setting r's type/version and replacing its
// fragment with the on-wire ciphertext. If this half is unprotected, the
// fragment is simply set to chunk verbatim.
func (h *HalfConn) WriteCrypt(r *Record, seq uint64, ctype ContentType, version uint16, chunk []byte) error {
	r.Type = ctype
	r.Version = version
	if h.state != stateActive {
		r.SetFragment(chunk)
		return nil
	}
	if h.active.suite.IsAEAD {
		return gcmEncryptRecord(h.active, r, seq, ctype, version, chunk)
	}
	return cbcEncryptRecord(h.active, r, seq, ctype, version, chunk, h.rng)
}

// ReadCrypt authenticates and decrypts r's fragment in place, per spec.md §4.1.
func (h *HalfConn) ReadCrypt(seq uint64, r *Record) error {
	if h.state != stateActive {
		return nil
	}
	if h.active.suite.IsAEAD {
		return gcmDecryptRecord(h.active, r, seq)
	}
	return cbcDecryptRecord(h.active, r, seq)
}
