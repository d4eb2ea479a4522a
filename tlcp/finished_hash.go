package tlcp

import (
	"hash"

	"github.com/emmansun/gmsm/sm3"
)

// FinishedHash is a running SM3 digest over every handshake-typed fragment
// exchanged so far, in strict protocol order (spec.md §3's transcript-hash
// invariant). Both the client and server feed the exact same serialized
// bytes into their own FinishedHash as messages are sent/received.
type FinishedHash struct {
	h hash.Hash
}

// NewFinishedHash creates an empty transcript hash.
func NewFinishedHash() *FinishedHash {
	return &FinishedHash{h: sm3.New()}
}

// Write feeds a serialized handshake message (header included) into the transcript.
func (f *FinishedHash) Write(p []byte) {
	f.h.Write(p)
}

// Sum returns the current SM3(transcript) value without finalizing future writes.
func (f *FinishedHash) Sum() [32]byte {
	var out [32]byte
	copy(out[:], f.h.Sum(nil))
	return out
}
