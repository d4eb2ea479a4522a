package tlcp

import "testing"

func TestFinishedHashAccumulatesInOrder(t *testing.T) {
	a := NewFinishedHash()
	a.Write([]byte("first"))
	a.Write([]byte("second"))

	b := NewFinishedHash()
	b.Write([]byte("firstsecond"))

	if a.Sum() != b.Sum() {
		t.Fatalf("hash should be order-independent of Write call boundaries, only byte order")
	}
}

func TestFinishedHashDiffersOnDifferentTranscripts(t *testing.T) {
	a := NewFinishedHash()
	a.Write([]byte("hello"))

	b := NewFinishedHash()
	b.Write([]byte("world"))

	if a.Sum() == b.Sum() {
		t.Fatalf("different transcripts should not collide")
	}
}
