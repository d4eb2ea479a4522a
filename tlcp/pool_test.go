package tlcp

import "testing"

func TestRecordPoolReusesUpToCapacity(t *testing.T) {
	p := NewRecordPool()
	var got []*Record
	for i := 0; i < recordPoolCap+2; i++ {
		got = append(got, p.Get())
	}
	for _, r := range got {
		p.Put(r)
	}
	if n := p.Len(); n != recordPoolCap {
		t.Fatalf("pool should cap at %d, got %d", recordPoolCap, n)
	}

	r := p.Get()
	hits, misses := p.Stats()
	if hits == 0 {
		t.Fatalf("expected at least one pool hit, got %d hits / %d misses", hits, misses)
	}
	p.Put(r)
}

func TestRecordPoolGetResetsRecord(t *testing.T) {
	p := NewRecordPool()
	r := p.Get()
	r.Type = ContentTypeHandshake
	r.SetFragment([]byte("stale"))
	p.Put(r)

	r2 := p.Get()
	if r2.Type != 0 || r2.Len() != 0 {
		t.Fatalf("reused record not reset: type=%v len=%d", r2.Type, r2.Len())
	}
}
