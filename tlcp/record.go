package tlcp

// Record is the atomic framed unit of the transport: spec.md §3's
// (type, version, fragment-bytes) tuple. The fragment is backed by a reusable
// buffer with a movable start offset so decryption can strip a prepended IV
// or explicit nonce in place, and trailing MAC/padding/tag in place, without
// ever copying the plaintext (spec.md §4.1.3 / §9's "movable start index").
type Record struct {
	Type    ContentType
	Version uint16

	buf   []byte // backing storage, reused across acquisitions from the pool
	start int    // first valid byte of the fragment within buf
	end   int    // one past the last valid byte of the fragment within buf
}

// reset clears type/version and empties the fragment, keeping the backing array.
func (r *Record) reset() {
	r.Type = 0
	r.Version = 0
	r.start = 0
	r.end = 0
}

// Fragment returns the current valid fragment bytes.
func (r *Record) Fragment() []byte {
	return r.buf[r.start:r.end]
}

// Len reports the current fragment length.
func (r *Record) Len() int { return r.end - r.start }

// SetFragment replaces the fragment contents, growing the backing array if needed.
func (r *Record) SetFragment(p []byte) {
	r.growTo(len(p))
	r.start = 0
	r.end = len(p)
	copy(r.buf[:r.end], p)
}

// growTo ensures the backing array can hold at least n bytes starting at 0.
func (r *Record) growTo(n int) {
	if cap(r.buf) >= n {
		return
	}
	nb := make([]byte, n)
	r.buf = nb
}

// ShiftLeft advances the fragment's start by n bytes, discarding a leading IV
// or explicit nonce without copying the remaining bytes.
func (r *Record) ShiftLeft(n int) {
	if n < 0 || r.start+n > r.end {
		panic("tlcp: record shift_left out of range")
	}
	r.start += n
}

// ShiftRight makes room for n bytes before the current fragment, e.g. to
// prepend an IV or explicit nonce in place before encryption.
func (r *Record) ShiftRight(n int) {
	if n < 0 {
		panic("tlcp: record shift_right negative")
	}
	if r.start < n {
		// Not enough headroom: reallocate with the shift applied.
		oldLen := r.Len()
		nb := make([]byte, n+oldLen)
		copy(nb[n:], r.Fragment())
		r.buf = nb
		r.start = 0
		r.end = n + oldLen
		return
	}
	r.start -= n
}

// Resize sets the fragment length to newLen, growing the backing array and
// filling new trailing bytes with fill, or truncating from the tail.
func (r *Record) Resize(newLen int, fill byte) {
	if newLen < 0 {
		panic("tlcp: record resize negative length")
	}
	if r.start+newLen <= cap(r.buf) {
		if newLen > r.Len() {
			for i := r.end; i < r.start+newLen; i++ {
				r.buf[i] = fill
			}
		}
		r.end = r.start + newLen
		return
	}
	nb := make([]byte, r.start+newLen)
	copy(nb, r.buf[:r.end])
	for i := r.end; i < r.start+newLen; i++ {
		nb[i] = fill
	}
	r.buf = nb
	r.end = r.start + newLen
}

// SplitAtMut splits the fragment in place at mid, returning two slices over
// the same backing array: [0,mid) and [mid,len).
func (r *Record) SplitAtMut(mid int) (head, tail []byte) {
	f := r.Fragment()
	if mid < 0 || mid > len(f) {
		panic("tlcp: record split_at_mut out of range")
	}
	return f[:mid], f[mid:]
}

// Header returns the 5-byte record header: type(1) || version(2) || length(2).
func (r *Record) Header() [recordHeaderLen]byte {
	var h [recordHeaderLen]byte
	h[0] = byte(r.Type)
	h[1] = byte(r.Version >> 8)
	h[2] = byte(r.Version)
	h[3] = byte(r.Len() >> 8)
	h[4] = byte(r.Len())
	return h
}
