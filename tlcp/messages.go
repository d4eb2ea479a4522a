package tlcp

import "github.com/opengm-libs/opengm/internal/bin"

// EncodeHandshakeMessage wraps a message body with the 4-byte handshake
// header: type(1) || length(3), per spec.md §3/§6.
func EncodeHandshakeMessage(t HandshakeType, body []byte) []byte {
	out := make([]byte, handshakeHeaderLen+len(body))
	out[0] = byte(t)
	bin.PutU24BE(out[1:4], uint32(len(body)))
	copy(out[4:], body)
	return out
}

// DecodeHandshakeMessage validates and splits a single complete handshake
// message (spec.md §6: "A record may carry at most one complete handshake
// message body").
func DecodeHandshakeMessage(frame []byte) (t HandshakeType, body []byte, err error) {
	if len(frame) < handshakeHeaderLen {
		return 0, nil, ErrDecodeError
	}
	t = HandshakeType(frame[0])
	n := bin.U24BE(frame[1:4])
	if handshakeHeaderLen+int(n) != len(frame) {
		return 0, nil, ErrDecodeError
	}
	return t, frame[4:], nil
}

// readLenPrefixed8 reads a u8-length-prefixed substring, returning the
// substring and the remainder. It never copies: the returned slice
// references b directly (spec.md §4.4's "parse without copying").
func readLenPrefixed8(b []byte) (field, rest []byte, err error) {
	if len(b) < 1 {
		return nil, nil, ErrDecodeError
	}
	n := int(b[0])
	if len(b) < 1+n {
		return nil, nil, ErrDecodeError
	}
	return b[1 : 1+n], b[1+n:], nil
}

// readLenPrefixed16 reads a u16-length-prefixed substring.
func readLenPrefixed16(b []byte) (field, rest []byte, err error) {
	if len(b) < 2 {
		return nil, nil, ErrDecodeError
	}
	n := int(bin.U16BE(b[:2]))
	if len(b) < 2+n {
		return nil, nil, ErrDecodeError
	}
	return b[2 : 2+n], b[2+n:], nil
}

// readLenPrefixed24 reads a u24-length-prefixed substring.
func readLenPrefixed24(b []byte) (field, rest []byte, err error) {
	if len(b) < 3 {
		return nil, nil, ErrDecodeError
	}
	n := int(bin.U24BE(b[:3]))
	if len(b) < 3+n {
		return nil, nil, ErrDecodeError
	}
	return b[3 : 3+n], b[3+n:], nil
}

func putLenPrefixed8(dst []byte, field []byte) int {
	dst[0] = byte(len(field))
	copy(dst[1:], field)
	return 1 + len(field)
}

func putLenPrefixed16(dst []byte, field []byte) int {
	bin.PutU16BE(dst[:2], uint16(len(field)))
	copy(dst[2:], field)
	return 2 + len(field)
}

func putLenPrefixed24(dst []byte, field []byte) int {
	bin.PutU24BE(dst[:3], uint32(len(field)))
	copy(dst[3:], field)
	return 3 + len(field)
}
