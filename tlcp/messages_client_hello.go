package tlcp

import "github.com/opengm-libs/opengm/internal/bin"

// ClientHello is spec.md §3's ClientHello variant.
type ClientHello struct {
	Version            uint16
	Random             [randomLen]byte
	SessionID          []byte // length-prefixed, <= 32 bytes
	CipherSuites       []CipherSuiteID
	CompressionMethods []uint8
}

// Marshal serializes the message body (header excluded).
func (m *ClientHello) Marshal() []byte {
	size := 2 + randomLen + 1 + len(m.SessionID) + 2 + 2*len(m.CipherSuites) + 1 + len(m.CompressionMethods)
	out := make([]byte, size)
	off := 0
	bin.PutU16BE(out[off:], m.Version)
	off += 2
	copy(out[off:], m.Random[:])
	off += randomLen
	off += putLenPrefixed8(out[off:], m.SessionID)

	bin.PutU16BE(out[off:off+2], uint16(2*len(m.CipherSuites)))
	off += 2
	for _, cs := range m.CipherSuites {
		bin.PutU16BE(out[off:off+2], uint16(cs))
		off += 2
	}

	out[off] = byte(len(m.CompressionMethods))
	off++
	copy(out[off:], m.CompressionMethods)
	off += len(m.CompressionMethods)
	return out[:off]
}

// ParseClientHello parses a ClientHello body without copying sub-slices.
func ParseClientHello(body []byte) (*ClientHello, error) {
	if len(body) < 2+randomLen {
		return nil, ErrDecodeError
	}
	m := &ClientHello{}
	m.Version = bin.U16BE(body[:2])
	rest := body[2:]
	copy(m.Random[:], rest[:randomLen])
	rest = rest[randomLen:]

	sessionID, rest, err := readLenPrefixed8(rest)
	if err != nil {
		return nil, err
	}
	if len(sessionID) > 32 {
		return nil, ErrDecodeError
	}
	m.SessionID = sessionID

	suiteBytes, rest, err := readLenPrefixed16(rest)
	if err != nil {
		return nil, err
	}
	if len(suiteBytes)%2 != 0 {
		return nil, ErrDecodeError
	}
	m.CipherSuites = make([]CipherSuiteID, 0, len(suiteBytes)/2)
	for i := 0; i < len(suiteBytes); i += 2 {
		m.CipherSuites = append(m.CipherSuites, CipherSuiteID(bin.U16BE(suiteBytes[i:i+2])))
	}

	compression, rest, err := readLenPrefixed8(rest)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrDecodeError
	}
	m.CompressionMethods = compression
	return m, nil
}
