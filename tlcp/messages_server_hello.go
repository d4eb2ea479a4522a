package tlcp

import "github.com/opengm-libs/opengm/internal/bin"

// ServerHello is spec.md §3's ServerHello variant.
type ServerHello struct {
	Version            uint16
	Random             [randomLen]byte
	SessionID          []byte
	ChosenSuite        CipherSuiteID
	ChosenCompression  uint8
}

// Marshal serializes the message body (header excluded).
func (m *ServerHello) Marshal() []byte {
	size := 2 + randomLen + 1 + len(m.SessionID) + 2 + 1
	out := make([]byte, size)
	off := 0
	bin.PutU16BE(out[off:], m.Version)
	off += 2
	copy(out[off:], m.Random[:])
	off += randomLen
	off += putLenPrefixed8(out[off:], m.SessionID)
	bin.PutU16BE(out[off:off+2], uint16(m.ChosenSuite))
	off += 2
	out[off] = m.ChosenCompression
	off++
	return out[:off]
}

// ParseServerHello parses a ServerHello body.
func ParseServerHello(body []byte) (*ServerHello, error) {
	if len(body) < 2+randomLen {
		return nil, ErrDecodeError
	}
	m := &ServerHello{}
	m.Version = bin.U16BE(body[:2])
	rest := body[2:]
	copy(m.Random[:], rest[:randomLen])
	rest = rest[randomLen:]

	sessionID, rest, err := readLenPrefixed8(rest)
	if err != nil {
		return nil, err
	}
	m.SessionID = sessionID

	if len(rest) != 3 {
		return nil, ErrDecodeError
	}
	m.ChosenSuite = CipherSuiteID(bin.U16BE(rest[:2]))
	m.ChosenCompression = rest[2]
	return m, nil
}
