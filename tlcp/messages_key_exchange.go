package tlcp

// ServerKeyExchange carries a u16-length-prefixed DER SM2 signature
// SEQUENCE{r,s} over the transcript described in spec.md §4.6.
type ServerKeyExchange struct {
	Signature []byte // DER SEQUENCE{r INTEGER, s INTEGER}
}

// Marshal serializes the message body (header excluded).
func (m *ServerKeyExchange) Marshal() []byte {
	out := make([]byte, 2+len(m.Signature))
	putLenPrefixed16(out, m.Signature)
	return out
}

// ParseServerKeyExchange parses a ServerKeyExchange body.
func ParseServerKeyExchange(body []byte) (*ServerKeyExchange, error) {
	sig, rest, err := readLenPrefixed16(body)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrDecodeError
	}
	return &ServerKeyExchange{Signature: sig}, nil
}

// ClientKeyExchange carries a u16-length-prefixed ASN.1 SM2 cipher envelope
// encoding the pre-master secret (spec.md §4.6).
type ClientKeyExchange struct {
	EncryptedPreMaster []byte
}

// Marshal serializes the message body (header excluded).
func (m *ClientKeyExchange) Marshal() []byte {
	out := make([]byte, 2+len(m.EncryptedPreMaster))
	putLenPrefixed16(out, m.EncryptedPreMaster)
	return out
}

// ParseClientKeyExchange parses a ClientKeyExchange body.
func ParseClientKeyExchange(body []byte) (*ClientKeyExchange, error) {
	ct, rest, err := readLenPrefixed16(body)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrDecodeError
	}
	return &ClientKeyExchange{EncryptedPreMaster: ct}, nil
}
