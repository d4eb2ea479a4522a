package tlcp

// Certificate is spec.md §3's Certificate variant: a list of DER certs, each
// u24-length-prefixed. The ECC key agreement in this module expects exactly
// two leaves, [0]=signing, [1]=encryption (spec.md §4.6, §9 open question 4).
type Certificate struct {
	Certs [][]byte
}

// Marshal serializes the message body (header excluded): an outer u24
// length-prefixed list of u24 length-prefixed DER certs.
func (m *Certificate) Marshal() []byte {
	inner := 0
	for _, c := range m.Certs {
		inner += 3 + len(c)
	}
	out := make([]byte, 3+inner)
	putLenPrefixed24(out, concatLenPrefixed24(m.Certs))
	return out
}

func concatLenPrefixed24(certs [][]byte) []byte {
	size := 0
	for _, c := range certs {
		size += 3 + len(c)
	}
	out := make([]byte, size)
	off := 0
	for _, c := range certs {
		off += putLenPrefixed24(out[off:], c)
	}
	return out
}

// ParseCertificate parses a Certificate body.
func ParseCertificate(body []byte) (*Certificate, error) {
	list, rest, err := readLenPrefixed24(body)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrDecodeError
	}
	m := &Certificate{}
	for len(list) > 0 {
		var cert []byte
		cert, list, err = readLenPrefixed24(list)
		if err != nil {
			return nil, err
		}
		m.Certs = append(m.Certs, cert)
	}
	return m, nil
}
