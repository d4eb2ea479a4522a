package tlcp

// ServerHelloDone is spec.md §3's empty-body variant.
type ServerHelloDone struct{}

// Marshal returns the (empty) message body.
func (m *ServerHelloDone) Marshal() []byte { return nil }

// ParseServerHelloDone validates an empty body.
func ParseServerHelloDone(body []byte) (*ServerHelloDone, error) {
	if len(body) != 0 {
		return nil, ErrDecodeError
	}
	return &ServerHelloDone{}, nil
}

// Finished carries the 12-byte Finished verify_data (spec.md §3).
type Finished struct {
	VerifyData [finishedVerifyDataLen]byte
}

// Marshal serializes the message body (header excluded).
func (m *Finished) Marshal() []byte {
	out := make([]byte, finishedVerifyDataLen)
	copy(out, m.VerifyData[:])
	return out
}

// ParseFinished parses a Finished body.
func ParseFinished(body []byte) (*Finished, error) {
	if len(body) != finishedVerifyDataLen {
		return nil, ErrDecodeError
	}
	m := &Finished{}
	copy(m.VerifyData[:], body)
	return m, nil
}

// ChangeCipherSpecPayload is the single-byte ChangeCipherSpec record payload
// (content type 20). Any value other than 1 is a protocol violation
// (spec.md §8 scenario 5: payload [0x02] → UnexpectedMessage).
const ChangeCipherSpecPayload byte = 1

// ParseChangeCipherSpec validates the ChangeCipherSpec record payload.
func ParseChangeCipherSpec(body []byte) error {
	if len(body) != 1 || body[0] != ChangeCipherSpecPayload {
		return ErrUnexpectedMessage
	}
	return nil
}
