package tlcp

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/opengm-libs/opengm/cryptoengine"
)

// Conn is the connection façade from spec.md §2/§3: sequence numbers and
// per-direction framing layered over a byte-duplex carrier. It implements
// net.Conn so it drops into ordinary networking code once the handshake
// completes (spec.md §12.4 in SPEC_FULL.md).
//
// Per spec.md §5, a Conn is single-threaded and synchronous: every method is
// a blocking call on the underlying carrier, and the cryptographic core never
// yields internally. Concurrent use of Read and Write from different
// goroutines is safe (they touch independent halves); concurrent Reads with
// each other, or concurrent Writes with each other, are not.
type Conn struct {
	carrier  io.ReadWriteCloser
	isClient bool
	config   Config
	engine   cryptoengine.Engine // server role only

	mu sync.Mutex // serializes Handshake against itself; Read/Write are the caller's responsibility per spec.md §5

	version uint16
	suite   CipherSuite

	readSeq  uint64
	writeSeq uint64
	input    *HalfConn
	output   *HalfConn

	pool *RecordPool

	handshakeComplete bool
	handshakeErr      error

	readBuf []byte // leftover decrypted application data not yet delivered to Read

	clientRandom [randomLen]byte
	serverRandom [randomLen]byte
	masterSecret []byte
	transcript   *FinishedHash
}

func newConn(carrier io.ReadWriteCloser, isClient bool, config Config) *Conn {
	rng := config.rand()
	return &Conn{
		carrier:    carrier,
		isClient:   isClient,
		config:     config,
		version:    Version,
		input:      NewHalfConn(true, rng),
		output:     NewHalfConn(false, rng),
		pool:       NewRecordPool(),
		transcript: NewFinishedHash(),
	}
}

// Client wraps carrier as a TLCP client-role connection. No handshake I/O
// happens until Handshake is called.
func Client(carrier io.ReadWriteCloser, config Config) *Conn {
	return newConn(carrier, true, config)
}

// Server wraps carrier as a TLCP server-role connection, backed by engine
// for its certificate chain and private keys (spec.md §6).
func Server(carrier io.ReadWriteCloser, config Config, engine cryptoengine.Engine) *Conn {
	c := newConn(carrier, false, config)
	c.engine = engine
	return c
}

// Handshake runs the client or server state machine (spec.md §4.7) to
// completion, or returns the first error encountered — having already sent
// the corresponding alert to the peer where the protocol is far enough along
// to do so. It is idempotent: a second call after success is a no-op.
func (c *Conn) Handshake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handshakeComplete {
		return nil
	}
	if c.handshakeErr != nil {
		return c.handshakeErr
	}

	var err error
	if c.isClient {
		err = c.clientHandshake()
	} else {
		err = c.serverHandshake()
	}
	if err != nil {
		var alert Alert
		if !errors.As(err, &alert) {
			c.sendAlert(AlertForError(err))
		}
		c.handshakeErr = err
		return err
	}
	c.handshakeComplete = true
	return nil
}

func (c *Conn) randomBytes() ([randomLen]byte, error) {
	var r [randomLen]byte
	if _, err := io.ReadFull(c.config.rand(), r[:]); err != nil {
		return r, wrap(StageHandshake, AlertInternalError, err)
	}
	return r, nil
}

// maxPayloadForWrite bounds a single chunk so the fragment after crypto
// expansion never exceeds MaxRecordLength (spec.md §4.1 write path step 1).
func (c *Conn) maxPayloadForWrite() int {
	overhead := 0
	if c.output.IsActive() {
		if c.suite.IsAEAD {
			overhead = explicitNonceLen + gcmTagLen
		} else {
			overhead = blockSize + c.suite.MACLen + blockSize // IV + MAC + worst-case full pad block
		}
	}
	return MaxRecordLength - overhead
}

// writeRecord frames payload into one or more records of ctype and emits
// them to the carrier (spec.md §4.1 write path).
func (c *Conn) writeRecord(ctype ContentType, payload []byte) error {
	max := c.maxPayloadForWrite()
	if len(payload) == 0 {
		return c.writeOneRecord(ctype, nil)
	}
	for len(payload) > 0 {
		n := len(payload)
		if n > max {
			n = max
		}
		if err := c.writeOneRecord(ctype, payload[:n]); err != nil {
			return err
		}
		payload = payload[n:]
	}
	return nil
}

func (c *Conn) writeOneRecord(ctype ContentType, chunk []byte) error {
	r := c.pool.Get()
	defer c.pool.Put(r)

	if err := c.output.WriteCrypt(r, c.writeSeq, ctype, c.version, chunk); err != nil {
		return err
	}
	header := r.Header()
	if _, err := c.carrier.Write(header[:]); err != nil {
		return wrap(StageConn, AlertInternalError, err)
	}
	if _, err := c.carrier.Write(r.Fragment()); err != nil {
		return wrap(StageConn, AlertInternalError, err)
	}
	if c.writeSeq == ^uint64(0) {
		return wrap(StageConn, AlertInternalError, ErrSequenceNumberExhausted)
	}
	c.writeSeq++
	return nil
}

// readRecord reads, authenticates and decrypts exactly one record
// (spec.md §4.1 read path). The returned Record must be released via
// c.pool.Put by the caller.
func (c *Conn) readRecord() (*Record, error) {
	var header [recordHeaderLen]byte
	if _, err := io.ReadFull(c.carrier, header[:]); err != nil {
		return nil, wrap(StageConn, AlertInternalError, err)
	}
	ctype := ContentType(header[0])
	if !ctype.valid() {
		return nil, wrap(StageRecord, AlertUnexpectedMessage, ErrUnexpectedMessage)
	}
	version := uint16(header[1])<<8 | uint16(header[2])
	length := int(header[3])<<8 | int(header[4])
	if length > MaxRecordLength {
		return nil, wrap(StageRecord, AlertRecordOverflow, ErrRecordOverflow)
	}

	r := c.pool.Get()
	r.Type = ctype
	r.Version = version
	r.SetFragment(make([]byte, length))
	if _, err := io.ReadFull(c.carrier, r.Fragment()); err != nil {
		c.pool.Put(r)
		return nil, wrap(StageConn, AlertInternalError, err)
	}

	if err := c.input.ReadCrypt(c.readSeq, r); err != nil {
		c.pool.Put(r)
		return nil, err
	}
	if c.readSeq == ^uint64(0) {
		c.pool.Put(r)
		return nil, wrap(StageConn, AlertInternalError, ErrSequenceNumberExhausted)
	}
	c.readSeq++

	if r.Type == ContentTypeAlert {
		a, err := ParseAlert(r.Fragment())
		c.pool.Put(r)
		if err != nil {
			return nil, wrap(StageRecord, AlertDecodeError, err)
		}
		return nil, a
	}
	return r, nil
}

// sendAlert best-effort writes a fatal (or warning) alert, ignoring any write
// error, per spec.md §7's propagation policy.
func (c *Conn) sendAlert(desc AlertDescription) {
	a := Alert{Level: desc.Level(), Description: desc}
	_ = c.writeRecord(ContentTypeAlert, a.Marshal())
}

// abortWithAlert sends the alert the error taxonomy maps err to, then
// returns err for the caller to propagate.
func (c *Conn) abortWithAlert(err error) error {
	c.sendAlert(AlertForError(err))
	return err
}

// writeHandshakeMessage wraps body with its header, feeds the wire bytes into
// the transcript hash in protocol order, and writes it as a Handshake record.
func (c *Conn) writeHandshakeMessage(t HandshakeType, body []byte) error {
	wire := EncodeHandshakeMessage(t, body)
	c.transcript.Write(wire)
	return c.writeRecord(ContentTypeHandshake, wire)
}

// readHandshakeMessage reads the next Handshake record, verifies its message
// type, feeds its wire bytes into the transcript, and returns the body.
func (c *Conn) readHandshakeMessage(want HandshakeType) ([]byte, error) {
	r, err := c.readRecord()
	if err != nil {
		return nil, err
	}
	defer c.pool.Put(r)
	if r.Type != ContentTypeHandshake {
		return nil, wrap(StageHandshake, AlertUnexpectedMessage, ErrUnexpectedMessage)
	}
	wire := append([]byte(nil), r.Fragment()...)
	t, body, err := DecodeHandshakeMessage(wire)
	if err != nil {
		return nil, wrap(StageHandshake, AlertDecodeError, err)
	}
	if t != want {
		return nil, wrap(StageHandshake, AlertUnexpectedMessage, ErrUnexpectedMessage)
	}
	c.transcript.Write(wire)
	return body, nil
}

// readChangeCipherSpec reads and validates a ChangeCipherSpec record
// (spec.md §8 scenario 5: a payload other than [0x01] is UnexpectedMessage).
func (c *Conn) readChangeCipherSpec() error {
	r, err := c.readRecord()
	if err != nil {
		return err
	}
	defer c.pool.Put(r)
	if r.Type != ContentTypeChangeCipherSpec {
		return wrap(StageHandshake, AlertUnexpectedMessage, ErrUnexpectedMessage)
	}
	if err := ParseChangeCipherSpec(r.Fragment()); err != nil {
		return wrap(StageHandshake, AlertUnexpectedMessage, err)
	}
	return nil
}

func (c *Conn) writeChangeCipherSpec() error {
	return c.writeRecord(ContentTypeChangeCipherSpec, []byte{ChangeCipherSpecPayload})
}

// Read implements net.Conn. It blocks until at least one byte of application
// data is available, decrypting additional records as needed.
func (c *Conn) Read(p []byte) (int, error) {
	for len(c.readBuf) == 0 {
		r, err := c.readRecord()
		if err != nil {
			var alert Alert
			if errors.As(err, &alert) && alert.Description == AlertCloseNotify {
				return 0, io.EOF
			}
			return 0, err
		}
		if r.Type != ContentTypeApplicationData {
			c.pool.Put(r)
			continue
		}
		c.readBuf = append(c.readBuf, r.Fragment()...)
		c.pool.Put(r)
	}
	n := copy(p, c.readBuf)
	c.readBuf = c.readBuf[n:]
	return n, nil
}

// Write implements net.Conn, fragmenting p across one or more ApplicationData records.
func (c *Conn) Write(p []byte) (int, error) {
	if err := c.writeRecord(ContentTypeApplicationData, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close sends a CloseNotify alert and closes the carrier.
func (c *Conn) Close() error {
	if c.handshakeComplete {
		c.sendAlert(AlertCloseNotify)
	}
	return c.carrier.Close()
}

type dummyAddr string

func (d dummyAddr) Network() string { return string(d) }
func (d dummyAddr) String() string  { return string(d) }

func (c *Conn) LocalAddr() net.Addr  { return dummyAddr("tlcp-local") }
func (c *Conn) RemoteAddr() net.Addr { return dummyAddr("tlcp-remote") }

// Deadlines are delegated to the carrier when it supports them; otherwise
// they are a no-op, matching spec.md §5's "suspension points are only the
// carrier's read/write".
func (c *Conn) SetDeadline(t time.Time) error {
	if d, ok := c.carrier.(interface{ SetDeadline(time.Time) error }); ok {
		return d.SetDeadline(t)
	}
	return nil
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	if d, ok := c.carrier.(interface{ SetReadDeadline(time.Time) error }); ok {
		return d.SetReadDeadline(t)
	}
	return nil
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	if d, ok := c.carrier.(interface{ SetWriteDeadline(time.Time) error }); ok {
		return d.SetWriteDeadline(t)
	}
	return nil
}

// ConnectionState reports the negotiated parameters after a successful handshake.
type ConnectionState struct {
	Version     uint16
	CipherSuite CipherSuiteID
}

// State returns the negotiated connection parameters. It is only meaningful
// after Handshake has returned successfully.
func (c *Conn) State() ConnectionState {
	return ConnectionState{Version: c.version, CipherSuite: c.suite.ID}
}
