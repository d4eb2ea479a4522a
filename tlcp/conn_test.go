package tlcp

import (
	"errors"
	"net"
	"testing"
	"time"

	"github.com/opengm-libs/opengm/cryptoengine"
	"github.com/opengm-libs/opengm/testutil"
)

func newTestEngine(t *testing.T) cryptoengine.Engine {
	t.Helper()
	eng, err := testutil.NewEngine("tlcp-test")
	if err != nil {
		t.Fatalf("build engine: %v", err)
	}
	return eng
}

func handshakePair(t *testing.T, clientCfg, serverCfg Config) (*Conn, *Conn, error, error) {
	t.Helper()
	clientCarrier, serverCarrier := net.Pipe()
	client := Client(clientCarrier, clientCfg)
	server := Server(serverCarrier, serverCfg, newTestEngine(t))

	var clientErr, serverErr error
	done := make(chan struct{}, 2)
	go func() {
		clientErr = client.Handshake()
		done <- struct{}{}
	}()
	go func() {
		serverErr = server.Handshake()
		done <- struct{}{}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("handshake timed out")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("handshake timed out")
	}
	return client, server, clientErr, serverErr
}

func TestHandshakeSucceedsAndExchangesApplicationData(t *testing.T) {
	client, server, clientErr, serverErr := handshakePair(t, Config{}, Config{})
	if clientErr != nil {
		t.Fatalf("client handshake: %v", clientErr)
	}
	if serverErr != nil {
		t.Fatalf("server handshake: %v", serverErr)
	}
	if client.State().CipherSuite != server.State().CipherSuite {
		t.Fatalf("negotiated suite mismatch: client=%04X server=%04X",
			client.State().CipherSuite, server.State().CipherSuite)
	}

	msg := []byte("hello over tlcp")
	writeDone := make(chan error, 1)
	go func() {
		_, err := client.Write(msg)
		writeDone <- err
	}()

	buf := make([]byte, len(msg))
	if _, err := readFull(server, buf); err != nil {
		t.Fatalf("server read: %v", err)
	}
	if err := <-writeDone; err != nil {
		t.Fatalf("client write: %v", err)
	}
	if string(buf) != string(msg) {
		t.Fatalf("round trip mismatch: got %q want %q", buf, msg)
	}
}

func readFull(c *Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestHandshakeNegotiatesGCMWhenOnlyOffered(t *testing.T) {
	cfg := Config{Suites: []CipherSuiteID{SuiteECC_SM4_GCM_SM3}}
	client, server, clientErr, serverErr := handshakePair(t, cfg, cfg)
	if clientErr != nil || serverErr != nil {
		t.Fatalf("handshake failed: client=%v server=%v", clientErr, serverErr)
	}
	if client.State().CipherSuite != SuiteECC_SM4_GCM_SM3 || server.State().CipherSuite != SuiteECC_SM4_GCM_SM3 {
		t.Fatalf("expected GCM suite negotiated, got client=%04X server=%04X",
			client.State().CipherSuite, server.State().CipherSuite)
	}
}

func TestHandshakeFailsOnDisjointCipherSuites(t *testing.T) {
	clientCfg := Config{Suites: []CipherSuiteID{SuiteECC_SM4_CBC_SM3}}
	serverCfg := Config{Suites: []CipherSuiteID{SuiteECC_SM4_GCM_SM3}}
	_, _, clientErr, serverErr := handshakePair(t, clientCfg, serverCfg)
	if clientErr == nil && serverErr == nil {
		t.Fatalf("expected a handshake failure when client/server share no cipher suite")
	}
}

func TestHandshakeClientRejectsWrongServerVersion(t *testing.T) {
	clientCarrier, serverCarrier := net.Pipe()
	client := Client(clientCarrier, Config{})

	done := make(chan error, 1)
	go func() {
		done <- client.Handshake()
	}()

	// Drain the client's ClientHello, then respond with a ServerHello
	// carrying an unsupported version instead of running the real server
	// state machine, exercising spec.md's protocol-version check.
	var header [recordHeaderLen]byte
	if _, err := readFullCarrier(serverCarrier, header[:]); err != nil {
		t.Fatalf("read client hello header: %v", err)
	}
	length := int(header[3])<<8 | int(header[4])
	body := make([]byte, length)
	if _, err := readFullCarrier(serverCarrier, body); err != nil {
		t.Fatalf("read client hello body: %v", err)
	}

	var serverRandom [randomLen]byte
	sh := &ServerHello{Version: 0x0200, ChosenSuite: SuiteECC_SM4_CBC_SM3, Random: serverRandom}
	wire := EncodeHandshakeMessage(HandshakeTypeServerHello, sh.Marshal())
	hdr := [recordHeaderLen]byte{byte(ContentTypeHandshake), byte(Version >> 8), byte(Version), byte(len(wire) >> 8), byte(len(wire))}
	if _, err := serverCarrier.Write(hdr[:]); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := serverCarrier.Write(wire); err != nil {
		t.Fatalf("write body: %v", err)
	}
	// Close immediately: the client's only remaining move is to abort with an
	// alert, and nothing on this side will ever read it.
	serverCarrier.Close()

	select {
	case err := <-done:
		if err == nil {
			t.Fatalf("expected client to reject mismatched server version")
		}
		if !errors.Is(err, ErrProtocolVersion) {
			t.Fatalf("expected ErrProtocolVersion, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("client handshake did not return")
	}
}

func readFullCarrier(c net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
