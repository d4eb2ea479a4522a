package tlcp

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeHandshakeMessage(t *testing.T) {
	body := []byte("some handshake body")
	wire := EncodeHandshakeMessage(HandshakeTypeClientHello, body)
	gotType, gotBody, err := DecodeHandshakeMessage(wire)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if gotType != HandshakeTypeClientHello {
		t.Fatalf("type: got %v", gotType)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body: got %q want %q", gotBody, body)
	}
}

func TestDecodeHandshakeMessageRejectsLengthMismatch(t *testing.T) {
	wire := EncodeHandshakeMessage(HandshakeTypeClientHello, []byte("abc"))
	wire = wire[:len(wire)-1] // truncate body by one byte
	if _, _, err := DecodeHandshakeMessage(wire); err == nil {
		t.Fatalf("expected decode error on truncated message")
	}
}

func TestClientHelloRoundTrip(t *testing.T) {
	ch := &ClientHello{
		Version:            Version,
		CipherSuites:        []CipherSuiteID{SuiteECC_SM4_CBC_SM3, SuiteECC_SM4_GCM_SM3},
		CompressionMethods: []uint8{0},
	}
	for i := range ch.Random {
		ch.Random[i] = byte(i)
	}
	got, err := ParseClientHello(ch.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Version != ch.Version || got.Random != ch.Random {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, ch)
	}
	if len(got.CipherSuites) != 2 || got.CipherSuites[0] != SuiteECC_SM4_CBC_SM3 {
		t.Fatalf("cipher suites round trip: %v", got.CipherSuites)
	}
}

func TestServerHelloRoundTrip(t *testing.T) {
	sh := &ServerHello{
		Version:           Version,
		ChosenSuite:       SuiteECC_SM4_GCM_SM3,
		ChosenCompression: 0,
	}
	for i := range sh.Random {
		sh.Random[i] = byte(255 - i)
	}
	got, err := ParseServerHello(sh.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.ChosenSuite != sh.ChosenSuite || got.Random != sh.Random {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, sh)
	}
}

func TestCertificateRoundTrip(t *testing.T) {
	cert := &Certificate{Certs: [][]byte{[]byte("signing-der"), []byte("enc-der")}}
	got, err := ParseCertificate(cert.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Certs) != 2 || !bytes.Equal(got.Certs[0], cert.Certs[0]) || !bytes.Equal(got.Certs[1], cert.Certs[1]) {
		t.Fatalf("round trip mismatch: %v vs %v", got.Certs, cert.Certs)
	}
}

func TestServerKeyExchangeRoundTrip(t *testing.T) {
	skx := &ServerKeyExchange{Signature: []byte("der-sequence-r-s")}
	got, err := ParseServerKeyExchange(skx.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(got.Signature, skx.Signature) {
		t.Fatalf("signature round trip: %q vs %q", got.Signature, skx.Signature)
	}
}

func TestClientKeyExchangeRoundTrip(t *testing.T) {
	ckx := &ClientKeyExchange{EncryptedPreMaster: []byte("sm2-envelope")}
	got, err := ParseClientKeyExchange(ckx.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(got.EncryptedPreMaster, ckx.EncryptedPreMaster) {
		t.Fatalf("round trip: %q vs %q", got.EncryptedPreMaster, ckx.EncryptedPreMaster)
	}
}

func TestFinishedRoundTrip(t *testing.T) {
	fin := &Finished{}
	for i := range fin.VerifyData {
		fin.VerifyData[i] = byte(i + 1)
	}
	got, err := ParseFinished(fin.Marshal())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.VerifyData != fin.VerifyData {
		t.Fatalf("round trip: %v vs %v", got.VerifyData, fin.VerifyData)
	}
}

func TestParseChangeCipherSpec(t *testing.T) {
	if err := ParseChangeCipherSpec([]byte{ChangeCipherSpecPayload}); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
	if err := ParseChangeCipherSpec([]byte{0x02}); err == nil {
		t.Fatalf("scenario 5: payload 0x02 must be rejected")
	}
}
