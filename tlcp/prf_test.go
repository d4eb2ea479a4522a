package tlcp

import (
	"bytes"
	"testing"
)

// TestPRFKnownVector pins PRF against the fixed vector named in the test
// plan: secret/label/seed all four 0x01 bytes, n=12.
func TestPRFKnownVector(t *testing.T) {
	secret := []byte{0x01, 0x01, 0x01, 0x01}
	label := []byte{0x01, 0x01, 0x01, 0x01}
	seed := []byte{0x01, 0x01, 0x01, 0x01}
	want := []byte{0x33, 0x23, 0xfa, 0x66, 0x6a, 0x90, 0x32, 0x5b, 0xc1, 0xb5, 0x51, 0x98}

	got := PRF(secret, label, seed, 12)
	if !bytes.Equal(got, want) {
		t.Fatalf("PRF mismatch:\n got  %x\n want %x", got, want)
	}
}

func TestPRFDeterministicAndLengthRespected(t *testing.T) {
	a := PRF([]byte("secret"), []byte("label"), []byte("seed"), 48)
	b := PRF([]byte("secret"), []byte("label"), []byte("seed"), 48)
	if !bytes.Equal(a, b) {
		t.Fatalf("PRF not deterministic")
	}
	if len(a) != 48 {
		t.Fatalf("PRF length: got %d want 48", len(a))
	}
}

func TestMasterSecretAndKeyBlockLengths(t *testing.T) {
	preMaster := make([]byte, preMasterSecretLen)
	clientRandom := make([]byte, randomLen)
	serverRandom := make([]byte, randomLen)
	for i := range preMaster {
		preMaster[i] = byte(i)
	}
	ms := MasterSecret(preMaster, clientRandom, serverRandom)
	if len(ms) != masterSecretLen {
		t.Fatalf("master secret length: got %d want %d", len(ms), masterSecretLen)
	}

	suite, _ := CipherSuiteByID(SuiteECC_SM4_CBC_SM3)
	kb := DeriveKeyBlock(suite, ms, clientRandom, serverRandom)
	if len(kb.ClientWriteMACKey) != suite.MACLen || len(kb.ServerWriteMACKey) != suite.MACLen {
		t.Fatalf("mac key length mismatch")
	}
	if len(kb.ClientWriteKey) != suite.KeyLen || len(kb.ServerWriteKey) != suite.KeyLen {
		t.Fatalf("enc key length mismatch")
	}
	if len(kb.ClientWriteIV) != suite.IVLen || len(kb.ServerWriteIV) != suite.IVLen {
		t.Fatalf("iv length mismatch")
	}
	if bytes.Equal(kb.ClientWriteMACKey, kb.ServerWriteMACKey) {
		t.Fatalf("client/server mac keys must differ")
	}
}

func TestFinishedVerifyDataDiffersByRole(t *testing.T) {
	ms := bytes.Repeat([]byte{0x42}, masterSecretLen)
	var transcript [32]byte
	for i := range transcript {
		transcript[i] = byte(i)
	}
	client := FinishedVerifyData(ms, true, transcript)
	server := FinishedVerifyData(ms, false, transcript)
	if bytes.Equal(client, server) {
		t.Fatalf("client and server finished verify_data must differ")
	}
	if len(client) != finishedVerifyDataLen || len(server) != finishedVerifyDataLen {
		t.Fatalf("verify_data length mismatch")
	}
}
