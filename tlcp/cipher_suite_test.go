package tlcp

import "testing"

func TestCipherSuiteByID(t *testing.T) {
	cbc, ok := CipherSuiteByID(SuiteECC_SM4_CBC_SM3)
	if !ok || cbc.IsAEAD {
		t.Fatalf("expected CBC suite, got %+v ok=%v", cbc, ok)
	}
	gcm, ok := CipherSuiteByID(SuiteECC_SM4_GCM_SM3)
	if !ok || !gcm.IsAEAD {
		t.Fatalf("expected AEAD suite, got %+v ok=%v", gcm, ok)
	}
	if _, ok := CipherSuiteByID(0xFFFF); ok {
		t.Fatalf("unregistered suite id should not resolve")
	}
}

func TestAllCipherSuitesHasECC(t *testing.T) {
	for _, s := range AllCipherSuites() {
		if !s.HasECC() {
			t.Fatalf("suite %04X should use ECC key agreement", uint16(s.ID))
		}
	}
}
