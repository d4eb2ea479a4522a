package tlcp

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/emmansun/gmsm/smx509"

	"github.com/opengm-libs/opengm/internal/gmcrypto"
	"github.com/opengm-libs/opengm/testutil"
)

func TestServerKeyExchangeSignVerifyRoundTrip(t *testing.T) {
	signDER, signKey, err := testutil.GenerateSelfSignedSM2("sign", smx509.KeyUsageDigitalSignature)
	if err != nil {
		t.Fatalf("generate signing cert: %v", err)
	}
	encDER, _, err := testutil.GenerateSelfSignedSM2("enc", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate enc cert: %v", err)
	}

	var clientRandom, serverRandom [randomLen]byte
	clientRandom[0], serverRandom[0] = 0x01, 0x02

	skx, err := BuildServerKeyExchange(signKey, clientRandom, serverRandom, encDER)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := VerifyServerKeyExchange(signDER, encDER, clientRandom, serverRandom, skx); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestServerKeyExchangeRejectsTamperedClientRandom(t *testing.T) {
	signDER, signKey, err := testutil.GenerateSelfSignedSM2("sign", smx509.KeyUsageDigitalSignature)
	if err != nil {
		t.Fatalf("generate signing cert: %v", err)
	}
	encDER, _, err := testutil.GenerateSelfSignedSM2("enc", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate enc cert: %v", err)
	}

	var clientRandom, serverRandom [randomLen]byte
	skx, err := BuildServerKeyExchange(signKey, clientRandom, serverRandom, encDER)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	clientRandom[0] ^= 0xFF
	if err := VerifyServerKeyExchange(signDER, encDER, clientRandom, serverRandom, skx); err == nil {
		t.Fatalf("expected verify failure on tampered client random")
	}
}

func TestServerKeyExchangeRejectsTamperedEncCert(t *testing.T) {
	signDER, signKey, err := testutil.GenerateSelfSignedSM2("sign", smx509.KeyUsageDigitalSignature)
	if err != nil {
		t.Fatalf("generate signing cert: %v", err)
	}
	encDER, _, err := testutil.GenerateSelfSignedSM2("enc", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate enc cert: %v", err)
	}
	other, _, err := testutil.GenerateSelfSignedSM2("other", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate other cert: %v", err)
	}

	var clientRandom, serverRandom [randomLen]byte
	skx, err := BuildServerKeyExchange(signKey, clientRandom, serverRandom, encDER)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := VerifyServerKeyExchange(signDER, other, clientRandom, serverRandom, skx); err == nil {
		t.Fatalf("expected verify failure when enc cert doesn't match what was signed")
	}
}

func TestBuildPreMasterVersionPrefix(t *testing.T) {
	pm, err := BuildPreMaster(rand.Reader, Version)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if pm[0] != byte(Version>>8) || pm[1] != byte(Version) {
		t.Fatalf("expected version prefix %04X, got %02X%02X", Version, pm[0], pm[1])
	}
	if len(pm) != preMasterSecretLen {
		t.Fatalf("premaster length: got %d want %d", len(pm), preMasterSecretLen)
	}
}

func TestClientKeyExchangeEncryptDecryptRoundTrip(t *testing.T) {
	_, _, err := testutil.GenerateSelfSignedSM2("enc", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	_, encKey, err := testutil.GenerateSelfSignedSM2("enc2", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	pm, err := BuildPreMaster(rand.Reader, Version)
	if err != nil {
		t.Fatalf("build premaster: %v", err)
	}

	ckx, err := BuildClientKeyExchange(&encKey.PublicKey, pm)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	got, err := DecryptClientKeyExchange(encKey, ckx)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(got[:], pm[:]) {
		t.Fatalf("premaster round trip mismatch")
	}
}

func TestDecryptClientKeyExchangeRejectsWrongLength(t *testing.T) {
	_, encKey, err := testutil.GenerateSelfSignedSM2("enc3", smx509.KeyUsageKeyEncipherment)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	bogus, err := gmcrypto.EncryptASN1(&encKey.PublicKey, []byte("too short"))
	if err != nil {
		t.Fatalf("encrypt bogus: %v", err)
	}
	if _, err := DecryptClientKeyExchange(encKey, &ClientKeyExchange{EncryptedPreMaster: bogus}); err == nil {
		t.Fatalf("expected error decrypting a non-48-byte premaster")
	}
}
