package tlcp

import "github.com/opengm-libs/opengm/internal/gmcrypto"

// pSM3 implements spec.md §4.5's P_SM3(secret, seed, n):
//
//	A(0) = seed
//	A(i) = HMAC(secret, A(i-1))
//	output = first n bytes of HMAC(secret, A(1)||seed) || HMAC(secret, A(2)||seed) || ...
func pSM3(secret, seed []byte, n int) []byte {
	out := make([]byte, 0, n+32)
	a := seed
	for len(out) < n {
		mac := gmcrypto.NewHMACSM3(secret)
		mac.Write(a)
		a = mac.Sum(nil)

		mac2 := gmcrypto.NewHMACSM3(secret)
		mac2.Write(a)
		mac2.Write(seed)
		out = append(out, mac2.Sum(nil)...)
	}
	return out[:n]
}

// PRF implements spec.md §4.5: PRF(secret, label, seed, n) = P_SM3(secret, label||seed, n).
func PRF(secret, label, seed []byte, n int) []byte {
	combined := make([]byte, 0, len(label)+len(seed))
	combined = append(combined, label...)
	combined = append(combined, seed...)
	return pSM3(secret, combined, n)
}

// MasterSecret derives the 48-byte master secret from the pre-master secret
// and the client/server randoms, per spec.md §4.5.
func MasterSecret(preMaster, clientRandom, serverRandom []byte) []byte {
	seed := make([]byte, 0, len(clientRandom)+len(serverRandom))
	seed = append(seed, clientRandom...)
	seed = append(seed, serverRandom...)
	return PRF(preMaster, []byte("master secret"), seed, masterSecretLen)
}

// KeyBlock holds the six byte-vectors spec.md §3 derives from the master secret.
type KeyBlock struct {
	ClientWriteMACKey []byte
	ServerWriteMACKey []byte
	ClientWriteKey    []byte
	ServerWriteKey    []byte
	ClientWriteIV     []byte
	ServerWriteIV     []byte
}

// DeriveKeyBlock expands the master secret into a KeyBlock sized for suite,
// per spec.md §4.5: PRF(master_secret, "key expansion", server_random||client_random, n),
// split in order client_mac, server_mac, client_key, server_key, client_iv, server_iv.
func DeriveKeyBlock(suite CipherSuite, masterSecret, clientRandom, serverRandom []byte) KeyBlock {
	seed := make([]byte, 0, len(serverRandom)+len(clientRandom))
	seed = append(seed, serverRandom...)
	seed = append(seed, clientRandom...)

	n := 2 * (suite.MACLen + suite.KeyLen + suite.IVLen)
	block := PRF(masterSecret, []byte("key expansion"), seed, n)

	var kb KeyBlock
	off := 0
	take := func(n int) []byte {
		s := block[off : off+n]
		off += n
		return s
	}
	kb.ClientWriteMACKey = take(suite.MACLen)
	kb.ServerWriteMACKey = take(suite.MACLen)
	kb.ClientWriteKey = take(suite.KeyLen)
	kb.ServerWriteKey = take(suite.KeyLen)
	kb.ClientWriteIV = take(suite.IVLen)
	kb.ServerWriteIV = take(suite.IVLen)
	return kb
}

// finishedLabelClient / finishedLabelServer are the PRF labels for Finished
// verify data, per spec.md §4.5.
var (
	finishedLabelClient = []byte("client finished")
	finishedLabelServer = []byte("server finished")
)

// FinishedVerifyData computes the 12-byte Finished verify_data for one side.
func FinishedVerifyData(masterSecret []byte, isClient bool, transcriptHash [32]byte) []byte {
	label := finishedLabelServer
	if isClient {
		label = finishedLabelClient
	}
	return PRF(masterSecret, label, transcriptHash[:], finishedVerifyDataLen)
}
