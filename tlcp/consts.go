// Package tlcp implements the core of a TLCP (GB/T 38636-2016, version 0x0101)
// client/server engine: the record layer, the handshake state machine and the
// ECC_SM4_CBC_SM3 / ECC_SM4_GCM_SM3 key-agreement subprotocol.
//
// The SM2/SM3/SM4 primitives, the ASN.1/X.509 layer, the connection's random
// source and the byte-duplex carrier are all external collaborators; this
// package consumes them through internal/gmcrypto, the cryptoengine
// interface and a few direct gmsm imports (SM2 key types, smx509
// certificate parsing, the SM3 transcript hash) rather than implementing them.
package tlcp

// Version is the two-byte TLCP protocol version. No negotiation is in scope:
// a peer offering anything else is a fatal ProtocolVersion error.
const Version uint16 = 0x0101

// ContentType identifies the payload carried by a record.
type ContentType uint8

const (
	ContentTypeChangeCipherSpec ContentType = 20
	ContentTypeAlert            ContentType = 21
	ContentTypeHandshake        ContentType = 22
	ContentTypeApplicationData  ContentType = 23
	ContentTypeSite2Site        ContentType = 80
)

func (t ContentType) valid() bool {
	switch t {
	case ContentTypeChangeCipherSpec, ContentTypeAlert, ContentTypeHandshake,
		ContentTypeApplicationData, ContentTypeSite2Site:
		return true
	default:
		return false
	}
}

// HandshakeType identifies a handshake message variant.
type HandshakeType uint8

const (
	HandshakeTypeServerHello       HandshakeType = 2
	HandshakeTypeCertificate       HandshakeType = 11
	HandshakeTypeServerKeyExchange HandshakeType = 12
	HandshakeTypeServerHelloDone   HandshakeType = 14
	HandshakeTypeClientKeyExchange HandshakeType = 16
	HandshakeTypeFinished          HandshakeType = 20
	HandshakeTypeClientHello       HandshakeType = 1
)

// MaxRecordLength is the largest fragment a record may carry, per spec.md §3:
// 2^14 application bytes plus 2048 bytes of protocol expansion headroom.
const MaxRecordLength = 1<<14 + 2048

// recordHeaderLen is the on-wire record header: type(1) || version(2) || length(2).
const recordHeaderLen = 5

// handshakeHeaderLen is the on-wire handshake message header: type(1) || length(3).
const handshakeHeaderLen = 4

// finishedVerifyDataLen is the fixed size of a Finished message body.
const finishedVerifyDataLen = 12

// masterSecretLen is the fixed size of the TLCP master secret.
const masterSecretLen = 48

// preMasterSecretLen is the fixed size of the pre-master secret exchanged under
// the server's SM2 encryption key.
const preMasterSecretLen = 48

// randomLen is the fixed size of the client and server randoms in Hello messages.
const randomLen = 32
