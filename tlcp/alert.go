package tlcp

import (
	"errors"
	"fmt"
)

// AlertLevel is the severity of an Alert record, per spec.md §6.
type AlertLevel uint8

const (
	AlertLevelWarning AlertLevel = 1
	AlertLevelFatal   AlertLevel = 2
)

// AlertDescription is a stable, wire-level alert code. Values mirror the
// standard TLS alert registry named in spec.md §6.
type AlertDescription uint8

const (
	AlertCloseNotify            AlertDescription = 0
	AlertUnexpectedMessage      AlertDescription = 10
	AlertBadRecordMAC           AlertDescription = 20
	AlertDecryptionFailed       AlertDescription = 21
	AlertRecordOverflow         AlertDescription = 22
	AlertDecompressionFailure   AlertDescription = 30
	AlertHandshakeFailure       AlertDescription = 40
	AlertBadCertificate         AlertDescription = 42
	AlertUnsupportedCertificate AlertDescription = 43
	AlertCertificateRevoked     AlertDescription = 44
	AlertCertificateExpired     AlertDescription = 45
	AlertCertificateUnknown     AlertDescription = 46
	AlertIllegalParameter       AlertDescription = 47
	AlertUnknownCA              AlertDescription = 48
	AlertAccessDenied           AlertDescription = 49
	AlertDecodeError            AlertDescription = 50
	AlertDecryptError           AlertDescription = 51
	AlertProtocolVersion        AlertDescription = 70
	AlertInsufficientSecurity   AlertDescription = 71
	AlertNoRenegotiation        AlertDescription = 100
	AlertInternalError          AlertDescription = 80
)

// Level returns the level an outgoing alert of this description should carry.
// Only CloseNotify and NoRenegotiation are Warning; everything else is Fatal
// (spec.md §9, open question 3 — fixed here, not configurable).
func (d AlertDescription) Level() AlertLevel {
	switch d {
	case AlertCloseNotify, AlertNoRenegotiation:
		return AlertLevelWarning
	default:
		return AlertLevelFatal
	}
}

// Alert is the 2-byte payload of an Alert record.
type Alert struct {
	Level       AlertLevel
	Description AlertDescription
}

// Marshal encodes the alert as its 2-byte wire payload.
func (a Alert) Marshal() []byte {
	return []byte{byte(a.Level), byte(a.Description)}
}

// ParseAlert decodes a 2-byte Alert payload.
func ParseAlert(b []byte) (Alert, error) {
	if len(b) != 2 {
		return Alert{}, ErrDecodeError
	}
	return Alert{Level: AlertLevel(b[0]), Description: AlertDescription(b[1])}, nil
}

func (a Alert) Error() string {
	level := "fatal"
	if a.Level == AlertLevelWarning {
		level = "warning"
	}
	return fmt.Sprintf("tlcp: %s alert %d", level, a.Description)
}

// Stage identifies which part of the engine produced an error, for classification
// and logging — mirrors fserrors.Stage in the teacher repository.
type Stage string

const (
	StageRecord    Stage = "record"
	StageHandshake Stage = "handshake"
	StageKeyAgree  Stage = "key_agreement"
	StageCert      Stage = "certificate"
	StageConn      Stage = "conn"
)

// Error wraps an underlying error with the stage it occurred in and the alert
// description that should be sent to the peer because of it.
type Error struct {
	Stage Stage
	Alert AlertDescription
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("tlcp: %s: alert %d: %v", e.Stage, e.Alert, e.Err)
	}
	return fmt.Sprintf("tlcp: %s: alert %d", e.Stage, e.Alert)
}

func (e *Error) Unwrap() error { return e.Err }

// wrap builds an *Error that will be surfaced to the caller and sent as a
// fatal (or warning, for CloseNotify) alert to the peer.
func wrap(stage Stage, alert AlertDescription, err error) error {
	return &Error{Stage: stage, Alert: alert, Err: err}
}

// Sentinel errors for the cryptographic-auth and protocol-violation kinds
// named in spec.md §7. Each one is mapped to a specific alert by the driver
// that raises it — never by branching on its message.
var (
	ErrBadRecordMAC               = errors.New("tlcp: bad record mac")
	ErrDecryptError               = errors.New("tlcp: aead authentication failed")
	ErrRecordOverflow             = errors.New("tlcp: record overflow")
	ErrUnexpectedMessage          = errors.New("tlcp: unexpected message")
	ErrDecodeError                = errors.New("tlcp: decode error")
	ErrProtocolVersion            = errors.New("tlcp: protocol version mismatch")
	ErrHandshakeFailure           = errors.New("tlcp: handshake failure")
	ErrVerifyServerKeyExchange    = errors.New("tlcp: server key exchange verification failed")
	ErrDecodeSM2PublicFailure     = errors.New("tlcp: failed to decode sm2 public key from certificate")
	ErrInternalError              = errors.New("tlcp: internal error")
	ErrSequenceNumberExhausted    = errors.New("tlcp: sequence number exhausted")
	ErrNoCommonCipherSuite        = errors.New("tlcp: no common cipher suite")
	ErrNoKeyAgreementAvailable    = errors.New("tlcp: no key agreement available")
	ErrChangeCipherSpecNoPending  = errors.New("tlcp: change_cipher_spec with no pending spec")
	ErrChangeCipherSpecBadPayload = errors.New("tlcp: malformed change_cipher_spec payload")
	ErrCertificateChainLength    = errors.New("tlcp: certificate message must carry exactly [sign, enc]")
	ErrFinishedMismatch          = errors.New("tlcp: finished verify_data mismatch")
)

// AlertForError maps a sentinel or wrapped error to the alert description
// that should be sent to the peer, implementing the taxonomy in spec.md §7.
func AlertForError(err error) AlertDescription {
	var e *Error
	if errors.As(err, &e) {
		return e.Alert
	}
	switch {
	case errors.Is(err, ErrBadRecordMAC):
		return AlertBadRecordMAC
	case errors.Is(err, ErrDecryptError):
		return AlertDecryptError
	case errors.Is(err, ErrRecordOverflow):
		return AlertRecordOverflow
	case errors.Is(err, ErrUnexpectedMessage), errors.Is(err, ErrChangeCipherSpecBadPayload):
		return AlertUnexpectedMessage
	case errors.Is(err, ErrDecodeError), errors.Is(err, ErrDecodeSM2PublicFailure):
		return AlertDecodeError
	case errors.Is(err, ErrProtocolVersion):
		return AlertProtocolVersion
	case errors.Is(err, ErrCertificateChainLength):
		return AlertBadCertificate
	case errors.Is(err, ErrVerifyServerKeyExchange), errors.Is(err, ErrHandshakeFailure),
		errors.Is(err, ErrNoCommonCipherSuite), errors.Is(err, ErrNoKeyAgreementAvailable),
		errors.Is(err, ErrFinishedMismatch):
		return AlertHandshakeFailure
	case errors.Is(err, ErrInternalError), errors.Is(err, ErrChangeCipherSpecNoPending),
		errors.Is(err, ErrSequenceNumberExhausted):
		return AlertInternalError
	default:
		return AlertInternalError
	}
}
