// Package session multiplexes independent byte streams over one established
// tlcp.Conn, the way flowersec-go/mux/yamux layers yamux over an encrypted
// transport. A TLCP connection carries exactly one ordered byte stream by
// itself (spec.md §5); yamux turns that single stream into many.
package session

import (
	"net"

	"github.com/hashicorp/yamux"

	"github.com/opengm-libs/opengm/tlcp"
)

// Session is a yamux session running over a handshaken TLCP connection.
type Session struct {
	*yamux.Session
}

// NewClient completes conn's client handshake, then opens a yamux client
// session over it.
func NewClient(conn *tlcp.Conn, cfg *yamux.Config) (*Session, error) {
	if err := conn.Handshake(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = yamux.DefaultConfig()
	}
	s, err := yamux.Client(conn, cfg)
	if err != nil {
		return nil, err
	}
	return &Session{Session: s}, nil
}

// NewServer completes conn's server handshake, then opens a yamux server
// session over it.
func NewServer(conn *tlcp.Conn, cfg *yamux.Config) (*Session, error) {
	if err := conn.Handshake(); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = yamux.DefaultConfig()
	}
	s, err := yamux.Server(conn, cfg)
	if err != nil {
		return nil, err
	}
	return &Session{Session: s}, nil
}

// OpenStream opens a new logical stream within the session.
func (s *Session) OpenStream() (net.Conn, error) {
	return s.Open()
}

// AcceptStream accepts the next logical stream opened by the peer.
func (s *Session) AcceptStream() (net.Conn, error) {
	return s.Accept()
}
