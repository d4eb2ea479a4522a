// Package transport adapts a byte-duplex carrier — the thing spec.md §5
// calls "a TCP stream or equivalent" — onto gorilla/websocket, so a tlcp.Conn
// can run over a websocket connection exactly as it would over net.Conn.
package transport

import (
	"io"
	"net/http"

	"github.com/gorilla/websocket"
)

// WSCarrier implements io.ReadWriteCloser over a single gorilla/websocket
// connection, framing each Write as one binary message and presenting Reads
// as a flat byte stream spanning however many binary messages it takes.
type WSCarrier struct {
	ws      *websocket.Conn
	readBuf []byte
}

// DialWS opens a websocket connection and wraps it as a carrier.
func DialWS(urlStr string, header http.Header) (*WSCarrier, error) {
	ws, _, err := websocket.DefaultDialer.Dial(urlStr, header)
	if err != nil {
		return nil, err
	}
	return &WSCarrier{ws: ws}, nil
}

// UpgradeWS upgrades an inbound HTTP request to a websocket connection and
// wraps it as a carrier.
func UpgradeWS(w http.ResponseWriter, r *http.Request, checkOrigin func(*http.Request) bool) (*WSCarrier, error) {
	up := websocket.Upgrader{CheckOrigin: checkOrigin}
	ws, err := up.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &WSCarrier{ws: ws}, nil
}

// Read implements io.Reader, pulling another websocket message once the
// buffered one is exhausted.
func (c *WSCarrier) Read(p []byte) (int, error) {
	for len(c.readBuf) == 0 {
		_, msg, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return 0, io.EOF
			}
			return 0, err
		}
		c.readBuf = msg
	}
	n := copy(p, c.readBuf)
	c.readBuf = c.readBuf[n:]
	return n, nil
}

// Write implements io.Writer as a single binary websocket message.
func (c *WSCarrier) Write(p []byte) (int, error) {
	if err := c.ws.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the underlying websocket connection.
func (c *WSCarrier) Close() error {
	return c.ws.Close()
}
