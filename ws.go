package vacmap

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// WSSource reads state payloads from a WebSocket endpoint that pushes one
// JSON state object per text message. The connection is dialed lazily on
// the first fetch and re-dialed after any read error, so a dropped
// connection costs one failed cycle and nothing more.
type WSSource struct {
	url    string
	dialer *websocket.Dialer
	conn   *websocket.Conn
}

// NewWSSource creates a Source that streams state from the given ws:// or
// wss:// URL. A nil dialer uses websocket.DefaultDialer.
func NewWSSource(url string, dialer *websocket.Dialer) *WSSource {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	return &WSSource{url: url, dialer: dialer}
}

// Fetch returns the next pushed message, dialing first if needed. On any
// error the connection is discarded; the next fetch re-dials.
func (s *WSSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.conn == nil {
		conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
		if err != nil {
			return nil, fmt.Errorf("ws dial %s: %w", s.url, err)
		}
		s.conn = conn
	}

	// ReadMessage has no context; honor cancellation by closing the
	// connection, which unblocks the read.
	conn := s.conn
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	_, msg, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		s.conn = nil
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ws read: %w", err)
	}
	return msg, nil
}

// Close closes the current connection, if any.
func (s *WSSource) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
