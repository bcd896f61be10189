package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// MessageStream is a live subscription to the inbox message feed. It is
// authenticated with the same session header as the REST endpoints.
type MessageStream struct {
	conn     *websocket.Conn
	logger   *logrus.Logger
	messages chan Message
	done     chan struct{}
}

// StreamMessages opens a WebSocket subscription to the message feed. The
// returned stream must be closed by the caller. Opening the stream requires
// a stored credential; there is no unauthenticated message feed.
func (c *HTTPClient) StreamMessages(ctx context.Context) (*MessageStream, error) {
	token, err := c.creds.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("failed to read session token: %w", err)
	}
	if token == "" {
		return nil, fmt.Errorf("message stream requires an active session")
	}

	wsURL, err := c.streamURL("/super-agents/messages/stream")
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set(AuthHeader, token)

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("message stream dial failed with status %d: %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("message stream dial failed: %w", err)
	}

	s := &MessageStream{
		conn:     conn,
		logger:   c.logger,
		messages: make(chan Message, 16),
		done:     make(chan struct{}),
	}
	go s.readLoop()

	return s, nil
}

// streamURL converts the configured HTTP base URL into a ws/wss URL for the
// given path
func (c *HTTPClient) streamURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("failed to build stream URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported scheme %q for message stream", u.Scheme)
	}
	return u.String(), nil
}

// Messages returns the channel of incoming messages. The channel is closed
// when the stream ends.
func (s *MessageStream) Messages() <-chan Message {
	return s.messages
}

// Done is closed when the read loop exits
func (s *MessageStream) Done() <-chan struct{} {
	return s.done
}

// Close shuts the stream down
func (s *MessageStream) Close() error {
	return s.conn.Close()
}

func (s *MessageStream) readLoop() {
	defer close(s.done)
	defer close(s.messages)

	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				strings.Contains(err.Error(), "use of closed network connection") {
				s.logger.Debug("Message stream closed")
			} else {
				s.logger.WithError(err).Warn("Message stream read failed")
			}
			return
		}
		s.messages <- msg
	}
}
