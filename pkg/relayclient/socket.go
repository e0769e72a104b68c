package relayclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// State is the realtime connection state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Socket is the client end of the realtime feed. It never reconnects on
// its own: the realtime channel is a best-effort accelerant on top of
// the always-correct polling path, so a dropped connection just means
// falling back to polling until the caller dials again.
type Socket struct {
	url     string
	onEvent func(Event)
	logger  zerolog.Logger

	mu    sync.Mutex
	state State
	conn  *websocket.Conn
}

// NewSocket prepares a socket for the given ws:// or wss:// URL.
// onEvent is invoked from the read loop for every decoded event,
// typically Queue.Enqueue wrapped by the caller.
func NewSocket(url string, onEvent func(Event), logger zerolog.Logger) *Socket {
	return &Socket{url: url, onEvent: onEvent, logger: logger}
}

// State reports the current connection state.
func (s *Socket) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect dials the feed and starts the read loop. It is an error to
// call Connect while a connection is open or being opened.
func (s *Socket) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return fmt.Errorf("connect: socket is %s", s.state)
	}
	s.state = StateConnecting
	s.mu.Unlock()

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		s.mu.Lock()
		s.state = StateDisconnected
		s.mu.Unlock()
		return fmt.Errorf("dial realtime feed: %w", err)
	}

	s.mu.Lock()
	s.state = StateConnected
	s.conn = conn
	s.mu.Unlock()

	go s.readLoop(conn)
	return nil
}

// Close tears the connection down. Safe to call in any state.
func (s *Socket) Close() error {
	s.mu.Lock()
	conn := s.conn
	s.conn = nil
	s.state = StateDisconnected
	s.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

func (s *Socket) readLoop(conn *websocket.Conn) {
	defer func() {
		conn.Close()
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
			s.state = StateDisconnected
		}
		s.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.logger.Debug().Err(err).Msg("realtime feed closed")
			return
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			s.logger.Debug().Err(err).Msg("ignoring malformed event")
			continue
		}
		if s.onEvent != nil {
			s.onEvent(ev)
		}
	}
}
