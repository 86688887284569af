package connection

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"

	"github.com/forestline/eudrtrack/internal/codec"
	"github.com/forestline/eudrtrack/internal/rand"
)

const closeWriteTimeout = time.Second

// WebSocketConnection multiplexes calls over one WebSocket at
// BaseURL + "/rpc". It dials on first use, and dials again when the socket
// was lost or the bearer token changed since the handshake.
type WebSocketConnection struct {
	cfg    Config
	dialer *gorilla.Dialer

	// mu guards the fields describing the current socket.
	mu          sync.Mutex
	conn        *gorilla.Conn
	connCloseCh chan struct{}
	connErr     error
	dialToken   string
	closed      bool

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan RPCResponse[RawResult]
}

var _ Connection = (*WebSocketConnection)(nil)

func NewWebSocketConnection(cfg Config) *WebSocketConnection {
	cfg.defaults()
	return &WebSocketConnection{
		cfg: cfg,
		dialer: &gorilla.Dialer{
			Proxy:             gorilla.DefaultDialer.Proxy,
			HandshakeTimeout:  gorilla.DefaultDialer.HandshakeTimeout,
			EnableCompression: true,
			Subprotocols:      []string{cfg.Codec.Name()},
		},
		pending: map[string]chan RPCResponse[RawResult]{},
	}
}

func (c *WebSocketConnection) Unmarshaler() codec.Unmarshaler {
	return c.cfg.Codec
}

func wsURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	switch {
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	}
	return base + "/rpc"
}

// connect returns the live socket, dialing a new one if needed.
func (c *WebSocketConnection) connect(ctx context.Context) (*gorilla.Conn, chan struct{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, ErrClosed
	}
	token := c.cfg.Token()
	if c.conn != nil && token == c.dialToken {
		return c.conn, c.connCloseCh, nil
	}
	if c.conn != nil {
		c.shutdownLocked(errors.New("connection: credentials changed"))
	}

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, resp, err := c.dialer.DialContext(ctx, wsURL(c.cfg.BaseURL), header)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		if resp != nil && resp.StatusCode >= 400 {
			return nil, nil, &RPCError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, nil, fmt.Errorf("connection: dial: %w", err)
	}

	c.conn = conn
	c.connCloseCh = make(chan struct{})
	c.connErr = nil
	c.dialToken = token

	go c.readLoop(conn, c.connCloseCh)

	return conn, c.connCloseCh, nil
}

// Send writes the request and waits for the response with the same id.
// The wait is bounded by ctx and by the configured timeout.
func (c *WebSocketConnection) Send(ctx context.Context, method string, params ...any) (*RPCResponse[RawResult], error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	conn, closeCh, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	id := rand.NewRequestID(RequestIDLength)
	data, err := c.cfg.Codec.Marshal(&RPCRequest{ID: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("connection: encoding %s: %w", method, err)
	}

	responseCh := c.register(id)
	defer c.unregister(id)

	if err := c.write(conn, data); err != nil {
		c.drop(conn, err)
		return nil, fmt.Errorf("connection: %s: %w", method, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-closeCh:
		return nil, fmt.Errorf("connection: %s: %w", method, c.lostReason())
	case res := <-responseCh:
		if res.Error != nil {
			return nil, res.Error
		}
		return &res, nil
	}
}

func (c *WebSocketConnection) messageType() int {
	if c.cfg.Codec.Name() == "json" {
		return gorilla.TextMessage
	}
	return gorilla.BinaryMessage
}

func (c *WebSocketConnection) write(conn *gorilla.Conn, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteMessage(c.messageType(), data)
}

func (c *WebSocketConnection) register(id string) chan RPCResponse[RawResult] {
	ch := make(chan RPCResponse[RawResult], 1)
	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()
	return ch
}

func (c *WebSocketConnection) unregister(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

func (c *WebSocketConnection) readLoop(conn *gorilla.Conn, closeCh chan struct{}) {
	for {
		select {
		case <-closeCh:
			return
		default:
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.drop(conn, err)
			return
		}
		c.dispatch(data)
	}
}

func (c *WebSocketConnection) dispatch(data []byte) {
	var res RPCResponse[RawResult]
	if err := c.cfg.Codec.Unmarshal(data, &res); err != nil {
		c.cfg.Logger.Error().Err(err).Msg("discarding undecodable response")
		return
	}
	if res.ID == nil {
		c.cfg.Logger.Error().Interface("error", res.Error).Msg("response without id")
		return
	}

	id := fmt.Sprint(res.ID)
	c.pendingMu.Lock()
	ch, ok := c.pending[id]
	c.pendingMu.Unlock()
	if !ok {
		c.cfg.Logger.Warn().Str("id", id).Msg("response for unknown request")
		return
	}
	select {
	case ch <- res:
	default:
		c.cfg.Logger.Warn().Str("id", id).Msg("duplicate response")
	}
}

// drop forgets conn after a read or write failure. A later Send dials again.
func (c *WebSocketConnection) drop(conn *gorilla.Conn, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != conn {
		return
	}
	if !c.closed {
		c.cfg.Logger.Debug().Err(err).Msg("websocket lost")
	}
	c.shutdownLocked(err)
}

func (c *WebSocketConnection) shutdownLocked(err error) {
	c.connErr = err
	close(c.connCloseCh)
	_ = c.conn.Close()
	c.conn = nil
}

func (c *WebSocketConnection) lostReason() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.connErr != nil {
		return c.connErr
	}
	return errors.New("connection lost")
}

// Close sends a close frame and releases the socket. Later calls fail with
// ErrClosed.
func (c *WebSocketConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	if c.conn == nil {
		return nil
	}

	c.writeMu.Lock()
	writeErr := c.conn.WriteControl(gorilla.CloseMessage,
		gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""),
		time.Now().Add(closeWriteTimeout))
	c.writeMu.Unlock()
	if writeErr != nil {
		c.cfg.Logger.Debug().Err(writeErr).Msg("failed to write close message")
	}

	conn := c.conn
	c.connErr = ErrClosed
	close(c.connCloseCh)
	c.conn = nil
	return conn.Close()
}
