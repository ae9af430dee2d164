// Package ws wraps a gws websocket connection with reconnection and a
// single frame channel for the owning protocol layer to consume.
package ws

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"github.com/rs/zerolog"

	"nakula/pkg/core"
)

// ConnState is the connection lifecycle state.
type ConnState int32

const (
	// StateDisconnected means no connection is established.
	StateDisconnected ConnState = iota
	// StateConnecting means a dial is in progress.
	StateConnecting
	// StateConnected means the connection is live.
	StateConnected
	// StateClosed means the connection was shut down by the owner.
	StateClosed
)

// String returns the string representation of the state.
func (s ConnState) String() string {
	return [...]string{"DISCONNECTED", "CONNECTING", "CONNECTED", "CLOSED"}[s]
}

// Config holds connection options.
type Config struct {
	// URL is the websocket endpoint.
	URL string
	// ReconnectEnabled turns automatic reconnection on.
	ReconnectEnabled bool
	// ReconnectBaseWait is the first reconnect delay; doubles per attempt.
	ReconnectBaseWait time.Duration
	// ReconnectMaxWait caps the reconnect delay.
	ReconnectMaxWait time.Duration
	// BufferSize is the frame channel capacity.
	BufferSize int
	// OnConnect runs after every successful connect, including reconnects.
	// The protocol layer uses it to re-authenticate and re-subscribe.
	OnConnect func()
}

// Conn manages one websocket connection. Frames are delivered in order on
// the Frames channel; a full buffer drops the oldest pending frame.
type Conn struct {
	cfg    Config
	logger zerolog.Logger
	state  atomic.Int32

	mu     sync.Mutex
	socket *gws.Conn

	frames   chan []byte
	stopped  chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

type handler struct {
	conn *Conn
}

// New creates a Conn with defaults applied. Call Connect to dial.
func New(cfg Config, logger zerolog.Logger) *Conn {
	if cfg.ReconnectBaseWait == 0 {
		cfg.ReconnectBaseWait = time.Second
	}
	if cfg.ReconnectMaxWait == 0 {
		cfg.ReconnectMaxWait = 30 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}
	c := &Conn{
		cfg:     cfg,
		logger:  logger,
		frames:  make(chan []byte, cfg.BufferSize),
		stopped: make(chan struct{}),
	}
	c.state.Store(int32(StateDisconnected))
	return c
}

// Connect dials the configured URL and starts the read loop.
func (c *Conn) Connect(ctx context.Context) error {
	if ConnState(c.state.Load()) == StateClosed {
		return core.ErrClientClosed
	}
	c.state.Store(int32(StateConnecting))

	socket, _, err := gws.NewClient(&handler{conn: c}, &gws.ClientOption{Addr: c.cfg.URL})
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		return err
	}

	c.mu.Lock()
	c.socket = socket
	c.mu.Unlock()
	c.state.Store(int32(StateConnected))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		socket.ReadLoop()
	}()

	c.logger.Info().Str("url", c.cfg.URL).Msg("websocket connected")
	if c.cfg.OnConnect != nil {
		c.cfg.OnConnect()
	}
	return nil
}

func (h *handler) OnOpen(socket *gws.Conn) {}

func (h *handler) OnClose(socket *gws.Conn, err error) {
	c := h.conn
	if ConnState(c.state.Load()) == StateClosed {
		return
	}
	c.state.Store(int32(StateDisconnected))
	c.logger.Warn().Err(err).Str("url", c.cfg.URL).Msg("websocket disconnected")

	if c.cfg.ReconnectEnabled {
		go c.reconnect()
	}
}

func (h *handler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.WritePong(payload)
}

func (h *handler) OnPong(socket *gws.Conn, payload []byte) {}

func (h *handler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	data := message.Bytes()
	if len(data) == 0 {
		return
	}
	frame := make([]byte, len(data))
	copy(frame, data)

	select {
	case h.conn.frames <- frame:
	default:
		// Drop the oldest frame rather than blocking the read loop.
		select {
		case <-h.conn.frames:
		default:
		}
		select {
		case h.conn.frames <- frame:
		default:
		}
	}
}

func (c *Conn) reconnect() {
	wait := c.cfg.ReconnectBaseWait
	for attempt := 1; ; attempt++ {
		select {
		case <-c.stopped:
			return
		case <-time.After(wait):
		}

		c.logger.Info().Int("attempt", attempt).Msg("websocket reconnecting")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.Connect(ctx)
		cancel()
		if err == nil {
			return
		}

		c.logger.Error().Err(err).Int("attempt", attempt).Msg("reconnect failed")
		wait = min(wait*2, c.cfg.ReconnectMaxWait)
	}
}

// Frames returns the channel on which received frames are delivered.
func (c *Conn) Frames() <-chan []byte {
	return c.frames
}

// Connected reports whether the connection is live.
func (c *Conn) Connected() bool {
	return ConnState(c.state.Load()) == StateConnected
}

// State returns the current connection state.
func (c *Conn) State() ConnState {
	return ConnState(c.state.Load())
}

// Write sends a text frame.
func (c *Conn) Write(data []byte) error {
	c.mu.Lock()
	socket := c.socket
	c.mu.Unlock()

	if socket == nil || !c.Connected() {
		return core.ErrNotConnected
	}
	return socket.WriteMessage(gws.OpcodeText, data)
}

// SendJSON marshals v and sends it as a text frame.
func (c *Conn) SendJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return err
	}
	return c.Write(data)
}

// Close shuts the connection down permanently; no reconnect is attempted.
func (c *Conn) Close() error {
	c.state.Store(int32(StateClosed))
	c.stopOnce.Do(func() { close(c.stopped) })

	c.mu.Lock()
	socket := c.socket
	c.socket = nil
	c.mu.Unlock()

	if socket != nil {
		_ = socket.NetConn().Close()
	}
	c.wg.Wait()
	return nil
}
