package woox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"

	"nakula/internal/ws"
	"nakula/pkg/core"
	"nakula/pkg/signing"
)

// ExecutionReport is a private order-update event pushed by the exchange.
// Quantities and prices are kept in their exact wire form.
type ExecutionReport struct {
	MsgType          int         `json:"msgType"`
	Symbol           string      `json:"symbol"`
	ClientOrderID    int64       `json:"clientOrderId"`
	OrderID          int64       `json:"orderId"`
	Type             string      `json:"type"`
	Side             string      `json:"side"`
	Quantity         json.Number `json:"quantity"`
	Price            json.Number `json:"price"`
	TradeID          int64       `json:"tradeId"`
	ExecutedPrice    json.Number `json:"executedPrice"`
	ExecutedQuantity json.Number `json:"executedQuantity"`
	Fee              json.Number `json:"fee"`
	FeeAsset         string      `json:"feeAsset"`
	TotalExecuted    json.Number `json:"totalExecutedQuantity"`
	Status           string      `json:"status"`
	Reason           string      `json:"reason"`
	OrderTag         string      `json:"orderTag"`
	Timestamp        int64       `json:"timestamp"`
}

type wsEnvelope struct {
	ID      string          `json:"id,omitempty"`
	Event   string          `json:"event,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Success *bool           `json:"success,omitempty"`
	Message string          `json:"errorMsg,omitempty"`
	Ts      int64           `json:"ts,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type wsAuthRequest struct {
	ID     string       `json:"id"`
	Event  string       `json:"event"`
	Params wsAuthParams `json:"params"`
}

type wsAuthParams struct {
	APIKey    string `json:"apikey"`
	Sign      string `json:"sign"`
	Timestamp int64  `json:"timestamp"`
}

type wsSubscribeRequest struct {
	ID    string `json:"id"`
	Topic string `json:"topic"`
	Event string `json:"event"`
}

type wsPong struct {
	Event string `json:"event"`
	Ts    int64  `json:"ts"`
}

const topicExecutionReport = "executionreport"

// Stream is a private websocket subscription to the account's execution
// reports. It authenticates with the same signing protocol as REST calls:
// with no parameters to canonicalize, the signature input is "|{timestamp}".
type Stream struct {
	conn    *ws.Conn
	creds   core.Credentials
	logger  zerolog.Logger
	reports chan ExecutionReport
	errs    chan error
	stopped chan struct{}
	now     func() time.Time
}

// StreamOption configures a Stream.
type StreamOption func(*Stream)

// WithStreamLogger sets the stream logger.
func WithStreamLogger(logger zerolog.Logger) StreamOption {
	return func(s *Stream) { s.logger = logger }
}

// NewStream creates a Stream for the given environment and credentials.
// Call Connect to dial and subscribe.
func NewStream(env core.Environment, creds core.Credentials, opts ...StreamOption) *Stream {
	s := &Stream{
		creds:   creds,
		logger:  zerolog.Nop(),
		reports: make(chan ExecutionReport, 256),
		errs:    make(chan error, 1),
		stopped: make(chan struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	p := NewProtocol()
	s.conn = ws.New(ws.Config{
		URL:              p.StreamURL(env, creds.ApplicationID),
		ReconnectEnabled: true,
		OnConnect:        s.authenticate,
	}, s.logger)

	return s
}

// Connect dials the push endpoint, authenticates, and subscribes to
// execution reports. Reports become available on Reports.
func (s *Stream) Connect(ctx context.Context) error {
	if err := s.conn.Connect(ctx); err != nil {
		return err
	}
	go s.dispatch()
	return nil
}

// authenticate runs on every (re)connect: auth first, then re-subscribe.
func (s *Stream) authenticate() {
	ts := s.now().UnixMilli()
	auth := wsAuthRequest{
		ID:    "auth",
		Event: "auth",
		Params: wsAuthParams{
			APIKey:    s.creds.APIKey,
			Sign:      signing.Sign("", ts, s.creds.Secret),
			Timestamp: ts,
		},
	}
	if err := s.conn.SendJSON(auth); err != nil {
		s.logger.Error().Err(err).Msg("websocket auth send failed")
		return
	}

	sub := wsSubscribeRequest{
		ID:    topicExecutionReport,
		Topic: topicExecutionReport,
		Event: "subscribe",
	}
	if err := s.conn.SendJSON(sub); err != nil {
		s.logger.Error().Err(err).Msg("websocket subscribe send failed")
	}
}

func (s *Stream) dispatch() {
	for {
		select {
		case <-s.stopped:
			return
		case frame, ok := <-s.conn.Frames():
			if !ok {
				return
			}
			s.handleFrame(frame)
		}
	}
}

func (s *Stream) handleFrame(frame []byte) {
	var env wsEnvelope
	if err := sonic.Unmarshal(frame, &env); err != nil {
		s.logger.Warn().Err(err).Msg("unparseable websocket frame")
		return
	}

	switch {
	case env.Event == "ping":
		_ = s.conn.SendJSON(wsPong{Event: "pong", Ts: s.now().UnixMilli()})

	case env.Event == "auth":
		if env.Success != nil && !*env.Success {
			s.logger.Error().Str("message", env.Message).Msg("websocket auth rejected")
			select {
			case s.errs <- core.NewExchangeError(core.ErrorTypeAuthentication, 0, env.Message):
			default:
			}
		}

	case env.Event == "subscribe":
		if env.Success != nil && !*env.Success {
			s.logger.Error().Str("id", env.ID).Str("message", env.Message).Msg("websocket subscribe rejected")
		}

	case env.Topic == topicExecutionReport:
		var report ExecutionReport
		if err := sonic.Unmarshal(env.Data, &report); err != nil {
			s.logger.Warn().Err(err).Msg("unparseable execution report")
			return
		}
		select {
		case s.reports <- report:
		default:
			s.logger.Warn().Msg("execution report buffer full, dropping")
		}
	}
}

// Reports returns the channel of execution reports.
func (s *Stream) Reports() <-chan ExecutionReport {
	return s.reports
}

// Errs returns the channel of stream-level errors such as rejected auth.
func (s *Stream) Errs() <-chan error {
	return s.errs
}

// Connected reports whether the underlying connection is live.
func (s *Stream) Connected() bool {
	return s.conn.Connected()
}

// Close shuts the stream down.
func (s *Stream) Close() error {
	select {
	case <-s.stopped:
	default:
		close(s.stopped)
	}
	return s.conn.Close()
}
