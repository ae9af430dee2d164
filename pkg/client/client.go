// Package client executes WOO X trade API calls: it builds requests through
// the protocol layer, signs them, applies rate limiting and circuit
// breaking, and parses responses into canonical types.
package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/rs/zerolog"
	"resty.dev/v3"

	"nakula/internal/circuitbreaker"
	"nakula/internal/keyring"
	"nakula/internal/ratelimit"
	"nakula/pkg/core"
	"nakula/pkg/signing"
	"nakula/pkg/woox"
)

// Client is a WOO X trade API client. It is safe for concurrent use: the
// signing core is pure, and transport state is owned by resty.
type Client struct {
	config   *core.Config
	protocol core.Protocol
	http     *resty.Client
	limiter  *ratelimit.Limiter
	breaker  *circuitbreaker.Breaker
	logger   zerolog.Logger
	now      func() time.Time
	baseURL  string

	mu     sync.RWMutex
	closed bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithProtocol replaces the protocol implementation. Tests use this to
// exercise the client against a fake exchange.
func WithProtocol(p core.Protocol) Option {
	return func(c *Client) { c.protocol = p }
}

// WithBaseURL overrides the environment base URL. Tests point this at a
// local server.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithClock replaces the timestamp source used for signing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a Client for the environment selected in config. When the
// config carries no credentials, the process environment is consulted
// (WOO_API_KEY / WOO_API_SECRET, or the WOO_STAGING_ variants).
func New(config *core.Config, opts ...Option) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	if config.Credentials == nil {
		if creds, ok := keyring.FromEnv().Get(config.Env); ok {
			config.Credentials = &creds
		}
	}

	c := &Client{
		config:   config,
		protocol: woox.NewProtocol(),
		logger:   zerolog.Nop(),
		now:      time.Now,
		limiter:  ratelimit.New(config.RateLimitRequests, config.RateLimitOrders, config.RateLimitPeriod),
	}

	if config.CircuitBreakerEnabled {
		c.breaker = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    config.CircuitBreakerFailThreshold,
			SuccessThreshold: config.CircuitBreakerSuccessThreshold,
			Timeout:          config.CircuitBreakerTimeout,
		})
	}

	c.http = resty.New()
	c.http.SetTimeout(config.Timeout)
	c.http.SetRetryCount(config.MaxRetries)
	c.http.SetRetryWaitTime(config.RetryWaitMin)
	c.http.SetRetryMaxWaitTime(config.RetryWaitMax)
	c.http.SetAllowMethodDeletePayload(true)

	for _, opt := range opts {
		opt(c)
	}

	if config.LogLevel != "" {
		if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			c.logger = c.logger.Level(level)
		}
	}

	if c.baseURL == "" {
		c.baseURL = c.protocol.BaseURL(config.Env)
	}
	c.http.SetBaseURL(c.baseURL)

	c.http.AddRequestMiddleware(func(_ *resty.Client, req *resty.Request) error {
		c.logger.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("http request")
		return nil
	})

	return c, nil
}

// Close releases transport resources. The client cannot be used afterwards.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.http.Close()
}

// Do executes an operation. It formats the signable parameters once and
// transmits exactly those values, so the signature always covers what the
// server receives.
func (c *Client) Do(ctx context.Context, op core.Operation, params core.Params) (any, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, core.ErrClientClosed
	}
	c.mu.RUnlock()

	req, err := c.protocol.BuildRequest(ctx, op, params)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if c.breaker != nil && !c.breaker.Allow() {
		return nil, core.ErrCircuitBreakerOpen
	}

	if err := c.limiter.Wait(ctx, req.Bucket); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	values, err := signing.FormatParams(req.Params)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}

	r := c.http.R().SetContext(ctx)
	for k, v := range req.Headers {
		r.SetHeader(k, v)
	}

	if req.Method == http.MethodGet {
		r.SetQueryParamsFromValues(values)
	} else if len(values) > 0 {
		r.SetHeader("Content-Type", "application/x-www-form-urlencoded")
		r.SetBody(values.Encode())
	}

	if req.RequireAuth {
		if c.config.Credentials == nil {
			return nil, core.ErrNoCredentials
		}
		ts := c.now().UnixMilli()
		if err := c.protocol.SignRequest(r, values, ts, *c.config.Credentials); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := c.execute(r, req.Method, req.Path)

	success := err == nil && resp != nil && resp.IsSuccess()
	if c.breaker != nil {
		c.breaker.Record(success)
	}

	if err != nil {
		c.logger.Error().Err(err).
			Str("method", req.Method).
			Str("path", req.Path).
			Msg("http request failed")
		return nil, fmt.Errorf("http request: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode()).
		Msg("http response")

	result, err := c.protocol.ParseResponse(op, resp)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) execute(r *resty.Request, method, path string) (*resty.Response, error) {
	switch method {
	case http.MethodGet:
		return r.Get(path)
	case http.MethodPost:
		return r.Post(path)
	case http.MethodPut:
		return r.Put(path)
	case http.MethodDelete:
		return r.Delete(path)
	default:
		return nil, fmt.Errorf("unsupported http method: %s", method)
	}
}

// OrderRequest contains the parameters for placing an order. Optional
// fields are pointers; nil fields are absent from both the signed canonical
// string and the transmitted body.
type OrderRequest struct {
	Symbol        string
	Side          core.Side
	Type          core.OrderType
	Price         *apd.Decimal
	Quantity      *apd.Decimal
	Amount        *apd.Decimal
	ClientOrderID *int64
	OrderTag      string
	ReduceOnly    *bool
	Visible       *apd.Decimal
	PositionSide  *core.PositionSide
}

func (r *OrderRequest) params() core.Params {
	params := core.Params{
		"symbol":     r.Symbol,
		"side":       r.Side.String(),
		"order_type": r.Type.String(),
	}
	if r.Price != nil {
		params["order_price"] = r.Price
	}
	if r.Quantity != nil {
		params["order_quantity"] = r.Quantity
	}
	if r.Amount != nil {
		params["order_amount"] = r.Amount
	}
	if r.ClientOrderID != nil {
		params["client_order_id"] = *r.ClientOrderID
	}
	if r.OrderTag != "" {
		params["order_tag"] = r.OrderTag
	}
	if r.ReduceOnly != nil {
		params["reduce_only"] = *r.ReduceOnly
	}
	if r.Visible != nil {
		params["visible_quantity"] = r.Visible
	}
	if r.PositionSide != nil {
		params["position_side"] = r.PositionSide.String()
	}
	return params
}

// OrdersFilter narrows a GetOrders query. Zero values mean no filter.
type OrdersFilter struct {
	Symbol   string
	Side     *core.Side
	Status   *core.OrderStatus
	OrderTag string
	Page     int
}

// TradesFilter narrows a TradeHistory query. Zero values mean no filter;
// times are epoch milliseconds.
type TradesFilter struct {
	Symbol string
	StartT int64
	EndT   int64
	Page   int
}

// SystemStatus fetches the exchange's operational status. It is the only
// unauthenticated call.
func (c *Client) SystemStatus(ctx context.Context) (*core.SystemStatus, error) {
	result, err := c.Do(ctx, core.OpSystemStatus, nil)
	if err != nil {
		return nil, err
	}
	status, ok := result.(*core.SystemStatus)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	return status, nil
}

// SendOrder submits a new order and returns the acknowledged order.
func (c *Client) SendOrder(ctx context.Context, req *OrderRequest) (*core.Order, error) {
	result, err := c.Do(ctx, core.OpSendOrder, req.params())
	if err != nil {
		return nil, err
	}
	order, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	order.Symbol = req.Symbol
	order.Side = req.Side
	return order, nil
}

// CancelOrder cancels an order by its exchange-assigned ID.
func (c *Client) CancelOrder(ctx context.Context, symbol string, orderID int64) (core.OrderStatus, error) {
	result, err := c.Do(ctx, core.OpCancelOrder, core.Params{
		"symbol":   symbol,
		"order_id": orderID,
	})
	if err != nil {
		return 0, err
	}
	status, ok := result.(core.OrderStatus)
	if !ok {
		return 0, fmt.Errorf("unexpected response type: %T", result)
	}
	return status, nil
}

// CancelOrderByClientID cancels an order by its client-assigned ID.
func (c *Client) CancelOrderByClientID(ctx context.Context, symbol string, clientOrderID int64) (core.OrderStatus, error) {
	result, err := c.Do(ctx, core.OpCancelOrderByClientID, core.Params{
		"symbol":          symbol,
		"client_order_id": clientOrderID,
	})
	if err != nil {
		return 0, err
	}
	status, ok := result.(core.OrderStatus)
	if !ok {
		return 0, fmt.Errorf("unexpected response type: %T", result)
	}
	return status, nil
}

// GetOrder fetches an order by its exchange-assigned ID.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*core.Order, error) {
	result, err := c.Do(ctx, core.OpGetOrder, core.Params{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	order, ok := result.(*core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	return order, nil
}

// GetOrders fetches orders matching the filter.
func (c *Client) GetOrders(ctx context.Context, filter *OrdersFilter) ([]core.Order, error) {
	params := core.Params{}
	if filter != nil {
		if filter.Symbol != "" {
			params["symbol"] = filter.Symbol
		}
		if filter.Side != nil {
			params["side"] = filter.Side.String()
		}
		if filter.Status != nil {
			params["status"] = filter.Status.String()
		}
		if filter.OrderTag != "" {
			params["order_tag"] = filter.OrderTag
		}
		if filter.Page > 0 {
			params["page"] = filter.Page
		}
	}

	result, err := c.Do(ctx, core.OpGetOrders, params)
	if err != nil {
		return nil, err
	}
	orders, ok := result.([]core.Order)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	return orders, nil
}

// GetTrade fetches a single executed trade by its ID.
func (c *Client) GetTrade(ctx context.Context, tradeID int64) (*core.Trade, error) {
	result, err := c.Do(ctx, core.OpGetTrade, core.Params{"trade_id": tradeID})
	if err != nil {
		return nil, err
	}
	trade, ok := result.(*core.Trade)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	return trade, nil
}

// TradeHistory fetches the account's executed trades matching the filter.
func (c *Client) TradeHistory(ctx context.Context, filter *TradesFilter) ([]core.Trade, error) {
	params := core.Params{}
	if filter != nil {
		if filter.Symbol != "" {
			params["symbol"] = filter.Symbol
		}
		if filter.StartT > 0 {
			params["start_t"] = filter.StartT
		}
		if filter.EndT > 0 {
			params["end_t"] = filter.EndT
		}
		if filter.Page > 0 {
			params["page"] = filter.Page
		}
	}

	result, err := c.Do(ctx, core.OpGetTradeHistory, params)
	if err != nil {
		return nil, err
	}
	trades, ok := result.([]core.Trade)
	if !ok {
		return nil, fmt.Errorf("unexpected response type: %T", result)
	}
	return trades, nil
}
