// Package woox implements the WOO X v1 trade API protocol: request
// building, HMAC-SHA256 authentication headers, and response parsing.
package woox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bytedance/sonic"
	"resty.dev/v3"

	"nakula/internal/ratelimit"
	"nakula/pkg/core"
	"nakula/pkg/signing"
)

// REST and websocket endpoints per environment.
const (
	ProductionURL = "https://api.woo.org"
	StagingURL    = "https://api.staging.woo.org"

	ProductionStreamURL = "wss://wss.woo.org/ws/stream"
	StagingStreamURL    = "wss://wss.staging.woo.org/ws/stream"
)

// Authentication header names fixed by the exchange.
const (
	HeaderAPIKey    = "x-api-key"
	HeaderTimestamp = "x-api-timestamp"
	HeaderSignature = "x-api-signature"
)

// Protocol implements core.Protocol for the WOO X exchange.
type Protocol struct{}

// NewProtocol creates a new WOO X protocol instance.
func NewProtocol() *Protocol {
	return &Protocol{}
}

// Name returns the protocol identifier "woox".
func (p *Protocol) Name() string {
	return "woox"
}

// Version returns the WOO X API version string.
func (p *Protocol) Version() string {
	return "1"
}

// BaseURL returns the REST base URL for the given environment.
func (p *Protocol) BaseURL(env core.Environment) string {
	if env == core.EnvStaging {
		return StagingURL
	}
	return ProductionURL
}

// StreamURL returns the websocket push endpoint for the given environment.
func (p *Protocol) StreamURL(env core.Environment, applicationID string) string {
	base := ProductionStreamURL
	if env == core.EnvStaging {
		base = StagingStreamURL
	}
	return base + "/" + applicationID
}

// SupportedOperations returns the operations this protocol supports.
func (p *Protocol) SupportedOperations() []core.Operation {
	return []core.Operation{
		core.OpSystemStatus,
		core.OpSendOrder,
		core.OpCancelOrder,
		core.OpCancelOrderByClientID,
		core.OpGetOrder,
		core.OpGetOrders,
		core.OpGetTrade,
		core.OpGetTradeHistory,
	}
}

// BuildRequest constructs a Request for the given operation. It validates
// required parameters; optional parameters pass through untouched so their
// absence never reaches the encoder as an empty value.
func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpSystemStatus:
		return core.NewRequest(http.MethodGet, "/v1/public/system_info"), nil
	case core.OpSendOrder:
		return p.buildSendOrderRequest(params)
	case core.OpCancelOrder:
		return p.buildCancelOrderRequest(params)
	case core.OpCancelOrderByClientID:
		return p.buildCancelOrderByClientIDRequest(params)
	case core.OpGetOrder:
		return p.buildGetOrderRequest(params)
	case core.OpGetOrders:
		return p.buildGetOrdersRequest(params)
	case core.OpGetTrade:
		return p.buildGetTradeRequest(params)
	case core.OpGetTradeHistory:
		return p.buildGetTradeHistoryRequest(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

// SignRequest attaches the x-api-key, x-api-timestamp, and x-api-signature
// headers. The values must be exactly the formatted parameters the request
// transmits; the server recomputes the signature from what it receives, so
// any divergence produces a rejection.
func (p *Protocol) SignRequest(req *resty.Request, values url.Values, timestamp int64, creds core.Credentials) error {
	if creds.APIKey == "" || len(creds.Secret) == 0 {
		return core.ErrNoCredentials
	}

	sig := signing.Sign(signing.Canonicalize(values), timestamp, creds.Secret)

	req.SetHeader(HeaderAPIKey, creds.APIKey)
	req.SetHeader(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	req.SetHeader(HeaderSignature, sig)
	return nil
}

// ParseResponse parses an HTTP response and normalizes it to canonical
// types, mapping WOO X error envelopes to *core.ExchangeError.
func (p *Protocol) ParseResponse(op core.Operation, resp *resty.Response) (any, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil response")
	}

	body := resp.Bytes()

	if resp.StatusCode() >= 400 {
		return nil, parseAPIError(resp.StatusCode(), body)
	}

	// The v1 API can report failures with a 200 status.
	var envelope wooAPIError
	if err := sonic.Unmarshal(body, &envelope); err == nil && !envelope.Success && envelope.Code != 0 {
		return nil, parseAPIError(resp.StatusCode(), body)
	}

	n := NewNormalizer()

	switch op {
	case core.OpSystemStatus:
		var data wooSystemStatus
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal system status: %w", err)
		}
		return n.NormalizeSystemStatus(&data), nil

	case core.OpSendOrder:
		var data wooOrderAck
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal order ack: %w", err)
		}
		return n.NormalizeOrderAck(&data)

	case core.OpCancelOrder, core.OpCancelOrderByClientID:
		var data wooCancelAck
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal cancel ack: %w", err)
		}
		return parseOrderStatus(data.Status), nil

	case core.OpGetOrder:
		var data wooOrder
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		return n.NormalizeOrder(&data)

	case core.OpGetOrders:
		var data wooOrdersPage
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		return n.NormalizeOrders(data.Rows)

	case core.OpGetTrade:
		var data wooTradeEnvelope
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal trade: %w", err)
		}
		return n.NormalizeTrade(&data.wooTrade)

	case core.OpGetTradeHistory:
		var data wooTradesPage
		if err := sonic.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
		return n.NormalizeTrades(data.Rows)

	default:
		var result any
		if err := sonic.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return result, nil
	}
}

func (p *Protocol) buildSendOrderRequest(params core.Params) (*core.Request, error) {
	if _, err := getRequiredStringParam(params, "symbol"); err != nil {
		return nil, err
	}
	if _, err := getRequiredStringParam(params, "side"); err != nil {
		return nil, err
	}
	if _, err := getRequiredStringParam(params, "order_type"); err != nil {
		return nil, err
	}
	if !hasParam(params, "order_quantity") && !hasParam(params, "order_amount") {
		return nil, fmt.Errorf("either order_quantity or order_amount is required")
	}

	req := core.NewRequest(http.MethodPost, "/v1/order")
	req.SetParams(params)
	req.SetRequireAuth(true)
	req.SetBucket(ratelimit.BucketOrders)
	return req, nil
}

func (p *Protocol) buildCancelOrderRequest(params core.Params) (*core.Request, error) {
	if _, err := getRequiredStringParam(params, "symbol"); err != nil {
		return nil, err
	}
	orderID, err := getRequiredInt64Param(params, "order_id")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodDelete, "/v1/order")
	req.SetParam("symbol", params["symbol"])
	req.SetParam("order_id", orderID)
	req.SetRequireAuth(true)
	req.SetBucket(ratelimit.BucketOrders)
	return req, nil
}

func (p *Protocol) buildCancelOrderByClientIDRequest(params core.Params) (*core.Request, error) {
	if _, err := getRequiredStringParam(params, "symbol"); err != nil {
		return nil, err
	}
	clientOrderID, err := getRequiredInt64Param(params, "client_order_id")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodDelete, "/v1/client/order")
	req.SetParam("symbol", params["symbol"])
	req.SetParam("client_order_id", clientOrderID)
	req.SetRequireAuth(true)
	req.SetBucket(ratelimit.BucketOrders)
	return req, nil
}

func (p *Protocol) buildGetOrderRequest(params core.Params) (*core.Request, error) {
	orderID, err := getRequiredInt64Param(params, "order_id")
	if err != nil {
		return nil, err
	}

	// The order ID travels in the path, so the canonical query string is
	// empty and the signature input is just "|{timestamp}".
	req := core.NewRequest(http.MethodGet, fmt.Sprintf("/v1/order/%d", orderID))
	req.SetRequireAuth(true)
	return req, nil
}

func (p *Protocol) buildGetOrdersRequest(params core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, "/v1/orders")
	for _, key := range []string{"symbol", "side", "status", "order_tag", "page"} {
		if v, ok := params[key]; ok && v != nil {
			req.SetParam(key, v)
		}
	}
	req.SetRequireAuth(true)
	return req, nil
}

func (p *Protocol) buildGetTradeRequest(params core.Params) (*core.Request, error) {
	tradeID, err := getRequiredInt64Param(params, "trade_id")
	if err != nil {
		return nil, err
	}

	req := core.NewRequest(http.MethodGet, fmt.Sprintf("/v1/client/trade/%d", tradeID))
	req.SetRequireAuth(true)
	return req, nil
}

func (p *Protocol) buildGetTradeHistoryRequest(params core.Params) (*core.Request, error) {
	req := core.NewRequest(http.MethodGet, "/v1/client/trades")
	for _, key := range []string{"symbol", "start_t", "end_t", "page"} {
		if v, ok := params[key]; ok && v != nil {
			req.SetParam(key, v)
		}
	}
	req.SetRequireAuth(true)
	return req, nil
}

func parseAPIError(statusCode int, body []byte) *core.ExchangeError {
	var apiErr wooAPIError
	if err := sonic.Unmarshal(body, &apiErr); err == nil && apiErr.Code != 0 {
		return core.NewExchangeErrorWithCode(
			mapErrorCode(apiErr.Code),
			statusCode,
			strconv.Itoa(apiErr.Code),
			apiErr.Message,
		)
	}
	return core.NewExchangeError(
		core.ErrorTypeServerError,
		statusCode,
		fmt.Sprintf("HTTP %d: %s", statusCode, string(body)),
	)
}

// mapErrorCode maps v1 API error codes to error types. -1001 in particular
// means the signature did not verify: a caller defect (wrong secret, or
// transmitted values diverging from signed values), never a transient fault.
func mapErrorCode(code int) core.ErrorType {
	switch code {
	case -1001, -1002:
		return core.ErrorTypeAuthentication
	case -1003, -1008:
		return core.ErrorTypeRateLimit
	case -1004, -1005, -1007:
		return core.ErrorTypeBadRequest
	case -1006:
		return core.ErrorTypeNotFound
	case -1009:
		return core.ErrorTypeServerError
	default:
		if code <= -1100 && code > -1200 {
			return core.ErrorTypeInvalidOrder
		}
		return core.ErrorTypeUnknown
	}
}

func hasParam(params core.Params, key string) bool {
	v, ok := params[key]
	return ok && v != nil
}

func getRequiredStringParam(params core.Params, key string) (string, error) {
	val, ok := params[key]
	if !ok || val == nil {
		return "", fmt.Errorf("missing required parameter: %s", key)
	}

	str, ok := val.(string)
	if !ok {
		if s, ok := val.(fmt.Stringer); ok {
			return s.String(), nil
		}
		return "", fmt.Errorf("parameter %s must be a string", key)
	}
	if str == "" {
		return "", fmt.Errorf("parameter %s cannot be empty", key)
	}
	return str, nil
}

func getRequiredInt64Param(params core.Params, key string) (int64, error) {
	val, ok := params[key]
	if !ok || val == nil {
		return 0, fmt.Errorf("missing required parameter: %s", key)
	}

	switch v := val.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parameter %s must be an integer: %w", key, err)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("parameter %s must be an integer", key)
	}
}
