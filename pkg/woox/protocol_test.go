package woox

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"nakula/internal/ratelimit"
	"nakula/pkg/core"
	"nakula/pkg/signing"
)

var _ core.Protocol = (*Protocol)(nil)

func TestProtocol_Identity(t *testing.T) {
	p := NewProtocol()
	assert.Equal(t, "woox", p.Name())
	assert.Equal(t, "1", p.Version())
	assert.Len(t, p.SupportedOperations(), 8)
}

func TestProtocol_BaseURL(t *testing.T) {
	p := NewProtocol()
	assert.Equal(t, "https://api.woo.org", p.BaseURL(core.EnvProduction))
	assert.Equal(t, "https://api.staging.woo.org", p.BaseURL(core.EnvStaging))
}

func TestProtocol_StreamURL(t *testing.T) {
	p := NewProtocol()
	assert.Equal(t,
		"wss://wss.woo.org/ws/stream/app-id",
		p.StreamURL(core.EnvProduction, "app-id"))
	assert.Equal(t,
		"wss://wss.staging.woo.org/ws/stream/app-id",
		p.StreamURL(core.EnvStaging, "app-id"))
}

func TestBuildRequest_SystemStatus(t *testing.T) {
	p := NewProtocol()
	req, err := p.BuildRequest(context.Background(), core.OpSystemStatus, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/v1/public/system_info", req.Path)
	assert.False(t, req.RequireAuth)
}

func TestBuildRequest_SendOrder(t *testing.T) {
	p := NewProtocol()

	params := core.Params{
		"symbol":         "SPOT_BTC_USDT",
		"side":           "BUY",
		"order_type":     "LIMIT",
		"order_price":    9000.0,
		"order_quantity": 0.11,
	}
	req, err := p.BuildRequest(context.Background(), core.OpSendOrder, params)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/v1/order", req.Path)
	assert.True(t, req.RequireAuth)
	assert.Equal(t, ratelimit.BucketOrders, req.Bucket)
}

func TestBuildRequest_SendOrderValidation(t *testing.T) {
	p := NewProtocol()

	tests := []struct {
		name   string
		params core.Params
		want   string
	}{
		{"missing symbol", core.Params{
			"side": "BUY", "order_type": "LIMIT", "order_quantity": 1.0,
		}, "symbol"},
		{"missing side", core.Params{
			"symbol": "SPOT_BTC_USDT", "order_type": "LIMIT", "order_quantity": 1.0,
		}, "side"},
		{"missing order_type", core.Params{
			"symbol": "SPOT_BTC_USDT", "side": "BUY", "order_quantity": 1.0,
		}, "order_type"},
		{"missing size", core.Params{
			"symbol": "SPOT_BTC_USDT", "side": "BUY", "order_type": "LIMIT",
		}, "order_quantity or order_amount"},
		{"empty symbol", core.Params{
			"symbol": "", "side": "BUY", "order_type": "LIMIT", "order_quantity": 1.0,
		}, "symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.BuildRequest(context.Background(), core.OpSendOrder, tt.params)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildRequest_SendOrderAmountOnly(t *testing.T) {
	p := NewProtocol()
	_, err := p.BuildRequest(context.Background(), core.OpSendOrder, core.Params{
		"symbol": "SPOT_BTC_USDT", "side": "BUY", "order_type": "MARKET",
		"order_amount": 100.0,
	})
	assert.NoError(t, err)
}

func TestBuildRequest_CancelOrder(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpCancelOrder, core.Params{
		"symbol":   "SPOT_BTC_USDT",
		"order_id": int64(9001),
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/v1/order", req.Path)
	assert.Equal(t, int64(9001), req.Params["order_id"])
	assert.Equal(t, ratelimit.BucketOrders, req.Bucket)

	_, err = p.BuildRequest(context.Background(), core.OpCancelOrder, core.Params{"symbol": "SPOT_BTC_USDT"})
	assert.Error(t, err)
}

func TestBuildRequest_CancelOrderByClientID(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpCancelOrderByClientID, core.Params{
		"symbol":          "SPOT_BTC_USDT",
		"client_order_id": 42,
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/client/order", req.Path)
	assert.Equal(t, int64(42), req.Params["client_order_id"])
}

func TestBuildRequest_GetOrderPathParam(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpGetOrder, core.Params{"order_id": int64(42)})
	require.NoError(t, err)
	assert.Equal(t, "/v1/order/42", req.Path)
	assert.True(t, req.RequireAuth)
	// The ID travels in the path; nothing is left to canonicalize.
	assert.Empty(t, req.Params)
}

func TestBuildRequest_GetOrdersFilterPassthrough(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpGetOrders, core.Params{
		"symbol": "SPOT_BTC_USDT",
		"status": "FILLED",
		"side":   nil,
		"junk":   "dropped",
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/orders", req.Path)
	assert.Equal(t, "SPOT_BTC_USDT", req.Params["symbol"])
	assert.Equal(t, "FILLED", req.Params["status"])
	assert.NotContains(t, req.Params, "side")
	assert.NotContains(t, req.Params, "junk")
}

func TestBuildRequest_TradeHistory(t *testing.T) {
	p := NewProtocol()

	req, err := p.BuildRequest(context.Background(), core.OpGetTradeHistory, core.Params{
		"symbol":  "SPOT_BTC_USDT",
		"start_t": int64(1578000000000),
	})
	require.NoError(t, err)
	assert.Equal(t, "/v1/client/trades", req.Path)
	assert.Equal(t, int64(1578000000000), req.Params["start_t"])
}

func TestSignRequest_SetsAuthHeaders(t *testing.T) {
	p := NewProtocol()
	creds := core.Credentials{APIKey: "key", Secret: []byte("QHKRXHPAW1MC9YGZMAT8YDJG2HPR")}

	values, err := signing.FormatParams(core.Params{
		"symbol":         "SPOT_BTC_USDT",
		"order_type":     "LIMIT",
		"side":           "BUY",
		"order_price":    9000.0,
		"order_quantity": 0.11,
	})
	require.NoError(t, err)

	client := resty.New()
	defer client.Close()
	req := client.R()

	require.NoError(t, p.SignRequest(req, values, 1578565539808, creds))
	assert.Equal(t, "key", req.Header.Get(HeaderAPIKey))
	assert.Equal(t, "1578565539808", req.Header.Get(HeaderTimestamp))
	assert.Equal(t,
		"20da0852f73b20da0208c7e627975a59ff072379883d8457d03104651032033d",
		req.Header.Get(HeaderSignature))
}

func TestSignRequest_RequiresCredentials(t *testing.T) {
	p := NewProtocol()
	client := resty.New()
	defer client.Close()

	err := p.SignRequest(client.R(), url.Values{}, 1, core.Credentials{})
	assert.ErrorIs(t, err, core.ErrNoCredentials)

	err = p.SignRequest(client.R(), url.Values{}, 1, core.Credentials{APIKey: "key"})
	assert.ErrorIs(t, err, core.ErrNoCredentials)
}

func TestMapErrorCode(t *testing.T) {
	tests := []struct {
		code int
		want core.ErrorType
	}{
		{-1001, core.ErrorTypeAuthentication},
		{-1002, core.ErrorTypeAuthentication},
		{-1003, core.ErrorTypeRateLimit},
		{-1008, core.ErrorTypeRateLimit},
		{-1004, core.ErrorTypeBadRequest},
		{-1006, core.ErrorTypeNotFound},
		{-1009, core.ErrorTypeServerError},
		{-1103, core.ErrorTypeInvalidOrder},
		{-42, core.ErrorTypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapErrorCode(tt.code), "code %d", tt.code)
	}
}
