package woox

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nakula/pkg/core"
	"nakula/pkg/signing"
)

func newTestStream(t *testing.T) *Stream {
	t.Helper()
	s := NewStream(core.EnvStaging, core.Credentials{
		APIKey:        "key",
		Secret:        []byte("QHKRXHPAW1MC9YGZMAT8YDJG2HPR"),
		ApplicationID: "app-id",
	})
	s.now = func() time.Time { return time.UnixMilli(1578565539808) }
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStream_AuthSignsEmptyCanonicalString(t *testing.T) {
	// The auth event has no request parameters, so its signature is the
	// empty canonical string joined with the timestamp.
	secret := []byte("QHKRXHPAW1MC9YGZMAT8YDJG2HPR")
	ts := int64(1578565539808)

	auth := wsAuthRequest{
		ID:    "auth",
		Event: "auth",
		Params: wsAuthParams{
			APIKey:    "key",
			Sign:      signing.Sign("", ts, secret),
			Timestamp: ts,
		},
	}

	data, err := sonic.Marshal(auth)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(data, &decoded))
	params := decoded["params"].(map[string]any)
	assert.Equal(t, signing.Sign("", ts, secret), params["sign"])
	assert.Regexp(t, "^[0-9a-f]{64}$", params["sign"])
}

func TestStream_HandleExecutionReport(t *testing.T) {
	s := newTestStream(t)

	s.handleFrame([]byte(`{
		"topic": "executionreport",
		"ts": 1578565539808,
		"data": {
			"msgType": 0,
			"symbol": "SPOT_BTC_USDT",
			"orderId": 9001,
			"tradeId": 3,
			"side": "BUY",
			"type": "LIMIT",
			"executedPrice": 9000,
			"executedQuantity": 0.05,
			"status": "PARTIAL_FILLED",
			"timestamp": 1578565539808
		}
	}`))

	select {
	case report := <-s.Reports():
		assert.Equal(t, "SPOT_BTC_USDT", report.Symbol)
		assert.Equal(t, int64(9001), report.OrderID)
		assert.Equal(t, int64(3), report.TradeID)
		assert.Equal(t, "PARTIAL_FILLED", report.Status)
	default:
		t.Fatal("expected an execution report")
	}
}

func TestStream_HandleAuthRejection(t *testing.T) {
	s := newTestStream(t)

	s.handleFrame([]byte(`{"event":"auth","success":false,"errorMsg":"invalid sign"}`))

	select {
	case err := <-s.Errs():
		assert.True(t, core.IsAuthenticationError(err))
		assert.Contains(t, err.Error(), "invalid sign")
	default:
		t.Fatal("expected an auth error")
	}
}

func TestStream_IgnoresMalformedFrames(t *testing.T) {
	s := newTestStream(t)

	s.handleFrame([]byte(`not json`))
	s.handleFrame([]byte(`{"topic":"executionreport","data":"not an object"}`))

	select {
	case <-s.Reports():
		t.Fatal("no report expected")
	default:
	}
}

func TestStream_NotConnectedInitially(t *testing.T) {
	s := newTestStream(t)
	assert.False(t, s.Connected())
}
