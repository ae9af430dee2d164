package core

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSide_String(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{"buy", SideBuy, "BUY"},
		{"sell", SideSell, "SELL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.side.String())
		})
	}
}

func TestOrderType_String(t *testing.T) {
	tests := []struct {
		name      string
		orderType OrderType
		want      string
	}{
		{"limit", TypeLimit, "LIMIT"},
		{"market", TypeMarket, "MARKET"},
		{"ioc", TypeIOC, "IOC"},
		{"fok", TypeFOK, "FOK"},
		{"post_only", TypePostOnly, "POST_ONLY"},
		{"ask", TypeAsk, "ASK"},
		{"bid", TypeBid, "BID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.orderType.String())
		})
	}
}

func TestOrderStatus_String(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   string
	}{
		{"new", StatusNew, "NEW"},
		{"partial_filled", StatusPartialFilled, "PARTIAL_FILLED"},
		{"filled", StatusFilled, "FILLED"},
		{"cancelled", StatusCancelled, "CANCELLED"},
		{"rejected", StatusRejected, "REJECTED"},
		{"incomplete", StatusIncomplete, "INCOMPLETE"},
		{"completed", StatusCompleted, "COMPLETED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusFilled.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusNew.IsTerminal())
	assert.False(t, StatusPartialFilled.IsTerminal())
	assert.False(t, StatusIncomplete.IsTerminal())
}

func TestPositionSide_String(t *testing.T) {
	assert.Equal(t, "BOTH", PositionBoth.String())
	assert.Equal(t, "LONG", PositionLong.String())
	assert.Equal(t, "SHORT", PositionShort.String())
}

func TestEnumJSON_RoundTrip(t *testing.T) {
	data, err := sonic.Marshal(SideSell)
	require.NoError(t, err)
	assert.Equal(t, `"SELL"`, string(data))

	var side Side
	require.NoError(t, sonic.Unmarshal([]byte(`"sell"`), &side))
	assert.Equal(t, SideSell, side)

	var status OrderStatus
	require.NoError(t, sonic.Unmarshal([]byte(`"PARTIAL_FILLED"`), &status))
	assert.Equal(t, StatusPartialFilled, status)

	var orderType OrderType
	require.NoError(t, sonic.Unmarshal([]byte(`"post_only"`), &orderType))
	assert.Equal(t, TypePostOnly, orderType)
}
