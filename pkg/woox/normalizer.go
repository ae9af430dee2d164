package woox

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/core"
)

// Normalizer converts WOO X wire structures to canonical core types.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeOrder converts a wooOrder to a canonical Order.
func (n *Normalizer) NormalizeOrder(data *wooOrder) (*core.Order, error) {
	order := &core.Order{
		ID:            data.OrderID,
		ClientOrderID: data.ClientOrderID,
		Symbol:        data.Symbol,
		Side:          parseSide(data.Side),
		Type:          parseOrderType(data.Type),
		Status:        parseOrderStatus(data.Status),
		FeeAsset:      data.FeeAsset,
		OrderTag:      data.OrderTag,
		ReduceOnly:    data.ReduceOnly,
	}

	for _, f := range []struct {
		dst *apd.Decimal
		src json.Number
	}{
		{&order.Price, data.Price},
		{&order.Quantity, data.Quantity},
		{&order.Amount, data.Amount},
		{&order.Executed, data.Executed},
		{&order.AverageExecutedPrice, data.AverageExecutedPrice},
		{&order.Fee, data.TotalFee},
		{&order.Visible, data.Visible},
	} {
		if err := setDecimal(f.dst, f.src); err != nil {
			return nil, err
		}
	}

	order.CreatedAt = parseEpoch(data.CreatedTime)
	order.UpdatedAt = parseEpoch(data.UpdatedTime)

	return order, nil
}

// NormalizeOrderAck converts a send-order acknowledgement to a canonical
// Order carrying the fields the exchange echoes back.
func (n *Normalizer) NormalizeOrderAck(data *wooOrderAck) (*core.Order, error) {
	order := &core.Order{
		ID:            data.OrderID,
		ClientOrderID: data.ClientOrderID,
		Type:          parseOrderType(data.OrderType),
		Status:        core.StatusNew,
		ReduceOnly:    data.ReduceOnly,
	}

	if err := setDecimal(&order.Price, data.OrderPrice); err != nil {
		return nil, err
	}
	if err := setDecimal(&order.Quantity, data.OrderQuantity); err != nil {
		return nil, err
	}
	if err := setDecimal(&order.Amount, data.OrderAmount); err != nil {
		return nil, err
	}
	order.CreatedAt = parseEpoch(data.Timestamp)

	return order, nil
}

// NormalizeTrade converts a wooTrade to a canonical Trade.
func (n *Normalizer) NormalizeTrade(data *wooTrade) (*core.Trade, error) {
	trade := &core.Trade{
		ID:       data.ID,
		OrderID:  data.OrderID,
		Symbol:   data.Symbol,
		Side:     parseSide(data.Side),
		FeeAsset: data.FeeAsset,
		IsMaker:  data.IsMaker == 1,
	}

	if err := setDecimal(&trade.Price, data.ExecutedPrice); err != nil {
		return nil, err
	}
	if err := setDecimal(&trade.Quantity, data.ExecutedQuantity); err != nil {
		return nil, err
	}
	if err := setDecimal(&trade.Fee, data.Fee); err != nil {
		return nil, err
	}
	trade.ExecutedAt = parseEpoch(data.ExecutedTimestamp)

	return trade, nil
}

// NormalizeTrades converts a page of trades.
func (n *Normalizer) NormalizeTrades(rows []wooTrade) ([]core.Trade, error) {
	trades := make([]core.Trade, 0, len(rows))
	for i := range rows {
		trade, err := n.NormalizeTrade(&rows[i])
		if err != nil {
			return nil, err
		}
		trades = append(trades, *trade)
	}
	return trades, nil
}

// NormalizeOrders converts a page of orders.
func (n *Normalizer) NormalizeOrders(rows []wooOrder) ([]core.Order, error) {
	orders := make([]core.Order, 0, len(rows))
	for i := range rows {
		order, err := n.NormalizeOrder(&rows[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

// NormalizeSystemStatus converts the system_info payload.
func (n *Normalizer) NormalizeSystemStatus(data *wooSystemStatus) *core.SystemStatus {
	return &core.SystemStatus{
		Status:    data.Data.Status,
		Message:   data.Data.Msg,
		Timestamp: parseEpoch(data.Timestamp),
	}
}

// setDecimal parses a json.Number into dst. Empty means the field was null
// or absent and leaves dst at zero.
func setDecimal(dst *apd.Decimal, src json.Number) error {
	if src == "" {
		return nil
	}
	if _, _, err := dst.SetString(string(src)); err != nil {
		return fmt.Errorf("parse decimal %q: %w", src, err)
	}
	return nil
}

// parseEpoch handles the v1 API's two timestamp renderings: integer
// milliseconds ("1578565539808") and fractional seconds ("1578565539.808").
func parseEpoch(num json.Number) time.Time {
	s := string(num)
	if s == "" {
		return time.Time{}
	}
	if strings.Contains(s, ".") {
		f, err := num.Float64()
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(int64(f * 1000))
	}
	ms, err := num.Int64()
	if err != nil {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func parseSide(s string) core.Side {
	if strings.EqualFold(s, "SELL") {
		return core.SideSell
	}
	return core.SideBuy
}

func parseOrderType(s string) core.OrderType {
	switch strings.ToUpper(s) {
	case "MARKET":
		return core.TypeMarket
	case "IOC":
		return core.TypeIOC
	case "FOK":
		return core.TypeFOK
	case "POST_ONLY":
		return core.TypePostOnly
	case "ASK":
		return core.TypeAsk
	case "BID":
		return core.TypeBid
	default:
		return core.TypeLimit
	}
}

func parseOrderStatus(s string) core.OrderStatus {
	switch strings.ToUpper(s) {
	case "PARTIAL_FILLED":
		return core.StatusPartialFilled
	case "FILLED":
		return core.StatusFilled
	case "CANCELLED", "CANCEL_SENT", "CANCEL_ALL_SENT":
		return core.StatusCancelled
	case "REJECTED":
		return core.StatusRejected
	case "INCOMPLETE":
		return core.StatusIncomplete
	case "COMPLETED":
		return core.StatusCompleted
	default:
		return core.StatusNew
	}
}
