package core

import (
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Side represents the direction of an order (buy or sell).
type Side int

// Order side constants define the direction of a trade.
const (
	// SideBuy indicates an order to purchase an asset.
	SideBuy Side = iota
	// SideSell indicates an order to sell an asset.
	SideSell
)

// String returns the string representation of the order side ("BUY" or "SELL").
func (s Side) String() string {
	return [...]string{"BUY", "SELL"}[s]
}

// MarshalJSON implements json.Marshaler for Side.
func (s Side) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for Side.
// It accepts both uppercase and lowercase forms.
func (s *Side) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"BUY"`, `"buy"`:
		*s = SideBuy
	case `"SELL"`, `"sell"`:
		*s = SideSell
	}
	return nil
}

// OrderType represents how an order is executed on WOO X.
type OrderType int

// Order type constants map to the order_type values accepted by the v1 API.
const (
	// TypeLimit executes at a specified price or better.
	TypeLimit OrderType = iota
	// TypeMarket executes immediately at the best available price.
	TypeMarket
	// TypeIOC executes immediately; the unfilled portion is canceled.
	TypeIOC
	// TypeFOK executes completely and immediately or not at all.
	TypeFOK
	// TypePostOnly rests on the book or is rejected, never taking liquidity.
	TypePostOnly
	// TypeAsk pegs the order price to the current best ask.
	TypeAsk
	// TypeBid pegs the order price to the current best bid.
	TypeBid
)

// String returns the wire representation of the order type.
func (t OrderType) String() string {
	return [...]string{"LIMIT", "MARKET", "IOC", "FOK", "POST_ONLY", "ASK", "BID"}[t]
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderType.
// It accepts both uppercase and lowercase forms.
func (t *OrderType) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"LIMIT"`, `"limit"`:
		*t = TypeLimit
	case `"MARKET"`, `"market"`:
		*t = TypeMarket
	case `"IOC"`, `"ioc"`:
		*t = TypeIOC
	case `"FOK"`, `"fok"`:
		*t = TypeFOK
	case `"POST_ONLY"`, `"post_only"`:
		*t = TypePostOnly
	case `"ASK"`, `"ask"`:
		*t = TypeAsk
	case `"BID"`, `"bid"`:
		*t = TypeBid
	}
	return nil
}

// PositionSide identifies which side of a hedged position an order affects.
type PositionSide int

// Position side constants for hedge-mode accounts.
const (
	// PositionBoth is used for one-way position mode.
	PositionBoth PositionSide = iota
	// PositionLong affects the long side of a hedged position.
	PositionLong
	// PositionShort affects the short side of a hedged position.
	PositionShort
)

// String returns the wire representation of the position side.
func (p PositionSide) String() string {
	return [...]string{"BOTH", "LONG", "SHORT"}[p]
}

// OrderStatus represents the lifecycle state of an order as reported by WOO X.
type OrderStatus int

// Order status constants mirror the v1 API status strings.
const (
	// StatusNew indicates the order has been accepted by the matching engine.
	StatusNew OrderStatus = iota
	// StatusPartialFilled indicates the order has been partially executed.
	StatusPartialFilled
	// StatusFilled indicates the order has been completely executed.
	StatusFilled
	// StatusCancelled indicates the order has been canceled.
	StatusCancelled
	// StatusRejected indicates the order was rejected.
	StatusRejected
	// StatusIncomplete indicates the order is resting with remaining quantity.
	StatusIncomplete
	// StatusCompleted indicates the order is fully done.
	StatusCompleted
)

// String returns the wire representation of the order status.
func (s OrderStatus) String() string {
	return [...]string{
		"NEW",
		"PARTIAL_FILLED",
		"FILLED",
		"CANCELLED",
		"REJECTED",
		"INCOMPLETE",
		"COMPLETED",
	}[s]
}

// IsTerminal returns true if no further state changes are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusFilled || s == StatusCancelled || s == StatusRejected || s == StatusCompleted
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler for OrderStatus.
func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"NEW"`, `"new"`:
		*s = StatusNew
	case `"PARTIAL_FILLED"`, `"partial_filled"`:
		*s = StatusPartialFilled
	case `"FILLED"`, `"filled"`:
		*s = StatusFilled
	case `"CANCELLED"`, `"cancelled"`:
		*s = StatusCancelled
	case `"REJECTED"`, `"rejected"`:
		*s = StatusRejected
	case `"INCOMPLETE"`, `"incomplete"`:
		*s = StatusIncomplete
	case `"COMPLETED"`, `"completed"`:
		*s = StatusCompleted
	}
	return nil
}

// Order represents an order on WOO X with all its details.
type Order struct {
	// ID is the exchange-assigned order identifier.
	ID int64 `json:"order_id"`
	// ClientOrderID is the client-assigned order identifier (0 if unset).
	ClientOrderID int64 `json:"client_order_id"`
	// Symbol is the trading pair, e.g. "SPOT_BTC_USDT".
	Symbol string `json:"symbol"`
	// Side indicates whether this is a buy or sell order.
	Side Side `json:"side"`
	// Type defines how the order executes.
	Type OrderType `json:"type"`
	// Price is the limit price; zero for market orders.
	Price apd.Decimal `json:"price"`
	// Quantity is the order quantity in base currency.
	Quantity apd.Decimal `json:"quantity"`
	// Amount is the order size in quote currency for market buys.
	Amount apd.Decimal `json:"amount"`
	// Executed is the quantity filled so far.
	Executed apd.Decimal `json:"executed"`
	// AverageExecutedPrice is the volume-weighted fill price.
	AverageExecutedPrice apd.Decimal `json:"average_executed_price"`
	// Fee is the total trading fee charged for this order.
	Fee apd.Decimal `json:"total_fee"`
	// FeeAsset is the currency in which the fee was charged.
	FeeAsset string `json:"fee_asset"`
	// Status is the current lifecycle state of the order.
	Status OrderStatus `json:"status"`
	// OrderTag is the broker tag the order was placed with.
	OrderTag string `json:"order_tag"`
	// ReduceOnly restricts the order to reducing an open position.
	ReduceOnly bool `json:"reduce_only"`
	// Visible is the quantity shown on the book for iceberg orders.
	Visible apd.Decimal `json:"visible"`
	// CreatedAt is when the order was accepted.
	CreatedAt time.Time `json:"created_time"`
	// UpdatedAt is when the order was last modified.
	UpdatedAt time.Time `json:"updated_time"`
}

// Trade represents a single execution belonging to an order.
type Trade struct {
	// ID is the exchange-assigned trade identifier.
	ID int64 `json:"id"`
	// OrderID links this trade to its parent order.
	OrderID int64 `json:"order_id"`
	// Symbol is the trading pair for this trade.
	Symbol string `json:"symbol"`
	// Side indicates whether this was a buy or sell.
	Side Side `json:"side"`
	// Price is the execution price.
	Price apd.Decimal `json:"executed_price"`
	// Quantity is the executed quantity.
	Quantity apd.Decimal `json:"executed_quantity"`
	// Fee is the trading fee charged for this execution.
	Fee apd.Decimal `json:"fee"`
	// FeeAsset is the currency in which the fee was charged.
	FeeAsset string `json:"fee_asset"`
	// IsMaker reports whether the execution added liquidity.
	IsMaker bool `json:"is_maker"`
	// ExecutedAt is when the trade was executed.
	ExecutedAt time.Time `json:"executed_timestamp"`
}

// SystemStatus reports the operational state of the exchange.
type SystemStatus struct {
	// Status is the numeric state (0 means fully operational).
	Status int `json:"status"`
	// Message is the human-readable status description.
	Message string `json:"msg"`
	// Timestamp is when the status was generated.
	Timestamp time.Time `json:"timestamp"`
}
