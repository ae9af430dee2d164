package core

// Operation represents a type of action that can be performed against the
// WOO X trade API.
type Operation int

// Operation constants define all supported API operations.
const (
	// OpSystemStatus retrieves the exchange system status (unauthenticated).
	OpSystemStatus Operation = iota
	// OpSendOrder submits a new order.
	OpSendOrder
	// OpCancelOrder cancels an existing order by its exchange-assigned ID.
	OpCancelOrder
	// OpCancelOrderByClientID cancels an existing order by its client-assigned ID.
	OpCancelOrderByClientID
	// OpGetOrder retrieves details of a specific order.
	OpGetOrder
	// OpGetOrders retrieves orders matching optional filters.
	OpGetOrders
	// OpGetTrade retrieves a single executed trade by its ID.
	OpGetTrade
	// OpGetTradeHistory retrieves the account's executed trades.
	OpGetTradeHistory
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"SYSTEM_STATUS",
		"SEND_ORDER",
		"CANCEL_ORDER",
		"CANCEL_ORDER_BY_CLIENT_ID",
		"GET_ORDER",
		"GET_ORDERS",
		"GET_TRADE",
		"GET_TRADE_HISTORY",
	}[o]
}

// IsOrderOperation reports whether the operation mutates order state and is
// therefore subject to the stricter order rate-limit bucket.
func (o Operation) IsOrderOperation() bool {
	return o == OpSendOrder || o == OpCancelOrder || o == OpCancelOrderByClientID
}
