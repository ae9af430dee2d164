package woox

import "encoding/json"

// Raw response shapes for the WOO X v1 REST API. Numeric fields arrive as
// JSON numbers, so they are captured as json.Number and converted by the
// normalizer; the v1 API is inconsistent about string versus number
// timestamps and this keeps both readable.

type wooAPIError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type wooSystemStatus struct {
	Success bool `json:"success"`
	Data    struct {
		Status int    `json:"status"`
		Msg    string `json:"msg"`
	} `json:"data"`
	Timestamp json.Number `json:"timestamp"`
}

// wooOrderAck is the acknowledgement returned by POST /v1/order.
type wooOrderAck struct {
	Success       bool        `json:"success"`
	Timestamp     json.Number `json:"timestamp"`
	OrderID       int64       `json:"order_id"`
	OrderType     string      `json:"order_type"`
	OrderPrice    json.Number `json:"order_price"`
	OrderQuantity json.Number `json:"order_quantity"`
	OrderAmount   json.Number `json:"order_amount"`
	ClientOrderID int64       `json:"client_order_id"`
	ReduceOnly    bool        `json:"reduce_only"`
}

// wooCancelAck is the acknowledgement returned by DELETE /v1/order and
// DELETE /v1/client/order.
type wooCancelAck struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type wooOrder struct {
	Success              bool        `json:"success"`
	OrderID              int64       `json:"order_id"`
	ClientOrderID        int64       `json:"client_order_id"`
	Symbol               string      `json:"symbol"`
	Side                 string      `json:"side"`
	Type                 string      `json:"type"`
	Status               string      `json:"status"`
	Price                json.Number `json:"price"`
	Quantity             json.Number `json:"quantity"`
	Amount               json.Number `json:"amount"`
	Executed             json.Number `json:"executed"`
	AverageExecutedPrice json.Number `json:"average_executed_price"`
	TotalFee             json.Number `json:"total_fee"`
	FeeAsset             string      `json:"fee_asset"`
	OrderTag             string      `json:"order_tag"`
	ReduceOnly           bool        `json:"reduce_only"`
	Visible              json.Number `json:"visible"`
	CreatedTime          json.Number `json:"created_time"`
	UpdatedTime          json.Number `json:"updated_time"`
}

type wooOrdersPage struct {
	Success bool `json:"success"`
	Meta    struct {
		Total          int `json:"total"`
		RecordsPerPage int `json:"records_per_page"`
		CurrentPage    int `json:"current_page"`
	} `json:"meta"`
	Rows []wooOrder `json:"rows"`
}

type wooTrade struct {
	ID                int64       `json:"id"`
	OrderID           int64       `json:"order_id"`
	Symbol            string      `json:"symbol"`
	Side              string      `json:"side"`
	ExecutedPrice     json.Number `json:"executed_price"`
	ExecutedQuantity  json.Number `json:"executed_quantity"`
	Fee               json.Number `json:"fee"`
	FeeAsset          string      `json:"fee_asset"`
	IsMaker           int         `json:"is_maker"`
	ExecutedTimestamp json.Number `json:"executed_timestamp"`
}

type wooTradeEnvelope struct {
	Success bool `json:"success"`
	wooTrade
}

type wooTradesPage struct {
	Success bool `json:"success"`
	Meta    struct {
		Total          int `json:"total"`
		RecordsPerPage int `json:"records_per_page"`
		CurrentPage    int `json:"current_page"`
	} `json:"meta"`
	Rows []wooTrade `json:"rows"`
}
