// Package order provides a fluent builder for composing order requests.
package order

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"nakula/pkg/client"
	"nakula/pkg/core"
)

// Builder provides a fluent interface for constructing order requests.
// It accumulates validation errors and reports them on Build.
//
// Example:
//
//	req, err := order.NewBuilder("SPOT_BTC_USDT").
//	    Buy().
//	    Limit().
//	    Price("9000").
//	    Quantity("0.11").
//	    Build()
type Builder struct {
	req *client.OrderRequest
	err error
}

// NewBuilder creates a new builder for the given trading symbol.
func NewBuilder(symbol string) *Builder {
	return &Builder{
		req: &client.OrderRequest{Symbol: symbol},
	}
}

// Side sets the order side (buy or sell).
func (b *Builder) Side(side core.Side) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Side = side
	return b
}

// Buy sets the order side to buy.
func (b *Builder) Buy() *Builder {
	return b.Side(core.SideBuy)
}

// Sell sets the order side to sell.
func (b *Builder) Sell() *Builder {
	return b.Side(core.SideSell)
}

// Type sets the order type.
func (b *Builder) Type(orderType core.OrderType) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Type = orderType
	return b
}

// Limit sets the order type to limit.
func (b *Builder) Limit() *Builder {
	return b.Type(core.TypeLimit)
}

// Market sets the order type to market.
func (b *Builder) Market() *Builder {
	return b.Type(core.TypeMarket)
}

// IOC sets the order type to immediate-or-cancel.
func (b *Builder) IOC() *Builder {
	return b.Type(core.TypeIOC)
}

// FOK sets the order type to fill-or-kill.
func (b *Builder) FOK() *Builder {
	return b.Type(core.TypeFOK)
}

// PostOnly sets the order type to post-only.
func (b *Builder) PostOnly() *Builder {
	return b.Type(core.TypePostOnly)
}

// Price sets the limit price from its exact string representation. The
// string travels to the exchange unchanged, so "9000.0" and "9000" produce
// different signed bodies.
func (b *Builder) Price(price string) *Builder {
	if b.err != nil {
		return b
	}
	d, ok := parseDecimal(price)
	if !ok {
		b.err = fmt.Errorf("parse price %q", price)
		return b
	}
	b.req.Price = d
	return b
}

// PriceDecimal sets the limit price from an apd.Decimal value.
func (b *Builder) PriceDecimal(price *apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Price = price
	return b
}

// Quantity sets the order quantity from its exact string representation.
func (b *Builder) Quantity(qty string) *Builder {
	if b.err != nil {
		return b
	}
	d, ok := parseDecimal(qty)
	if !ok {
		b.err = fmt.Errorf("parse quantity %q", qty)
		return b
	}
	b.req.Quantity = d
	return b
}

// QuantityDecimal sets the order quantity from an apd.Decimal value.
func (b *Builder) QuantityDecimal(qty *apd.Decimal) *Builder {
	if b.err != nil {
		return b
	}
	b.req.Quantity = qty
	return b
}

// Amount sets the order size in quote currency, used by market buys.
func (b *Builder) Amount(amount string) *Builder {
	if b.err != nil {
		return b
	}
	d, ok := parseDecimal(amount)
	if !ok {
		b.err = fmt.Errorf("parse amount %q", amount)
		return b
	}
	b.req.Amount = d
	return b
}

// ClientOrderID sets a client-assigned identifier for order tracking.
func (b *Builder) ClientOrderID(id int64) *Builder {
	if b.err != nil {
		return b
	}
	b.req.ClientOrderID = &id
	return b
}

// OrderTag sets the broker tag for the order.
func (b *Builder) OrderTag(tag string) *Builder {
	if b.err != nil {
		return b
	}
	b.req.OrderTag = tag
	return b
}

// ReduceOnly restricts the order to reducing an open position.
func (b *Builder) ReduceOnly() *Builder {
	if b.err != nil {
		return b
	}
	v := true
	b.req.ReduceOnly = &v
	return b
}

// Visible sets the quantity shown on the book for iceberg orders.
func (b *Builder) Visible(qty string) *Builder {
	if b.err != nil {
		return b
	}
	d, ok := parseDecimal(qty)
	if !ok {
		b.err = fmt.Errorf("parse visible quantity %q", qty)
		return b
	}
	b.req.Visible = d
	return b
}

// PositionSide sets which side of a hedged position the order affects.
func (b *Builder) PositionSide(side core.PositionSide) *Builder {
	if b.err != nil {
		return b
	}
	b.req.PositionSide = &side
	return b
}

// Build validates and returns the constructed request.
// Returns an error if any required fields are missing or invalid.
func (b *Builder) Build() (*client.OrderRequest, error) {
	if b.err != nil {
		return nil, b.err
	}

	if err := validate(b.req); err != nil {
		return nil, err
	}

	return b.req, nil
}

func validate(req *client.OrderRequest) error {
	if req.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}

	if req.Quantity == nil && req.Amount == nil {
		return fmt.Errorf("quantity or amount is required")
	}
	if req.Quantity != nil && (req.Quantity.IsZero() || req.Quantity.Negative) {
		return fmt.Errorf("quantity must be positive")
	}
	if req.Amount != nil && (req.Amount.IsZero() || req.Amount.Negative) {
		return fmt.Errorf("amount must be positive")
	}

	switch req.Type {
	case core.TypeLimit, core.TypeIOC, core.TypeFOK, core.TypePostOnly:
		if req.Price == nil || req.Price.IsZero() || req.Price.Negative {
			return fmt.Errorf("price must be positive for %s orders", req.Type)
		}
	}

	return nil
}

func parseDecimal(s string) (*apd.Decimal, bool) {
	d := new(apd.Decimal)
	if _, _, err := d.SetString(s); err != nil {
		return nil, false
	}
	return d, true
}
