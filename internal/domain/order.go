package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// OrderSide indicates whether this is a buy or sell.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "buy"
	OrderSideSell OrderSide = "sell"
)

// Order is a single order intent produced by the decision engine and
// submitted to the exchange in a batch. It is never mutated after creation
// and has no identity beyond its field values; order IDs are assigned by the
// exchange.
type Order struct {
	Side     OrderSide
	Amount   decimal.Decimal
	Price    decimal.Decimal
	PostOnly bool
}

// orderWire is the exchange's batch_new order object. Amount and price are
// bare JSON numbers and post_only is 0/1.
type orderWire struct {
	Type     string          `json:"type"`
	Amount   json.RawMessage `json:"amount"`
	Price    json.RawMessage `json:"price"`
	PostOnly int             `json:"post_only"`
}

// MarshalJSON encodes the order in the exchange wire shape.
func (o Order) MarshalJSON() ([]byte, error) {
	postOnly := 0
	if o.PostOnly {
		postOnly = 1
	}
	return json.Marshal(orderWire{
		Type:     string(o.Side),
		Amount:   json.RawMessage(o.Amount.String()),
		Price:    json.RawMessage(o.Price.String()),
		PostOnly: postOnly,
	})
}

// UnmarshalJSON decodes an order from the exchange wire shape.
func (o *Order) UnmarshalJSON(data []byte) error {
	var w struct {
		Type     string          `json:"type"`
		Amount   decimal.Decimal `json:"amount"`
		Price    decimal.Decimal `json:"price"`
		PostOnly int             `json:"post_only"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.Side = OrderSide(w.Type)
	o.Amount = w.Amount
	o.Price = w.Price
	o.PostOnly = w.PostOnly != 0
	return nil
}

// MarketParams are the randomized inputs of one trading cycle: the price the
// engine pins the market toward and the order quantity. Both are drawn fresh
// each cycle and never persisted.
type MarketParams struct {
	TargetPrice decimal.Decimal
	Quantity    decimal.Decimal
}
