package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceLevel is a single price+volume rung of an orderbook ladder. On the
// wire it is a two-element array [price, volume].
type PriceLevel struct {
	Price  decimal.Decimal
	Volume decimal.Decimal
}

// UnmarshalJSON decodes the exchange's [price, volume] pair, accepting both
// bare numbers and quoted decimal strings.
func (l *PriceLevel) UnmarshalJSON(data []byte) error {
	var pair []decimal.Decimal
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("price level: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("price level: expected [price, volume], got %d elements", len(pair))
	}
	l.Price = pair[0]
	l.Volume = pair[1]
	return nil
}

// MarshalJSON encodes the level back into the exchange's pair shape.
func (l PriceLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]decimal.Decimal{l.Price, l.Volume})
}

// OrderbookSnapshot is a point-in-time view of the best bid/ask ladder for a
// trading pair. Both sides are guaranteed non-empty by the reader; a snapshot
// with a missing or empty side never leaves the transport boundary.
type OrderbookSnapshot struct {
	Symbol    string       `json:"symbol"`
	Asks      []PriceLevel `json:"asks"`
	Bids      []PriceLevel `json:"bids"`
	Timestamp time.Time    `json:"timestamp"`
}

// MinAsk returns the ask level with the lowest price. On ties the first
// occurrence wins. ok is false when the side is empty.
func (s OrderbookSnapshot) MinAsk() (min PriceLevel, ok bool) {
	if len(s.Asks) == 0 {
		return PriceLevel{}, false
	}
	min = s.Asks[0]
	for _, lvl := range s.Asks[1:] {
		if lvl.Price.LessThan(min.Price) {
			min = lvl
		}
	}
	return min, true
}

// MaxBid returns the bid level with the highest price. On ties the first
// occurrence wins. ok is false when the side is empty.
func (s OrderbookSnapshot) MaxBid() (max PriceLevel, ok bool) {
	if len(s.Bids) == 0 {
		return PriceLevel{}, false
	}
	max = s.Bids[0]
	for _, lvl := range s.Bids[1:] {
		if lvl.Price.GreaterThan(max.Price) {
			max = lvl
		}
	}
	return max, true
}
