// Package strategy contains the price-pegging decision engine and the
// per-cycle market parameter source.
//
// Each cycle the engine either crosses the existing best quote, sized to not
// exceed the visible opposing liquidity, or posts two resting orders that
// straddle the target price. Repeated over many cycles this nudges the
// traded price toward the target.
package strategy

import "github.com/BrianChanLEE/bot/internal/domain"

// Decide maps an orderbook snapshot and the cycle's market parameters to the
// ordered list of orders to submit. It is pure and deterministic; all
// randomness lives in how params was produced. Order within the returned
// list encodes submission priority.
//
// The snapshot must have non-empty ask and bid sides; the reader rejects
// anything else before it reaches this function. Decide returns nil for a
// snapshot that slipped through with an empty side.
func Decide(book domain.OrderbookSnapshot, p domain.MarketParams) []domain.Order {
	minAsk, ok := book.MinAsk()
	if !ok {
		return nil
	}
	maxBid, ok := book.MaxBid()
	if !ok {
		return nil
	}

	buy := domain.Order{Side: domain.OrderSideBuy, Amount: p.Quantity, Price: p.TargetPrice}
	sell := domain.Order{Side: domain.OrderSideSell, Amount: p.Quantity, Price: p.TargetPrice}

	switch {
	case minAsk.Price.Equal(p.TargetPrice):
		// The best ask sits exactly at target: lift it, capped to its
		// visible volume, and leave a resting sell at target.
		if p.Quantity.GreaterThan(minAsk.Volume) {
			buy.Amount = minAsk.Volume
		}
		return []domain.Order{buy, sell}

	case minAsk.Price.LessThan(p.TargetPrice):
		// A cheaper ask exists below target: cross at the ask's own price
		// when capping, otherwise buy the full quantity at target.
		if p.Quantity.GreaterThan(minAsk.Volume) {
			buy.Amount = minAsk.Volume
			buy.Price = minAsk.Price
		}
		return []domain.Order{buy, sell}

	default: // minAsk.Price > p.TargetPrice
		switch {
		case maxBid.Price.Equal(p.TargetPrice):
			if p.Quantity.GreaterThan(maxBid.Volume) {
				sell.Amount = maxBid.Volume
			}
			return []domain.Order{sell, buy}

		case maxBid.Price.GreaterThan(p.TargetPrice):
			// A bid rests above target: hit it, capped to its volume.
			// No accompanying buy order in this branch.
			if p.Quantity.GreaterThan(maxBid.Volume) {
				sell.Amount = maxBid.Volume
				sell.Price = maxBid.Price
			}
			return []domain.Order{sell}

		default: // maxBid.Price < p.TargetPrice
			// The book straddles the target: post both sides at target.
			return []domain.Order{sell, buy}
		}
	}
}
