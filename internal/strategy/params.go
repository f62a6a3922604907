package strategy

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BrianChanLEE/bot/internal/domain"
)

// fracDigits is the number of fractional digits drawn for the quantity.
const fracDigits = 4

// ParamSource draws the randomized inputs of each trading cycle: the target
// price from a fixed discrete set, the quantity uniformly from
// [minQty, maxQty+1) with four fractional digits, and the delay before the
// next cycle. It is not safe for concurrent use; the scheduling loop draws
// from a single goroutine.
type ParamSource struct {
	rng    *rand.Rand
	prices []decimal.Decimal
	minQty int64
	maxQty int64
}

// NewParamSource creates a ParamSource drawing target prices from the given
// set and whole quantities from [minQty, maxQty]. A zero seed selects a
// time-based seed; any other value makes the draw sequence reproducible.
func NewParamSource(prices []decimal.Decimal, minQty, maxQty int64, seed int64) (*ParamSource, error) {
	if len(prices) == 0 {
		return nil, fmt.Errorf("param source: empty target price set")
	}
	if minQty <= 0 || maxQty < minQty {
		return nil, fmt.Errorf("param source: invalid quantity range [%d, %d]", minQty, maxQty)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &ParamSource{
		rng:    rand.New(rand.NewSource(seed)),
		prices: prices,
		minQty: minQty,
		maxQty: maxQty,
	}, nil
}

// Draw produces fresh market parameters for one cycle.
func (s *ParamSource) Draw() domain.MarketParams {
	price := s.prices[s.rng.Intn(len(s.prices))]

	whole := s.minQty + s.rng.Int63n(s.maxQty-s.minQty+1)
	frac := s.rng.Int63n(10000)
	qty := decimal.NewFromInt(whole).Add(decimal.New(frac, -fracDigits))

	return domain.MarketParams{
		TargetPrice: price,
		Quantity:    qty,
	}
}

// Delay draws the pause before the next cycle, uniform in [0, max).
func (s *ParamSource) Delay(max time.Duration) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(s.rng.Int63n(int64(max)))
}
