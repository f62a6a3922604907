package domain

import "context"

// BookCache stores the most recent orderbook snapshot per symbol with a
// short TTL. It serves the on-demand query path only; the trading loop
// always reads live data from the exchange.
type BookCache interface {
	SetSnapshot(ctx context.Context, symbol string, snap OrderbookSnapshot) error
	GetSnapshot(ctx context.Context, symbol string) (OrderbookSnapshot, error)
}
