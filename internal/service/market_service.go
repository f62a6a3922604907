// Package service holds the application services behind the HTTP handlers.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/BrianChanLEE/bot/internal/domain"
	"github.com/BrianChanLEE/bot/internal/trader"
)

// Mailer delivers a message to an explicit recipient.
type Mailer interface {
	SendTo(ctx context.Context, to, subject, body string) error
}

// MarketService serves on-demand orderbook queries. Snapshots are read
// through a short-TTL cache when one is configured; the trading loop does
// not go through this service and always reads live data.
type MarketService struct {
	exchange trader.BookFetcher
	cache    domain.BookCache // nil when caching is disabled
	mailer   Mailer           // nil when SMTP is not configured
	logger   *slog.Logger
}

// NewMarketService creates a MarketService. cache and mailer are optional.
func NewMarketService(exchange trader.BookFetcher, cache domain.BookCache, mailer Mailer, logger *slog.Logger) *MarketService {
	return &MarketService{
		exchange: exchange,
		cache:    cache,
		mailer:   mailer,
		logger:   logger.With(slog.String("component", "market_service")),
	}
}

// Orderbook returns the current snapshot for a symbol, checking the cache
// first and falling back to a live fetch on a miss. Cache errors are logged
// and never fail the query.
func (s *MarketService) Orderbook(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.GetSnapshot(ctx, symbol)
		if err == nil {
			return snap, nil
		}
	}

	snap, err := s.exchange.OrderBook(ctx, symbol)
	if err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("market_service: orderbook %s: %w", symbol, err)
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetSnapshot(ctx, symbol, snap); cacheErr != nil {
			s.logger.WarnContext(ctx, "cache set failed",
				slog.String("symbol", symbol),
				slog.String("error", cacheErr.Error()),
			)
		}
	}

	return snap, nil
}

// SendOrderbook emails a pretty-printed snapshot to the given address. The
// caller decides how a delivery failure relates to the fetch that produced
// the snapshot; this method reports only the hand-off result.
func (s *MarketService) SendOrderbook(ctx context.Context, to string, snap domain.OrderbookSnapshot) error {
	if s.mailer == nil {
		return fmt.Errorf("market_service: mail delivery not configured")
	}

	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("market_service: marshal snapshot: %w", err)
	}

	subject := fmt.Sprintf("Orderbook snapshot: %s", snap.Symbol)
	if err := s.mailer.SendTo(ctx, to, subject, string(body)); err != nil {
		return fmt.Errorf("market_service: %w", err)
	}

	s.logger.InfoContext(ctx, "orderbook emailed",
		slog.String("symbol", snap.Symbol),
		slog.String("to", to),
	)
	return nil
}
