package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BrianChanLEE/bot/internal/domain"
)

type fakeFetcher struct {
	calls int
	snap  domain.OrderbookSnapshot
	err   error
}

func (f *fakeFetcher) OrderBook(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error) {
	f.calls++
	if f.err != nil {
		return domain.OrderbookSnapshot{}, f.err
	}
	snap := f.snap
	snap.Symbol = symbol
	return snap, nil
}

type fakeCache struct {
	store  map[string]domain.OrderbookSnapshot
	setErr error
	sets   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string]domain.OrderbookSnapshot{}}
}

func (c *fakeCache) SetSnapshot(ctx context.Context, symbol string, snap domain.OrderbookSnapshot) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.store[symbol] = snap
	return nil
}

func (c *fakeCache) GetSnapshot(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error) {
	snap, ok := c.store[symbol]
	if !ok {
		return domain.OrderbookSnapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

type fakeMailer struct {
	to      string
	subject string
	body    string
	err     error
}

func (m *fakeMailer) SendTo(ctx context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func snapshot() domain.OrderbookSnapshot {
	return domain.OrderbookSnapshot{
		Asks: []domain.PriceLevel{{Price: decimal.RequireFromString("0.102"), Volume: decimal.NewFromInt(30)}},
		Bids: []domain.PriceLevel{{Price: decimal.RequireFromString("0.099"), Volume: decimal.NewFromInt(200)}},
	}
}

func logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOrderbookCacheMissThenHit(t *testing.T) {
	fetcher := &fakeFetcher{snap: snapshot()}
	cache := newFakeCache()
	svc := NewMarketService(fetcher, cache, nil, logger())

	first, err := svc.Orderbook(context.Background(), "IBTC_USDT")
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, 1, cache.sets)

	// The second query is served from the cache without a live fetch.
	second, err := svc.Orderbook(context.Background(), "IBTC_USDT")
	require.NoError(t, err)
	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, first, second)
}

func TestOrderbookWithoutCache(t *testing.T) {
	fetcher := &fakeFetcher{snap: snapshot()}
	svc := NewMarketService(fetcher, nil, nil, logger())

	snap, err := svc.Orderbook(context.Background(), "IBTC_USDT")
	require.NoError(t, err)
	require.Equal(t, "IBTC_USDT", snap.Symbol)
	require.Equal(t, 1, fetcher.calls)
}

func TestOrderbookCacheSetFailureIsIgnored(t *testing.T) {
	fetcher := &fakeFetcher{snap: snapshot()}
	cache := newFakeCache()
	cache.setErr = errors.New("redis down")
	svc := NewMarketService(fetcher, cache, nil, logger())

	snap, err := svc.Orderbook(context.Background(), "IBTC_USDT")
	require.NoError(t, err)
	require.Equal(t, "IBTC_USDT", snap.Symbol)
}

func TestOrderbookFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{err: domain.ErrNetwork}
	svc := NewMarketService(fetcher, nil, nil, logger())

	_, err := svc.Orderbook(context.Background(), "IBTC_USDT")
	require.ErrorIs(t, err, domain.ErrNetwork)
}

func TestSendOrderbook(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewMarketService(&fakeFetcher{}, nil, mailer, logger())

	snap := snapshot()
	snap.Symbol = "IBTC_USDT"
	require.NoError(t, svc.SendOrderbook(context.Background(), "ops@example.com", snap))

	require.Equal(t, "ops@example.com", mailer.to)
	require.Contains(t, mailer.subject, "IBTC_USDT")
	require.True(t, strings.Contains(mailer.body, "asks"))
	require.True(t, strings.Contains(mailer.body, "bids"))
}

func TestSendOrderbookWithoutMailer(t *testing.T) {
	svc := NewMarketService(&fakeFetcher{}, nil, nil, logger())
	require.Error(t, svc.SendOrderbook(context.Background(), "ops@example.com", snapshot()))
}

func TestSendOrderbookDeliveryFailure(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	svc := NewMarketService(&fakeFetcher{}, nil, mailer, logger())

	err := svc.SendOrderbook(context.Background(), "ops@example.com", snapshot())
	require.ErrorContains(t, err, "connection refused")
}
