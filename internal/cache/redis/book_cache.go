package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BrianChanLEE/bot/internal/domain"
)

// BookCache implements domain.BookCache by storing the latest serialized
// snapshot per symbol under a short TTL.
//
// Key schema:
//
//	book:{symbol} - JSON-encoded domain.OrderbookSnapshot
type BookCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBookCache creates a BookCache backed by the given Client. Entries
// expire after ttl.
func NewBookCache(c *Client, ttl time.Duration) *BookCache {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &BookCache{
		rdb: c.Underlying(),
		ttl: ttl,
	}
}

func bookKey(symbol string) string { return "book:" + symbol }

// SetSnapshot replaces the cached snapshot for a symbol.
func (bc *BookCache) SetSnapshot(ctx context.Context, symbol string, snap domain.OrderbookSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot %s: %w", symbol, err)
	}
	if err := bc.rdb.Set(ctx, bookKey(symbol), data, bc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot %s: %w", symbol, err)
	}
	return nil
}

// GetSnapshot returns the cached snapshot for a symbol, or domain.ErrNotFound
// when none exists or the entry has expired.
func (bc *BookCache) GetSnapshot(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error) {
	data, err := bc.rdb.Get(ctx, bookKey(symbol)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OrderbookSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("redis: get snapshot %s: %w", symbol, err)
	}

	var snap domain.OrderbookSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("redis: decode snapshot %s: %w", symbol, err)
	}
	return snap, nil
}

// Compile-time interface check.
var _ domain.BookCache = (*BookCache)(nil)
