// Package trader drives the periodic order cycle: draw market parameters,
// fetch a live orderbook snapshot, run the decision engine, and submit the
// resulting orders in one batch.
package trader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/BrianChanLEE/bot/internal/domain"
	"github.com/BrianChanLEE/bot/internal/notify"
	"github.com/BrianChanLEE/bot/internal/strategy"
)

// Notification event types emitted by the loop.
const (
	EventOrdersSubmitted = "orders_submitted"
	EventCycleFailed     = "cycle_failed"
)

// BookFetcher fetches a live orderbook snapshot for a trading pair.
type BookFetcher interface {
	OrderBook(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error)
}

// OrderPlacer submits a batch of orders for a trading pair and returns the
// exchange-assigned order IDs.
type OrderPlacer interface {
	BatchNewOrders(ctx context.Context, symbol string, orders []domain.Order) ([]string, error)
}

// Exchange combines the two capabilities the loop needs.
type Exchange interface {
	BookFetcher
	OrderPlacer
}

// Status is a point-in-time view of the loop for the status endpoint.
type Status struct {
	Running   bool      `json:"running"`
	Symbol    string    `json:"symbol"`
	Cycles    int64     `json:"cycles"`
	Failed    int64     `json:"failed"`
	Skipped   int64     `json:"skipped"`
	LastRun   time.Time `json:"last_run,omitzero"`
	LastError string    `json:"last_error,omitempty"`
}

// Loop is the self-rescheduling trading cycle. Each cycle arms the next one
// after a randomized delay BEFORE doing its own network work, so a slow
// cycle never delays the schedule. A single-slot in-flight guard skips a
// cycle whose predecessor is still running instead of letting them overlap.
//
// There is no stop operation beyond cancelling the context passed to Run;
// cycle errors are logged and swallowed and never affect the next cycle.
type Loop struct {
	exchange Exchange
	params   *strategy.ParamSource
	notifier *notify.Notifier
	symbol   string
	maxDelay time.Duration
	logger   *slog.Logger

	started  atomic.Bool
	inFlight atomic.Bool
	cycles   atomic.Int64
	failed   atomic.Int64
	skipped  atomic.Int64

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// NewLoop creates a Loop trading the given symbol. maxDelay bounds the
// uniform random pause between consecutive cycles. notifier may be nil.
func NewLoop(exchange Exchange, params *strategy.ParamSource, notifier *notify.Notifier, symbol string, maxDelay time.Duration, logger *slog.Logger) *Loop {
	if maxDelay <= 0 {
		maxDelay = 600 * time.Second
	}
	return &Loop{
		exchange: exchange,
		params:   params,
		notifier: notifier,
		symbol:   symbol,
		maxDelay: maxDelay,
		logger:   logger.With(slog.String("component", "trader"), slog.String("symbol", symbol)),
	}
}

// Start launches Run in its own goroutine. It returns false when the loop is
// already running. The given context governs the loop's lifetime.
func (l *Loop) Start(ctx context.Context) bool {
	if !l.started.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		if err := l.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			l.logger.Error("trading loop exited", slog.String("error", err.Error()))
		}
	}()
	return true
}

// Run executes the timer chain until the context is cancelled. It returns an
// error if the loop was already started.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return fmt.Errorf("trader: loop already running")
	}
	return l.run(ctx)
}

func (l *Loop) run(ctx context.Context) error {
	l.logger.InfoContext(ctx, "trading loop started",
		slog.Duration("max_delay", l.maxDelay),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		// Draw this cycle's parameters and arm the next cycle before any
		// network work, so the schedule is independent of cycle duration.
		params := l.params.Draw()
		delay := l.params.Delay(l.maxDelay)
		timer.Reset(delay)

		go l.cycle(ctx, params)
	}
}

// cycle runs one fetch→decide→submit pass. Every failure is logged with the
// cycle id and swallowed; the already-armed next cycle is unaffected.
func (l *Loop) cycle(ctx context.Context, params domain.MarketParams) {
	if !l.inFlight.CompareAndSwap(false, true) {
		l.skipped.Add(1)
		l.logger.WarnContext(ctx, "cycle skipped, previous cycle still in flight")
		return
	}
	defer l.inFlight.Store(false)

	logger := l.logger.With(slog.String("cycle", uuid.NewString()))
	logger.InfoContext(ctx, "cycle started",
		slog.String("target_price", params.TargetPrice.String()),
		slog.String("quantity", params.Quantity.String()),
	)

	l.mu.Lock()
	l.lastRun = time.Now()
	l.mu.Unlock()

	book, err := l.exchange.OrderBook(ctx, l.symbol)
	if err != nil {
		l.fail(ctx, logger, fmt.Errorf("fetch snapshot: %w", err))
		return
	}

	if minAsk, ok := book.MinAsk(); ok {
		logger.InfoContext(ctx, "best ask",
			slog.String("price", minAsk.Price.String()),
			slog.String("volume", minAsk.Volume.String()),
		)
	}
	if maxBid, ok := book.MaxBid(); ok {
		logger.InfoContext(ctx, "best bid",
			slog.String("price", maxBid.Price.String()),
			slog.String("volume", maxBid.Volume.String()),
		)
	}

	orders := strategy.Decide(book, params)
	if len(orders) == 0 {
		l.fail(ctx, logger, fmt.Errorf("decide: empty order set: %w", domain.ErrParse))
		return
	}

	ids, err := l.exchange.BatchNewOrders(ctx, l.symbol, orders)
	if err != nil {
		l.fail(ctx, logger, fmt.Errorf("submit orders: %w", err))
		return
	}

	l.cycles.Add(1)
	l.mu.Lock()
	l.lastErr = nil
	l.mu.Unlock()

	logger.InfoContext(ctx, "orders submitted",
		slog.Int("count", len(orders)),
		slog.Any("order_ids", ids),
	)
	if l.notifier != nil {
		_ = l.notifier.Notify(ctx, EventOrdersSubmitted, "Orders submitted",
			fmt.Sprintf("symbol=%s orders=%d target=%s quantity=%s",
				l.symbol, len(orders), params.TargetPrice, params.Quantity))
	}
}

func (l *Loop) fail(ctx context.Context, logger *slog.Logger, err error) {
	l.failed.Add(1)
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()

	logger.ErrorContext(ctx, "cycle failed", slog.String("error", err.Error()))
	if l.notifier != nil {
		_ = l.notifier.Notify(ctx, EventCycleFailed, "Trading cycle failed",
			fmt.Sprintf("symbol=%s error=%v", l.symbol, err))
	}
}

// Status reports the loop's counters for the status endpoint.
func (l *Loop) Status() Status {
	l.mu.Lock()
	lastRun, lastErr := l.lastRun, l.lastErr
	l.mu.Unlock()

	st := Status{
		Running: l.started.Load(),
		Symbol:  l.symbol,
		Cycles:  l.cycles.Load(),
		Failed:  l.failed.Load(),
		Skipped: l.skipped.Load(),
		LastRun: lastRun,
	}
	if lastErr != nil {
		st.LastError = lastErr.Error()
	}
	return st
}
