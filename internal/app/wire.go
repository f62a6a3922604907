package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	cacheredis "github.com/BrianChanLEE/bot/internal/cache/redis"
	"github.com/BrianChanLEE/bot/internal/config"
	"github.com/BrianChanLEE/bot/internal/crypto"
	"github.com/BrianChanLEE/bot/internal/domain"
	"github.com/BrianChanLEE/bot/internal/notify"
	"github.com/BrianChanLEE/bot/internal/platform/digifinex"
	"github.com/BrianChanLEE/bot/internal/strategy"
	"github.com/BrianChanLEE/bot/internal/trader"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Exchange  *digifinex.Client
	BookCache domain.BookCache    // nil when Redis is not configured
	Mailer    *notify.EmailSender // nil when SMTP is not configured
	Notifier  *notify.Notifier
	Loop      *trader.Loop
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that
// should be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	// --- Exchange client ---
	auth := &crypto.HMACAuth{
		Key:    cfg.Exchange.APIKey,
		Secret: cfg.Exchange.APISecret,
	}
	deps.Exchange = digifinex.NewClient(
		cfg.Exchange.Host,
		auth,
		time.Duration(cfg.Exchange.TimeoutSeconds)*time.Second,
		logger,
	)

	// --- Redis snapshot cache (optional) ---
	if cfg.Redis.Addr != "" {
		rdb, err := cacheredis.New(ctx, cacheredis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = rdb.Close() })
		deps.BookCache = cacheredis.NewBookCache(rdb, time.Duration(cfg.Redis.BookTTLSeconds)*time.Second)
	}

	// --- Email sender (optional) ---
	if cfg.SMTP.Host != "" {
		deps.Mailer = notify.NewEmailSender(notify.EmailConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			To:       cfg.Notify.EmailTo,
		})
	}

	// --- Notifier for loop events ---
	var senders []notify.Sender
	if deps.Mailer != nil && cfg.Notify.EmailTo != "" {
		senders = append(senders, deps.Mailer)
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Trading loop ---
	prices, err := cfg.ParsedTargetPrices()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: %w", err)
	}
	params, err := strategy.NewParamSource(prices, cfg.Trade.MinQuantity, cfg.Trade.MaxQuantity, cfg.Trade.Seed)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("wire: %w", err)
	}
	deps.Loop = trader.NewLoop(
		deps.Exchange,
		params,
		deps.Notifier,
		cfg.Trade.Symbol,
		time.Duration(cfg.Trade.MaxDelaySeconds)*time.Second,
		logger,
	)

	return deps, cleanup, nil
}
