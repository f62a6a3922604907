package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BrianChanLEE/bot/internal/server"
	"github.com/BrianChanLEE/bot/internal/server/handler"
	"github.com/BrianChanLEE/bot/internal/service"
)

// TradeMode runs only the trading loop; there is no HTTP surface.
func (a *App) TradeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting trade mode")
	return deps.Loop.Run(ctx)
}

// ServeMode runs only the HTTP API. The trading loop can still be started
// through POST /api/trade/start.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startServer(ctx, g, deps)
	return g.Wait()
}

// FullMode runs the HTTP API and, when trade.auto_start is set, the trading
// loop. Without auto_start the loop waits for the start endpoint.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	if a.cfg.Trade.AutoStart {
		deps.Loop.Start(ctx)
	}

	a.startServer(ctx, g, deps)
	return g.Wait()
}

// startServer builds the handler set and runs the HTTP server under the
// errgroup, shutting it down gracefully when the context is cancelled.
func (a *App) startServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	// Assign the concrete sender only when it exists so the service sees a
	// nil interface, not a nil pointer inside one.
	var mailer service.Mailer
	if deps.Mailer != nil {
		mailer = deps.Mailer
	}
	markets := service.NewMarketService(deps.Exchange, deps.BookCache, mailer, a.logger)

	handlers := server.Handlers{
		Health:  handler.NewHealthHandler(a.logger),
		Markets: handler.NewMarketHandler(markets, a.logger),
		Trade: handler.NewTradeHandler(
			func() bool { return deps.Loop.Start(ctx) },
			deps.Loop.Status,
			a.logger,
		),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	})
}
