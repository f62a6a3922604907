package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/BrianChanLEE/bot/internal/domain"
)

// MarketService defines the methods that the market handler requires from
// the service layer. It is declared locally so the handler package does not
// depend on the concrete service implementation.
type MarketService interface {
	Orderbook(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error)
	SendOrderbook(ctx context.Context, to string, snap domain.OrderbookSnapshot) error
}

// MarketHandler serves orderbook query endpoints.
type MarketHandler struct {
	markets MarketService
	logger  *slog.Logger
}

// NewMarketHandler creates a MarketHandler with the given service and logger.
func NewMarketHandler(markets MarketService, logger *slog.Logger) *MarketHandler {
	return &MarketHandler{
		markets: markets,
		logger:  logger,
	}
}

// GetOrderbook returns the current orderbook snapshot for a symbol.
// GET /api/orderbook?symbol=IBTC_USDT
func (h *MarketHandler) GetOrderbook(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	snap, err := h.markets.Orderbook(r.Context(), symbol)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: get orderbook failed",
			slog.String("symbol", symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, exchangeErrorStatus(err), "failed to fetch orderbook")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// emailOrderbookRequest is the body of the orderbook email endpoint.
type emailOrderbookRequest struct {
	Symbol string `json:"symbol"`
	Email  string `json:"email"`
}

// emailOrderbookResponse reports the mail hand-off outcome alongside the
// fetched orderbook. The orderbook is included even when delivery failed.
type emailOrderbookResponse struct {
	Message   string                   `json:"message,omitempty"`
	Error     string                   `json:"error,omitempty"`
	Orderbook domain.OrderbookSnapshot `json:"orderbook"`
}

// EmailOrderbook fetches the orderbook for a symbol and emails it to the
// given address. A fetch failure returns an error immediately; a delivery
// failure is reported alongside the successfully fetched snapshot.
// POST /api/orderbook/email {"symbol": "...", "email": "..."}
func (h *MarketHandler) EmailOrderbook(w http.ResponseWriter, r *http.Request) {
	var req emailOrderbookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "missing email address")
		return
	}
	if req.Symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}

	snap, err := h.markets.Orderbook(r.Context(), req.Symbol)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: email orderbook fetch failed",
			slog.String("symbol", req.Symbol),
			slog.String("error", err.Error()),
		)
		writeError(w, exchangeErrorStatus(err), "failed to fetch orderbook")
		return
	}

	if err := h.markets.SendOrderbook(r.Context(), req.Email, snap); err != nil {
		h.logger.ErrorContext(r.Context(), "handler: orderbook email delivery failed",
			slog.String("symbol", req.Symbol),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, emailOrderbookResponse{
			Error:     "orderbook email delivery failed",
			Orderbook: snap,
		})
		return
	}

	writeJSON(w, http.StatusOK, emailOrderbookResponse{
		Message:   "orderbook sent by email",
		Orderbook: snap,
	})
}
