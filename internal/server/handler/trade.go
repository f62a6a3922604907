package handler

import (
	"log/slog"
	"net/http"

	"github.com/BrianChanLEE/bot/internal/trader"
)

// TradeHandler controls the trading loop over HTTP.
type TradeHandler struct {
	start  func() bool // starts the loop; false when already running
	status func() trader.Status
	logger *slog.Logger
}

// NewTradeHandler creates a TradeHandler. start launches the loop under the
// application's long-lived context and reports whether it was newly started.
func NewTradeHandler(start func() bool, status func() trader.Status, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{
		start:  start,
		status: status,
		logger: logger,
	}
}

// StartTrading launches the trading loop if it is not already running.
// POST /api/trade/start
func (h *TradeHandler) StartTrading(w http.ResponseWriter, r *http.Request) {
	if !h.start() {
		writeError(w, http.StatusConflict, "trading loop already running")
		return
	}

	h.logger.InfoContext(r.Context(), "trading loop started via API")
	writeJSON(w, http.StatusAccepted, map[string]any{
		"started": true,
	})
}

// TradeStatus reports the loop's cycle counters.
// GET /api/trade/status
func (h *TradeHandler) TradeStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status())
}
