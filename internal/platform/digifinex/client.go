// Package digifinex is the REST client for the DigiFinex exchange API. It
// implements the signed request transport, the orderbook snapshot reader,
// and batch order submission.
package digifinex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BrianChanLEE/bot/internal/crypto"
	"github.com/BrianChanLEE/bot/internal/domain"
)

// apiPrefix is the version prefix of every DigiFinex REST path.
const apiPrefix = "/v3"

// Client is the REST client for the DigiFinex exchange API.
type Client struct {
	host       string
	auth       *crypto.HMACAuth
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a DigiFinex client.
//
// host is the API root, e.g. "https://openapi.digifinex.com". auth carries
// the API credentials; it may be unconfigured, in which case only signed
// calls fail (with domain.ErrConfig, before any network I/O).
func NewClient(host string, auth *crypto.HMACAuth, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		host: strings.TrimSuffix(host, "/"),
		auth: auth,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger.With(slog.String("component", "digifinex")),
	}
}

// OrderBook fetches the current orderbook snapshot for a trading pair via
// one signed GET. A response with a missing or empty side is rejected with
// domain.ErrParse so a malformed snapshot never reaches the decision engine.
func (c *Client) OrderBook(ctx context.Context, symbol string) (domain.OrderbookSnapshot, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.Do(ctx, http.MethodGet, "/order_book", params, true)
	if err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("digifinex: get orderbook %s: %w", symbol, err)
	}

	var resp orderBookResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.OrderbookSnapshot{}, fmt.Errorf("digifinex: decode orderbook %s: %v: %w", symbol, err, domain.ErrParse)
	}
	if resp.Code != 0 {
		return domain.OrderbookSnapshot{}, fmt.Errorf("digifinex: orderbook %s: code %d: %w", symbol, resp.Code, domain.ErrExchange)
	}
	if len(resp.Asks) == 0 || len(resp.Bids) == 0 {
		return domain.OrderbookSnapshot{}, fmt.Errorf("digifinex: orderbook %s: missing or empty side: %w", symbol, domain.ErrParse)
	}

	return domain.OrderbookSnapshot{
		Symbol:    symbol,
		Asks:      resp.Asks,
		Bids:      resp.Bids,
		Timestamp: time.Now(),
	}, nil
}

// BatchNewOrders submits the given orders for a trading pair in one signed
// POST. The orders are serialized as a JSON list in the form-encoded "list"
// parameter. It returns the exchange-assigned order IDs.
func (c *Client) BatchNewOrders(ctx context.Context, symbol string, orders []domain.Order) ([]string, error) {
	if len(orders) == 0 {
		return nil, nil
	}

	list, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("digifinex: marshal order list: %w", err)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("list", string(list))

	body, err := c.Do(ctx, http.MethodPost, "/spot/order/batch_new", params, true)
	if err != nil {
		return nil, fmt.Errorf("digifinex: batch new orders %s: %w", symbol, err)
	}

	var resp batchNewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("digifinex: decode batch response %s: %v: %w", symbol, err, domain.ErrParse)
	}
	if resp.Code != 0 {
		return nil, fmt.Errorf("digifinex: batch new orders %s: code %d: %w", symbol, resp.Code, domain.ErrExchange)
	}

	return resp.OrderIDs, nil
}

// Do builds, optionally signs, and sends one HTTP request against the
// exchange, returning the raw response body. Params are canonicalized with
// url.Values.Encode (stable key ordering); for GET the canonical query is
// appended to the path, otherwise it is sent as the form-encoded body. One
// attempt per call, no retry; callers decide whether to retry.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, signed bool) ([]byte, error) {
	query := params.Encode()

	if signed && !c.auth.Configured() {
		return nil, fmt.Errorf("api key or secret unset: %w", domain.ErrConfig)
	}

	fullURL := c.host + apiPrefix + path
	var bodyReader io.Reader
	if method == http.MethodGet {
		if query != "" {
			fullURL += "?" + query
		}
	} else {
		bodyReader = strings.NewReader(query)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}
	if signed {
		for k, v := range c.auth.Headers(query) {
			req.Header.Set(k, v)
		}
	}

	c.logger.DebugContext(ctx, "exchange request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Bool("signed", signed),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrNetwork)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %v: %w", err, domain.ErrNetwork)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s: %w", resp.StatusCode, truncate(respBody, 256), domain.ErrExchange)
	}

	return respBody, nil
}

// truncate limits a response body excerpt used in error messages.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
