package geckoterminal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"poolwatch/config"

	"go.uber.org/zap"
)

// Client talks to the GeckoTerminal public API.
type Client struct {
	logger     *zap.Logger
	httpClient *http.Client
	baseURL    string
}

func NewClient(logger *zap.Logger, cfg *config.Config) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: cfg.Feed.GeckoTerminalURL,
	}
}

// ---- API types (JSON:API envelope; attributes are stringly typed) ----

type tradeDocument struct {
	Data []tradeResource `json:"data"`
}

type tradeResource struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes tradeAttributes `json:"attributes"`
}

type tradeAttributes struct {
	BlockNumber      int64  `json:"block_number"`
	BlockTimestamp   string `json:"block_timestamp"`
	TxHash           string `json:"tx_hash"`
	TxFromAddress    string `json:"tx_from_address"`
	FromTokenAmount  string `json:"from_token_amount"`
	ToTokenAmount    string `json:"to_token_amount"`
	FromTokenAddress string `json:"from_token_address"`
	ToTokenAddress   string `json:"to_token_address"`
	VolumeInUSD      string `json:"volume_in_usd"`
	Kind             string `json:"kind"`
}

type poolDocument struct {
	Data poolResource `json:"data"`
}

type poolResource struct {
	ID         string         `json:"id"`
	Attributes poolAttributes `json:"attributes"`
}

type poolAttributes struct {
	Name              string            `json:"name"`
	BaseTokenPriceUSD string            `json:"base_token_price_usd"`
	MarketCapUSD      string            `json:"market_cap_usd"`
	FDVUSD            string            `json:"fdv_usd"`
	VolumeUSD         map[string]string `json:"volume_usd"`
}

// Trade is one normalized feed entry.
type Trade struct {
	ID          string
	TxHash      string
	Kind        string // feed side hint, e.g. "buy"/"sell"
	Wallet      string
	FromAddress string
	ToAddress   string
	FromAmount  float64
	ToAmount    float64
	ValueUSD    *float64 // nil when the feed omitted the USD value
	Timestamp   time.Time
}

// PoolStats is a best-effort snapshot of pool-level market data.
// Nil fields were missing or unparseable in the response.
type PoolStats struct {
	PriceUSD     *float64
	MarketCapUSD *float64
	FDVUSD       *float64
	Volume24hUSD *float64
}

// PoolTrades fetches the most recent trades for a pool and returns them
// ordered oldest to newest. The feed returns newest-first, so the result is
// reversed before normalization.
func (c *Client) PoolTrades(ctx context.Context, network, pool string) ([]Trade, error) {
	url := fmt.Sprintf("%s/networks/%s/pools/%s/trades", c.baseURL, network, pool)

	var doc tradeDocument
	if err := c.doGet(ctx, url, &doc); err != nil {
		return nil, fmt.Errorf("fetch pool trades: %w", err)
	}

	trades := make([]Trade, 0, len(doc.Data))
	for i := len(doc.Data) - 1; i >= 0; i-- {
		trades = append(trades, normalizeTrade(doc.Data[i]))
	}
	return trades, nil
}

// PoolStats fetches the current pool-level market snapshot.
func (c *Client) PoolStats(ctx context.Context, network, pool string) (PoolStats, error) {
	url := fmt.Sprintf("%s/networks/%s/pools/%s", c.baseURL, network, pool)

	var doc poolDocument
	if err := c.doGet(ctx, url, &doc); err != nil {
		return PoolStats{}, fmt.Errorf("fetch pool stats: %w", err)
	}

	attrs := doc.Data.Attributes
	stats := PoolStats{
		PriceUSD:     parseMaybeFloat(attrs.BaseTokenPriceUSD),
		MarketCapUSD: parseMaybeFloat(attrs.MarketCapUSD),
		FDVUSD:       parseMaybeFloat(attrs.FDVUSD),
	}
	if attrs.VolumeUSD != nil {
		stats.Volume24hUSD = parseMaybeFloat(attrs.VolumeUSD["h24"])
	}
	return stats, nil
}

func normalizeTrade(r tradeResource) Trade {
	a := r.Attributes

	id := r.ID
	if id == "" {
		id = a.TxHash
	}

	t := Trade{
		ID:          id,
		TxHash:      a.TxHash,
		Kind:        a.Kind,
		Wallet:      a.TxFromAddress,
		FromAddress: a.FromTokenAddress,
		ToAddress:   a.ToTokenAddress,
		ValueUSD:    parseMaybeFloat(a.VolumeInUSD),
	}
	if f := parseMaybeFloat(a.FromTokenAmount); f != nil {
		t.FromAmount = *f
	}
	if f := parseMaybeFloat(a.ToTokenAmount); f != nil {
		t.ToAmount = *f
	}
	if ts, err := time.Parse(time.RFC3339, a.BlockTimestamp); err == nil {
		t.Timestamp = ts
	}
	return t
}

func parseMaybeFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func (c *Client) doGet(ctx context.Context, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}
