package dexscreener

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

// Client talks to the DexScreener public API. It serves as a per-field
// fallback when GeckoTerminal cannot supply a snapshot value.
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
		baseURL: cfg.Feed.DexScreenerURL,
	}
}

type pairsResponse struct {
	Pairs []Pair `json:"pairs"`
}

// Pair is one DexScreener trading pair.
type Pair struct {
	ChainID     string             `json:"chainId"`
	PairAddress string             `json:"pairAddress"`
	PriceUSD    string             `json:"priceUsd"`
	FDV         float64            `json:"fdv"`
	MarketCap   float64            `json:"marketCap"`
	Volume      map[string]float64 `json:"volume"`
	PriceChange map[string]float64 `json:"priceChange"`
	Liquidity   struct {
		USD float64 `json:"usd"`
	} `json:"liquidity"`
}

// PairStats holds the fallback snapshot values. Nil fields were missing
// from the response.
type PairStats struct {
	PriceUSD     *float64
	MarketCapUSD *float64
	Volume24hUSD *float64
	LiquidityUSD *float64
}

// PairStats fetches current stats for a pair address on a chain.
func (c *Client) PairStats(ctx context.Context, chain, pair string) (PairStats, error) {
	url := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.baseURL, chain, pair)

	var resp pairsResponse
	if err := c.doGet(ctx, url, &resp); err != nil {
		return PairStats{}, fmt.Errorf("fetch pair stats: %w", err)
	}
	if len(resp.Pairs) == 0 {
		return PairStats{}, fmt.Errorf("no pairs returned for %s/%s", chain, pair)
	}

	p := resp.Pairs[0]
	stats := PairStats{}

	if p.PriceUSD != "" {
		if f, err := strconv.ParseFloat(p.PriceUSD, 64); err == nil {
			stats.PriceUSD = &f
		}
	}
	if p.MarketCap > 0 {
		mc := p.MarketCap
		stats.MarketCapUSD = &mc
	} else if p.FDV > 0 {
		fdv := p.FDV
		stats.MarketCapUSD = &fdv
	}
	if p.Volume != nil {
		if v, ok := p.Volume["h24"]; ok {
			vol := v
			stats.Volume24hUSD = &vol
		}
	}
	if p.Liquidity.USD > 0 {
		liq := p.Liquidity.USD
		stats.LiquidityUSD = &liq
	}

	return stats, nil
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
