package app

import (
	"context"

	"poolwatch/clients/dexscreener"
	"poolwatch/clients/geckoterminal"
	"poolwatch/config"

	"go.uber.org/zap"
)

// Snapshot is a best-effort read of current market data attached to alerts.
// Nil fields render as "unavailable".
type Snapshot struct {
	PriceUSD     *float64
	MarketCapUSD *float64
	Volume24hUSD *float64
}

// Degraded reports whether any snapshot field is missing.
func (s Snapshot) Degraded() bool {
	return s.PriceUSD == nil || s.MarketCapUSD == nil || s.Volume24hUSD == nil
}

func (s Snapshot) complete() bool {
	return !s.Degraded()
}

// Enricher fetches pool-level market data for alerts. Enrichment is
// advisory: every failure degrades a field instead of blocking the alert.
type Enricher struct {
	logger *zap.Logger
	gecko  *geckoterminal.Client
	dex    *dexscreener.Client
}

func NewEnricher(logger *zap.Logger, gecko *geckoterminal.Client, dex *dexscreener.Client) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		logger: logger,
		gecko:  gecko,
		dex:    dex,
	}
}

// Snapshot tries GeckoTerminal first and fills any field still missing from
// DexScreener. Market cap falls back to FDV when the pool has no reported
// market cap.
func (e *Enricher) Snapshot(ctx context.Context, cfg config.PoolConfig) Snapshot {
	var snap Snapshot

	stats, err := e.gecko.PoolStats(ctx, cfg.Network, cfg.PoolAddress)
	if err != nil {
		e.logger.Debug("pool stats unavailable",
			zap.String("pool", cfg.PoolAddress),
			zap.Error(err),
		)
	} else {
		snap.PriceUSD = stats.PriceUSD
		snap.MarketCapUSD = stats.MarketCapUSD
		if snap.MarketCapUSD == nil {
			snap.MarketCapUSD = stats.FDVUSD
		}
		snap.Volume24hUSD = stats.Volume24hUSD
	}

	if snap.complete() {
		return snap
	}

	pair, err := e.dex.PairStats(ctx, dexChain(cfg.Network), cfg.PoolAddress)
	if err != nil {
		e.logger.Debug("pair stats unavailable",
			zap.String("pool", cfg.PoolAddress),
			zap.Error(err),
		)
		return snap
	}

	if snap.PriceUSD == nil {
		snap.PriceUSD = pair.PriceUSD
	}
	if snap.MarketCapUSD == nil {
		snap.MarketCapUSD = pair.MarketCapUSD
	}
	if snap.Volume24hUSD == nil {
		snap.Volume24hUSD = pair.Volume24hUSD
	}
	return snap
}

// dexChain maps a GeckoTerminal network id to DexScreener's chain id.
// Unmapped networks pass through unchanged.
func dexChain(network string) string {
	switch network {
	case "polygon_pos":
		return "polygon"
	case "eth":
		return "ethereum"
	case "arbitrum":
		return "arbitrum"
	default:
		return network
	}
}
