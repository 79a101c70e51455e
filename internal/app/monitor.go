package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"poolwatch/clients/geckoterminal"
	"poolwatch/clients/notifier"
	"poolwatch/config"
	"poolwatch/internal/observability"

	"go.uber.org/zap"
)

const (
	fetchTimeout  = 15 * time.Second
	enrichTimeout = 10 * time.Second
)

// FilterStats counts how candidate trades moved through the pipeline.
type FilterStats struct {
	Polls           int `json:"polls"`
	FeedErrors      int `json:"feed_errors"`
	CursorResyncs   int `json:"cursor_resyncs"`
	TradesEvaluated int `json:"trades_evaluated"`
	SkippedSells    int `json:"skipped_sells"`
	SkippedUnknown  int `json:"skipped_unknown"`
	SkippedNoValue  int `json:"skipped_no_value"`
	SkippedBelowMin int `json:"skipped_below_min"`
	AlertsSent      int `json:"alerts_sent"`
}

// Monitor owns the poll/evaluate loop for one (token, pool) pair.
//
// The cursor and wallet set are touched only by the monitor's own goroutine;
// the mutex guards the counters read by the stats endpoint.
type Monitor struct {
	logger   *zap.Logger
	feed     *geckoterminal.Client
	enricher *Enricher
	notifier notifier.Notifier
	cfg      config.PoolConfig
	interval time.Duration

	lastTradeID  string
	bootstrapped bool
	knownWallets map[string]struct{}

	mu          sync.Mutex
	stats       FilterStats
	walletCount int
	cursorSet   bool
}

func NewMonitor(
	logger *zap.Logger,
	feed *geckoterminal.Client,
	enricher *Enricher,
	notif notifier.Notifier,
	cfg config.PoolConfig,
	interval time.Duration,
) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}

	return &Monitor{
		logger:       logger,
		feed:         feed,
		enricher:     enricher,
		notifier:     notif,
		cfg:          cfg,
		interval:     interval,
		knownWallets: make(map[string]struct{}),
	}
}

// Run polls until ctx is canceled. The loop sleeps after each cycle's
// evaluation finishes, so polls of the same pool can never overlap.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("monitor started",
		zap.String("network", m.cfg.Network),
		zap.String("pool", shortID(m.cfg.PoolAddress)),
		zap.String("symbol", m.cfg.Symbol),
		zap.Float64("minBuyUSD", m.cfg.MinBuyUSD),
		zap.Duration("interval", m.interval),
	)

	for {
		m.poll(ctx)

		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped", zap.String("pool", shortID(m.cfg.PoolAddress)))
			return
		case <-time.After(m.interval):
		}
	}
}

// poll runs one fetch/evaluate cycle. A failed fetch leaves the cursor and
// wallet set untouched; the next cycle retries.
func (m *Monitor) poll(ctx context.Context) {
	observability.RecordPoll(m.cfg.PoolAddress)
	m.mu.Lock()
	m.stats.Polls++
	m.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	trades, err := m.feed.PoolTrades(fetchCtx, m.cfg.Network, m.cfg.PoolAddress)
	cancel()
	if err != nil {
		m.logger.Warn("trade feed fetch failed",
			zap.String("pool", shortID(m.cfg.PoolAddress)),
			zap.Error(err),
		)
		observability.RecordFeedError(m.cfg.PoolAddress)
		m.mu.Lock()
		m.stats.FeedErrors++
		m.mu.Unlock()
		return
	}
	if len(trades) == 0 {
		return
	}

	newest := trades[len(trades)-1].ID
	for _, t := range m.delta(trades) {
		m.evaluate(ctx, t)
	}

	m.lastTradeID = newest
	m.bootstrapped = true
	m.mu.Lock()
	m.cursorSet = true
	m.mu.Unlock()
}

// delta returns the entries strictly newer than the cursor, oldest first.
// Bootstrap and an out-of-window cursor both yield no candidates; the caller
// advances the cursor to the newest entry either way. The out-of-window case
// deliberately sacrifices the gap rather than risk re-alerting trades from a
// stale offset.
func (m *Monitor) delta(trades []geckoterminal.Trade) []geckoterminal.Trade {
	if !m.bootstrapped {
		// The window's qualifying buyers seed the novelty set, so the first
		// delta cycle doesn't tag already-active wallets as new.
		for _, t := range trades {
			ct := classifyTrade(t, m.cfg.TokenContract)
			if ct.Side != SideBuy || ct.ValueUSD == nil || *ct.ValueUSD < m.cfg.MinBuyUSD {
				continue
			}
			if w := strings.ToLower(ct.Wallet); w != "" {
				m.knownWallets[w] = struct{}{}
			}
		}
		if len(m.knownWallets) > 0 {
			observability.SetKnownWallets(m.cfg.PoolAddress, len(m.knownWallets))
			m.mu.Lock()
			m.walletCount = len(m.knownWallets)
			m.mu.Unlock()
		}
		m.logger.Info("cursor bootstrapped",
			zap.String("pool", shortID(m.cfg.PoolAddress)),
			zap.String("cursor", shortID(trades[len(trades)-1].ID)),
			zap.Int("seededWallets", len(m.knownWallets)),
		)
		return nil
	}

	for i := len(trades) - 1; i >= 0; i-- {
		if trades[i].ID == m.lastTradeID {
			return trades[i+1:]
		}
	}

	m.logger.Warn("cursor missing from feed window, resyncing to newest",
		zap.String("pool", shortID(m.cfg.PoolAddress)),
		zap.String("staleCursor", shortID(m.lastTradeID)),
	)
	observability.RecordCursorResync(m.cfg.PoolAddress)
	m.mu.Lock()
	m.stats.CursorResyncs++
	m.mu.Unlock()
	return nil
}

// evaluate runs one candidate through classify → filter → enrich → render →
// dispatch. Every failure past the filter degrades instead of aborting, so a
// bad candidate never blocks the rest of the cycle.
func (m *Monitor) evaluate(ctx context.Context, raw geckoterminal.Trade) {
	observability.RecordTradeEvaluated(m.cfg.PoolAddress)
	m.mu.Lock()
	m.stats.TradesEvaluated++
	m.mu.Unlock()

	trade := classifyTrade(raw, m.cfg.TokenContract)

	switch trade.Side {
	case SideSell:
		m.bump(func(s *FilterStats) { s.SkippedSells++ })
		return
	case SideUnknown:
		m.bump(func(s *FilterStats) { s.SkippedUnknown++ })
		return
	}

	if trade.ValueUSD == nil {
		m.bump(func(s *FilterStats) { s.SkippedNoValue++ })
		return
	}
	if *trade.ValueUSD < m.cfg.MinBuyUSD {
		m.bump(func(s *FilterStats) { s.SkippedBelowMin++ })
		return
	}

	// Accepted. Novelty is computed and recorded here, never for rejected
	// trades.
	isNew := false
	if w := strings.ToLower(trade.Wallet); w != "" {
		if _, seen := m.knownWallets[w]; !seen {
			isNew = true
			m.knownWallets[w] = struct{}{}
			observability.SetKnownWallets(m.cfg.PoolAddress, len(m.knownWallets))
			m.mu.Lock()
			m.walletCount = len(m.knownWallets)
			m.mu.Unlock()
		}
	}

	enrichCtx, cancel := context.WithTimeout(ctx, enrichTimeout)
	snap := m.enricher.Snapshot(enrichCtx, m.cfg)
	cancel()
	if snap.Degraded() {
		observability.RecordEnrichmentMiss(m.cfg.PoolAddress)
	}

	text := renderAlert(m.cfg, trade, snap, isNew)

	alert := notifier.Alert{
		Destination:  m.cfg.Destination,
		Text:         text,
		ImageURL:     m.cfg.ImageURL,
		Symbol:       nz(m.cfg.Symbol, "Token"),
		Side:         string(trade.Side),
		ValueUSD:     *trade.ValueUSD,
		TokenAmount:  trade.TokenAmount,
		QuoteAmount:  trade.QuoteAmount,
		Wallet:       trade.Wallet,
		IsNewWallet:  isNew,
		TxHash:       trade.TxHash,
		TxURL:        txURL(m.cfg.Network, trade.TxHash),
		PriceUSD:     formatUSD(snap.PriceUSD),
		MarketCapUSD: formatCompactUSD(snap.MarketCapUSD),
		Volume24hUSD: formatCompactUSD(snap.Volume24hUSD),
		Timestamp:    trade.Timestamp,
	}

	if m.notifier != nil {
		m.notifier.SendAlert(alert)
	}

	observability.RecordAlertSent(m.cfg.PoolAddress)
	m.bump(func(s *FilterStats) { s.AlertsSent++ })
	m.logger.Info("buy alert dispatched",
		zap.String("pool", shortID(m.cfg.PoolAddress)),
		zap.String("tx", shortID(trade.TxHash)),
		zap.Float64("valueUSD", *trade.ValueUSD),
		zap.Bool("newWallet", isNew),
	)
}

func (m *Monitor) bump(fn func(*FilterStats)) {
	m.mu.Lock()
	fn(&m.stats)
	m.mu.Unlock()
}

// MonitorStats is a point-in-time view of one monitor for the stats endpoint.
type MonitorStats struct {
	Network      string      `json:"network"`
	Pool         string      `json:"pool"`
	Symbol       string      `json:"symbol"`
	MinBuyUSD    float64     `json:"min_buy_usd"`
	CursorSet    bool        `json:"cursor_set"`
	KnownWallets int         `json:"known_wallets"`
	Filters      FilterStats `json:"filters"`
}

// Stats returns a snapshot of the monitor's counters.
func (m *Monitor) Stats() MonitorStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return MonitorStats{
		Network:      m.cfg.Network,
		Pool:         m.cfg.PoolAddress,
		Symbol:       m.cfg.Symbol,
		MinBuyUSD:    m.cfg.MinBuyUSD,
		CursorSet:    m.cursorSet,
		KnownWallets: m.walletCount,
		Filters:      m.stats,
	}
}
