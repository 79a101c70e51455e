// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Poll loop metrics
	PollsTotal      *prometheus.CounterVec
	FeedErrorsTotal *prometheus.CounterVec
	CursorResyncs   *prometheus.CounterVec

	// Pipeline metrics
	TradesEvaluated  *prometheus.CounterVec
	AlertsSent       *prometheus.CounterVec
	EnrichmentMisses *prometheus.CounterVec

	// State metrics
	KnownWallets *prometheus.GaugeVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "poolwatch"
	}

	return &Metrics{
		PollsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "polls_total",
			Help:      "Total number of poll cycles per pool",
		}, []string{"pool"}),
		FeedErrorsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "feed_errors_total",
			Help:      "Total number of failed trade feed fetches per pool",
		}, []string{"pool"}),
		CursorResyncs: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "cursor_resyncs_total",
			Help:      "Total number of cursor resyncs after falling out of the feed window",
		}, []string{"pool"}),
		TradesEvaluated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "trades_evaluated_total",
			Help:      "Total number of candidate trades run through the filter",
		}, []string{"pool"}),
		AlertsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "alerts_sent_total",
			Help:      "Total number of alerts dispatched",
		}, []string{"pool"}),
		EnrichmentMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "enrichment_misses_total",
			Help:      "Total number of alerts sent with at least one unavailable snapshot field",
		}, []string{"pool"}),
		KnownWallets: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "known_wallets",
			Help:      "Current size of the wallet novelty set per pool",
		}, []string{"pool"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordPoll increments the poll counter for a pool.
func RecordPoll(pool string) {
	DefaultMetrics.PollsTotal.WithLabelValues(pool).Inc()
}

// RecordFeedError increments the feed error counter for a pool.
func RecordFeedError(pool string) {
	DefaultMetrics.FeedErrorsTotal.WithLabelValues(pool).Inc()
}

// RecordCursorResync increments the cursor resync counter for a pool.
func RecordCursorResync(pool string) {
	DefaultMetrics.CursorResyncs.WithLabelValues(pool).Inc()
}

// RecordTradeEvaluated increments the evaluated-trade counter for a pool.
func RecordTradeEvaluated(pool string) {
	DefaultMetrics.TradesEvaluated.WithLabelValues(pool).Inc()
}

// RecordAlertSent increments the alert counter for a pool.
func RecordAlertSent(pool string) {
	DefaultMetrics.AlertsSent.WithLabelValues(pool).Inc()
}

// RecordEnrichmentMiss increments the degraded-snapshot counter for a pool.
func RecordEnrichmentMiss(pool string) {
	DefaultMetrics.EnrichmentMisses.WithLabelValues(pool).Inc()
}

// SetKnownWallets updates the novelty set size gauge for a pool.
func SetKnownWallets(pool string, n int) {
	DefaultMetrics.KnownWallets.WithLabelValues(pool).Set(float64(n))
}
