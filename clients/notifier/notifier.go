package notifier

import (
	"time"
)

// Alert contains everything a sink needs to deliver one buy alert. Text is
// the canonical rendered message; the structured fields let richer sinks
// (Discord embeds) lay the same data out their own way.
type Alert struct {
	// Routing
	Destination string // chat/channel id override; empty = sink default

	// Rendered content
	Text     string
	ImageURL string

	// Trade info
	Symbol      string
	Side        string
	ValueUSD    float64
	TokenAmount float64
	QuoteAmount float64

	// Buyer info
	Wallet      string
	IsNewWallet bool

	// Transaction reference
	TxHash string
	TxURL  string

	// Market snapshot, pre-formatted ("unavailable" when missing)
	PriceUSD     string
	MarketCapUSD string
	Volume24hUSD string

	Timestamp time.Time
}

// Notifier is the interface for delivering alerts to a channel.
type Notifier interface {
	// SendAlert delivers one alert. Delivery is fire-and-forget; failures
	// are logged by the implementation and never surfaced to the caller.
	SendAlert(alert Alert)

	// Close cleans up any resources.
	Close() error
}

// MultiNotifier broadcasts alerts to multiple notifiers.
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a new MultiNotifier with the given notifiers.
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	// Filter out nil notifiers
	var active []Notifier
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	return &MultiNotifier{notifiers: active}
}

// SendAlert sends the alert to all registered notifiers.
func (m *MultiNotifier) SendAlert(alert Alert) {
	for _, n := range m.notifiers {
		n.SendAlert(alert)
	}
}

// Close closes all registered notifiers.
func (m *MultiNotifier) Close() error {
	var lastErr error
	for _, n := range m.notifiers {
		if err := n.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active notifiers.
func (m *MultiNotifier) Count() int {
	return len(m.notifiers)
}
