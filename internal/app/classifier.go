package app

import (
	"strings"

	"poolwatch/clients/geckoterminal"
)

// Side is the resolved direction of a trade relative to the tracked token.
type Side string

const (
	SideBuy     Side = "buy"
	SideSell    Side = "sell"
	SideUnknown Side = "unknown"
)

// ClassifiedTrade is a feed entry with its side resolved against the tracked
// token contract and its amounts split into token vs. quote legs.
type ClassifiedTrade struct {
	geckoterminal.Trade

	Side        Side
	TokenAmount float64
	QuoteAmount float64
}

// classifyTrade resolves a trade's side by matching the tracked token
// contract against the trade's legs. When neither leg matches (missing
// contract, or the feed omitted addresses), the feed's own lowercased hint
// is used and the amount split keeps the to-leg as the token leg. In that
// degraded path the directionality of the amounts is not guaranteed, and a
// hint that is neither "buy" nor "sell" resolves to SideUnknown.
func classifyTrade(t geckoterminal.Trade, tokenContract string) ClassifiedTrade {
	ct := ClassifiedTrade{
		Trade:       t,
		TokenAmount: t.ToAmount,
		QuoteAmount: t.FromAmount,
	}

	if tokenContract != "" {
		if t.ToAddress != "" && strings.EqualFold(t.ToAddress, tokenContract) {
			ct.Side = SideBuy
			return ct
		}
		if t.FromAddress != "" && strings.EqualFold(t.FromAddress, tokenContract) {
			ct.Side = SideSell
			ct.TokenAmount = t.FromAmount
			ct.QuoteAmount = t.ToAmount
			return ct
		}
	}

	switch strings.ToLower(strings.TrimSpace(t.Kind)) {
	case "buy":
		ct.Side = SideBuy
	case "sell":
		ct.Side = SideSell
	default:
		ct.Side = SideUnknown
	}
	return ct
}
