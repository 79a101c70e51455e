package app

import (
	"testing"

	"poolwatch/clients/geckoterminal"
)

func TestClassifyTrade(t *testing.T) {
	const contract = "0xToKeN"

	tests := []struct {
		name      string
		trade     geckoterminal.Trade
		contract  string
		wantSide  Side
		wantToken float64
		wantQuote float64
	}{
		{
			name: "to leg matches contract",
			trade: geckoterminal.Trade{
				Kind:        "sell",
				FromAddress: "0xquote",
				ToAddress:   "0xtoken",
				FromAmount:  1.5,
				ToAmount:    1000,
			},
			contract:  contract,
			wantSide:  SideBuy,
			wantToken: 1000,
			wantQuote: 1.5,
		},
		{
			name: "from leg matches contract",
			trade: geckoterminal.Trade{
				Kind:        "buy",
				FromAddress: "0xtoken",
				ToAddress:   "0xquote",
				FromAmount:  1000,
				ToAmount:    1.5,
			},
			contract:  contract,
			wantSide:  SideSell,
			wantToken: 1000,
			wantQuote: 1.5,
		},
		{
			name: "no address match falls back to buy hint",
			trade: geckoterminal.Trade{
				Kind:       "buy",
				FromAmount: 1.5,
				ToAmount:   1000,
			},
			contract:  contract,
			wantSide:  SideBuy,
			wantToken: 1000,
			wantQuote: 1.5,
		},
		{
			name: "no address match falls back to sell hint",
			trade: geckoterminal.Trade{
				Kind:       "SELL",
				FromAmount: 1000,
				ToAmount:   1.5,
			},
			contract:  contract,
			wantSide:  SideSell,
			wantToken: 1.5,
			wantQuote: 1000,
		},
		{
			name: "unusable hint is unknown",
			trade: geckoterminal.Trade{
				Kind: "swap",
			},
			contract: contract,
			wantSide: SideUnknown,
		},
		{
			name: "missing hint is unknown",
			trade: geckoterminal.Trade{
				FromAmount: 1.5,
				ToAmount:   1000,
			},
			contract:  contract,
			wantSide:  SideUnknown,
			wantToken: 1000,
			wantQuote: 1.5,
		},
		{
			name: "empty contract never matches addresses",
			trade: geckoterminal.Trade{
				Kind:        "buy",
				FromAddress: "",
				ToAddress:   "",
				ToAmount:    5,
			},
			contract:  "",
			wantSide:  SideBuy,
			wantToken: 5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyTrade(tc.trade, tc.contract)
			if got.Side != tc.wantSide {
				t.Errorf("expected side %s, got %s", tc.wantSide, got.Side)
			}
			if got.TokenAmount != tc.wantToken {
				t.Errorf("expected token amount %v, got %v", tc.wantToken, got.TokenAmount)
			}
			if got.QuoteAmount != tc.wantQuote {
				t.Errorf("expected quote amount %v, got %v", tc.wantQuote, got.QuoteAmount)
			}
		})
	}
}

func TestClassifyTradeCaseInsensitive(t *testing.T) {
	trade := geckoterminal.Trade{
		Kind:      "sell",
		ToAddress: "0xABCDEF",
	}
	got := classifyTrade(trade, "0xabcdef")
	if got.Side != SideBuy {
		t.Errorf("expected buy from case-insensitive address match, got %s", got.Side)
	}
}
