package app

import (
	"fmt"
	"strings"

	"poolwatch/config"
)

const unavailable = "unavailable"

// explorers maps feed network ids to transaction explorer URL prefixes.
var explorers = map[string]string{
	"eth":         "https://etherscan.io/tx/",
	"polygon_pos": "https://polygonscan.com/tx/",
	"bsc":         "https://bscscan.com/tx/",
	"base":        "https://basescan.org/tx/",
	"arbitrum":    "https://arbiscan.io/tx/",
	"optimism":    "https://optimistic.etherscan.io/tx/",
	"avax":        "https://snowtrace.io/tx/",
	"solana":      "https://solscan.io/tx/",
}

// txURL builds an explorer link for a transaction, or "" when the network
// has no known explorer or the hash is missing.
func txURL(network, txHash string) string {
	if txHash == "" {
		return ""
	}
	base, ok := explorers[network]
	if !ok {
		return ""
	}
	return base + txHash
}

// renderAlert builds the alert message text. Pure: no I/O, no clock.
func renderAlert(cfg config.PoolConfig, trade ClassifiedTrade, snap Snapshot, isNewWallet bool) string {
	var sb strings.Builder

	symbol := escapeMarkdown(nz(cfg.Symbol, "Token"))
	sb.WriteString(fmt.Sprintf("🟢 *%s Buy!*\n\n", symbol))

	value := 0.0
	if trade.ValueUSD != nil {
		value = *trade.ValueUSD
	}
	sb.WriteString(fmt.Sprintf("💵 *$%.2f* (%s %s for %s)\n",
		value, formatTokenAmount(trade.TokenAmount), symbol, formatTokenAmount(trade.QuoteAmount)))

	if trade.Wallet != "" {
		line := fmt.Sprintf("👤 `%s`", shortID(trade.Wallet))
		if isNewWallet {
			line += " (NEW)"
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("💰 Price: %s\n", formatUSD(snap.PriceUSD)))
	sb.WriteString(fmt.Sprintf("🏦 Market Cap: %s\n", formatCompactUSD(snap.MarketCapUSD)))
	sb.WriteString(fmt.Sprintf("📊 24h Volume: %s\n", formatCompactUSD(snap.Volume24hUSD)))

	if url := txURL(cfg.Network, trade.TxHash); url != "" {
		sb.WriteString(fmt.Sprintf("\n🔗 [View Transaction](%s)", url))
	}

	return sb.String()
}

// formatUSD renders a price with precision scaled to its magnitude, since
// tracked tokens often trade far below a cent.
func formatUSD(v *float64) string {
	if v == nil {
		return unavailable
	}
	f := *v
	switch {
	case f >= 1:
		return fmt.Sprintf("$%.2f", f)
	case f >= 0.01:
		return fmt.Sprintf("$%.4f", f)
	default:
		return fmt.Sprintf("$%.8f", f)
	}
}

// formatCompactUSD renders large dollar figures in $1.2M style.
func formatCompactUSD(v *float64) string {
	if v == nil {
		return unavailable
	}
	f := *v
	switch {
	case f >= 1e9:
		return fmt.Sprintf("$%.2fB", f/1e9)
	case f >= 1e6:
		return fmt.Sprintf("$%.2fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("$%.1fK", f/1e3)
	default:
		return fmt.Sprintf("$%.2f", f)
	}
}

func formatTokenAmount(v float64) string {
	switch {
	case v >= 1000:
		return fmt.Sprintf("%.0f", v)
	case v >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.6f", v)
	}
}

// escapeMarkdown escapes special characters for Telegram Markdown.
func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
