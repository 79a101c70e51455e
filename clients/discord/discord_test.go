package discord

import (
	"testing"
	"time"

	"poolwatch/clients/notifier"
	"poolwatch/config"

	"go.uber.org/zap"
)

func TestNewDiscordClientNoToken(t *testing.T) {
	dc := NewDiscordClient(zap.NewNop(), config.Defaults())

	if dc.session != nil {
		t.Error("expected nil session without a token")
	}
	// Must not panic even though the client is disabled.
	dc.SendAlert(notifier.Alert{Text: "hello"})
	if err := dc.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewDiscordClientChannelSelection(t *testing.T) {
	cfg := config.Defaults()
	cfg.Discord.BetaChannelID = "beta-channel"
	cfg.Discord.ProdChannelID = "prod-channel"

	dc := NewDiscordClient(zap.NewNop(), cfg)
	if dc.channelID != "beta-channel" {
		t.Errorf("expected beta channel, got %q", dc.channelID)
	}

	cfg.IsProd = true
	dc = NewDiscordClient(zap.NewNop(), cfg)
	if dc.channelID != "prod-channel" {
		t.Errorf("expected prod channel, got %q", dc.channelID)
	}
}

func TestBuildAlertEmbed(t *testing.T) {
	dc := NewDiscordClient(zap.NewNop(), config.Defaults())

	alert := notifier.Alert{
		Symbol:       "TST",
		ValueUSD:     50.25,
		TokenAmount:  1000,
		Wallet:       "0x1234567890abcdef1234",
		IsNewWallet:  true,
		TxURL:        "https://polygonscan.com/tx/0xabc",
		PriceUSD:     "$0.0523",
		MarketCapUSD: "$1.25M",
		Volume24hUSD: "$84.3K",
		ImageURL:     "https://example.com/token.png",
		Timestamp:    time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
	}

	embed := dc.buildAlertEmbed(alert)

	if embed.Title != "🟢 TST Buy" {
		t.Errorf("unexpected title: %s", embed.Title)
	}
	if embed.URL != alert.TxURL {
		t.Errorf("unexpected URL: %s", embed.URL)
	}
	if embed.Color != 0x2ECC71 {
		t.Errorf("unexpected color: %06x", embed.Color)
	}
	if len(embed.Fields) != 6 {
		t.Fatalf("expected 6 fields, got %d", len(embed.Fields))
	}
	if embed.Fields[0].Value != "$50.25" {
		t.Errorf("unexpected value field: %s", embed.Fields[0].Value)
	}
	if embed.Fields[2].Value != "0x1234…ef1234 (NEW)" {
		t.Errorf("unexpected buyer field: %s", embed.Fields[2].Value)
	}
	if embed.Fields[4].Value != "$1.25M" {
		t.Errorf("unexpected market cap field: %s", embed.Fields[4].Value)
	}
	if embed.Thumbnail == nil || embed.Thumbnail.URL != alert.ImageURL {
		t.Error("expected thumbnail from image URL")
	}
	if embed.Timestamp != "2026-01-02T15:04:05Z" {
		t.Errorf("unexpected timestamp: %s", embed.Timestamp)
	}
}

func TestBuildAlertEmbedUnknownWallet(t *testing.T) {
	dc := NewDiscordClient(zap.NewNop(), config.Defaults())

	embed := dc.buildAlertEmbed(notifier.Alert{Symbol: "TST"})

	if embed.Fields[2].Value != "unknown" {
		t.Errorf("expected unknown buyer, got %s", embed.Fields[2].Value)
	}
	if embed.Thumbnail != nil {
		t.Error("unexpected thumbnail without image URL")
	}
}

func TestShortAddress(t *testing.T) {
	if got := shortAddress("0xabc"); got != "0xabc" {
		t.Errorf("short address should pass through, got %q", got)
	}
	if got := shortAddress("0x1234567890abcdef1234"); got != "0x1234…ef1234" {
		t.Errorf("unexpected truncation: %q", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := formatAmount(1500); got != "1500" {
		t.Errorf("unexpected large amount: %q", got)
	}
	if got := formatAmount(1.5); got != "1.5000" {
		t.Errorf("unexpected small amount: %q", got)
	}
}
