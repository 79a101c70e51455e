package discord

import (
	"fmt"
	"time"

	"poolwatch/clients/notifier"
	"poolwatch/config"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// DiscordClient sends alerts to Discord.
// Implements notifier.Notifier interface.
type DiscordClient struct {
	logger    *zap.Logger
	session   *discordgo.Session
	channelID string
	isProd    bool
}

func NewDiscordClient(logger *zap.Logger, cfg *config.Config) *DiscordClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	channelID := cfg.Discord.BetaChannelID
	if cfg.IsProd {
		channelID = cfg.Discord.ProdChannelID
	}

	token := cfg.Discord.BotToken
	if token == "" {
		logger.Warn("DISCORD_BOT_TOKEN not set, Discord alerts disabled")
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		logger.Error("failed to create discord session", zap.Error(err))
		return &DiscordClient{
			logger:    logger,
			channelID: channelID,
			isProd:    cfg.IsProd,
		}
	}

	logger.Info("discord bot initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("channelID", channelID),
	)

	return &DiscordClient{
		logger:    logger,
		session:   session,
		channelID: channelID,
		isProd:    cfg.IsProd,
	}
}

// SendAlert sends a rich embedded buy alert.
// Implements notifier.Notifier interface.
func (dc *DiscordClient) SendAlert(alert notifier.Alert) {
	if dc.session == nil {
		dc.logger.Warn("discord session not initialized, skipping alert")
		return
	}

	channelID := dc.channelID
	if alert.Destination != "" {
		channelID = alert.Destination
	}
	if channelID == "" {
		dc.logger.Warn("discord channel not configured, skipping alert")
		return
	}

	embed := dc.buildAlertEmbed(alert)

	_, err := dc.session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		dc.logger.Error("failed to send discord embed", zap.Error(err))
		return
	}

	dc.logger.Info("sent discord buy alert",
		zap.String("symbol", alert.Symbol),
		zap.String("txHash", alert.TxHash),
	)
}

func (dc *DiscordClient) buildAlertEmbed(alert notifier.Alert) *discordgo.MessageEmbed {
	title := fmt.Sprintf("🟢 %s Buy", alert.Symbol)

	walletDisplay := shortAddress(alert.Wallet)
	if walletDisplay == "" {
		walletDisplay = "unknown"
	}
	if alert.IsNewWallet {
		walletDisplay += " (NEW)"
	}

	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Value",
			Value:  fmt.Sprintf("$%.2f", alert.ValueUSD),
			Inline: true,
		},
		{
			Name:   "Tokens",
			Value:  fmt.Sprintf("%s %s", formatAmount(alert.TokenAmount), alert.Symbol),
			Inline: true,
		},
		{
			Name:   "Buyer",
			Value:  walletDisplay,
			Inline: true,
		},
		{
			Name:   "Price",
			Value:  alert.PriceUSD,
			Inline: true,
		},
		{
			Name:   "Market Cap",
			Value:  alert.MarketCapUSD,
			Inline: true,
		},
		{
			Name:   "24h Volume",
			Value:  alert.Volume24hUSD,
			Inline: true,
		},
	}

	ts := alert.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	embed := &discordgo.MessageEmbed{
		Title:  title,
		URL:    alert.TxURL,
		Color:  0x2ECC71,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "poolwatch",
		},
		Timestamp: ts.Format(time.RFC3339),
	}

	if alert.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{
			URL: alert.ImageURL,
		}
	}

	return embed
}

func shortAddress(addr string) string {
	if len(addr) <= 14 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-6:]
}

func formatAmount(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4f", v)
}

// Close closes the Discord session.
func (dc *DiscordClient) Close() error {
	if dc.session != nil {
		return dc.session.Close()
	}
	return nil
}
