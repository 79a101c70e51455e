package clients

import (
	"poolwatch/clients/dexscreener"
	"poolwatch/clients/discord"
	"poolwatch/clients/geckoterminal"
	"poolwatch/clients/notifier"
	"poolwatch/clients/telegram"
	"poolwatch/config"

	"go.uber.org/zap"
)

type Clients struct {
	Logger *zap.Logger

	Telegram    *telegram.TelegramClient
	Discord     *discord.DiscordClient
	Notifier    notifier.Notifier // Combined notifier for all channels
	Gecko       *geckoterminal.Client
	DexScreener *dexscreener.Client
}

func NewClients(logger *zap.Logger, cfg *config.Config) *Clients {
	telegramClient := telegram.NewTelegramClient(logger, cfg)
	discordClient := discord.NewDiscordClient(logger, cfg)

	// Create combined notifier for all channels
	multiNotifier := notifier.NewMultiNotifier(telegramClient, discordClient)

	return &Clients{
		Logger:      logger,
		Telegram:    telegramClient,
		Discord:     discordClient,
		Notifier:    multiNotifier,
		Gecko:       geckoterminal.NewClient(logger, cfg),
		DexScreener: dexscreener.NewClient(logger, cfg),
	}
}
