package config

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Environment
	IsProd bool `json:"is_prod"`

	// Telegram
	Telegram TelegramConfig `json:"telegram"`

	// Discord
	Discord DiscordConfig `json:"discord"`

	// Market data endpoints
	Feed FeedConfig `json:"feed"`

	// Monitor loop defaults
	Monitor MonitorDefaults `json:"monitor"`

	// Monitored pools
	Monitors []PoolConfig `json:"monitors"`

	// Health server
	HealthServer HealthServerConfig `json:"health_server"`
}

// TelegramConfig holds Telegram-related configuration.
type TelegramConfig struct {
	BotToken   string `json:"-"` // Excluded - env var only
	ProdChatID string `json:"prod_chat_id"`
	BetaChatID string `json:"beta_chat_id"`
}

// DiscordConfig holds Discord-related configuration.
type DiscordConfig struct {
	BotToken      string `json:"-"` // Excluded - env var only
	ProdChannelID string `json:"prod_channel_id"`
	BetaChannelID string `json:"beta_channel_id"`
}

// FeedConfig holds external market data endpoint configuration.
type FeedConfig struct {
	GeckoTerminalURL string `json:"geckoterminal_url"`
	DexScreenerURL   string `json:"dexscreener_url"`
}

// MonitorDefaults holds settings shared by every monitor loop.
type MonitorDefaults struct {
	PollInterval time.Duration `json:"poll_interval"`
	TradeLimit   int           `json:"trade_limit"`
	MinBuyUSD    float64       `json:"min_buy_usd"`
}

// PoolConfig describes one monitored (token, pool) pair.
type PoolConfig struct {
	Network       string  `json:"network"`
	PoolAddress   string  `json:"pool_address"`
	TokenContract string  `json:"token_contract"`
	Symbol        string  `json:"symbol"`
	MinBuyUSD     float64 `json:"min_buy_usd"`
	Destination   string  `json:"destination"`
	ImageURL      string  `json:"image_url"`
}

// HealthServerConfig holds health check server configuration.
type HealthServerConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

// Defaults returns a config with hardcoded default values.
func Defaults() *Config {
	return &Config{
		IsProd:   false,
		Telegram: TelegramConfig{},
		Discord:  DiscordConfig{},
		Feed: FeedConfig{
			GeckoTerminalURL: "https://api.geckoterminal.com/api/v2",
			DexScreenerURL:   "https://api.dexscreener.com",
		},
		Monitor: MonitorDefaults{
			PollInterval: 30 * time.Second,
			TradeLimit:   100,
			MinBuyUSD:    3.0,
		},
		HealthServer: HealthServerConfig{
			Enabled: true,
			Port:    8080,
		},
	}
}

// Load loads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		IsProd: envBool("STAGE", "PROD"),

		Telegram: TelegramConfig{
			BotToken:   envString("TELEGRAM_BOT_KEY", ""),
			ProdChatID: envString("TELEGRAM_PROD_CHAT_ID", ""),
			BetaChatID: envString("TELEGRAM_BETA_CHAT_ID", ""),
		},

		Discord: DiscordConfig{
			BotToken:      envString("DISCORD_BOT_TOKEN", ""),
			ProdChannelID: envString("DISCORD_PROD_CHANNEL_ID", ""),
			BetaChannelID: envString("DISCORD_BETA_CHANNEL_ID", ""),
		},

		Feed: FeedConfig{
			GeckoTerminalURL: envString("GECKOTERMINAL_API_URL", "https://api.geckoterminal.com/api/v2"),
			DexScreenerURL:   envString("DEXSCREENER_API_URL", "https://api.dexscreener.com"),
		},

		Monitor: MonitorDefaults{
			PollInterval: envDuration("POLL_INTERVAL", 30*time.Second),
			TradeLimit:   envInt("TRADE_LIMIT", 100),
			MinBuyUSD:    envFloat("MIN_BUY_USD", 3.0),
		},

		Monitors: loadMonitors(),

		HealthServer: HealthServerConfig{
			Enabled: envBoolDefault("HEALTH_SERVER_ENABLED", true),
			Port:    envInt("HEALTH_SERVER_PORT", 8080),
		},
	}
}

// loadMonitors reads the monitored pool list. MONITORS takes precedence as a
// JSON array of PoolConfig; otherwise a single monitor is assembled from the
// flat POOL_* variables when a pool address is present.
func loadMonitors() []PoolConfig {
	if raw := strings.TrimSpace(os.Getenv("MONITORS")); raw != "" {
		var monitors []PoolConfig
		if err := json.Unmarshal([]byte(raw), &monitors); err == nil {
			return normalizeMonitors(monitors)
		}
		return nil
	}

	pool := envString("POOL_ADDRESS", "")
	if pool == "" {
		return nil
	}

	return normalizeMonitors([]PoolConfig{{
		Network:       envString("POOL_NETWORK", "polygon_pos"),
		PoolAddress:   pool,
		TokenContract: envString("TOKEN_CONTRACT", ""),
		Symbol:        envString("TOKEN_SYMBOL", ""),
		MinBuyUSD:     envFloat("MIN_BUY_USD", 3.0),
		Destination:   envString("ALERT_DESTINATION", ""),
		ImageURL:      envString("TOKEN_IMAGE_URL", ""),
	}})
}

// normalizeMonitors lowercases addresses and drops entries missing a network
// or pool address. Feed addresses are compared case-insensitively downstream,
// so config normalization keeps log output consistent.
func normalizeMonitors(monitors []PoolConfig) []PoolConfig {
	result := make([]PoolConfig, 0, len(monitors))
	for _, m := range monitors {
		m.Network = strings.ToLower(strings.TrimSpace(m.Network))
		m.PoolAddress = strings.ToLower(strings.TrimSpace(m.PoolAddress))
		m.TokenContract = strings.ToLower(strings.TrimSpace(m.TokenContract))
		if m.PoolAddress == "" || m.Network == "" {
			continue
		}
		result = append(result, m)
	}
	return result
}

// Helper functions for parsing environment variables

func envString(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func envFloat(key string, defaultVal float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func envBool(key, trueValue string) bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv(key)), trueValue)
}

func envBoolDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	return strings.EqualFold(v, "true") || strings.EqualFold(v, "1") || strings.EqualFold(v, "yes")
}
