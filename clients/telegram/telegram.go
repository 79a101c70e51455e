package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"poolwatch/clients/notifier"
	"poolwatch/config"

	"go.uber.org/zap"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramClient sends alerts to Telegram.
// Implements notifier.Notifier interface.
type TelegramClient struct {
	logger   *zap.Logger
	botToken string
	chatID   string
	apiBase  string
	isProd   bool
	client   *http.Client
}

func NewTelegramClient(logger *zap.Logger, cfg *config.Config) *TelegramClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	chatID := cfg.Telegram.BetaChatID
	if cfg.IsProd {
		chatID = cfg.Telegram.ProdChatID
	}

	token := cfg.Telegram.BotToken
	if token == "" {
		logger.Warn("TELEGRAM_BOT_KEY not set, Telegram alerts disabled")
		return &TelegramClient{
			logger:  logger,
			chatID:  chatID,
			apiBase: defaultAPIBase,
			isProd:  cfg.IsProd,
		}
	}

	logger.Info("telegram bot initialized",
		zap.Bool("isProd", cfg.IsProd),
		zap.String("chatID", chatID),
	)

	return &TelegramClient{
		logger:   logger,
		botToken: token,
		chatID:   chatID,
		apiBase:  defaultAPIBase,
		isProd:   cfg.IsProd,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// SendAlert sends a buy alert. A monitor-level destination overrides the
// configured chat; an image reference turns the alert into a photo with the
// rendered text as caption, falling back to a plain message if the photo
// call fails.
// Implements notifier.Notifier interface.
func (tc *TelegramClient) SendAlert(alert notifier.Alert) {
	chatID := tc.chatID
	if alert.Destination != "" {
		chatID = alert.Destination
	}

	if tc.botToken == "" || chatID == "" {
		tc.logger.Warn("telegram not configured, skipping alert")
		return
	}

	if alert.ImageURL != "" {
		if err := tc.sendPhoto(chatID, alert.ImageURL, alert.Text); err == nil {
			tc.logger.Info("sent telegram buy alert",
				zap.String("symbol", alert.Symbol),
				zap.String("txHash", alert.TxHash),
			)
			return
		} else {
			tc.logger.Warn("telegram photo send failed, falling back to text", zap.Error(err))
		}
	}

	if err := tc.sendMessage(chatID, alert.Text); err != nil {
		tc.logger.Error("failed to send telegram message", zap.Error(err))
		return
	}

	tc.logger.Info("sent telegram buy alert",
		zap.String("symbol", alert.Symbol),
		zap.String("txHash", alert.TxHash),
	)
}

func (tc *TelegramClient) sendMessage(chatID, text string) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	return tc.call("sendMessage", payload)
}

func (tc *TelegramClient) sendPhoto(chatID, photoURL, caption string) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"photo":      photoURL,
		"caption":    caption,
		"parse_mode": "Markdown",
	}
	return tc.call("sendPhoto", payload)
}

func (tc *TelegramClient) call(method string, payload map[string]interface{}) error {
	url := fmt.Sprintf("%s/bot%s/%s", tc.apiBase, tc.botToken, method)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	resp, err := tc.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// Close cleans up resources. Implements notifier.Notifier interface.
func (tc *TelegramClient) Close() error {
	return nil
}
