package notify

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

type TelegramConfig struct {
	Enabled  bool
	BotToken string
	// ChatID is a numeric chat id or an @channel username.
	ChatID      string
	APIEndpoint string
}

// Telegram sends through the Bot API sendMessage method.
type Telegram struct {
	cfg     TelegramConfig
	api     *tgbotapi.BotAPI
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewTelegram does not call getMe: a bad token shows up as a failed send,
// never as a startup error.
func NewTelegram(cfg TelegramConfig, client *http.Client, logger *slog.Logger) *Telegram {
	api := &tgbotapi.BotAPI{
		Token:  cfg.BotToken,
		Client: client,
		Buffer: 100,
	}
	endpoint := cfg.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	api.SetAPIEndpoint(endpoint)

	return &Telegram{
		cfg: cfg,
		api: api,
		// Bot API allows about 30 messages per second
		limiter: rate.NewLimiter(30, 1),
		logger:  logger.With("provider", NameTelegram),
	}
}

func (t *Telegram) Name() string {
	return NameTelegram
}

func (t *Telegram) IsEnabled() bool {
	return t.cfg.Enabled && t.cfg.BotToken != "" && t.cfg.ChatID != ""
}

func (t *Telegram) Send(ctx context.Context, message string, _ Options) bool {
	if !t.IsEnabled() {
		t.logger.Warn("Telegram notification is disabled or incomplete")
		return false
	}

	if err := t.limiter.Wait(ctx); err != nil {
		t.logger.Error("Telegram notification failed", "error", err)
		return false
	}

	msg := t.newMessage(tgbotapi.EscapeText(tgbotapi.ModeHTML, message))
	msg.ParseMode = tgbotapi.ModeHTML

	// Send returns an error unless the API answers ok=true.
	sent, err := t.api.Send(msg)
	if err != nil {
		t.logger.Error("Telegram notification failed",
			"chat_id", t.cfg.ChatID,
			"error", err)
		return false
	}

	t.logger.Info("Telegram notification sent", "message_id", sent.MessageID)
	return true
}

func (t *Telegram) newMessage(text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(t.cfg.ChatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(t.cfg.ChatID, text)
}
