package environment

import (
	"context"
	"log/slog"
	"net/http"

	"subtracker/internal/config"
	"subtracker/internal/infra/sqlite3"
	"subtracker/internal/notify"
)

type Clients struct {
	SQLiteDB  *sqlite3.DB
	Providers []notify.Provider
}

func newClients(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Clients, error) {
	sqliteDB, err := provideSQLiteDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Clients{
		SQLiteDB:  sqliteDB,
		Providers: provideNotificationProviders(cfg, logger),
	}, nil
}

func provideSQLiteDB(ctx context.Context, cfg config.Config) (*sqlite3.DB, error) {
	opts := []sqlite3.Option{
		sqlite3.WithDSN(cfg.DB.Path),
		sqlite3.WithMaxOpenConns(cfg.DB.MaxOpenConns),
		sqlite3.WithMaxIdleConns(cfg.DB.MaxIdleConns),
		sqlite3.WithConnMaxLifetime(cfg.DB.MaxLifetime),
		sqlite3.WithBusyTimeout(cfg.DB.BusyTimeout),
		sqlite3.WithForeignKeys(),
	}

	return sqlite3.New(ctx, opts...)
}

// provideNotificationProviders registers a provider for every channel that
// has any credential configured. Whether it actually sends is decided by the
// provider's own IsEnabled.
func provideNotificationProviders(cfg config.Config, logger *slog.Logger) []notify.Provider {
	httpClient := &http.Client{Timeout: cfg.Notify.Timeout}
	logger = logger.With("component", "notify")

	var providers []notify.Provider

	if cfg.WeChat.Configured() {
		providers = append(providers, notify.NewWeChat(notify.WeChatConfig{
			Enabled:    cfg.WeChat.Enabled,
			WebhookURL: cfg.WeChat.WebhookURL,
		}, httpClient, logger))
	}

	if cfg.DingTalk.Configured() {
		providers = append(providers, notify.NewDingTalk(notify.DingTalkConfig{
			Enabled:    cfg.DingTalk.Enabled,
			WebhookURL: cfg.DingTalk.WebhookURL,
		}, httpClient, logger))
	}

	if cfg.Telegram.Configured() {
		providers = append(providers, notify.NewTelegram(notify.TelegramConfig{
			Enabled:     cfg.Telegram.Enabled,
			BotToken:    cfg.Telegram.BotToken,
			ChatID:      cfg.Telegram.ChatID,
			APIEndpoint: cfg.Telegram.APIEndpoint,
		}, httpClient, logger))
	}

	if cfg.WXPusher.Configured() {
		providers = append(providers, notify.NewWXPusher(notify.WXPusherConfig{
			Enabled:  cfg.WXPusher.Enabled,
			AppToken: cfg.WXPusher.AppToken,
			UID:      cfg.WXPusher.UID,
			Endpoint: cfg.WXPusher.Endpoint,
		}, httpClient, logger))
	}

	if cfg.Email.Configured() {
		providers = append(providers, notify.NewEmail(notify.EmailConfig{
			Enabled:  cfg.Email.Enabled,
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Secure:   cfg.Email.Secure,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		}, cfg.Notify.Timeout, logger))
	}

	return providers
}
