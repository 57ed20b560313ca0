package config

import (
	"fmt"
	"time"
)

type Config struct {
	Env              string                  `env:"ENV,default=local"`
	Logger           LoggerConfig            `env:",prefix=LOGGER_"`
	Observability    ObservabilityHTTPConfig `env:",prefix=OBSERVABILITY_"`
	API              APIHTTPConfig           `env:",prefix=API_"`
	ShutdownDuration time.Duration           `env:"SHUTDOWN_DURATION,default=30s"`
	DB               SQLiteConfig            `env:",prefix=DB_"`
	Scheduler        SchedulerConfig         `env:",prefix=SCHEDULER_"`
	Notify           NotifyConfig            `env:",prefix=NOTIFY_"`
	WeChat           WeChatConfig            `env:",prefix=WECHAT_"`
	DingTalk         DingTalkConfig          `env:",prefix=DINGTALK_"`
	Telegram         TelegramConfig          `env:",prefix=TELEGRAM_"`
	WXPusher         WXPusherConfig          `env:",prefix=WXPUSHER_"`
	Email            EmailConfig             `env:",prefix=EMAIL_"`
}

// IsDevelopment enables the extra hourly reminder check.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

type LoggerConfig struct {
	Level string `env:"LEVEL,default=info"`
}

type ObservabilityHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8383"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a ObservabilityHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type APIHTTPConfig struct {
	Host         string        `env:"HOST,default=127.0.0.1"`
	Port         uint16        `env:"PORT,default=8080"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT,default=30s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT,default=2m"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT,default=1m"`
}

func (a APIHTTPConfig) ADDR() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

type SQLiteConfig struct {
	Path         string        `env:"PATH,default=./data/subtracker.db"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS,default=1"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS,default=1"`
	MaxLifetime  time.Duration `env:"MAX_LIFETIME,default=5m"`
	BusyTimeout  time.Duration `env:"BUSY_TIMEOUT,default=5s"`
}

type SchedulerConfig struct {
	Timezone      string `env:"TIMEZONE,default=Asia/Shanghai"`
	ReminderSpec  string `env:"REMINDER_SPEC,default=0 9 * * *"`
	RolloverSpec  string `env:"ROLLOVER_SPEC,default=0 2 * * *"`
	LookaheadDays int    `env:"LOOKAHEAD_DAYS,default=7"`
}

func (s SchedulerConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", s.Timezone, err)
	}
	return loc, nil
}

type NotifyConfig struct {
	Timeout time.Duration `env:"TIMEOUT,default=10s"`
}

// Channel sections below count as configured once any credential field is
// set; ENABLED alone does not register a provider.

type WeChatConfig struct {
	Enabled    bool   `env:"ENABLED,default=true"`
	WebhookURL string `env:"WEBHOOK_URL"`
}

func (c WeChatConfig) Configured() bool {
	return c.WebhookURL != ""
}

type DingTalkConfig struct {
	Enabled    bool   `env:"ENABLED,default=true"`
	WebhookURL string `env:"WEBHOOK_URL"`
}

func (c DingTalkConfig) Configured() bool {
	return c.WebhookURL != ""
}

type TelegramConfig struct {
	Enabled     bool   `env:"ENABLED,default=true"`
	BotToken    string `env:"BOT_TOKEN"`
	ChatID      string `env:"CHAT_ID"`
	APIEndpoint string `env:"API_ENDPOINT"`
}

func (c TelegramConfig) Configured() bool {
	return c.BotToken != "" || c.ChatID != ""
}

type WXPusherConfig struct {
	Enabled  bool   `env:"ENABLED,default=true"`
	AppToken string `env:"APP_TOKEN"`
	UID      string `env:"UID"`
	Endpoint string `env:"ENDPOINT"`
}

func (c WXPusherConfig) Configured() bool {
	return c.AppToken != "" || c.UID != ""
}

type EmailConfig struct {
	Enabled  bool   `env:"ENABLED,default=true"`
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT,default=587"`
	Secure   bool   `env:"SMTP_SECURE,default=false"`
	Username string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"FROM"`
	To       string `env:"TO"`
}

func (c EmailConfig) Configured() bool {
	return c.Host != "" || c.Username != "" || c.From != "" || c.To != ""
}
