package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-faster/jx"
)

type WeChatConfig struct {
	Enabled    bool
	WebhookURL string
}

// WeChat posts to a WeChat Work group robot webhook.
type WeChat struct {
	cfg    WeChatConfig
	client *http.Client
	logger *slog.Logger
}

func NewWeChat(cfg WeChatConfig, client *http.Client, logger *slog.Logger) *WeChat {
	return &WeChat{
		cfg:    cfg,
		client: client,
		logger: logger.With("provider", NameWeChat),
	}
}

func (w *WeChat) Name() string {
	return NameWeChat
}

func (w *WeChat) IsEnabled() bool {
	return w.cfg.Enabled && w.cfg.WebhookURL != ""
}

func (w *WeChat) Send(ctx context.Context, message string, opts Options) bool {
	if !w.IsEnabled() {
		w.logger.Warn("WeChat Work notification is disabled or incomplete")
		return false
	}

	data, err := postJSON(ctx, w.client, w.cfg.WebhookURL, w.payload(message, opts))
	if err != nil {
		w.logger.Error("WeChat Work notification failed", "error", err)
		return false
	}

	st, err := decodeStatus(data, "errcode", "errmsg")
	if err != nil {
		w.logger.Error("WeChat Work notification failed", "error", err)
		return false
	}
	if st.Code != 0 {
		w.logger.Error("WeChat Work rejected notification",
			"errcode", st.Code,
			"errmsg", st.Message)
		return false
	}

	w.logger.Info("WeChat Work notification sent")
	return true
}

func (w *WeChat) payload(message string, opts Options) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("msgtype")
	e.Str("text")
	e.FieldStart("text")
	e.ObjStart()
	e.FieldStart("content")
	e.Str(message)
	if len(opts.MentionedList) > 0 {
		e.FieldStart("mentioned_list")
		encodeStrings(&e, opts.MentionedList)
	}
	e.ObjEnd()
	e.ObjEnd()
	return e.Bytes()
}
