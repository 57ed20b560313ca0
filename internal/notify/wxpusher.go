package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-faster/jx"
)

const (
	DefaultWXPusherEndpoint = "https://wxpusher.zjiecode.com/api/send/message"
	wxpusherSuccessCode     = 1000
	wxpusherContentText     = 1
	wxpusherDefaultSummary  = "订阅提醒"
)

type WXPusherConfig struct {
	Enabled  bool
	AppToken string
	UID      string
	Endpoint string
}

// WXPusher delivers through the WxPusher push gateway to a single uid.
type WXPusher struct {
	cfg    WXPusherConfig
	client *http.Client
	logger *slog.Logger
}

func NewWXPusher(cfg WXPusherConfig, client *http.Client, logger *slog.Logger) *WXPusher {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultWXPusherEndpoint
	}
	return &WXPusher{
		cfg:    cfg,
		client: client,
		logger: logger.With("provider", NameWXPusher),
	}
}

func (w *WXPusher) Name() string {
	return NameWXPusher
}

func (w *WXPusher) IsEnabled() bool {
	return w.cfg.Enabled && w.cfg.AppToken != "" && w.cfg.UID != ""
}

func (w *WXPusher) Send(ctx context.Context, message string, opts Options) bool {
	if !w.IsEnabled() {
		w.logger.Warn("WxPusher notification is disabled or incomplete")
		return false
	}

	data, err := postJSON(ctx, w.client, w.cfg.Endpoint, w.payload(message, opts))
	if err != nil {
		w.logger.Error("WxPusher notification failed", "error", err)
		return false
	}

	st, err := decodeStatus(data, "code", "msg")
	if err != nil {
		w.logger.Error("WxPusher notification failed", "error", err)
		return false
	}
	if st.Code != wxpusherSuccessCode {
		w.logger.Error("WxPusher rejected notification",
			"code", st.Code,
			"msg", st.Message)
		return false
	}

	w.logger.Info("WxPusher notification sent")
	return true
}

func (w *WXPusher) payload(message string, opts Options) []byte {
	summary := opts.Summary
	if summary == "" {
		summary = wxpusherDefaultSummary
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("appToken")
	e.Str(w.cfg.AppToken)
	e.FieldStart("content")
	e.Str(message)
	e.FieldStart("summary")
	e.Str(summary)
	e.FieldStart("contentType")
	e.Int(wxpusherContentText)
	e.FieldStart("uids")
	encodeStrings(&e, []string{w.cfg.UID})
	e.ObjEnd()
	return e.Bytes()
}
