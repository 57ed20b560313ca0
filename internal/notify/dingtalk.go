package notify

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-faster/jx"
	"golang.org/x/time/rate"
)

type DingTalkConfig struct {
	Enabled    bool
	WebhookURL string
}

// DingTalk posts to a DingTalk custom robot webhook. The robot accepts at
// most 20 messages a minute, so sends are paced.
type DingTalk struct {
	cfg     DingTalkConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewDingTalk(cfg DingTalkConfig, client *http.Client, logger *slog.Logger) *DingTalk {
	return &DingTalk{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(20.0/60.0), 5),
		logger:  logger.With("provider", NameDingTalk),
	}
}

func (d *DingTalk) Name() string {
	return NameDingTalk
}

func (d *DingTalk) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.WebhookURL != ""
}

func (d *DingTalk) Send(ctx context.Context, message string, opts Options) bool {
	if !d.IsEnabled() {
		d.logger.Warn("DingTalk notification is disabled or incomplete")
		return false
	}

	if err := d.limiter.Wait(ctx); err != nil {
		d.logger.Error("DingTalk notification failed", "error", err)
		return false
	}

	data, err := postJSON(ctx, d.client, d.cfg.WebhookURL, d.payload(message, opts))
	if err != nil {
		d.logger.Error("DingTalk notification failed", "error", err)
		return false
	}

	st, err := decodeStatus(data, "errcode", "errmsg")
	if err != nil {
		d.logger.Error("DingTalk notification failed", "error", err)
		return false
	}
	if st.Code != 0 {
		d.logger.Error("DingTalk rejected notification",
			"errcode", st.Code,
			"errmsg", st.Message)
		return false
	}

	d.logger.Info("DingTalk notification sent")
	return true
}

func (d *DingTalk) payload(message string, opts Options) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("msgtype")
	e.Str("text")
	e.FieldStart("text")
	e.ObjStart()
	e.FieldStart("content")
	e.Str(message)
	e.ObjEnd()
	if len(opts.AtMobiles) > 0 {
		e.FieldStart("at")
		e.ObjStart()
		e.FieldStart("atMobiles")
		encodeStrings(&e, opts.AtMobiles)
		e.FieldStart("isAtAll")
		e.Bool(false)
		e.ObjEnd()
	}
	e.ObjEnd()
	return e.Bytes()
}
