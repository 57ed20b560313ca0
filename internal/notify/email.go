package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/go-mail"
)

const defaultEmailSubject = "订阅提醒"

type EmailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
	From     string
	// To is a comma separated recipient list.
	To string
}

// Email delivers over SMTP. A message accepted by the server counts as delivered.
type Email struct {
	cfg     EmailConfig
	timeout time.Duration
	logger  *slog.Logger

	deliver func(ctx context.Context, msg *mail.Msg) error
}

func NewEmail(cfg EmailConfig, timeout time.Duration, logger *slog.Logger) *Email {
	e := &Email{
		cfg:     cfg,
		timeout: timeout,
		logger:  logger.With("provider", NameEmail),
	}
	e.deliver = e.dialAndSend
	return e
}

func (e *Email) Name() string {
	return NameEmail
}

func (e *Email) IsEnabled() bool {
	return e.cfg.Enabled && e.cfg.Host != "" && e.cfg.From != "" && len(e.recipients()) > 0
}

func (e *Email) Send(ctx context.Context, message string, opts Options) bool {
	if !e.IsEnabled() {
		e.logger.Warn("Email notification is disabled or incomplete")
		return false
	}

	msg, err := e.buildMessage(message, opts)
	if err != nil {
		e.logger.Error("Email notification failed", "error", err)
		return false
	}

	if err := e.deliver(ctx, msg); err != nil {
		e.logger.Error("Email notification failed",
			"host", e.cfg.Host,
			"error", err)
		return false
	}

	e.logger.Info("Email notification sent", "recipients", len(e.recipients()))
	return true
}

func (e *Email) buildMessage(message string, opts Options) (*mail.Msg, error) {
	subject := opts.Summary
	if subject == "" {
		subject = defaultEmailSubject
	}

	msg := mail.NewMsg()
	if err := msg.From(e.cfg.From); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(e.recipients()...); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, message)
	return msg, nil
}

func (e *Email) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(e.cfg.Port),
		mail.WithTimeout(e.timeout),
	}
	if e.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if e.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(e.cfg.Username),
			mail.WithPassword(e.cfg.Password),
		)
	}

	client, err := mail.NewClient(e.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("mail.NewClient: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (e *Email) recipients() []string {
	var out []string
	for _, addr := range strings.Split(e.cfg.To, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
