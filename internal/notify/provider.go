// Package notify delivers reminder text to external channels.
//
// Every channel implements Provider with the same contract: Send reports
// whether the channel confirmed delivery and never returns an error. Failures
// are logged by the provider itself. Dispatcher fans a message out to all
// enabled providers at once.
package notify

import (
	"context"
	"errors"
)

var ErrUnknownProvider = errors.New("notification provider not registered")

const (
	NameWeChat   = "wechat"
	NameDingTalk = "dingtalk"
	NameTelegram = "telegram"
	NameWXPusher = "wxpusher"
	NameEmail    = "email"
)

// Options carries channel-specific hints. Channels ignore fields they do not use.
type Options struct {
	// Summary is the WXPusher summary line and the email subject.
	Summary string
	// MentionedList is the WeChat Work mentioned_list.
	MentionedList []string
	// AtMobiles are DingTalk phone numbers to @.
	AtMobiles []string
}

type Provider interface {
	Name() string
	// IsEnabled reports whether the channel is switched on and fully configured.
	IsEnabled() bool
	// Send attempts one delivery and reports channel-confirmed success.
	Send(ctx context.Context, message string, opts Options) bool
}
