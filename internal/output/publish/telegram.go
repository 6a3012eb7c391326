package publish

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

// Telegram posts summaries to a chat through the Bot API. The bot client is
// created on first use.
type Telegram struct {
	token  string
	chatID int64
	opts   telegramOptions
	pause  time.Duration

	mu  sync.Mutex
	api *tgbotapi.BotAPI
}

// TelegramOption configures a Telegram notifier.
type TelegramOption func(*telegramOptions)

type telegramOptions struct {
	endpoint   string
	httpClient *http.Client
}

// WithTelegramEndpoint overrides the Bot API endpoint format and HTTP client.
func WithTelegramEndpoint(endpoint string, client *http.Client) TelegramOption {
	return func(o *telegramOptions) {
		o.endpoint = endpoint
		o.httpClient = client
	}
}

// NewTelegram creates a notifier for chatID.
func NewTelegram(token string, chatID int64, opts ...TelegramOption) (*Telegram, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram notifier: %w", coreerrors.ErrClientDisabled)
	}

	o := telegramOptions{endpoint: tgbotapi.APIEndpoint, httpClient: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(&o)
	}

	return &Telegram{token: token, chatID: chatID, opts: o, pause: sleepBetweenParts}, nil
}

// bot returns the Bot API client, validating the token with getMe on first use.
func (t *Telegram) bot() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.api != nil {
		return t.api, nil
	}

	api, err := tgbotapi.NewBotAPIWithClient(t.token, t.opts.endpoint, t.opts.httpClient)
	if err != nil {
		return nil, fmt.Errorf("creating bot API: %w", err)
	}

	t.api = api

	return api, nil
}

// Name implements Notifier.
func (t *Telegram) Name() string { return targetTelegram }

// Notify sends the text split into message-sized parts, then the attachment
// as a document.
func (t *Telegram) Notify(ctx context.Context, msg Message) error {
	api, err := t.bot()
	if err != nil {
		return err
	}

	parts := SplitText(msg.Text, TelegramMaxMessageSize)

	for i, part := range parts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("telegram notify: %w", err)
		}

		m := tgbotapi.NewMessage(t.chatID, part)
		m.DisableWebPagePreview = true

		if _, err := api.Send(m); err != nil {
			return fmt.Errorf("send telegram part %d to chat %d: %w", i+1, t.chatID, err)
		}

		if i < len(parts)-1 {
			time.Sleep(t.pause)
		}
	}

	if msg.Attachment == nil {
		return nil
	}

	doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FileBytes{Name: msg.Attachment.Name, Bytes: msg.Attachment.Data})
	if _, err := api.Send(doc); err != nil {
		return fmt.Errorf("send telegram document to chat %d: %w", t.chatID, err)
	}

	return nil
}
