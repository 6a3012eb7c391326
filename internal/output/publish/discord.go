package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	coreerrors "github.com/lueurxax/ytmusic-trends/internal/core/errors"
)

const maxErrorBody = 512

// Discord posts summaries through an incoming webhook.
type Discord struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscord creates a webhook notifier. A nil client uses a default with timeout.
func NewDiscord(webhookURL string, client *http.Client) (*Discord, error) {
	if webhookURL == "" {
		return nil, fmt.Errorf("discord notifier: %w", coreerrors.ErrClientDisabled)
	}

	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Discord{webhookURL: webhookURL, httpClient: client}, nil
}

// Name implements Notifier.
func (d *Discord) Name() string { return targetDiscord }

// Notify posts the text in chunks; the attachment goes with the first one.
func (d *Discord) Notify(ctx context.Context, msg Message) error {
	for i, chunk := range SplitText(msg.Text, DiscordMaxMessageSize) {
		var err error
		if i == 0 && msg.Attachment != nil {
			err = d.postWithFile(ctx, chunk, msg.Attachment)
		} else {
			err = d.postJSON(ctx, chunk)
		}

		if err != nil {
			return fmt.Errorf("post discord chunk %d: %w", i+1, err)
		}
	}

	return nil
}

func (d *Discord) postJSON(ctx context.Context, content string) error {
	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("marshal webhook body: %w", err)
	}

	return d.post(ctx, "application/json", bytes.NewReader(body))
}

func (d *Discord) postWithFile(ctx context.Context, content string, file *Attachment) error {
	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	if err := w.WriteField("content", content); err != nil {
		return fmt.Errorf("write content field: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
	header.Set("Content-Type", "text/markdown")

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}

	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("write file part: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("close multipart body: %w", err)
	}

	return d.post(ctx, w.FormDataContentType(), &buf)
}

func (d *Discord) post(ctx context.Context, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: %d %s", coreerrors.ErrHTTPStatus, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	return nil
}
