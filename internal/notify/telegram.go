// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers run output to a Telegram chat. When no bot token
// or chat id is configured, a noop notifier is returned so callers never
// need to branch on configuration.
package notify

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/paper-hunter/pkg/types"
)

// telegramAPIBase is the Bot API host. Declared as a var so tests can
// substitute an httptest server.
var telegramAPIBase = "https://api.telegram.org"

// Notifier is the messaging sink consumed by the pipeline.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, photoPath, caption string) error
}

// New builds a Notifier from the Telegram configuration. Missing credentials
// yield a noop implementation.
func New(cfg types.TelegramConfig, client *http.Client) Notifier {
	if strings.TrimSpace(cfg.BotToken) == "" || strings.TrimSpace(cfg.ChatID) == "" {
		return noopNotifier{}
	}
	return &telegramNotifier{cfg: cfg, client: client}
}

type noopNotifier struct{}

func (noopNotifier) SendMessage(context.Context, string) error       { return nil }
func (noopNotifier) SendPhoto(context.Context, string, string) error { return nil }

type telegramNotifier struct {
	cfg    types.TelegramConfig
	client *http.Client
}

// SendMessage posts a plain-text message to the configured chat.
func (n *telegramNotifier) SendMessage(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", n.cfg.ChatID)
	form.Set("text", text)
	form.Set("disable_web_page_preview", "true")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", telegramAPIBase, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return n.do(req)
}

// SendPhoto uploads a local image to the configured chat.
func (n *telegramNotifier) SendPhoto(ctx context.Context, photoPath, caption string) error {
	f, err := os.Open(photoPath)
	if err != nil {
		return fmt.Errorf("opening photo %s: %w", photoPath, err)
	}
	defer f.Close()

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	writer.WriteField("chat_id", n.cfg.ChatID)
	if caption != "" {
		writer.WriteField("caption", caption)
	}
	part, err := writer.CreateFormFile("photo", filepath.Base(photoPath))
	if err != nil {
		return fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalizing upload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendPhoto", telegramAPIBase, n.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return n.do(req)
}

func (n *telegramNotifier) do(req *http.Request) error {
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("Telegram API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Telegram API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
