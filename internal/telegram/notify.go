// Package telegram delivers best-effort outcome notifications to the
// operator chat. Notification failures never affect the publish outcome:
// every failure path returns false instead of an error.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the Telegram Bot API base URL.
	defaultBaseURL = "https://api.telegram.org"

	// defaultTimeout keeps a slow Telegram API from delaying the run outcome.
	defaultTimeout = 10 * time.Second
)

// Notifier sends messages to a single configured chat.
type Notifier struct {
	token      string
	chatID     string
	baseURL    string
	httpClient *http.Client
}

// NewNotifier creates a Notifier. With empty credentials the notifier is
// inert: Notify reports false without attempting delivery.
func NewNotifier(token, chatID string) *Notifier {
	return &Notifier{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// Notify sends text to the configured chat with parse_mode=HTML.
// Returns true only when Telegram accepted the message.
func (n *Notifier) Notify(ctx context.Context, text string) bool {
	if n == nil || n.token == "" || n.chatID == "" {
		return false
	}

	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                n.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Telegram notification: marshal failed")
		return false
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Warn().Err(err).Msg("Telegram notification: build request failed")
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Telegram notification: request failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("statusCode", resp.StatusCode).Msg("Telegram notification rejected")
		return false
	}
	return true
}

// EscapeHTML escapes the characters Telegram's HTML parse mode treats
// specially, so interpolated topics and error details render verbatim.
func EscapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
