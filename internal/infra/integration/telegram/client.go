package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.telegram.org"

var ErrNotConfigured = errors.New("telegram bot is not configured")

type Client struct {
	baseURL string
	token   string
	chatID  string
	http    *http.Client
}

func NewClient(baseURL, token, chatID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) IsEnabled() bool {
	return c.token != "" && c.chatID != ""
}

func (c *Client) ChatID() string {
	return c.chatID
}

// SendMessage posts an HTML message with an optional inline keyboard to the configured chat.
func (c *Client) SendMessage(ctx context.Context, msg Message) error {
	if !c.IsEnabled() {
		return ErrNotConfigured
	}
	payload := sendMessageRequest{
		ChatID:                c.chatID,
		Text:                  msg.Text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}
	if len(msg.Buttons) > 0 {
		payload.ReplyMarkup = &replyMarkup{InlineKeyboard: msg.Buttons}
	}
	return c.call(ctx, "sendMessage", payload)
}

func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	if c.token == "" {
		return ErrNotConfigured
	}
	return c.call(ctx, "answerCallbackQuery", answerCallbackRequest{CallbackQueryID: callbackID, Text: text})
}

func (c *Client) call(ctx context.Context, method string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", method, err)
	}
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// the request URL contains the bot token
		return fmt.Errorf("telegram %s request failed", method)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var out apiResponse
	_ = json.Unmarshal(raw, &out)
	if resp.StatusCode < 200 || resp.StatusCode > 299 || !out.OK {
		return fmt.Errorf("telegram %s failed (status %d): %s", method, resp.StatusCode, out.Description)
	}
	return nil
}

// Escape makes text safe for HTML parse mode.
func Escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
