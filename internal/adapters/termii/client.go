// Package termii implements the SMS channel on top of the Termii HTTP API.
package termii

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
)

// MaxMessageLength is the longest text Termii accepts, counted in UTF-16 code units (4 SMS parts).
const MaxMessageLength = 612

// Failure messages returned to callers in SendResult.Error.
const (
	ErrMsgInvalidPhone   = "Invalid phone number. Must start with %s"
	ErrMsgEmptyMessage   = "Message content is required"
	ErrMsgTooLong        = "Message too long. Maximum 612 characters (4 SMS)"
	ErrMsgUnauthorized   = "Invalid Termii API key"
	ErrMsgBadRequest     = "Invalid request parameters"
	ErrMsgTimeout        = "Request timeout. Please try again."
	ErrMsgNetwork        = "Network error. Please try again."
	ErrMsgUnexpectedResp = "Failed to send SMS"
)

// Config captures the Termii settings the client needs.
type Config struct {
	APIKey         string
	BaseURL        string
	SenderID       string
	RequiredPrefix string
	Timeout        time.Duration
	Client         *http.Client
	Logger         *slog.Logger
}

// Client sends SMS through Termii.
type Client struct {
	apiKey   string
	baseURL  string
	senderID string
	prefix   string
	client   *http.Client
	logger   *slog.Logger
}

// NewClient validates cfg and builds a Client. A missing API key is a
// configuration error.
func NewClient(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, apperrors.Configuration("TERMII_API_KEY", "termii api key is required")
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = "https://v3.api.termii.com"
	}
	if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, apperrors.Configuration("TERMII_BASE_URL", "termii base url must be absolute")
	}

	sender := strings.TrimSpace(cfg.SenderID)
	if sender == "" {
		sender = "BeeSeek"
	}
	if len(sender) > 11 {
		return nil, apperrors.Configuration("TERMII_SENDER_ID", "termii sender id must be at most 11 characters")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  base,
		senderID: sender,
		prefix:   fallbackString(strings.TrimSpace(cfg.RequiredPrefix), "+234"),
		client:   hc,
		logger:   logger.With("component", "termii"),
	}, nil
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	SMS     string `json:"sms"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	APIKey  string `json:"api_key"`
}

type sendResponse struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
	Balance   any    `json:"balance"`
}

// SendSMS implements core.SMSSender. Every failure is returned as data.
func (c *Client) SendSMS(ctx context.Context, to, message string) model.SendResult {
	if res, ok := c.validate(to, message); !ok {
		return res
	}

	body, err := json.Marshal(sendRequest{
		To:      to,
		From:    c.senderID,
		SMS:     message,
		Type:    "plain",
		Channel: "generic",
		APIKey:  c.apiKey,
	})
	if err != nil {
		return model.Failed(ErrMsgUnexpectedResp)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sms/send", bytes.NewReader(body))
	if err != nil {
		return model.Failed(ErrMsgNetwork)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "termii request failed", "to", to, "error", err)
		return model.Failed(transportFailure(err))
	}
	defer drain(resp)

	var parsed sendResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return model.Failed(ErrMsgUnauthorized)
	case resp.StatusCode == http.StatusBadRequest:
		return model.Failed(fallbackString(parsed.Message, ErrMsgBadRequest))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.logger.WarnContext(ctx, "termii returned error status", "to", to, "status", resp.StatusCode)
		return model.Failed(ErrMsgNetwork)
	case decodeErr != nil || parsed.MessageID == "":
		c.logger.WarnContext(ctx, "termii unexpected response", "to", to, "message", parsed.Message)
		return model.Failed(fallbackString(parsed.Message, ErrMsgUnexpectedResp))
	}

	c.logger.InfoContext(ctx, "sms sent", "to", to, "message_id", parsed.MessageID)
	return model.Delivered(parsed.MessageID)
}

func (c *Client) validate(to, message string) (model.SendResult, bool) {
	if to == "" || !strings.HasPrefix(to, c.prefix) {
		return model.Failed(fmt.Sprintf(ErrMsgInvalidPhone, c.prefix)), false
	}
	if strings.TrimSpace(message) == "" {
		return model.Failed(ErrMsgEmptyMessage), false
	}
	if MessageLength(message) > MaxMessageLength {
		return model.Failed(ErrMsgTooLong), false
	}
	return model.SendResult{}, true
}

// MessageLength counts message length the way the provider bills it.
func MessageLength(message string) int {
	return len(utf16.Encode([]rune(message)))
}

// Balance is the account balance reported by Termii.
type Balance struct {
	User     string  `json:"user"`
	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
}

// CheckBalance queries the account balance.
func (c *Client) CheckBalance(ctx context.Context) (*Balance, error) {
	q := url.Values{"api_key": []string{c.apiKey}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-balance?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create termii balance request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("termii balance request failed: %s: %w", transportFailure(err), err)
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errors.New(ErrMsgUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("termii balance %s", resp.Status)
	}

	var bal Balance
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&bal); err != nil {
		return nil, fmt.Errorf("decode termii balance: %w", err)
	}
	if bal.Currency == "" {
		bal.Currency = "NGN"
	}
	return &bal, nil
}

// Probe implements core.ProviderProber by checking the account balance.
func (c *Client) Probe(ctx context.Context) (string, error) {
	bal, err := c.CheckBalance(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Termii is ready (balance %.2f %s)", bal.Balance, bal.Currency), nil
}

func transportFailure(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrMsgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrMsgTimeout
	}
	return ErrMsgNetwork
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
