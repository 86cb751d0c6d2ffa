// Package smtpmail implements the email channel over SMTP using go-mail.
package smtpmail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
	"golang.org/x/net/publicsuffix"

	"github.com/beeseek/notify-api/internal/domain/model"
	apperrors "github.com/beeseek/notify-api/internal/errors"
)

// Failure messages returned in SendResult.Error.
const (
	ErrMsgInvalidRecipient = "Invalid recipient email address"
	ErrMsgBuildMessage     = "Failed to build email"
	ErrMsgSendFailed       = "Failed to send email"
)

// Config captures the SMTP settings.
type Config struct {
	Host               string
	Port               int
	Username           string
	Password           string
	FromName           string
	FromAddress        string
	InsecureSkipVerify bool
	Timeout            time.Duration
	Logger             *slog.Logger
}

// Client sends email through an SMTP relay. A fresh SMTP session is opened per
// send so concurrent sends do not serialize on one connection.
type Client struct {
	cfg    Config
	logger *slog.Logger
	// deliver is swapped in tests.
	deliver func(ctx context.Context, msg *gomail.Msg) error
	dial    func(ctx context.Context) error
}

// NewClient validates cfg and builds a Client.
func NewClient(cfg Config) (*Client, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	if cfg.Host == "" {
		return nil, apperrors.Configuration("SMTP_HOST", "smtp host is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = 587
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.FromName == "" {
		cfg.FromName = "BeeSeek"
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = cfg.Username
	}
	if cfg.FromAddress == "" {
		cfg.FromAddress = "no-reply@beeseek.site"
	}
	if _, err := mail.ParseAddress(cfg.FromAddress); err != nil {
		return nil, apperrors.Configuration("EMAIL_FROM", "sender address is not a valid email address")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{cfg: cfg, logger: logger.With("component", "smtpmail")}
	c.deliver = c.dialAndSend
	c.dial = c.dialOnly
	return c, nil
}

func (c *Client) newSMTPClient() (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithPort(c.cfg.Port),
		gomail.WithTimeout(c.cfg.Timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithTLSConfig(&tls.Config{
			ServerName: c.cfg.Host,
			//nolint:gosec // the relay presents a self-signed certificate; configurable via SMTP_INSECURE_SKIP_VERIFY
			InsecureSkipVerify: c.cfg.InsecureSkipVerify,
			MinVersion:         tls.VersionTLS12,
		}),
	}
	if c.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(c.cfg.Username),
			gomail.WithPassword(c.cfg.Password),
		)
	}
	return gomail.NewClient(c.cfg.Host, opts...)
}

func (c *Client) dialAndSend(ctx context.Context, msg *gomail.Msg) error {
	client, err := c.newSMTPClient()
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}

func (c *Client) dialOnly(ctx context.Context) error {
	client, err := c.newSMTPClient()
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	return client.Close()
}

// SendEmail implements core.EmailSender. Every failure is returned as data.
func (c *Client) SendEmail(ctx context.Context, in model.EmailMessage) model.SendResult {
	if err := ValidateRecipient(in.To); err != nil {
		return model.Failed(ErrMsgInvalidRecipient)
	}

	msg, err := c.buildMessage(in)
	if err != nil {
		c.logger.WarnContext(ctx, "build email failed", "to", in.To, "error", err)
		return model.Failed(ErrMsgBuildMessage)
	}

	if err := c.deliver(ctx, msg); err != nil {
		c.logger.WarnContext(ctx, "email send failed", "to", in.To, "error", err)
		return model.Failed(ErrMsgSendFailed + ": " + err.Error())
	}

	id := msg.GetMessageID()
	c.logger.InfoContext(ctx, "email sent", "to", in.To, "message_id", id)
	return model.Delivered(id)
}

func (c *Client) buildMessage(in model.EmailMessage) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(c.cfg.FromName, c.cfg.FromAddress); err != nil {
		return nil, fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(in.To); err != nil {
		return nil, fmt.Errorf("set to: %w", err)
	}
	msg.Subject(in.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextHTML, in.HTMLBody)
	if in.TextBody != "" {
		msg.AddAlternativeString(gomail.TypeTextPlain, in.TextBody)
	}
	return msg, nil
}

// Probe implements core.ProviderProber by opening and closing an SMTP session.
func (c *Client) Probe(ctx context.Context) (string, error) {
	if err := c.dial(ctx); err != nil {
		return "", err
	}
	return fmt.Sprintf("SMTP server %s:%d is ready", c.cfg.Host, c.cfg.Port), nil
}

// ValidateRecipient checks that addr parses as a bare address whose domain
// sits under a public suffix.
func ValidateRecipient(addr string) error {
	parsed, err := mail.ParseAddress(strings.TrimSpace(addr))
	if err != nil {
		return apperrors.ValidationField("email", "invalid email address")
	}
	if parsed.Name != "" || parsed.Address != strings.TrimSpace(addr) {
		return apperrors.ValidationField("email", "email must be a bare address")
	}
	at := strings.LastIndexByte(parsed.Address, '@')
	domain := strings.ToLower(parsed.Address[at+1:])
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return apperrors.ValidationField("email", "email domain is not routable")
	}
	return nil
}
