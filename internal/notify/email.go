package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP connection parameters for the email sender.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string // default recipient for loop event notifications
}

// EmailSender delivers notifications over SMTP. Besides serving as a
// Notifier channel for loop events, it is used directly by the on-demand
// orderbook email endpoint with a caller-supplied recipient.
type EmailSender struct {
	cfg    EmailConfig
	dialer *gomail.Dialer
}

// NewEmailSender creates an EmailSender for the given SMTP configuration.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	return &EmailSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendTo delivers a message to an explicit recipient. The body is attached
// both as plain text and wrapped in a <pre> block for HTML clients.
func (e *EmailSender) SendTo(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("email: no recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", e.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", fmt.Sprintf("<h1>%s</h1><pre>%s</pre>", subject, body))

	// gomail does not take a context; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: send to %s: %w", to, err)
	}
	return nil
}

// Send delivers a notification to the configured default recipient,
// implementing the Sender interface.
func (e *EmailSender) Send(ctx context.Context, title, message string) error {
	return e.SendTo(ctx, e.cfg.To, title, message)
}

// Name returns the sender identifier.
func (e *EmailSender) Name() string {
	return "email"
}

// Compile-time interface check.
var _ Sender = (*EmailSender)(nil)
