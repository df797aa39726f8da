package mail

import (
	"context"
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"h2brief/internal/config"
	"h2brief/internal/ports"
)

// Notifier delivers the rendered digest over SMTP.
type Notifier struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier wires SMTP settings.
func NewNotifier(cfg config.MailConfig) *Notifier {
	return &Notifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendDigest sends one HTML email to all configured recipients. The dial
// itself is synchronous; ctx is checked before starting since gomail does
// not take a context.
func (n *Notifier) SendDigest(ctx context.Context, subject, htmlBody string) error {
	if n.cfg.Host == "" || n.cfg.From == "" || len(n.cfg.To) == 0 {
		return fmt.Errorf("mail notifier misconfigured")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.From)
	msg.SetHeader("To", n.cfg.To...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := n.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send digest mail: %w", err)
	}

	return nil
}
