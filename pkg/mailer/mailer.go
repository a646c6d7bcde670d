package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/kalaasetu/kalaasetu-backend/pkg/config"
)

// Mailer sends plain-text notification mail over SMTP.
type Mailer struct {
	cfg config.SMTPConfig
}

// New returns a mailer bound to the provided SMTP configuration. A nil mailer
// is returned when SMTP is unconfigured so callers can treat mail as disabled.
func New(cfg config.SMTPConfig) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	return &Mailer{cfg: cfg}
}

// SendDecision notifies an applicant about a moderation outcome.
func (m *Mailer) SendDecision(to, name string, approved bool, reason string) error {
	if m == nil {
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient address is required")
	}

	subject := "Your KalaaSetu artist application has been approved"
	body := fmt.Sprintf("Hi %s,\n\nCongratulations! Your artist application has been approved. You can now receive hire requests on KalaaSetu.\n\nThe KalaaSetu Team", name)
	if !approved {
		subject = "Update on your KalaaSetu artist application"
		body = fmt.Sprintf("Hi %s,\n\nYour artist application was not approved this time.\n\nReason: %s\n\nYou can update your application and resubmit it at any time.\n\nThe KalaaSetu Team", name, reason)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
