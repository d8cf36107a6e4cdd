package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/contractor-site-backend/config"
	"github.com/rpupo63/contractor-site-backend/models"
)

type emailer interface {
	SendEmail(ctx context.Context, subject, body string, recipients []string) (string, error)
}

type texter interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
}

// Notifier tells the office about new leads. Either channel may be absent.
type Notifier struct {
	email           emailer
	sms             texter
	emailRecipients []string
	smsRecipients   []string
}

// NewNotifier wires whichever channels cfg has credentials and recipients for.
func NewNotifier(cfg config.Notify) *Notifier {
	n := &Notifier{
		emailRecipients: cfg.EmailRecipients,
		smsRecipients:   cfg.SMSRecipients,
	}
	if len(cfg.EmailRecipients) > 0 {
		if sender, err := NewEmailSender(cfg); err != nil {
			log.Warn().Err(err).Msg("Lead email notifications disabled")
		} else {
			n.email = sender
		}
	}
	if len(cfg.SMSRecipients) > 0 {
		if sender, err := NewSMSSender(cfg); err != nil {
			log.Warn().Err(err).Msg("Lead SMS notifications disabled")
		} else {
			n.sms = sender
		}
	}
	return n
}

// Enabled reports whether at least one channel is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && (n.email != nil || n.sms != nil)
}

// NotifyNewLead sends the lead summary on every configured channel. Failures
// are logged and do not stop the other channel; the first error is returned.
func (n *Notifier) NotifyNewLead(ctx context.Context, lead *models.Lead) error {
	if !n.Enabled() || lead == nil {
		return nil
	}

	var firstErr error
	if n.email != nil {
		subject := fmt.Sprintf("New estimate request from %s %s", lead.FirstName, lead.LastName)
		if _, err := n.email.SendEmail(ctx, subject, leadEmailBody(lead), n.emailRecipients); err != nil {
			log.Error().Err(err).Str("leadId", lead.ID.String()).Msg("Failed to email lead notification")
			firstErr = err
		}
	}
	if n.sms != nil {
		body := leadSMSBody(lead)
		for _, to := range n.smsRecipients {
			if _, err := n.sms.SendSMS(ctx, to, body); err != nil {
				log.Error().Err(err).Str("leadId", lead.ID.String()).Str("to", to).Msg("Failed to text lead notification")
				if firstErr == nil {
					firstErr = err
				}
			}
		}
	}
	return firstErr
}

func leadEmailBody(lead *models.Lead) string {
	var b strings.Builder
	b.WriteString("<h2>New estimate request</h2><ul>")
	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "<li><strong>%s:</strong> %s</li>", label, html.EscapeString(value))
	}
	row("Name", strings.TrimSpace(lead.FirstName+" "+lead.LastName))
	row("Email", lead.Email)
	row("Phone", deref(lead.Phone))
	row("Address", joinNonEmpty(", ", deref(lead.Address), deref(lead.City), deref(lead.State), deref(lead.Zip)))
	row("Services", strings.Join(lead.Services, ", "))
	row("Source", deref(lead.Source))
	b.WriteString("</ul>")
	if msg := deref(lead.Message); msg != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(msg))
	}
	return b.String()
}

func leadSMSBody(lead *models.Lead) string {
	parts := []string{fmt.Sprintf("New lead: %s %s", lead.FirstName, lead.LastName)}
	if phone := deref(lead.Phone); phone != "" {
		parts = append(parts, phone)
	}
	parts = append(parts, lead.Email)
	if len(lead.Services) > 0 {
		parts = append(parts, strings.Join(lead.Services, ", "))
	}
	return strings.Join(parts, " | ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func joinNonEmpty(sep string, values ...string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
