package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"deluxetours/internal/shared/config"
)

// EmailSender delivers a notification as an email
type EmailSender interface {
	Send(ctx context.Context, notification *Notification) error
}

type smtpSender struct {
	config    config.EmailConfig
	templates map[NotificationType]*template.Template
}

// NewSMTPSender creates an SMTP-backed email sender with the built-in
// booking templates.
func NewSMTPSender(cfg config.EmailConfig) EmailSender {
	return &smtpSender{
		config:    cfg,
		templates: loadTemplates(),
	}
}

func (s *smtpSender) Send(ctx context.Context, notification *Notification) error {
	if s.config.SMTPHost == "" {
		return fmt.Errorf("smtp host not configured")
	}

	tmpl, ok := s.templates[notification.Type]
	if !ok {
		return fmt.Errorf("no template for notification type %q", notification.Type)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, notification); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := notification.Subject
	if subject == "" {
		subject = defaultSubject(notification.Type)
	}

	msg := fmt.Sprintf("From: Deluxe Tours <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.config.FromEmail, notification.RecipientEmail, subject, body.String())

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	notification.Status = StatusSent
	return nil
}

func defaultSubject(t NotificationType) string {
	switch t {
	case TypeBookingConfirmed:
		return "Your booking is confirmed"
	case TypePaymentReceived:
		return "Payment received"
	case TypeBookingCancelled:
		return "Your booking has been cancelled"
	}
	return "Deluxe Tours update"
}

func loadTemplates() map[NotificationType]*template.Template {
	return map[NotificationType]*template.Template{
		TypeBookingConfirmed: template.Must(template.New("booking_confirmed").Parse(`
<h2>Booking Confirmed</h2>
<p>Dear {{.RecipientName}},</p>
<p>Your booking <strong>{{.BookingReference}}</strong> for {{.BookingDate}} is confirmed.</p>
<p>Total paid: {{printf "%.2f" .TotalPrice}}</p>
<p>We look forward to hosting you.</p>`)),
		TypePaymentReceived: template.Must(template.New("payment_received").Parse(`
<h2>Payment Received</h2>
<p>Dear {{.RecipientName}},</p>
<p>We received your payment of {{printf "%.2f" .TotalPrice}} for booking <strong>{{.BookingReference}}</strong>.</p>
{{if .ReceiptNumber}}<p>Receipt number: {{.ReceiptNumber}}</p>{{end}}`)),
		TypeBookingCancelled: template.Must(template.New("booking_cancelled").Parse(`
<h2>Booking Cancelled</h2>
<p>Dear {{.RecipientName}},</p>
<p>Your booking <strong>{{.BookingReference}}</strong> has been cancelled.</p>`)),
	}
}
