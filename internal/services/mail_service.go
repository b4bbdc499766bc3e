package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// MailService sends transactional email over SMTP.
type MailService struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailService creates a MailService for the given SMTP settings.
func NewMailService(host string, port int, username, password, from string) *MailService {
	return &MailService{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send delivers a single HTML email.
func (s *MailService) Send(to, subject, htmlBody string) error {
	if s.from == "" {
		return fmt.Errorf("smtp sender not configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}

// ResetEmailBody renders the password-reset email for the given link.
func ResetEmailBody(resetURL string) string {
	return fmt.Sprintf(`
		<h1>Password Reset Request</h1>
		<p>You have requested a password reset. Please click on the link below to reset your password:</p>
		<a href="%s">%s</a>
		<p>If you did not make this request, please ignore it.</p>
	`, resetURL, resetURL)
}
