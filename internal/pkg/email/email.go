package email

import (
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Sender delivers a single HTML message
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// EmailService defines the interface for email operations
type EmailService interface {
	Sender
	SendVerificationEmail(toEmail, toName, token string) error
	SendPasswordResetEmail(toEmail, toName, token string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	Timeout   time.Duration
	BaseURL   string // Frontend base URL used in links
}

// EmailServiceImpl implements EmailService on top of gomail
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	dialer *gomail.Dialer
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	d.SSL = config.UseTLS
	d.TLSConfig = &tls.Config{ServerName: config.Host}
	return &EmailServiceImpl{
		config: config,
		logger: logger,
		dialer: d,
	}
}

// Configured reports whether SMTP credentials are present
func (s *EmailServiceImpl) Configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

// Send sends an HTML email. Without SMTP credentials the message is logged and dropped.
func (s *EmailServiceImpl) Send(to, subject, htmlBody string) error {
	if !s.Configured() {
		s.logger.Warn().
			Str("toEmail", to).
			Str("subject", subject).
			Msg("SMTP credentials not configured - email not sent")
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("toEmail", to).Msg("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	s.logger.Info().Str("toEmail", to).Str("subject", subject).Msg("Email sent")
	return nil
}

func (s *EmailServiceImpl) dialAndSend(m *gomail.Message) error {
	if s.config.Timeout <= 0 {
		return s.dialer.DialAndSend(m)
	}
	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()
	select {
	case err := <-done:
		return err
	case <-time.After(s.config.Timeout):
		return fmt.Errorf("smtp send timed out after %s", s.config.Timeout)
	}
}

// SendVerificationEmail sends an email with a verification link
func (s *EmailServiceImpl) SendVerificationEmail(toEmail, toName, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", s.config.BaseURL, token)
	if !s.Configured() {
		s.logger.Warn().Str("toEmail", toEmail).Str("verificationURL", link).
			Msg("SMTP credentials not configured - use the verification URL above for testing")
		return nil
	}
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Please click <a href="%s">here</a> to verify your email address.</p>`,
		html.EscapeString(toName), link)
	return s.Send(toEmail, "Verify your email address", body)
}

// SendPasswordResetEmail sends a password reset link
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.config.BaseURL, token)
	if !s.Configured() {
		s.logger.Warn().Str("toEmail", toEmail).Str("resetURL", link).
			Msg("SMTP credentials not configured - use the reset URL above for testing")
		return nil
	}
	body := fmt.Sprintf(`<p>Hello %s,</p><p>You requested a password reset. Click <a href="%s">here</a> to reset your password. This link expires in 1 hour.</p>`,
		html.EscapeString(toName), link)
	return s.Send(toEmail, "Password Reset Request", body)
}

// DeadlineReminderSubject is the subject line of deadline reminder emails
const DeadlineReminderSubject = "Scholarship Deadline Reminder"

// DeadlineReminderBody renders the HTML body of a deadline reminder.
func DeadlineReminderBody(firstName, scholarshipTitle string, deadline time.Time, daysLeft int) string {
	return fmt.Sprintf(`
		<h2>Deadline Reminder</h2>
		<p>Hello %s,</p>
		<p>This is a reminder that your saved scholarship <strong>"%s"</strong> has a deadline on <strong>%s</strong> (in %d days).</p>
		<p>Visit your dashboard to prepare your application.</p>
	`, html.EscapeString(firstName), html.EscapeString(scholarshipTitle), deadline.Format("Mon Jan 02 2006"), daysLeft)
}
