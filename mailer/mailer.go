package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends plain reminder emails through an authenticated relay.
type SMTPMailer struct {
	smtpHost  string
	smtpPort  string
	username  string
	password  string
	fromEmail string
	send      sendFunc
}

func NewSMTPMailer(smtpHost, smtpPort, username, password, fromEmail string) *SMTPMailer {
	return &SMTPMailer{
		smtpHost:  smtpHost,
		smtpPort:  smtpPort,
		username:  username,
		password:  password,
		fromEmail: fromEmail,
		send:      smtp.SendMail,
	}
}

// SendDailyReminder nudges a tracked user who has not solved today's problem yet.
func (m *SMTPMailer) SendDailyReminder(ctx context.Context, to, title, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := "Don't Miss Out on Today's Challenge!"
	body := fmt.Sprintf(`Hey, Challenger!

Today's daily coding challenge is still waiting for you:

  %s
  %s

Every challenge you complete moves you up the leaderboard.

Leetcoders
`, title, link)
	return m.sendEmail(to, subject, body)
}

func (m *SMTPMailer) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", m.username, m.password, m.smtpHost)

	msg := fmt.Sprintf("From: Leetcoders <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.fromEmail, to, subject, body)

	if err := m.send(m.smtpHost+":"+m.smtpPort, auth, m.fromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// ValidateConfiguration reports what is missing before the mailer is wired in.
func (m *SMTPMailer) ValidateConfiguration() error {
	if m.smtpHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if m.smtpPort == "" {
		return fmt.Errorf("SMTP port is required")
	}
	if m.username == "" || m.password == "" {
		return fmt.Errorf("SMTP credentials are required")
	}
	if !strings.Contains(m.fromEmail, "@") {
		return fmt.Errorf("invalid from email format")
	}
	return nil
}

// LogMailer stands in when SMTP is not configured; it only records the attempt.
type LogMailer struct {
	Logf func(format string, args ...any)
}

func (l LogMailer) SendDailyReminder(_ context.Context, to, title, link string) error {
	if l.Logf != nil {
		l.Logf("smtp disabled, skipping reminder to %s for %q (%s)", to, title, link)
	}
	return nil
}
