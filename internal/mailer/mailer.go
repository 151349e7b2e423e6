// Package mailer sends transactional email (password-reset links and
// contact-form relay) over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"
)

// Mailer sends a single HTML message.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer is a Mailer over a plain-auth SMTP relay.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	logger   zerolog.Logger

	// send is swappable in tests; defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer builds an SMTPMailer for the given relay.
func NewSMTPMailer(host, port, username, password, from string, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		logger:   logger.With().Str("service", "SMTPMailer").Logger(),
		send:     smtp.SendMail,
	}
}

// Send delivers one message. Errors are returned to the caller; there is no
// retry here.
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := m.host + ":" + m.port
	if err := m.send(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		m.logger.Error().Err(err).Str("to", to).Msg("Failed to send email")
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.logger.Debug().Str("to", to).Str("subject", subject).Msg("Email sent")
	return nil
}
