package contact

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPConfig configures direct delivery through a mail server.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	To   string
}

// SMTP delivers messages with PLAIN auth over a submission port.
type SMTP struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP builds an SMTP sender. Host and port default to Gmail submission.
func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &SMTP{cfg: cfg, send: smtp.SendMail}
}

// Check requires credentials and a recipient.
func (s *SMTP) Check() error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return fmt.Errorf("%w: SMTP credentials not configured", ErrConfiguration)
	}
	if s.cfg.To == "" {
		return fmt.Errorf("%w: no recipient address", ErrConfiguration)
	}
	return nil
}

// Send composes a plain-text notification and hands it to the server.
func (s *SMTP) Send(ctx context.Context, m Message) error {
	if err := s.Check(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	if err := s.send(s.cfg.Host+":"+s.cfg.Port, auth, s.cfg.User, []string{s.cfg.To}, s.compose(m)); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

func (s *SMTP) compose(m Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", headerSafe(m.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form (%s)
`, m.Name, m.Email, m.Body, m.ID)

	return []byte("To: " + s.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + s.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(m.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")
}

// headerSafe strips line breaks so form input cannot inject headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
