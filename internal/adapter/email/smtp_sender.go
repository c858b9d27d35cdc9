package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"strings"

	"github.com/commercialspace/backend/internal/app/config"
	"github.com/commercialspace/backend/internal/platform/logger"
	"gopkg.in/gomail.v2"
)

// Attachment is an in-memory file attached to an outgoing message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Sender delivers a single HTML message, optionally with an attachment.
// Delivery failures are returned to the caller, which decides whether they
// matter; the booking workflow treats them as advisory.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string, attachment *Attachment) error
}

type smtpSender struct {
	cfg    config.SMTPConfig
	log    logger.Logger
	dialer *gomail.Dialer
}

func NewSMTPSender(cfg config.SMTPConfig, log logger.Logger) (Sender, error) {
	if cfg.Host == "" || cfg.Port == 0 || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SMTP host, port, and sender email must be configured")
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)

	serverName := cfg.ServerName
	if serverName == "" {
		serverName = cfg.Host
	}
	switch strings.ToLower(cfg.Encryption) {
	case "ssl":
		dialer.SSL = true
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	case "tls", "starttls":
		dialer.TLSConfig = &tls.Config{ServerName: serverName, MinVersion: tls.VersionTLS12}
	}

	return &smtpSender{cfg: cfg, log: log, dialer: dialer}, nil
}

func (s *smtpSender) Send(ctx context.Context, to, subject, htmlBody string, attachment *Attachment) error {
	if to == "" {
		return fmt.Errorf("no recipient provided for email")
	}
	if htmlBody == "" {
		return fmt.Errorf("email body must be provided")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.SenderEmail)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if attachment != nil {
		content := attachment.Content
		m.Attach(attachment.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		s.log.Warnf("Email to %s (subject: %s) cancelled by context: %v", to, subject, ctx.Err())
		return fmt.Errorf("email sending cancelled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			s.log.Errorf("Failed to send email to %s, subject '%s': %v", to, subject, err)
			return fmt.Errorf("failed to send email: %w", err)
		}
	}

	s.log.Infof("Email sent to %s, subject: %s", to, subject)
	return nil
}
