// Package mailer sends html mails over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/sparkloop/backend/config"
)

var ErrNotConfigured = errors.New("mailer is not configured")

type Sender interface {
	IsConfigured() bool
	SendHTML(ctx context.Context, to []string, subject, htmlBody string) error
}

type smtpSender struct {
	cfg config.MailConfigs
}

func NewSMTPSender(cfg config.MailConfigs) *smtpSender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Port != "" && s.cfg.From != ""
}

func (s *smtpSender) SendHTML(ctx context.Context, to []string, subject, htmlBody string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(s.cfg.Host, s.cfg.Port))
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(tlsConfig(s.cfg.Host)); err != nil {
			return err
		}
	}

	if s.cfg.Username != "" {
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}

	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}

	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}

	if _, err := w.Write(BuildMessage(s.from(), to, subject, htmlBody, time.Now())); err != nil {
		return err
	}

	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

func (s *smtpSender) from() string {
	if s.cfg.FromName == "" {
		return s.cfg.From
	}

	return fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
}

// BuildMessage renders a multipart/alternative message with a plain text
// fallback and the html body.
func BuildMessage(from string, to []string, subject, htmlBody string, date time.Time) []byte {
	boundary := "boundary-sparkloop"

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", headerValue(strings.Join(to, ", ")))
	fmt.Fprintf(&msg, "From: %s\r\n", headerValue(from))
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerValue(subject)))
	fmt.Fprintf(&msg, "Date: %s\r\n", date.Format(time.RFC1123Z))
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "Please view this email in an HTML-capable email client.\r\n")
	fmt.Fprintf(&msg, "\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n")
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "%s\r\n", htmlBody)
	fmt.Fprintf(&msg, "\r\n")
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.Bytes()
}

// headerValue keeps a header on its own line.
func headerValue(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}
