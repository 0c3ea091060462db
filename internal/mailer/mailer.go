// Package mailer delivers outgoing email. The SMTP backend is used in
// production and the log backend prints messages for local development.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"yamdb/internal/config"
)

const (
	dialTimeout = 10 * time.Second
	// sendTimeout bounds a delivery whose context carries no deadline.
	sendTimeout = 30 * time.Second
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New picks the backend named by cfg.EmailBackend.
func New(cfg *config.Config, log *slog.Logger) Mailer {
	if cfg.EmailBackend == "smtp" {
		return &SMTPMailer{
			addr:     net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
			host:     cfg.SMTPHost,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
			from:     cfg.EmailFrom,
			dial:     (&net.Dialer{Timeout: dialTimeout}).DialContext,
			timeout:  sendTimeout,
		}
	}
	return &LogMailer{from: cfg.EmailFrom, log: log}
}

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// SMTPMailer delivers one message per connection. Every network step is
// bounded by the context passed to Send.
type SMTPMailer struct {
	addr     string
	host     string
	username string
	password string
	from     string
	dial     dialFunc
	timeout  time.Duration
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok && m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	msg := buildMessage(m.from, to, subject, body, time.Now())
	if err := m.deliver(ctx, to, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

func (m *SMTPMailer) deliver(ctx context.Context, to string, msg []byte) error {
	conn, err := m.dial(ctx, "tcp", m.addr)
	if err != nil {
		return err
	}
	// unblock pending reads and writes once ctx is done
	stop := context.AfterFunc(ctx, func() { _ = conn.SetDeadline(time.Now()) })
	defer stop()

	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			return err
		}
	}
	if m.username != "" {
		if err := c.Auth(smtp.PlainAuth("", m.username, m.password, m.host)); err != nil {
			return err
		}
	}
	if err := c.Mail(m.from); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// LogMailer writes messages to the logger instead of sending them.
type LogMailer struct {
	from string
	log  *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.log.InfoContext(ctx, "email", "from", m.from, "to", to, "subject", subject, "body", body)
	return nil
}

func buildMessage(from, to, subject, body string, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
