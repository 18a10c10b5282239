package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTP struct {
	addr string
	auth smtp.Auth
	from string
}

// New returns an SMTP mailer, or a logging no-op when host is empty.
// host must include the port, e.g. "smtp.example.org:587".
func New(host, username, password, from string, log *slog.Logger) (Mailer, error) {
	if host == "" {
		return Noop{log: log}, nil
	}
	h, _, err := net.SplitHostPort(host)
	if err != nil {
		return nil, fmt.Errorf("SMTP_HOST: %w", err)
	}
	if from == "" {
		from = username
	}
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, h)
	}
	return &SMTP{addr: host, auth: auth, from: from}, nil
}

func (m *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	em := email.NewEmail()
	em.From = m.from
	em.To = []string{msg.To}
	em.Subject = msg.Subject
	em.Text = []byte(msg.Text)
	if msg.HTML != "" {
		em.HTML = []byte(msg.HTML)
	}
	return em.Send(m.addr, m.auth)
}

// Noop drops mail when SMTP is not configured.
type Noop struct {
	log *slog.Logger
}

func (n Noop) Send(_ context.Context, msg Message) error {
	if n.log != nil {
		n.log.Debug("mail not sent, smtp disabled", "to", msg.To, "subject", msg.Subject)
	}
	return nil
}
