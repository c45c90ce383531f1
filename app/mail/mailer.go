package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"
)

const (
	dialTimeout = 30 * time.Second
	sendTimeout = 2 * time.Minute
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether enough is configured to attempt delivery.
func (c Config) Enabled() bool {
	return c.Host != "" && c.From != ""
}

type Message struct {
	Subject string
	To      []string
	Text    string
	HTML    string
}

// Subject is the digest email subject line for a date label.
func Subject(date string) string {
	return "Podcast Intelligence — " + date
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type DialFunc func(ctx context.Context, addr string) (net.Conn, error)

// Mailer delivers messages over implicit TLS (SMTPS).
type Mailer struct {
	cfg     Config
	dial    DialFunc
	now     func() time.Time
	timeout time.Duration
}

var _ Sender = (*Mailer)(nil)

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		cfg:     cfg,
		dial:    tlsDialer(cfg.Host),
		now:     time.Now,
		timeout: sendTimeout,
	}
}

func tlsDialer(host string) DialFunc {
	return func(ctx context.Context, addr string) (net.Conn, error) {
		d := &tls.Dialer{
			NetDialer: &net.Dialer{Timeout: dialTimeout},
			Config:    &tls.Config{ServerName: host, MinVersion: tls.VersionTLS12},
		}
		return d.DialContext(ctx, "tcp", addr)
	}
}

// Send delivers msg in one SMTP session. The whole session is bounded by the
// mailer timeout and by ctx: the connection carries the deadline and is
// closed as soon as ctx ends.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("failed to send mail: no recipients")
	}

	message, err := m.build(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions(ctx)...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}

	slog.Info("Mail sent", "recipients", len(msg.To), "subject", msg.Subject)
	return nil
}

func (m *Mailer) clientOptions(ctx context.Context) []gomail.Option {
	opts := []gomail.Option{
		gomail.WithSSL(),
		gomail.WithTimeout(m.timeout),
		gomail.WithDialContextFunc(m.boundedDial(ctx)),
	}
	if m.cfg.Port != 0 {
		opts = append(opts, gomail.WithPort(m.cfg.Port))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

// boundedDial ties the connection to the session context rather than the
// shorter-lived dial context go-mail passes in.
func (m *Mailer) boundedDial(session context.Context) gomail.DialContextFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := m.dial(ctx, addr)
		if err != nil {
			return nil, err
		}
		if deadline, ok := session.Deadline(); ok {
			if err := conn.SetDeadline(deadline); err != nil {
				conn.Close()
				return nil, fmt.Errorf("failed to set connection deadline: %w", err)
			}
		}
		context.AfterFunc(session, func() { conn.Close() })
		return conn, nil
	}
}

// build assembles a multipart/alternative message with the plain text part
// first.
func (m *Mailer) build(msg Message) (*gomail.Msg, error) {
	message := gomail.NewMsg()
	if err := message.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("failed to set sender: %w", err)
	}
	if err := message.To(msg.To...); err != nil {
		return nil, fmt.Errorf("failed to set recipients: %w", err)
	}
	message.Subject(msg.Subject)
	message.SetDateWithValue(m.now())
	message.SetMessageIDWithValue(uuid.NewString() + "@" + messageIDHost(m.cfg.From))
	message.SetBodyString(gomail.TypeTextPlain, msg.Text)
	message.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	return message, nil
}

func messageIDHost(from string) string {
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		return strings.Trim(from[at+1:], "> ")
	}
	return "localhost"
}
