package reminder

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// TLSMode selects how the SMTP connection is secured.
type TLSMode string

const (
	// TLSImplicit dials straight into TLS (port 465).
	TLSImplicit TLSMode = "tls"
	// TLSStartTLS upgrades a plain connection with STARTTLS (port 587).
	TLSStartTLS TLSMode = "starttls"
	// TLSNone sends in the clear. Only for local relays and tests.
	TLSNone TLSMode = "none"
)

const defaultTimeout = 30 * time.Second

// ErrNothingToSend is returned by [Mailer.Send] for an empty digest.
var ErrNothingToSend = errors.New("reminder: no upcoming birthdays to send")

// Config describes the SMTP relay and the envelope.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	TLS      TLSMode
	Timeout  time.Duration
}

// Mailer delivers digests over SMTP.
type Mailer struct {
	cfg Config
	now func() time.Time
}

// NewMailer validates cfg. An empty TLS mode means [TLSImplicit] and a zero
// timeout means 30s.
func NewMailer(cfg Config) (*Mailer, error) {
	cfg.Host = strings.TrimSpace(cfg.Host)
	cfg.From = strings.TrimSpace(cfg.From)
	cfg.To = uniqueRecipients(cfg.To)
	if cfg.TLS == "" {
		cfg.TLS = TLSImplicit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch {
	case cfg.Host == "":
		return nil, errors.New("reminder: smtp host is required")
	case cfg.Port <= 0 || cfg.Port > 65535:
		return nil, fmt.Errorf("reminder: invalid smtp port %d", cfg.Port)
	case cfg.From == "":
		return nil, errors.New("reminder: sender address is required")
	case len(cfg.To) == 0:
		return nil, errors.New("reminder: at least one recipient is required")
	}
	switch cfg.TLS {
	case TLSImplicit, TLSStartTLS, TLSNone:
	default:
		return nil, fmt.Errorf("reminder: unknown tls mode %q", cfg.TLS)
	}

	return &Mailer{cfg: cfg, now: time.Now}, nil
}

// Message renders the raw RFC 5322 message for d.
func (m *Mailer) Message(d Digest) []byte {
	return buildMessage(m.cfg.From, m.cfg.To, d.Subject(), d.Body(), m.now())
}

// Send mails d to the configured recipients.
func (m *Mailer) Send(ctx context.Context, d Digest) error {
	if d.Empty() {
		return ErrNothingToSend
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.cfg.From, nil); err != nil {
		return fmt.Errorf("reminder: MAIL FROM failed: %w", err)
	}
	for _, rcpt := range m.cfg.To {
		if err := client.Rcpt(rcpt, nil); err != nil {
			return fmt.Errorf("reminder: RCPT TO %q failed: %w", rcpt, err)
		}
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("reminder: DATA failed: %w", err)
	}
	if _, err := writer.Write(m.Message(d)); err != nil {
		return fmt.Errorf("reminder: writing message failed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("reminder: finalizing message failed: %w", err)
	}
	if err := client.Quit(); err != nil {
		return fmt.Errorf("reminder: QUIT failed: %w", err)
	}
	return nil
}

func (m *Mailer) connect(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	tlsConfig := &tls.Config{ServerName: m.cfg.Host}
	dialer := &net.Dialer{Timeout: m.cfg.Timeout}

	var conn net.Conn
	var err error
	if m.cfg.TLS == TLSImplicit {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("reminder: SMTP dial %s failed: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(m.cfg.Timeout))
	}

	client := smtp.NewClient(conn)
	if m.cfg.TLS == TLSStartTLS {
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, fmt.Errorf("reminder: STARTTLS failed: %w", err)
		}
	}
	if m.cfg.Username != "" {
		auth := sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
		if err := client.Auth(auth); err != nil {
			client.Close()
			return nil, fmt.Errorf("reminder: SMTP auth failed: %w", err)
		}
	}
	return client, nil
}

func buildMessage(from string, to []string, subject, body string, now time.Time) []byte {
	subject = sanitizeHeader(subject)
	if subject == "" {
		subject = "(no subject)"
	}
	headers := []string{
		fmt.Sprintf("From: %s", sanitizeHeader(from)),
		fmt.Sprintf("To: %s", strings.Join(to, ", ")),
		fmt.Sprintf("Subject: %s", subject),
		fmt.Sprintf("Date: %s", now.Format(time.RFC1123Z)),
		fmt.Sprintf("Message-ID: %s", generateMessageID(from, now)),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + normalizeBody(body) + "\r\n")
}

func uniqueRecipients(recipients []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(recipients))
	for _, recipient := range recipients {
		recipient = strings.TrimSpace(recipient)
		if recipient == "" {
			continue
		}
		if _, ok := seen[recipient]; ok {
			continue
		}
		seen[recipient] = struct{}{}
		out = append(out, recipient)
	}
	return out
}

func sanitizeHeader(value string) string {
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(value)
}

func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	body = strings.ReplaceAll(body, "\n", "\r\n")
	return strings.TrimSpace(body)
}

func generateMessageID(address string, now time.Time) string {
	domain := "localhost"
	if at := strings.LastIndex(address, "@"); at >= 0 && at < len(address)-1 {
		domain = address[at+1:]
	}
	return fmt.Sprintf("<%d.%s>", now.UnixNano(), domain)
}
