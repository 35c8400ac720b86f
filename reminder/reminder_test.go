package reminder

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/nalgeon/be"
	"github.com/spachava753/assistant/addressbook"
)

func testBook(t *testing.T) *addressbook.Book {
	t.Helper()
	book := addressbook.New()
	for _, c := range []struct{ name, birthday string }{
		{"Ann", "12.06.1990"},
		{"Bob", "20.06.1985"},
		{"Dee", "10.06.2001"},
	} {
		r, err := addressbook.NewRecord(c.name)
		be.Err(t, err, nil)
		be.Err(t, r.AddBirthday(c.birthday), nil)
		book.AddRecord(r)
	}
	return book
}

var june10 = time.Date(2024, time.June, 10, 9, 30, 0, 0, time.UTC)

func TestDigest(t *testing.T) {
	d := NewDigest(testBook(t), june10)
	be.Equal(t, d.Empty(), false)
	be.Equal(t, d.Subject(), "Upcoming birthdays (10.06.2024)")
	be.Equal(t, d.Body(), "Ann: 12.06.2024\nDee: 10.06.2024")
}

func TestDigestEmpty(t *testing.T) {
	d := NewDigest(addressbook.New(), june10)
	be.True(t, d.Empty())
	be.Equal(t, d.Body(), "No upcoming birthdays.")
}

func TestNewMailer(t *testing.T) {
	valid := Config{Host: "smtp.example.com", Port: 465, From: "bot@example.com", To: []string{"me@example.com"}}

	m, err := NewMailer(valid)
	be.Err(t, err, nil)
	be.Equal(t, m.cfg.TLS, TLSImplicit)
	be.Equal(t, m.cfg.Timeout, 30*time.Second)

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no host", func(c *Config) { c.Host = "  " }, "smtp host is required"},
		{"bad port", func(c *Config) { c.Port = 0 }, "invalid smtp port 0"},
		{"no sender", func(c *Config) { c.From = "" }, "sender address is required"},
		{"no recipients", func(c *Config) { c.To = []string{" ", ""} }, "at least one recipient"},
		{"bad tls", func(c *Config) { c.TLS = "ssl" }, `unknown tls mode "ssl"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			cfg.To = append([]string(nil), valid.To...)
			tt.mutate(&cfg)
			_, err := NewMailer(cfg)
			be.Err(t, err, tt.want)
		})
	}
}

func TestMessage(t *testing.T) {
	m, err := NewMailer(Config{
		Host: "smtp.example.com",
		Port: 465,
		From: "bot@example.com",
		To:   []string{"me@example.com", " me@example.com", "you@example.com"},
	})
	be.Err(t, err, nil)
	m.now = func() time.Time { return june10 }

	raw := string(m.Message(NewDigest(testBook(t), june10)))
	be.True(t, strings.Contains(raw, "From: bot@example.com\r\n"))
	be.True(t, strings.Contains(raw, "To: me@example.com, you@example.com\r\n"))
	be.True(t, strings.Contains(raw, "Subject: Upcoming birthdays (10.06.2024)\r\n"))
	be.True(t, strings.Contains(raw, "Content-Type: text/plain; charset=UTF-8\r\n"))
	be.True(t, strings.Contains(raw, "@example.com>\r\n"))
	be.True(t, strings.HasSuffix(raw, "\r\n\r\nAnn: 12.06.2024\r\nDee: 10.06.2024\r\n"))
}

func TestHelpers(t *testing.T) {
	be.Equal(t, sanitizeHeader(" a\r\nb "), "a  b")
	be.Equal(t, normalizeBody("a\nb\r\nc\r"), "a\r\nb\r\nc")
	be.Equal(t, uniqueRecipients([]string{"a", " a ", "", "b"}), []string{"a", "b"})
	be.Equal(t, generateMessageID("nobody", time.Unix(0, 42)), "<42.localhost>")
}

type received struct {
	from string
	to   []string
	data string
}

type testBackend struct {
	mu   sync.Mutex
	msgs []received
}

func (b *testBackend) NewSession(*smtp.Conn) (smtp.Session, error) {
	return &testSession{backend: b}, nil
}

func (b *testBackend) messages() []received {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]received(nil), b.msgs...)
}

type testSession struct {
	backend *testBackend
	cur     received
}

func (s *testSession) Reset()        { s.cur = received{} }
func (s *testSession) Logout() error { return nil }

func (s *testSession) AuthPlain(username, password string) error {
	return smtp.ErrAuthUnsupported
}

func (s *testSession) Mail(from string, _ *smtp.MailOptions) error {
	s.cur.from = from
	return nil
}

func (s *testSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.cur.to = append(s.cur.to, to)
	return nil
}

func (s *testSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.cur.data = string(data)
	s.backend.mu.Lock()
	s.backend.msgs = append(s.backend.msgs, s.cur)
	s.backend.mu.Unlock()
	return nil
}

func startServer(t *testing.T) (*testBackend, string, int) {
	t.Helper()
	backend := &testBackend{}
	srv := smtp.NewServer(backend)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	be.Err(t, err, nil)
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = srv.Close() })

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	be.Err(t, err, nil)
	port, err := strconv.Atoi(portStr)
	be.Err(t, err, nil)
	return backend, host, port
}

func TestSend(t *testing.T) {
	backend, host, port := startServer(t)
	m, err := NewMailer(Config{
		Host:    host,
		Port:    port,
		From:    "bot@example.com",
		To:      []string{"me@example.com", "you@example.com", "me@example.com"},
		TLS:     TLSNone,
		Timeout: 5 * time.Second,
	})
	be.Err(t, err, nil)

	err = m.Send(context.Background(), NewDigest(testBook(t), june10))
	be.Err(t, err, nil)

	msgs := backend.messages()
	be.Equal(t, len(msgs), 1)
	be.Equal(t, msgs[0].from, "bot@example.com")
	be.Equal(t, msgs[0].to, []string{"me@example.com", "you@example.com"})
	be.True(t, strings.Contains(msgs[0].data, "Subject: Upcoming birthdays (10.06.2024)"))
	be.True(t, strings.Contains(msgs[0].data, "Ann: 12.06.2024\r\nDee: 10.06.2024"))
}

func TestSendNothing(t *testing.T) {
	m, err := NewMailer(Config{Host: "127.0.0.1", Port: 1, From: "a@b.c", To: []string{"d@e.f"}, TLS: TLSNone})
	be.Err(t, err, nil)
	err = m.Send(context.Background(), NewDigest(addressbook.New(), june10))
	be.Err(t, err, ErrNothingToSend)
}

func TestSendDialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	be.Err(t, err, nil)
	addr := ln.Addr().(*net.TCPAddr)
	be.Err(t, ln.Close(), nil)

	m, err := NewMailer(Config{
		Host: "127.0.0.1", Port: addr.Port, From: "a@b.c", To: []string{"d@e.f"},
		TLS: TLSNone, Timeout: time.Second,
	})
	be.Err(t, err, nil)
	err = m.Send(context.Background(), NewDigest(testBook(t), june10))
	be.True(t, err != nil)
	be.True(t, !errors.Is(err, ErrNothingToSend))
	be.True(t, strings.Contains(err.Error(), "SMTP dial"))
}
