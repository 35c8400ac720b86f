package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/spf13/afero"

	"github.com/spachava753/assistant/addressbook"
	"github.com/spachava753/assistant/storage/filestore"
	"github.com/spachava753/assistant/storage/sqlitestore"
)

func fixNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ASSISTANT_LOG_FILE", os.DevNull)

	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func loadFile(t *testing.T, path string) *addressbook.Book {
	t.Helper()
	store, err := filestore.New(afero.NewOsFs(), path, "")
	be.Err(t, err, nil)
	book, err := store.Load(context.Background())
	be.Err(t, err, nil)
	return book
}

func TestSessionPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")

	out, err := run(t,
		"add Ann 1234567890\nadd-birthday Ann 12.06.1990\nexit\n",
		"--data-file", path,
	)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "Welcome to the assistant bot!"))
	be.True(t, strings.Contains(out, "Contact added."))
	be.True(t, strings.Contains(out, "Birthday added for Ann"))
	be.True(t, strings.Contains(out, "Good bye!"))

	book := loadFile(t, path)
	be.Equal(t, book.Len(), 1)
	ann, err := book.Find("Ann")
	be.Err(t, err, nil)
	be.Equal(t, ann.String(), "Contact name: Ann, phones: 1234567890, birthday: 12.06.1990")

	out, err = run(t, "show-birthday Ann\n", "--data-file", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "12.06.1990"))
}

func TestSessionSavesOnEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "book.cbor")

	_, err := run(t, "add Bob 0987654321", "--data-file", path)
	be.Err(t, err, nil)

	book := loadFile(t, path)
	be.Equal(t, book.Len(), 1)
}

func TestSessionBirthdays(t *testing.T) {
	fixNow(t, time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "book.json")

	out, err := run(t,
		"add-birthday Ann 12.06.1990\nadd Ann 1234567890\nadd-birthday Ann 12.06.1990\nbirthdays\nfly\n",
		"--data-file", path,
	)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "Contact not found."))
	be.True(t, strings.Contains(out, "Ann\n"))
	be.True(t, strings.Contains(out, "Error: Invalid command."))
}

func TestSessionSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.db")

	_, err := run(t, "add Ann 1234567890\nclose\n", "--backend", "sqlite", "--data-file", path)
	be.Err(t, err, nil)

	store, err := sqlitestore.Open(path)
	be.Err(t, err, nil)
	defer store.Close()
	book, err := store.Load(context.Background())
	be.Err(t, err, nil)
	be.Equal(t, book.Len(), 1)
}

func TestSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	be.Err(t, os.WriteFile(path, []byte("{not json"), 0o600), nil)

	_, err := run(t, "add Ann 1234567890\nexit\n", "--data-file", path)
	be.Err(t, err, "loading address book")

	data, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.Equal(t, string(data), "{not json")
}

func TestInvalidConfig(t *testing.T) {
	_, err := run(t, "", "--backend", "memory")
	be.Err(t, err, "invalid configuration")

	_, err = run(t, "", "unexpected")
	be.True(t, err != nil)
}

func seed(t *testing.T, path string) {
	t.Helper()
	_, err := run(t, "add Ann 1234567890\nadd-birthday Ann 12.06.1990\nexit\n", "--data-file", path)
	be.Err(t, err, nil)
}

func TestRemindNothing(t *testing.T) {
	fixNow(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "book.json")
	seed(t, path)

	out, err := run(t, "", "remind", "--data-file", path)
	be.Err(t, err, nil)
	be.Equal(t, out, "No upcoming birthdays.\n")
}

func TestRemindNoHost(t *testing.T) {
	fixNow(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "book.json")
	seed(t, path)
	t.Setenv("ASSISTANT_SMTP_HOST", "")

	_, err := run(t, "", "remind", "--data-file", path)
	be.Err(t, err, "smtp.host is not configured")
}

func TestRemindDryRun(t *testing.T) {
	fixNow(t, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))
	path := filepath.Join(t.TempDir(), "book.json")
	seed(t, path)
	t.Setenv("ASSISTANT_SMTP_HOST", "smtp.example.com")
	t.Setenv("ASSISTANT_SMTP_FROM", "bot@example.com")
	t.Setenv("ASSISTANT_SMTP_TO", "me@example.com")

	out, err := run(t, "", "remind", "--dry-run", "--data-file", path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "Subject: Upcoming birthdays (10.06.2024)\r\n"))
	be.True(t, strings.Contains(out, "To: me@example.com\r\n"))
	be.True(t, strings.Contains(out, "Ann: 12.06.2024"))
}

func TestSessionSaveFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.json")
	// The atomic write goes through path+".tmp"; a directory there makes the
	// save fail regardless of the user running the test.
	be.Err(t, os.Mkdir(path+".tmp", 0o700), nil)

	out, err := run(t, "add Ann 1234567890\nexit\n", "--data-file", path)
	be.Err(t, err, "saving address book")
	be.True(t, strings.Contains(out, "Contact added."))
	be.True(t, strings.Contains(out, "Good bye!"))

	_, statErr := os.Stat(path)
	be.True(t, os.IsNotExist(statErr))
}

func TestSessionSavesOnCancel(t *testing.T) {
	t.Setenv("ASSISTANT_LOG_FILE", os.DevNull)
	path := filepath.Join(t.TempDir(), "book.json")

	stdin, input := io.Pipe()
	defer input.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetArgs([]string{"--data-file", path})
	cmd.SetIn(stdin)
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	_, err := io.WriteString(input, "add Ann 1234567890\n")
	be.Err(t, err, nil)
	// The reader only takes the next line once the previous one has been
	// handed to the session, which handles it before checking ctx again.
	_, err = io.WriteString(input, "\n")
	be.Err(t, err, nil)
	cancel()

	select {
	case err := <-done:
		be.Err(t, err, nil)
	case <-time.After(5 * time.Second):
		t.Fatal("session did not stop after cancel")
	}

	book := loadFile(t, path)
	be.Equal(t, book.Len(), 1)
	_, err = book.Find("Ann")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out.String(), "Contact added."))
}
