// Package storage defines how an address book is persisted between sessions
// and the versioned snapshot format every backend reads and writes.
//
// Backends:
//   - github.com/spachava753/assistant/storage/filestore: one JSON or CBOR file.
//   - github.com/spachava753/assistant/storage/sqlitestore: a SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spachava753/assistant/addressbook"
)

// Store loads and saves a whole address book.
type Store interface {
	// Load returns the persisted book, or an empty book when nothing has been
	// saved yet.
	Load(ctx context.Context) (*addressbook.Book, error)
	// Save replaces the persisted state with book.
	Save(ctx context.Context, book *addressbook.Book) error
}

// SnapshotVersion is the snapshot format version written by this package.
const SnapshotVersion = 1

// BirthdayLayout is the on-disk birthday format, ISO 8601 date.
const BirthdayLayout = time.DateOnly

// ErrUnsupportedVersion is returned for snapshots written by a newer format.
var ErrUnsupportedVersion = errors.New("storage: unsupported snapshot version")

// Snapshot is the serialized form of a book.
type Snapshot struct {
	Version  int       `json:"version"  cbor:"version"`
	Contacts []Contact `json:"contacts" cbor:"contacts"`
}

// Contact is one serialized record.
type Contact struct {
	Name     string   `json:"name"               cbor:"name"`
	Phones   []string `json:"phones,omitempty"   cbor:"phones,omitempty"`
	Birthday string   `json:"birthday,omitempty" cbor:"birthday,omitempty"`
}

// NewSnapshot captures book in insertion order.
func NewSnapshot(book *addressbook.Book) Snapshot {
	records := book.Records()
	snap := Snapshot{
		Version:  SnapshotVersion,
		Contacts: make([]Contact, 0, len(records)),
	}
	for _, r := range records {
		c := Contact{Name: r.Name()}
		for _, p := range r.Phones() {
			c.Phones = append(c.Phones, p.String())
		}
		if b, ok := r.Birthday(); ok {
			c.Birthday = b.Date().Format(BirthdayLayout)
		}
		snap.Contacts = append(snap.Contacts, c)
	}
	return snap
}

// Book rebuilds the address book. Stored phones and birthdays are trusted and
// not re-validated; an empty name or an unparseable birthday marks the
// snapshot as corrupt. A missing version is read as version 1.
func (s Snapshot) Book() (*addressbook.Book, error) {
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, s.Version)
	}

	book := addressbook.New()
	for i, c := range s.Contacts {
		var birthday *time.Time
		if c.Birthday != "" {
			date, err := time.Parse(BirthdayLayout, c.Birthday)
			if err != nil {
				return nil, fmt.Errorf("storage: contact %d (%q): bad birthday: %w", i, c.Name, err)
			}
			birthday = &date
		}
		record, err := addressbook.RestoreRecord(c.Name, c.Phones, birthday)
		if err != nil {
			return nil, fmt.Errorf("storage: contact %d: %w", i, err)
		}
		book.AddRecord(record)
	}
	return book, nil
}
