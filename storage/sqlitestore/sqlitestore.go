// Package sqlitestore persists an address book snapshot in a SQLite database.
//
// SQLite access uses github.com/mattn/go-sqlite3 (CGO required).
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spachava753/assistant/addressbook"
	"github.com/spachava753/assistant/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS contacts (
	position INTEGER NOT NULL,
	name     TEXT PRIMARY KEY,
	birthday TEXT
);
CREATE TABLE IF NOT EXISTS phones (
	contact  TEXT NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	number   TEXT NOT NULL,
	PRIMARY KEY (contact, position)
);
`

// Store is a [storage.Store] backed by a SQLite database file.
type Store struct {
	db *sql.DB
}

var _ storage.Store = (*Store)(nil)

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlitestore: path is required")
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: opening sqlite database failed: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: connecting to sqlite database failed: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlitestore: applying schema failed: %w", err)
	}
	return &Store{db: db}, nil
}

// dsn builds a SQLite URI for path. The path is percent-escaped so that
// '?', '#' and '%' in a file name stay part of the name.
func dsn(path string) string {
	u := url.URL{
		Scheme:   "file",
		Opaque:   (&url.URL{Path: path}).EscapedPath(),
		RawQuery: "_busy_timeout=5000&_foreign_keys=on",
	}
	return u.String()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads every contact. An empty database yields an empty book.
func (s *Store) Load(ctx context.Context) (*addressbook.Book, error) {
	snap := storage.Snapshot{Version: storage.SnapshotVersion}

	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, fmt.Errorf("sqlitestore: reading version failed: %w", err)
	default:
		if _, err := fmt.Sscanf(version, "%d", &snap.Version); err != nil {
			return nil, fmt.Errorf("sqlitestore: bad version %q: %w", version, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, COALESCE(birthday, '') FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: sqlite query failed: %w", err)
	}
	index := map[string]int{}
	for rows.Next() {
		var c storage.Contact
		if err := rows.Scan(&c.Name, &c.Birthday); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlitestore: scanning sqlite row failed: %w", err)
		}
		index[c.Name] = len(snap.Contacts)
		snap.Contacts = append(snap.Contacts, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("sqlitestore: iterating sqlite rows failed: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT contact, number FROM phones ORDER BY contact, position`)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: sqlite query failed: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var contact, number string
		if err := rows.Scan(&contact, &number); err != nil {
			return nil, fmt.Errorf("sqlitestore: scanning sqlite row failed: %w", err)
		}
		i, ok := index[contact]
		if !ok {
			continue
		}
		snap.Contacts[i].Phones = append(snap.Contacts[i].Phones, number)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlitestore: iterating sqlite rows failed: %w", err)
	}

	book, err := snap.Book()
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: %w", err)
	}
	return book, nil
}

// Save replaces all stored contacts with book in one transaction.
func (s *Store) Save(ctx context.Context, book *addressbook.Book) error {
	snap := storage.NewSnapshot(book)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlitestore: starting transaction failed: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	for _, stmt := range []string{`DELETE FROM phones`, `DELETE FROM contacts`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlitestore: clearing contacts failed: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprint(snap.Version),
	); err != nil {
		return fmt.Errorf("sqlitestore: writing version failed: %w", err)
	}

	insertContact, err := tx.PrepareContext(ctx, `INSERT INTO contacts (position, name, birthday) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlitestore: preparing insert failed: %w", err)
	}
	defer insertContact.Close()
	insertPhone, err := tx.PrepareContext(ctx, `INSERT INTO phones (contact, position, number) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("sqlitestore: preparing insert failed: %w", err)
	}
	defer insertPhone.Close()

	for i, c := range snap.Contacts {
		var birthday any
		if c.Birthday != "" {
			birthday = c.Birthday
		}
		if _, err := insertContact.ExecContext(ctx, i, c.Name, birthday); err != nil {
			return fmt.Errorf("sqlitestore: inserting contact %q failed: %w", c.Name, err)
		}
		for j, number := range c.Phones {
			if _, err := insertPhone.ExecContext(ctx, c.Name, j, number); err != nil {
				return fmt.Errorf("sqlitestore: inserting phone for %q failed: %w", c.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlitestore: committing failed: %w", err)
	}
	return nil
}
