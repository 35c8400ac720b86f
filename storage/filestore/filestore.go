// Package filestore persists an address book snapshot as a single file on an
// afero filesystem, encoded as JSON or CBOR.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/afero"

	"github.com/spachava753/assistant/addressbook"
	"github.com/spachava753/assistant/storage"
)

// Codec selects the file encoding.
type Codec string

const (
	// CodecJSON writes indented JSON.
	CodecJSON Codec = "json"
	// CodecCBOR writes RFC 8949 CBOR.
	CodecCBOR Codec = "cbor"
)

const fileMode os.FileMode = 0o600

// Store is a [storage.Store] backed by one file.
type Store struct {
	fs    afero.Fs
	path  string
	codec Codec
}

var _ storage.Store = (*Store)(nil)

// New returns a store for path on fs. An empty codec is inferred from the
// file extension: ".cbor" selects CBOR, anything else JSON.
func New(fs afero.Fs, path string, codec Codec) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("filestore: path is required")
	}
	if codec == "" {
		codec = CodecFor(path)
	}
	switch codec {
	case CodecJSON, CodecCBOR:
	default:
		return nil, fmt.Errorf("filestore: unknown codec %q", codec)
	}
	return &Store{fs: fs, path: path, codec: codec}, nil
}

// CodecFor infers the codec from the extension of path.
func CodecFor(path string) Codec {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return CodecCBOR
	}
	return CodecJSON
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string {
	return s.path
}

// Load reads the snapshot file. A missing file yields an empty book.
func (s *Store) Load(_ context.Context) (*addressbook.Book, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		return addressbook.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: reading %s failed: %w", s.path, err)
	}

	var snap storage.Snapshot
	if err := s.decode(data, &snap); err != nil {
		return nil, fmt.Errorf("filestore: decoding %s failed: %w", s.path, err)
	}
	book, err := snap.Book()
	if err != nil {
		return nil, fmt.Errorf("filestore: %s: %w", s.path, err)
	}
	return book, nil
}

// Save writes the snapshot to a temporary file next to the target and renames
// it into place, so a failed write leaves the previous file intact.
func (s *Store) Save(_ context.Context, book *addressbook.Book) error {
	data, err := s.encode(storage.NewSnapshot(book))
	if err != nil {
		return fmt.Errorf("filestore: encoding snapshot failed: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("filestore: creating %s failed: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, fileMode); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("filestore: writing %s failed: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("filestore: replacing %s failed: %w", s.path, err)
	}
	return nil
}

func (s *Store) encode(snap storage.Snapshot) ([]byte, error) {
	if s.codec == CodecCBOR {
		return cbor.Marshal(snap)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *Store) decode(data []byte, snap *storage.Snapshot) error {
	if s.codec == CodecCBOR {
		return cbor.Unmarshal(data, snap)
	}
	return json.Unmarshal(data, snap)
}
