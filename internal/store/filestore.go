// ABOUTME: JSON file implementation of the Store interface
// ABOUTME: Persists users and records as two independent full-rewrite JSON files

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	usersFile   = "users.json"
	recordsFile = "records.json"
)

// FileStore implements the Store interface using two JSON files in a data
// directory. Each save rewrites the whole collection and swaps it into place
// atomically, so readers observe either the old file or the new one, never a
// partial write. Missing, empty, or unparsable files load as empty
// collections; the recovery is logged but never surfaced as an error.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a file store rooted at the given data directory.
// Parent directories are created if needed.
func NewFileStore(dir string) (*FileStore, error) {
	logger := slog.Default().With("component", "store")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	logger.Info("file store initialized", "dir", dir)
	return &FileStore{dir: dir, logger: logger}, nil
}

// UsersPath returns the path of the users collection file.
func (s *FileStore) UsersPath() string { return filepath.Join(s.dir, usersFile) }

// RecordsPath returns the path of the activity records collection file.
func (s *FileStore) RecordsPath() string { return filepath.Join(s.dir, recordsFile) }

// LoadUsers reads the full users collection. Invalid rows are dropped at the
// boundary so a single bad entry cannot poison the collection.
func (s *FileStore) LoadUsers(ctx context.Context) ([]User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []User
	if !s.loadCollection(s.UsersPath(), &raw) {
		return []User{}, nil
	}

	users := make([]User, 0, len(raw))
	for _, u := range raw {
		if u.ID <= 0 || u.Name == "" {
			s.logger.Warn("dropping invalid user row", "id", u.ID, "name", u.Name)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

// LoadRecords reads the full activity records collection, dropping rows whose
// date does not parse or whose user id is not positive.
func (s *FileStore) LoadRecords(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var raw []Record
	if !s.loadCollection(s.RecordsPath(), &raw) {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		if r.UserID <= 0 {
			s.logger.Warn("dropping record with invalid user id", "user_id", r.UserID)
			continue
		}
		if _, err := ParseDay(r.Date); err != nil {
			s.logger.Warn("dropping record with invalid date", "user_id", r.UserID, "date", r.Date)
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// SaveUsers replaces the users collection on disk.
func (s *FileStore) SaveUsers(ctx context.Context, users []User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if users == nil {
		users = []User{}
	}
	return s.saveCollection(s.UsersPath(), users)
}

// SaveRecords replaces the activity records collection on disk.
func (s *FileStore) SaveRecords(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if records == nil {
		records = []Record{}
	}
	return s.saveCollection(s.RecordsPath(), records)
}

// Close releases resources held by the store. The file store holds no open
// handles between operations, so this is a no-op kept for interface symmetry.
func (s *FileStore) Close() error {
	return nil
}

// loadCollection reads and unmarshals a collection file into out. It reports
// whether the file held usable data; absent, empty, or corrupt files are
// recovered to "no data" with a warning, never an error.
func (s *FileStore) loadCollection(path string, out any) bool {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false
	}
	if err != nil {
		s.logger.Warn("collection unreadable, recovering as empty", "path", path, "error", err)
		return false
	}
	if len(data) == 0 {
		s.logger.Warn("collection file empty, recovering as empty", "path", path)
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("collection unparsable, recovering as empty", "path", path, "error", err)
		return false
	}
	return true
}

// saveCollection marshals the collection and atomically replaces the backing
// file via a temp file and rename, so concurrent readers never see a torn
// write.
func (s *FileStore) saveCollection(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing collection file: %w", err)
	}
	return nil
}
