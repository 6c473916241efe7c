// ABOUTME: Zip packaging of ledger snapshots for backup and restore
// ABOUTME: Bundles users.json, records.json, and a manifest into one archive

package backup

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/streakfit/streakd/internal/tracker"
)

// Archive member names.
const (
	usersEntry    = "users.json"
	recordsEntry  = "records.json"
	manifestEntry = "manifest.json"
)

// Manifest describes a backup archive.
type Manifest struct {
	SnapshotID string    `json:"snapshot_id"`
	CreatedAt  time.Time `json:"created_at"`
	Users      int       `json:"users"`
	Records    int       `json:"records"`
}

// Write streams a snapshot as a zip archive. The two collection entries use
// the same JSON shape as the live store files, so a restored pair is
// directly loadable.
func Write(w io.Writer, snap tracker.Snapshot) error {
	zw := zip.NewWriter(w)

	manifest := Manifest{
		SnapshotID: uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Users:      len(snap.Users),
		Records:    len(snap.Records),
	}

	if err := writeEntry(zw, manifestEntry, manifest); err != nil {
		return err
	}
	if err := writeEntry(zw, usersEntry, emptyIfNil(snap.Users)); err != nil {
		return err
	}
	if err := writeEntry(zw, recordsEntry, emptyIfNil(snap.Records)); err != nil {
		return err
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

// WriteFile writes a snapshot archive to the given path.
func WriteFile(path string, snap tracker.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	if err := Write(f, snap); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing backup file: %w", err)
	}
	return nil
}

// Read parses a backup archive back into a snapshot and its manifest.
func Read(r io.ReaderAt, size int64) (tracker.Snapshot, Manifest, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return tracker.Snapshot{}, Manifest{}, fmt.Errorf("opening archive: %w", err)
	}

	var snap tracker.Snapshot
	var manifest Manifest

	if err := readEntry(zr, manifestEntry, &manifest); err != nil {
		return tracker.Snapshot{}, Manifest{}, err
	}
	if err := readEntry(zr, usersEntry, &snap.Users); err != nil {
		return tracker.Snapshot{}, Manifest{}, err
	}
	if err := readEntry(zr, recordsEntry, &snap.Records); err != nil {
		return tracker.Snapshot{}, Manifest{}, err
	}

	return snap, manifest, nil
}

// ReadFile parses a backup archive from disk.
func ReadFile(path string) (tracker.Snapshot, Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return tracker.Snapshot{}, Manifest{}, fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return tracker.Snapshot{}, Manifest{}, fmt.Errorf("stating backup file: %w", err)
	}
	return Read(f, info.Size())
}

func writeEntry(zw *zip.Writer, name string, v any) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("creating archive entry %s: %w", name, err)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding archive entry %s: %w", name, err)
	}
	return nil
}

func readEntry(zr *zip.Reader, name string, v any) error {
	f, err := zr.Open(name)
	if err != nil {
		return fmt.Errorf("missing archive entry %s: %w", name, err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decoding archive entry %s: %w", name, err)
	}
	return nil
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
