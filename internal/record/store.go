package record

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no record with the requested roll number
// exists in the store.
var ErrNotFound = errors.New("record not found")

// Store persists the record set in a single CSV file.
//
// All operations follow whole-file rewrite semantics: a mutation loads the
// entire set, computes the new set, and overwrites the file in one write.
// A process-level mutex serializes operations so concurrent HTTP requests
// cannot interleave a read-modify-write and tear the file.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a Store backed by the CSV file at path. If the file does not
// exist it is created with the header row, matching first-run behavior.
func New(path string) (*Store, error) {
	s := &Store{path: path}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("record store: stat %q: %w", path, err)
		}
		if err := s.write(nil); err != nil {
			return nil, err
		}
		slog.Info("record store: created csv file", "path", path)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// List returns a snapshot of all records in file order.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the record with the given roll number, or ErrNotFound.
func (s *Store) Get(rollNo string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return Record{}, err
	}
	for _, rec := range recs {
		if rec.RollNo == rollNo {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("record store: get %q: %w", rollNo, ErrNotFound)
}

// Upsert inserts rec, replacing any existing record with the same RollNo.
// Replace-by-key keeps roll numbers unique — never append-with-duplicate.
func (s *Store) Upsert(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	out := recs[:0]
	for _, r := range recs {
		if r.RollNo != rec.RollNo {
			out = append(out, r)
		}
	}
	out = append(out, rec)
	if err := s.write(out); err != nil {
		return err
	}
	slog.Info("record store: upserted record", "rollno", rec.RollNo)
	return nil
}

// Update replaces the existing record with rec's RollNo. Unlike Upsert it
// fails with ErrNotFound when the key is absent.
func (s *Store) Update(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	found := false
	for i, r := range recs {
		if r.RollNo == rec.RollNo {
			recs[i] = rec
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("record store: update %q: %w", rec.RollNo, ErrNotFound)
	}
	if err := s.write(recs); err != nil {
		return err
	}
	slog.Info("record store: updated record", "rollno", rec.RollNo)
	return nil
}

// Delete removes the record with the given roll number, or returns
// ErrNotFound if no such record exists.
func (s *Store) Delete(rollNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.load()
	if err != nil {
		return err
	}
	out := recs[:0]
	found := false
	for _, r := range recs {
		if r.RollNo == rollNo {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return fmt.Errorf("record store: delete %q: %w", rollNo, ErrNotFound)
	}
	if err := s.write(out); err != nil {
		return err
	}
	slog.Info("record store: deleted record", "rollno", rollNo)
	return nil
}

// Count returns the number of records currently stored.
func (s *Store) Count() (int, error) {
	recs, err := s.List()
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}

// --- file I/O (callers hold s.mu) -------------------------------------------

// load reads the full record set from the backing file. The header row is
// skipped; short rows are padded by fromRow rather than rejected.
func (s *Store) load() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("record store: open %q: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows

	var recs []Record
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("record store: read %q: %w", s.path, err)
		}
		if first {
			first = false
			continue // header
		}
		recs = append(recs, fromRow(row))
	}
	return recs, nil
}

// write rewrites the backing file with the header row plus recs. The new
// content goes to a temp file in the same directory first, then renames
// over the original so readers never observe a partial file.
func (s *Store) write(recs []Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("record store: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after successful rename

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("record store: write header: %w", err)
	}
	for _, rec := range recs {
		if err := w.Write(rec.row()); err != nil {
			tmp.Close()
			return fmt.Errorf("record store: write row %q: %w", rec.RollNo, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("record store: flush: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("record store: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("record store: rename temp file: %w", err)
	}
	return nil
}
