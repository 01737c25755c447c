package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Store reads and writes the library document. All mutations rewrite the
// whole document atomically; there is no partial write path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the library document.
func (s *Store) Path() string { return s.path }

// Load reads the full record collection in document order. Missing files,
// malformed JSON, records without an id and duplicate ids all fail with a
// *LoadError; syntax errors carry the byte offset of the problem.
func (s *Store) Load() ([]GameRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &LoadError{Path: s.path, Reason: "cannot read document", Err: err}
	}

	var records []GameRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, &LoadError{
				Path:   s.path,
				Reason: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset),
				Err:    err,
			}
		}
		return nil, &LoadError{Path: s.path, Reason: "malformed document", Err: err}
	}

	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, &LoadError{
				Path:   s.path,
				Reason: fmt.Sprintf("record %d has no id", i),
			}
		}
		if seen[r.ID] {
			return nil, &LoadError{
				Path:   s.path,
				Reason: fmt.Sprintf("duplicate game id %q", r.ID),
			}
		}
		seen[r.ID] = true
	}

	return records, nil
}

// Save overwrites the document with the given records. The write goes to a
// temp file in the same directory first and is moved into place with a
// rename, so a crash never leaves a truncated document behind.
func (s *Store) Save(records []GameRecord) error {
	if records == nil {
		records = []GameRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".games-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp document: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write library document: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to sync library document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp document: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace library document: %w", err)
	}
	return nil
}

// Add appends a record and persists the document. The id must be new.
func (s *Store) Add(record GameRecord) ([]GameRecord, error) {
	records, err := s.loadOrEmpty()
	if err != nil {
		return nil, err
	}

	for _, r := range records {
		if r.ID == record.ID {
			return nil, &DuplicateIDError{ID: record.ID}
		}
	}

	records = append(records, record)
	if err := s.Save(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Update replaces the record with the same id and persists the document.
func (s *Store) Update(record GameRecord) ([]GameRecord, error) {
	records, err := s.Load()
	if err != nil {
		return nil, err
	}

	for i, r := range records {
		if r.ID == record.ID {
			records[i] = record
			if err := s.Save(records); err != nil {
				return nil, err
			}
			return records, nil
		}
	}
	return nil, &NotFoundError{ID: record.ID}
}

// loadOrEmpty treats a missing document as an empty library so the first
// Add can bootstrap it.
func (s *Store) loadOrEmpty() ([]GameRecord, error) {
	records, err := s.Load()
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) && errors.Is(loadErr.Err, os.ErrNotExist) {
			return []GameRecord{}, nil
		}
		return nil, err
	}
	return records, nil
}
