// Package jsonfile provides a RecordStore kept in a single JSON file.
//
// The file holds one object mapping document ID to record. Every save
// reads the whole file, replaces one entry and writes the file back.
// Saves are serialised within the process and each write replaces the
// file atomically, so readers never see a partial file. Separate
// processes sharing one file can still lose each other's updates.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
	"github.com/SJF-ECNU/paperhelper/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RecordStore = (*Store)(nil)

// DefaultFilename is the store file created inside the storage directory.
const DefaultFilename = "paperhelper.json"

// Store is a JSON-file implementation of driven.RecordStore.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore opens the store file inside dir, creating dir and an empty
// store file when missing.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return Open(filepath.Join(dir, DefaultFilename))
}

// Open uses the store file at path, creating it when missing.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := s.write(map[string]domain.DocumentRecord{}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking store file: %w", err)
	}

	return s, nil
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// SaveRecord upserts a record.
func (s *Store) SaveRecord(_ context.Context, record *domain.DocumentRecord) error {
	if record == nil || record.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	records[record.ID] = *record
	return s.write(records)
}

// GetRecord retrieves a record by ID.
func (s *Store) GetRecord(_ context.Context, id string) (*domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	record, ok := records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &record, nil
}

// ListRecords returns every record keyed by ID.
func (s *Store) ListRecords(_ context.Context) (map[string]domain.DocumentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *Store) read() (map[string]domain.DocumentRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]domain.DocumentRecord), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading store file: %w", err)
	}

	records := make(map[string]domain.DocumentRecord)
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing store file: %w", err)
	}

	for id, r := range records {
		if r.Metadata == nil {
			r.Metadata = make(map[string]string)
			records[id] = r
		}
	}

	return records, nil
}

// write replaces the store file through a temp file and rename.
func (s *Store) write(records map[string]domain.DocumentRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store file: %w", err)
	}

	return nil
}
