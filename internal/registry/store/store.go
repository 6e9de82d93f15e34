// Package store persists the shared entry registry as one flat JSON document.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KYD-04/Home-Files/pkg/share"
)

// Store reads and writes the whole registry document. Every save fully
// replaces the previous document.
type Store interface {
	Load() ([]share.Entry, error)
	Save(entries []share.Entry) error
}

// FileStore keeps the registry in a JSON file
type FileStore struct {
	mu   sync.Mutex
	path string
}

// New creates a FileStore for path, creating its parent directory
func New(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %v", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the location of the registry document
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored entries, or an empty sequence when no document exists
func (s *FileStore) Load() ([]share.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []share.Entry{}, nil
		}
		return nil, fmt.Errorf("error reading registry: %v", err)
	}

	entries := []share.Entry{}
	if len(data) == 0 {
		return entries, nil
	}
	var stored []storedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("error decoding registry %s: %v", s.path, err)
	}
	for _, se := range stored {
		e := se.Entry
		if e.Kind == "" {
			e.Kind = se.Type
		}
		if e.AddedAt == "" {
			e.AddedAt = se.AddedDate
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// storedEntry also reads the "type" and "added_date" keys of documents
// written before "kind" and "added_at". Save always writes the new keys.
type storedEntry struct {
	share.Entry
	Type      share.Kind `json:"type"`
	AddedDate string     `json:"added_date"`
}

// Save overwrites the document with entries. The write goes to a temporary
// file that is renamed over the document, so readers never see a partial file.
func (s *FileStore) Save(entries []share.Entry) error {
	if entries == nil {
		entries = []share.Entry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding registry: %v", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".shared_files-*.json")
	if err != nil {
		return fmt.Errorf("error creating registry temp file: %v", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error writing registry: %v", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error closing registry temp file: %v", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error replacing registry: %v", err)
	}
	return nil
}
