// Package cache keeps model registry answers on disk so repeated
// validations do not hit the Hub for models that were already resolved.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/primetrain/primetrain/internal/domain"
)

// Entry is one cached registry answer.
type Entry struct {
	Status   domain.ModelStatus `json:"status"`
	Tags     []string           `json:"tags,omitempty"`
	Reason   string             `json:"reason,omitempty"`
	StoredAt time.Time          `json:"stored_at"`
}

// Info converts the entry back into a registry answer.
func (e Entry) Info() domain.ModelInfo {
	return domain.ModelInfo{Status: e.Status, Tags: e.Tags, Reason: e.Reason}
}

// Store is a file-based map from model name to Entry.
type Store struct {
	path string
}

// New creates a store backed by the JSON file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is models.json under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "prime-train", "models.json"), nil
}

func (s *Store) Path() string { return s.path }

// Load reads the cache. A missing file is an empty cache.
func (s *Store) Load() (map[string]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Entry{}, nil
		}
		return nil, err
	}

	entries := map[string]Entry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", s.path, err)
	}
	return entries, nil
}

// Save writes the cache, creating directories as needed.
func (s *Store) Save(entries map[string]Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Invalidate removes the cache file.
func (s *Store) Invalidate() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
