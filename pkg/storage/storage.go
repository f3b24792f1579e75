// Package storage persists per-plugin settings between host runs.
//
// Each plugin owns one YAML file named after it, holding a flat key-value
// map. Lifecycle callbacks read and write through a Store and flush with
// Save or Close; values round-trip through YAML, so numbers may come back as
// a different Go type than they went in and the typed getters coerce.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is the settings of one plugin. All methods are safe for concurrent
// use, though callbacks are already serialized by the state cell.
type Store struct {
	path   string
	mu     sync.Mutex
	values map[string]any
	dirty  bool
}

// Open loads the settings file for a plugin from dir, or returns an empty
// store when the file does not exist yet.
func Open(dir, plugin string) (*Store, error) {
	if plugin == "" {
		return nil, fmt.Errorf("storage: empty plugin name")
	}

	s := &Store{
		path:   filepath.Join(dir, plugin+".yaml"),
		values: make(map[string]any),
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", s.path, err)
	}

	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", s.path, err)
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return s, nil
}

// Path returns the file the store persists to.
func (s *Store) Path() string {
	return s.path
}

// Get returns the raw stored value.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// GetString returns a string value.
func (s *Store) GetString(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key].(string)
	return v, ok
}

// GetInt returns an integer value, coercing any numeric type YAML may have
// decoded.
func (s *Store) GetInt(key string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return 0, false
	}
	return toInt(v)
}

// GetFloat returns a float value, coercing any numeric type YAML may have
// decoded.
func (s *Store) GetFloat(key string) (float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return 0, false
	}
	return toFloat64(v)
}

// GetBool returns a boolean value.
func (s *Store) GetBool(key string) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key].(bool)
	return v, ok
}

// Set stores a value. The change is in memory until Save or Close.
func (s *Store) Set(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
	s.dirty = true
}

// Delete removes a key.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// Save writes the settings file, creating its directory if needed.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("storage: marshal %s: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("storage: create dir for %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", s.path, err)
	}
	s.dirty = false
	return nil
}

// Close saves pending changes, if any. A clean store closes without
// touching the file.
func (s *Store) Close() error {
	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if !dirty {
		return nil
	}
	return s.Save()
}
