package tools

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store is the in-memory filesystem + record database backing the provider
// tools. One store per process; tools mutate it under a single lock.
type Store struct {
	mu      sync.Mutex
	files   map[string]string
	records map[string]map[string]string
}

// NewSeededStore creates a store with the demo filesystem and records.
func NewSeededStore() *Store {
	return &Store{
		files: map[string]string{
			"/configs/app.yaml": "feature_flag: false\nowner: team-a\n",
			"/docs/readme.md":   "Welcome!\n",
		},
		records: map[string]map[string]string{
			"user:123":  {"status": "active", "plan": "pro"},
			"order:999": {"state": "shipped"},
		},
	}
}

// ReadFile returns the file content or a not-found error.
func (s *Store) ReadFile(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.files[path]
	if !ok {
		return "", fmt.Errorf("File not found: %s", path)
	}
	return content, nil
}

// SearchFiles returns paths containing query, case-insensitively, sorted.
func (s *Store) SearchFiles(query string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := strings.ToLower(query)
	matches := make([]string, 0, len(s.files))
	for path := range s.files {
		if strings.Contains(strings.ToLower(path), q) {
			matches = append(matches, path)
		}
	}
	sort.Strings(matches)
	return matches
}

// DeleteFile removes a file; missing files are an error.
func (s *Store) DeleteFile(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[path]; !ok {
		return fmt.Errorf("File not found: %s", path)
	}
	delete(s.files, path)
	return nil
}

// GetRecord returns a copy of the record or a not-found error.
func (s *Store) GetRecord(key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("Record not found: %s", key)
	}
	return copyRecord(record), nil
}

// UpdateRecord applies one field=value patch and returns the updated record.
func (s *Store) UpdateRecord(key, field, value string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("Record not found: %s", key)
	}
	record[field] = value
	return copyRecord(record), nil
}

func copyRecord(record map[string]string) map[string]string {
	out := make(map[string]string, len(record))
	for k, v := range record {
		out[k] = v
	}
	return out
}
