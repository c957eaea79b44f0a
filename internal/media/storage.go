// Package media resolves imported file content into URLs, thumbnails and
// blurhash placeholders, optionally keeping the bytes on disk.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Storage keeps file blobs in one directory, keyed by file name.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates {basePath}/{subdir} if needed and stores files there.
func NewStorage(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath, err := filepath.Abs(filepath.Join(basePath, subdir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s directory: %w", subdir, err)
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{basePath: storagePath}, nil
}

// Save writes data under name and returns the file's absolute path.
func (s *Storage) Save(name string, data []byte) (string, error) {
	if err := checkName(name); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("file data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// Exists reports whether a file is stored under name.
func (s *Storage) Exists(name string) bool {
	if checkName(name) != nil {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(name))
	return err == nil
}

// Delete removes the file stored under name. Missing files are not an error.
func (s *Storage) Delete(name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns the names of all stored files.
func (s *Storage) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Path returns the filesystem path for name.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.basePath, name)
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("file name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
