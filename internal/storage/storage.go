// ABOUTME: Flat-file storage for rotation history and archive writes
// ABOUTME: Writes go through a temp file and rename so readers never see partial files
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultShapeFile is the rotation history filename under the project home
const DefaultShapeFile = "last_shape.txt"

// FileShapeStore keeps rotation history as plain text, one shape per line, newest last
type FileShapeStore struct {
	path string
}

// NewFileShapeStore creates a store backed by the file at path
func NewFileShapeStore(path string) *FileShapeStore {
	return &FileShapeStore{path: path}
}

// Path returns the backing file path
func (s *FileShapeStore) Path() string {
	return s.path
}

// Load returns the stored shapes; a missing file is an empty history
func (s *FileShapeStore) Load() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rotation history: %w", err)
	}

	var shapes []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		shapes = append(shapes, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse rotation history: %w", err)
	}
	return shapes, nil
}

// Save replaces the stored history
func (s *FileShapeStore) Save(shapes []string) error {
	var b strings.Builder
	for _, shape := range shapes {
		b.WriteString(shape)
		b.WriteByte('\n')
	}
	if err := WriteFileAtomic(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write rotation history: %w", err)
	}
	return nil
}

// MemoryShapeStore keeps rotation history in memory (for tests and dry runs)
type MemoryShapeStore struct {
	mu     sync.Mutex
	shapes []string
}

// NewMemoryShapeStore creates a store seeded with the given history
func NewMemoryShapeStore(seed ...string) *MemoryShapeStore {
	return &MemoryShapeStore{shapes: append([]string(nil), seed...)}
}

// Load returns a copy of the stored shapes
func (s *MemoryShapeStore) Load() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.shapes...), nil
}

// Save replaces the stored shapes
func (s *MemoryShapeStore) Save(shapes []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shapes = append([]string(nil), shapes...)
	return nil
}

// WriteFileAtomic writes data to a temp file in the target directory and renames it into place
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to rename into place: %w", err)
	}
	return nil
}
