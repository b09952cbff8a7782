package state

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileSlot stores the document as a single file, written atomically so a
// crash mid-write never leaves a truncated document behind.
type FileSlot struct {
	path string
}

// NewFileSlot creates a file-backed slot at path. Parent directories are
// created on first write.
func NewFileSlot(path string) (*FileSlot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("state: resolve path: %w", err)
	}
	return &FileSlot{path: abs}, nil
}

// Read returns the document bytes, or ok=false if the file does not exist.
func (s *FileSlot) Read() ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("state: read %s: %w", s.path, err)
	}
	return data, true, nil
}

// Write atomically replaces the document: tmp file → fsync → rename.
func (s *FileSlot) Write(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".photospeak-tmp-*")
	if err != nil {
		return fmt.Errorf("state: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("state: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("state: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("state: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("state: rename: %w", err)
	}
	success = true
	return nil
}

// Close is a no-op for the file backend.
func (s *FileSlot) Close() error { return nil }
