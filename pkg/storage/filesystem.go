package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const metadataDir = ".metadata"

// FileSystemStorage implements the Storage interface using the local filesystem
type FileSystemStorage struct {
	rootDir string
}

// NewFileSystemStorage creates a new filesystem-based storage
func NewFileSystemStorage(rootDir string) (*FileSystemStorage, error) {
	if err := os.MkdirAll(filepath.Join(rootDir, metadataDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory: %w", err)
	}
	return &FileSystemStorage{rootDir: rootDir}, nil
}

// validateFilename rejects names that would escape the root directory.
func validateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename is required")
	}
	if filepath.Base(filename) != filename || strings.Contains(filename, "..") {
		return fmt.Errorf("invalid filename: %s", filename)
	}
	return nil
}

// Put implements Storage.Put
func (s *FileSystemStorage) Put(ctx context.Context, snippet *Snippet) error {
	if snippet == nil {
		return fmt.Errorf("snippet cannot be nil")
	}
	if err := validateFilename(snippet.Filename); err != nil {
		return err
	}

	codePath := filepath.Join(s.rootDir, snippet.Filename)
	if err := os.WriteFile(codePath, []byte(snippet.Code), 0644); err != nil {
		return fmt.Errorf("failed to write snippet file: %w", err)
	}

	meta, err := json.Marshal(snippet)
	if err != nil {
		return fmt.Errorf("failed to marshal snippet metadata: %w", err)
	}
	metaPath := filepath.Join(s.rootDir, metadataDir, snippet.Filename+".json")
	if err := os.WriteFile(metaPath, meta, 0644); err != nil {
		return fmt.Errorf("failed to write snippet metadata: %w", err)
	}

	return nil
}

// Get implements Storage.Get
func (s *FileSystemStorage) Get(ctx context.Context, filename string) (*Snippet, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	code, err := os.ReadFile(filepath.Join(s.rootDir, filename))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snippet file: %w", err)
	}

	snippet := &Snippet{Filename: filename, Code: string(code)}

	meta, err := os.ReadFile(filepath.Join(s.rootDir, metadataDir, filename+".json"))
	if err == nil {
		if err := json.Unmarshal(meta, snippet); err != nil {
			return nil, fmt.Errorf("failed to unmarshal snippet metadata: %w", err)
		}
		snippet.Code = string(code)
	}

	return snippet, nil
}

// List implements Storage.List
func (s *FileSystemStorage) List(ctx context.Context) ([]*Snippet, error) {
	entries, err := os.ReadDir(s.rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read root directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	snippets := make([]*Snippet, 0, len(names))
	for _, name := range names {
		snippet, err := s.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get snippet %s: %w", name, err)
		}
		snippets = append(snippets, snippet)
	}

	return snippets, nil
}

// Delete implements Storage.Delete
func (s *FileSystemStorage) Delete(ctx context.Context, filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.rootDir, filename))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete snippet file: %w", err)
	}

	// Metadata is best-effort; a missing sidecar is not an error.
	_ = os.Remove(filepath.Join(s.rootDir, metadataDir, filename+".json"))
	return nil
}
