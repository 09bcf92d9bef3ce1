package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a snippet does not exist in storage.
var ErrNotFound = errors.New("snippet not found")

// Snippet is one persisted code sample.
type Snippet struct {
	Filename    string    `json:"filename"`
	RegionTag   string    `json:"region_tag"`
	Code        string    `json:"-"`
	Sync        bool      `json:"sync"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Storage persists generated snippets keyed by their derived filename.
type Storage interface {
	// Put stores a snippet, overwriting any previous version.
	Put(ctx context.Context, snippet *Snippet) error
	// Get retrieves a snippet by filename; ErrNotFound when absent.
	Get(ctx context.Context, filename string) (*Snippet, error)
	// List returns all stored snippets sorted by filename.
	List(ctx context.Context) ([]*Snippet, error)
	// Delete removes a snippet; ErrNotFound when absent.
	Delete(ctx context.Context, filename string) error
}

// Config for the storage backend
type Config struct {
	Type string // currently only "filesystem"

	// Filesystem config
	Root string
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Type: "filesystem",
		Root: "/tmp/snippetgen",
	}
}
