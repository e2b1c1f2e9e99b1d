package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sdotee/desktop/internal/repository"
)

// Repository implements repository.DocumentRepository on a single file
type Repository struct {
	path string
}

// New creates a file repository; the file and its directory are created on
// first Write
func New(path string) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("document path cannot be empty")
	}
	return &Repository{path: path}, nil
}

// Read returns the whole file
func (r *Repository) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	return data, nil
}

// Write replaces the file atomically: the document goes to a temporary file
// in the same directory which is then renamed over the old one
func (r *Repository) Write(ctx context.Context, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

// Location returns the file path
func (r *Repository) Location() string {
	return r.path
}

// Close is a no-op; files are opened per call
func (r *Repository) Close() error {
	return nil
}

// Ensure Repository implements the interface
var _ repository.DocumentRepository = (*Repository)(nil)
