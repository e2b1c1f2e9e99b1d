package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Read when nothing has been stored yet
var ErrNotFound = errors.New("document not found")

// DocumentRepository persists a single structured document, rewritten whole
// on every Write
type DocumentRepository interface {
	// Read returns the stored document, or ErrNotFound if none exists
	Read(ctx context.Context) ([]byte, error)

	// Write replaces the stored document
	Write(ctx context.Context, doc []byte) error

	// Location describes where the document lives, for messages
	Location() string

	// Close releases the underlying resources
	Close() error
}
