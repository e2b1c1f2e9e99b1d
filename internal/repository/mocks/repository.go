package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// DocumentRepository is a mock implementation of repository.DocumentRepository
type DocumentRepository struct {
	mock.Mock
}

// Read returns the stored document
func (m *DocumentRepository) Read(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Write replaces the stored document
func (m *DocumentRepository) Write(ctx context.Context, doc []byte) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

// Location describes where the document lives
func (m *DocumentRepository) Location() string {
	args := m.Called()
	return args.String(0)
}

// Close releases the underlying resources
func (m *DocumentRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
