package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sdotee/desktop/internal/domain"
)

// API is a mock implementation of client.API
type API struct {
	mock.Mock
}

// ListDomains mocks the domain listing
func (m *API) ListDomains(ctx context.Context, category domain.Category) ([]string, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ShortenURL mocks URL shortening
func (m *API) ShortenURL(ctx context.Context, req domain.ShortenRequest) (*domain.ShortenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShortenResponse), args.Error(1)
}

// DeleteURL mocks short URL deletion
func (m *API) DeleteURL(ctx context.Context, req domain.DeleteRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// CreateText mocks text publishing
func (m *API) CreateText(ctx context.Context, req domain.CreateTextRequest) (*domain.CreateTextResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreateTextResponse), args.Error(1)
}

// DeleteText mocks text deletion
func (m *API) DeleteText(ctx context.Context, req domain.DeleteRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// UploadFile mocks file upload
func (m *API) UploadFile(ctx context.Context, path string) (*domain.FileUploadResponse, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileUploadResponse), args.Error(1)
}

// DeleteFile mocks file deletion
func (m *API) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
