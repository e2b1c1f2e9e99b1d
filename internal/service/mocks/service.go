package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
	"github.com/sdotee/desktop/internal/service"
)

// Sharing is a mock implementation of service.Sharing
type Sharing struct {
	mock.Mock
}

// ListDomains mocks listing one category
func (m *Sharing) ListDomains(ctx context.Context, category domain.Category) ([]string, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ListAllDomains mocks listing every category
func (m *Sharing) ListAllDomains(ctx context.Context) (map[domain.Category][]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.Category][]string), args.Error(1)
}

// ShortenURL mocks shortening
func (m *Sharing) ShortenURL(ctx context.Context, in service.ShortenInput) (domain.LinkRecord, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.LinkRecord), args.Error(1)
}

// DeleteLink mocks link deletion
func (m *Sharing) DeleteLink(ctx context.Context, domainName, slug string) (int, error) {
	args := m.Called(ctx, domainName, slug)
	return args.Int(0), args.Error(1)
}

// CreateText mocks publishing
func (m *Sharing) CreateText(ctx context.Context, in service.TextInput) (domain.TextRecord, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(domain.TextRecord), args.Error(1)
}

// DeleteText mocks text deletion
func (m *Sharing) DeleteText(ctx context.Context, domainName, slug string) (int, error) {
	args := m.Called(ctx, domainName, slug)
	return args.Int(0), args.Error(1)
}

// UploadFile mocks uploading
func (m *Sharing) UploadFile(ctx context.Context, path string) (domain.FileRecord, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.FileRecord), args.Error(1)
}

// DeleteFile mocks file deletion
func (m *Sharing) DeleteFile(ctx context.Context, domainName, key string) (int, error) {
	args := m.Called(ctx, domainName, key)
	return args.Int(0), args.Error(1)
}

// Links mocks the link page
func (m *Sharing) Links(page int) history.Page[domain.LinkRecord] {
	args := m.Called(page)
	return args.Get(0).(history.Page[domain.LinkRecord])
}

// Texts mocks the text page
func (m *Sharing) Texts(page int) history.Page[domain.TextRecord] {
	args := m.Called(page)
	return args.Get(0).(history.Page[domain.TextRecord])
}

// Files mocks the file page
func (m *Sharing) Files(page int) history.Page[domain.FileRecord] {
	args := m.Called(page)
	return args.Get(0).(history.Page[domain.FileRecord])
}

// ClearLinks mocks clearing links
func (m *Sharing) ClearLinks(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ClearTexts mocks clearing texts
func (m *Sharing) ClearTexts(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// ClearFiles mocks clearing files
func (m *Sharing) ClearFiles(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
