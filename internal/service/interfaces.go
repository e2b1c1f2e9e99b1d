package service

import (
	"context"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
)

// ConnectionSource supplies the settings read right before each submission
type ConnectionSource interface {
	Connection() config.Connection
	DefaultDomains() config.DefaultsConfig
}

// Sharing is what a presentation layer needs: remote actions that keep the
// local history in step, plus paged history views
type Sharing interface {
	// ListDomains asks the service for the domains of one category
	ListDomains(ctx context.Context, category domain.Category) ([]string, error)
	// ListAllDomains asks for every category concurrently
	ListAllDomains(ctx context.Context) (map[domain.Category][]string, error)

	// ShortenURL shortens a URL and records it. A *history.PersistError comes
	// back together with the record when only saving failed.
	ShortenURL(ctx context.Context, in ShortenInput) (domain.LinkRecord, error)
	DeleteLink(ctx context.Context, domainName, slug string) (int, error)

	CreateText(ctx context.Context, in TextInput) (domain.TextRecord, error)
	DeleteText(ctx context.Context, domainName, slug string) (int, error)

	UploadFile(ctx context.Context, path string) (domain.FileRecord, error)
	DeleteFile(ctx context.Context, domainName, key string) (int, error)

	Links(page int) history.Page[domain.LinkRecord]
	Texts(page int) history.Page[domain.TextRecord]
	Files(page int) history.Page[domain.FileRecord]

	ClearLinks(ctx context.Context) error
	ClearTexts(ctx context.Context) error
	ClearFiles(ctx context.Context) error
}
