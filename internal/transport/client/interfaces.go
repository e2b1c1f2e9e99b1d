package client

import (
	"context"

	"github.com/sdotee/desktop/internal/domain"
)

// API is the remote S.EE service as seen by the dispatcher
type API interface {
	// ListDomains returns the domains available for category
	ListDomains(ctx context.Context, category domain.Category) ([]string, error)

	ShortenURL(ctx context.Context, req domain.ShortenRequest) (*domain.ShortenResponse, error)
	DeleteURL(ctx context.Context, req domain.DeleteRequest) error

	CreateText(ctx context.Context, req domain.CreateTextRequest) (*domain.CreateTextResponse, error)
	DeleteText(ctx context.Context, req domain.DeleteRequest) error

	// UploadFile streams the file at path as a multipart upload
	UploadFile(ctx context.Context, path string) (*domain.FileUploadResponse, error)
	// DeleteFile deletes an upload by the key returned from UploadFile
	DeleteFile(ctx context.Context, key string) error
}
