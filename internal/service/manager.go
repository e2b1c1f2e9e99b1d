package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/sdotee/desktop/internal/dispatch"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
	"github.com/sdotee/desktop/internal/logger"
)

// ErrUnexpectedOutcome means the dispatcher answered with the wrong kind
var ErrUnexpectedOutcome = errors.New("unexpected outcome")

// ShortenInput describes a link to shorten
type ShortenInput struct {
	URL    string
	Domain string
	Slug   string
	// Title is kept in history only
	Title string
}

// TextInput describes a text to publish
type TextInput struct {
	Content string
	Title   string
	Domain  string
	Type    domain.TextType
}

// Manager runs remote operations through a dispatcher and records their
// successes in the history store
type Manager struct {
	dispatcher dispatch.Submitter
	history    *history.Store
	source     ConnectionSource
	logger     logger.Logger
	pageSize   int
}

var _ Sharing = (*Manager)(nil)

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithPageSize changes the number of records per history page
func WithPageSize(n int) Option {
	return func(m *Manager) { m.pageSize = n }
}

// NewManager creates a manager
func NewManager(d dispatch.Submitter, store *history.Store, source ConnectionSource, opts ...Option) *Manager {
	m := &Manager{
		dispatcher: d,
		history:    store,
		source:     source,
		logger:     logger.NewNop(),
		pageSize:   history.DefaultPageSize,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// submit hands op to the dispatcher with a fresh connection snapshot and waits
// for its outcome or for ctx. An abandoned outcome is dropped by the worker.
func submit[T dispatch.Outcome](ctx context.Context, m *Manager, op dispatch.Operation) (T, error) {
	var zero T

	ch := m.dispatcher.SubmitContext(ctx, m.source.Connection(), op)

	var out dispatch.Outcome
	select {
	case o, ok := <-ch:
		if !ok {
			return zero, fmt.Errorf("%w: channel closed without a value", ErrUnexpectedOutcome)
		}
		out = o
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	if err := out.Err(); err != nil {
		return zero, err
	}

	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T for %s", ErrUnexpectedOutcome, out, op.Kind())
	}
	return typed, nil
}

// ListDomains asks the service for the domains of category
func (m *Manager) ListDomains(ctx context.Context, category domain.Category) ([]string, error) {
	switch category {
	case domain.CategoryLink:
		out, err := submit[dispatch.ListLinkDomainsOutcome](ctx, m, dispatch.ListLinkDomains{})
		return out.Domains, err
	case domain.CategoryText:
		out, err := submit[dispatch.ListTextDomainsOutcome](ctx, m, dispatch.ListTextDomains{})
		return out.Domains, err
	case domain.CategoryFile:
		out, err := submit[dispatch.ListFileDomainsOutcome](ctx, m, dispatch.ListFileDomains{})
		return out.Domains, err
	}
	return nil, fmt.Errorf("unknown domain category %q", category)
}

// ListAllDomains lists every category concurrently; the first failure wins
func (m *Manager) ListAllDomains(ctx context.Context) (map[domain.Category][]string, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	result := make(map[domain.Category][]string, len(domain.Categories()))

	for _, category := range domain.Categories() {
		g.Go(func() error {
			domains, err := m.ListDomains(ctx, category)
			if err != nil {
				return fmt.Errorf("failed to list %s domains: %w", category, err)
			}
			mu.Lock()
			result[category] = domains
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// ShortenURL shortens in.URL and prepends the link to history
func (m *Manager) ShortenURL(ctx context.Context, in ShortenInput) (domain.LinkRecord, error) {
	domainName := in.Domain
	if domainName == "" {
		domainName = m.source.DefaultDomains().LinkDomain
	}

	out, err := submit[dispatch.ShortenURLOutcome](ctx, m, dispatch.ShortenURL{
		URL:    in.URL,
		Domain: domainName,
		Slug:   in.Slug,
	})
	if err != nil {
		return domain.LinkRecord{}, err
	}
	if out.Response == nil {
		return domain.LinkRecord{}, fmt.Errorf("%w: empty shorten response", ErrUnexpectedOutcome)
	}

	record := linkRecord(in, domainName, out.Response)
	m.logger.Info("link shortened", logger.String("short_url", record.ShortURL))
	return record, m.history.AddLink(ctx, record)
}

// DeleteLink deletes a link remotely, then drops it from history
func (m *Manager) DeleteLink(ctx context.Context, domainName, slug string) (int, error) {
	if _, err := submit[dispatch.DeleteURLOutcome](ctx, m, dispatch.DeleteURL{Domain: domainName, Slug: slug}); err != nil {
		return 0, err
	}
	return m.history.RemoveLink(ctx, domainName, slug)
}

// CreateText publishes a text and prepends it to history
func (m *Manager) CreateText(ctx context.Context, in TextInput) (domain.TextRecord, error) {
	domainName := in.Domain
	if domainName == "" {
		domainName = m.source.DefaultDomains().TextDomain
	}
	textType := in.Type
	if textType == "" {
		textType = domain.TextTypePlain
	}

	out, err := submit[dispatch.CreateTextOutcome](ctx, m, dispatch.CreateText{
		Content: in.Content,
		Title:   in.Title,
		Domain:  domainName,
		Type:    textType,
	})
	if err != nil {
		return domain.TextRecord{}, err
	}
	if out.Response == nil {
		return domain.TextRecord{}, fmt.Errorf("%w: empty text response", ErrUnexpectedOutcome)
	}

	record := textRecord(in, textType, out.Response)
	m.logger.Info("text published", logger.String("url", record.URL))
	return record, m.history.AddText(ctx, record)
}

// DeleteText deletes a text remotely, then drops it from history
func (m *Manager) DeleteText(ctx context.Context, domainName, slug string) (int, error) {
	if _, err := submit[dispatch.DeleteTextOutcome](ctx, m, dispatch.DeleteText{Domain: domainName, Slug: slug}); err != nil {
		return 0, err
	}
	return m.history.RemoveText(ctx, domainName, slug)
}

// UploadFile uploads the file at path and prepends it to history
func (m *Manager) UploadFile(ctx context.Context, path string) (domain.FileRecord, error) {
	var mimeType string
	if mt, err := mimetype.DetectFile(path); err == nil {
		mimeType = mt.String()
	} else {
		m.logger.Debug("could not detect mime type", logger.String("path", path), logger.Error(err))
	}

	out, err := submit[dispatch.UploadFileOutcome](ctx, m, dispatch.UploadFile{Path: path})
	if err != nil {
		return domain.FileRecord{}, err
	}
	if out.Response == nil {
		return domain.FileRecord{}, fmt.Errorf("%w: empty upload response", ErrUnexpectedOutcome)
	}

	record := fileRecord(path, mimeType, out.Response)
	m.logger.Info("file uploaded", logger.String("url", record.URL))
	return record, m.history.AddFile(ctx, record)
}

// DeleteFile deletes an upload by its key, then drops it from history
func (m *Manager) DeleteFile(ctx context.Context, domainName, key string) (int, error) {
	if _, err := submit[dispatch.DeleteFileOutcome](ctx, m, dispatch.DeleteFile{Key: key}); err != nil {
		return 0, err
	}
	return m.history.RemoveFile(ctx, domainName, key)
}

// Links returns one page of link history
func (m *Manager) Links(page int) history.Page[domain.LinkRecord] {
	return history.Paginate(m.history.Links(), m.pageSize, page)
}

// Texts returns one page of text history
func (m *Manager) Texts(page int) history.Page[domain.TextRecord] {
	return history.Paginate(m.history.Texts(), m.pageSize, page)
}

// Files returns one page of file history
func (m *Manager) Files(page int) history.Page[domain.FileRecord] {
	return history.Paginate(m.history.Files(), m.pageSize, page)
}

// ClearLinks forgets every link locally; nothing is deleted remotely
func (m *Manager) ClearLinks(ctx context.Context) error {
	return m.history.ClearLinks(ctx)
}

// ClearTexts forgets every text locally
func (m *Manager) ClearTexts(ctx context.Context) error {
	return m.history.ClearTexts(ctx)
}

// ClearFiles forgets every file locally
func (m *Manager) ClearFiles(ctx context.Context) error {
	return m.history.ClearFiles(ctx)
}
