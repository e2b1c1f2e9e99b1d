package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/logger"
	"github.com/sdotee/desktop/internal/repository"
)

// Store is the local ledger of links, texts and files. Every mutation is
// written through to the repository before it returns.
//
// Mutations are serialized internally, but the slices returned by Links,
// Texts and Files are live views: callers that read them while another
// goroutine mutates the store must provide their own exclusion.
type Store struct {
	mu     sync.RWMutex
	repo   repository.DocumentRepository
	ledger domain.Ledger
	logger logger.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger used for persistence diagnostics
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Load reads the ledger from repo. A repository with no document yields an
// empty ledger; a document that cannot be parsed fails with ErrCorrupt and is
// left untouched.
func Load(ctx context.Context, repo repository.DocumentRepository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:   repo,
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := repo.Read(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("no history yet, starting empty", logger.String("location", repo.Location()))
			return s, nil
		}
		return nil, fmt.Errorf("%w: failed to load history: %w", ErrStorage, err)
	}

	var ledger *domain.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, repo.Location(), err)
	}
	if ledger == nil {
		return nil, fmt.Errorf("%w: %s: null document", ErrCorrupt, repo.Location())
	}
	s.ledger = *ledger

	s.logger.Debug("history loaded",
		logger.Int("links", len(s.ledger.Links)),
		logger.Int("texts", len(s.ledger.Texts)),
		logger.Int("files", len(s.ledger.Files)))

	return s, nil
}

// Save writes the whole ledger to the repository
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save(ctx)
}

// save expects s.mu to be held
func (s *Store) save(ctx context.Context) error {
	doc := domain.Ledger{
		Links: nonNil(s.ledger.Links),
		Texts: nonNil(s.ledger.Texts),
		Files: nonNil(s.ledger.Files),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode history: %w", ErrStorage, err)
	}

	if err := s.repo.Write(ctx, data); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// persist saves after a mutation and reports failures as *PersistError
func (s *Store) persist(ctx context.Context, op string) error {
	if err := s.save(ctx); err != nil {
		s.logger.Warn("history changed but not saved", logger.String("op", op), logger.Error(err))
		return &PersistError{Op: op, Location: s.repo.Location(), Err: err}
	}
	return nil
}

// Links returns link records, most recent first
func (s *Store) Links() []domain.LinkRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Links
}

// Texts returns text records, most recent first
func (s *Store) Texts() []domain.TextRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Texts
}

// Files returns file records, most recent first
func (s *Store) Files() []domain.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Files
}

// Ledger returns a copy of all three sequences
func (s *Store) Ledger() domain.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Ledger{
		Links: slices.Clone(s.ledger.Links),
		Texts: slices.Clone(s.ledger.Texts),
		Files: slices.Clone(s.ledger.Files),
	}
}

// AddLink prepends record and persists
func (s *Store) AddLink(ctx context.Context, record domain.LinkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Links = prepend(s.ledger.Links, record)
	return s.persist(ctx, "add link")
}

// RemoveLink removes every link with the given domain and slug and persists
func (s *Store) RemoveLink(ctx context.Context, domainName, slug string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	s.ledger.Links, removed = removeMatching(s.ledger.Links, domainName, slug)
	return removed, s.persist(ctx, "remove link")
}

// ClearLinks drops every link record and persists
func (s *Store) ClearLinks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Links = nil
	return s.persist(ctx, "clear links")
}

// AddText prepends record and persists
func (s *Store) AddText(ctx context.Context, record domain.TextRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Texts = prepend(s.ledger.Texts, record)
	return s.persist(ctx, "add text")
}

// RemoveText removes every text with the given domain and slug and persists
func (s *Store) RemoveText(ctx context.Context, domainName, slug string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	s.ledger.Texts, removed = removeMatching(s.ledger.Texts, domainName, slug)
	return removed, s.persist(ctx, "remove text")
}

// ClearTexts drops every text record and persists
func (s *Store) ClearTexts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Texts = nil
	return s.persist(ctx, "clear texts")
}

// AddFile prepends record and persists
func (s *Store) AddFile(ctx context.Context, record domain.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Files = prepend(s.ledger.Files, record)
	return s.persist(ctx, "add file")
}

// RemoveFile removes every file with the given domain and slug and persists
func (s *Store) RemoveFile(ctx context.Context, domainName, slug string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	s.ledger.Files, removed = removeMatching(s.ledger.Files, domainName, slug)
	return removed, s.persist(ctx, "remove file")
}

// ClearFiles drops every file record and persists
func (s *Store) ClearFiles(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger.Files = nil
	return s.persist(ctx, "clear files")
}

// Close closes the underlying repository
func (s *Store) Close() error {
	return s.repo.Close()
}

type keyed interface {
	Matches(domain, slug string) bool
}

// removeMatching filters records in a fresh slice so live views handed out
// earlier keep their contents
func removeMatching[T keyed](records []T, domainName, slug string) ([]T, int) {
	kept := make([]T, 0, len(records))
	for _, r := range records {
		if !r.Matches(domainName, slug) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}

// prepend copies into a fresh slice; views handed out earlier are never shifted
func prepend[T any](records []T, record T) []T {
	out := make([]T, 0, len(records)+1)
	out = append(out, record)
	return append(out, records...)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
