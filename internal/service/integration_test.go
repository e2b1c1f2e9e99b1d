package service_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/dispatch"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
	"github.com/sdotee/desktop/internal/metrics"
	"github.com/sdotee/desktop/internal/repository"
	"github.com/sdotee/desktop/internal/repository/file"
	"github.com/sdotee/desktop/internal/repository/sqlite"
	"github.com/sdotee/desktop/internal/service"
	"github.com/sdotee/desktop/internal/testserver"
	"github.com/sdotee/desktop/internal/transport/client"
)

const integrationKey = "integration-key"

type backend func(t *testing.T, dir string) repository.DocumentRepository

var backends = map[string]backend{
	config.BackendFile: func(t *testing.T, dir string) repository.DocumentRepository {
		repo, err := file.New(filepath.Join(dir, "history.json"))
		require.NoError(t, err)
		return repo
	},
	config.BackendSQLite: func(t *testing.T, dir string) repository.DocumentRepository {
		repo, err := sqlite.New(filepath.Join(dir, "history.db"))
		require.NoError(t, err)
		return repo
	},
}

func newConfig(stub *testserver.Server) *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = stub.URL()
	cfg.API.APIKey = integrationKey
	cfg.API.Timeout = 5 * time.Second
	return cfg
}

func TestIntegration_FullWorkflow(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			stub := testserver.New(integrationKey)
			defer stub.Close()

			ctx := context.Background()
			dir := t.TempDir()
			cfg := newConfig(stub)
			collector := metrics.New()

			store, err := history.Load(ctx, open(t, dir))
			require.NoError(t, err)

			m := service.NewManager(dispatch.New(dispatch.WithMetrics(collector)), store, cfg)

			// domains
			all, err := m.ListAllDomains(ctx)
			require.NoError(t, err)
			assert.Equal(t, testserver.LinkDomains, all[domain.CategoryLink])
			assert.Equal(t, testserver.TextDomains, all[domain.CategoryText])
			assert.Equal(t, testserver.FileDomains, all[domain.CategoryFile])

			// link
			link, err := m.ShortenURL(ctx, service.ShortenInput{URL: "https://example.com/very/long/path", Domain: "ss.ee", Slug: "docs"})
			require.NoError(t, err)
			assert.Equal(t, "https://ss.ee/docs", link.ShortURL)
			assert.Equal(t, "ss.ee", link.Domain)
			assert.True(t, stub.HasLink("ss.ee", "docs"))

			// text
			text, err := m.CreateText(ctx, service.TextInput{Content: "package main", Title: "main.go", Type: domain.TextTypeSourceCode})
			require.NoError(t, err)
			assert.Equal(t, "p.s.ee", text.Domain)
			assert.Equal(t, "https://p.s.ee/"+text.Slug, text.PageURL)
			assert.Equal(t, "source_code", text.Syntax)

			// file
			path := filepath.Join(t.TempDir(), "report.txt")
			require.NoError(t, os.WriteFile(path, []byte("quarterly numbers"), 0o600))
			upload, err := m.UploadFile(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, "i.s.ee", upload.Domain)
			assert.Equal(t, int64(len("quarterly numbers")), upload.Size)
			assert.Contains(t, upload.MimeType, "text/plain")

			// history survives a restart
			require.NoError(t, store.Close())
			store, err = history.Load(ctx, open(t, dir))
			require.NoError(t, err)
			defer store.Close()
			m = service.NewManager(dispatch.New(), store, cfg)

			assert.Equal(t, []domain.LinkRecord{link}, m.Links(0).Items)
			assert.Equal(t, []domain.TextRecord{text}, m.Texts(0).Items)
			assert.Equal(t, []domain.FileRecord{upload}, m.Files(0).Items)

			// deletes go to the service and then to history
			removed, err := m.DeleteLink(ctx, link.Domain, link.Slug)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			assert.False(t, stub.HasLink("ss.ee", "docs"))

			removed, err = m.DeleteText(ctx, text.Domain, text.Slug)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			removed, err = m.DeleteFile(ctx, upload.Domain, upload.Slug)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)
			_, ok := stub.FileContent(upload.Slug)
			assert.False(t, ok)

			assert.Zero(t, m.Links(0).Total)
			assert.Zero(t, m.Texts(0).Total)
			assert.Zero(t, m.Files(0).Total)
		})
	}
}

func TestIntegration_ErrorCases(t *testing.T) {
	stub := testserver.New(integrationKey)
	defer stub.Close()

	ctx := context.Background()
	cfg := newConfig(stub)
	store, err := history.Load(ctx, backends[config.BackendFile](t, t.TempDir()))
	require.NoError(t, err)
	m := service.NewManager(dispatch.New(), store, cfg)

	// invalid URL is rejected before the network
	_, err = m.ShortenURL(ctx, service.ShortenInput{URL: "not-a-url"})
	assert.ErrorIs(t, err, client.ErrValidation)

	// slug collision
	_, err = m.ShortenURL(ctx, service.ShortenInput{URL: "https://example.com", Slug: "taken"})
	require.NoError(t, err)
	_, err = m.ShortenURL(ctx, service.ShortenInput{URL: "https://example.com", Slug: "taken"})
	assert.ErrorIs(t, err, client.ErrRemote)

	// deleting something unknown keeps history as it is
	_, err = m.DeleteLink(ctx, "s.ee", "nonexistent")
	assert.ErrorIs(t, err, client.ErrRemote)
	assert.Equal(t, 1, m.Links(0).Total)

	// a missing key surfaces as a config error, never as a crash
	cfg.API.APIKey = ""
	_, err = m.CreateText(ctx, service.TextInput{Content: "x", Title: "y"})
	assert.ErrorIs(t, err, config.ErrNoAPIKey)

	// a wrong key is an authorization error
	cfg.API.APIKey = "wrong"
	_, err = m.ListDomains(ctx, domain.CategoryLink)
	assert.ErrorIs(t, err, client.ErrUnauthorized)

	cfg.API.APIKey = integrationKey
	stub.FailWith(http.StatusServiceUnavailable, "maintenance")
	_, err = m.ListDomains(ctx, domain.CategoryFile)
	assert.ErrorIs(t, err, client.ErrRemote)

	stub.Recover()
	_, err = m.ListDomains(ctx, domain.CategoryFile)
	assert.NoError(t, err)
}

func TestIntegration_ConcurrentShortening(t *testing.T) {
	stub := testserver.New(integrationKey)
	defer stub.Close()

	ctx := context.Background()
	store, err := history.Load(ctx, backends[config.BackendSQLite](t, t.TempDir()))
	require.NoError(t, err)
	defer store.Close()
	m := service.NewManager(dispatch.New(), store, newConfig(stub))

	const concurrency = 10
	errs := make(chan error, concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			_, err := m.ShortenURL(ctx, service.ShortenInput{URL: "https://example.com/concurrent"})
			errs <- err
		}()
	}
	for i := 0; i < concurrency; i++ {
		assert.NoError(t, <-errs)
	}

	page := m.Links(0)
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 1, page.Total)

	slugs := make(map[string]bool)
	for _, l := range store.Links() {
		slugs[l.Slug] = true
	}
	assert.Len(t, slugs, concurrency)
}
