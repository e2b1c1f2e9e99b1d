package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
	"github.com/sdotee/desktop/internal/service"
	"github.com/sdotee/desktop/internal/service/mocks"
	"github.com/sdotee/desktop/internal/transport/client"
)

func newTestCommands() (*Commands, *mocks.Sharing, *bytes.Buffer) {
	svc := &mocks.Sharing{}
	var out bytes.Buffer
	return NewCommands(svc, &out), svc, &out
}

func persistFailure(op string) error {
	return &history.PersistError{Op: op, Location: "/data/history.json", Err: errors.New("disk full")}
}

func TestNewCommands(t *testing.T) {
	svc := &mocks.Sharing{}
	var out bytes.Buffer
	commands := NewCommands(svc, &out)

	assert.NotNil(t, commands)
	assert.Equal(t, svc, commands.svc)
}

func TestCommands_Domains(t *testing.T) {
	ctx := context.Background()

	t.Run("all categories in display order", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		svc.On("ListAllDomains", mock.Anything).Return(map[domain.Category][]string{
			domain.CategoryFile: {"i.s.ee"},
			domain.CategoryLink: {"s.ee", "ss.ee"},
			domain.CategoryText: nil,
		}, nil)

		require.NoError(t, commands.Domains(ctx, ""))

		output := out.String()
		assert.Contains(t, output, "link domains:\n  s.ee\n  ss.ee\n")
		assert.Contains(t, output, "text domains:\n  (none)\n")
		assert.Contains(t, output, "file domains:\n  i.s.ee\n")
		assert.Less(t, strings.Index(output, "link"), strings.Index(output, "file"))
		svc.AssertExpectations(t)
	})

	t.Run("single category", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		svc.On("ListDomains", mock.Anything, domain.CategoryText).Return([]string{"p.s.ee"}, nil)

		require.NoError(t, commands.Domains(ctx, "text"))
		assert.Equal(t, "text domains:\n  p.s.ee\n", out.String())
	})

	t.Run("unknown category", func(t *testing.T) {
		commands, svc, _ := newTestCommands()

		err := commands.Domains(ctx, "video")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "video")
		svc.AssertNotCalled(t, "ListDomains", mock.Anything, mock.Anything)
	})

	t.Run("remote failure", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		svc.On("ListAllDomains", mock.Anything).Return(nil, client.ErrNetwork)

		err := commands.Domains(ctx, "")
		assert.ErrorIs(t, err, client.ErrNetwork)
		assert.Empty(t, out.String())
	})
}

func TestCommands_Shorten(t *testing.T) {
	ctx := context.Background()
	in := service.ShortenInput{URL: "https://example.com/a", Slug: "abc"}
	record := domain.NewLinkRecord("https://example.com/a", "https://s.ee/abc", "s.ee", "abc", "")

	tests := []struct {
		name        string
		err         error
		wantErr     error
		wantOutput  []string
		wantWarning bool
	}{
		{
			name:       "success",
			wantOutput: []string{"Short URL: https://s.ee/abc", "Original URL: https://example.com/a", "Domain: s.ee", "Slug: abc"},
		},
		{
			name:        "history not saved",
			err:         persistFailure("add link"),
			wantOutput:  []string{"Short URL: https://s.ee/abc"},
			wantWarning: true,
		},
		{
			name:    "remote error",
			err:     &client.APIError{StatusCode: 409, Message: "slug taken"},
			wantErr: client.ErrRemote,
		},
		{
			name:    "no api key",
			err:     config.ErrNoAPIKey,
			wantErr: config.ErrNoAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands, svc, out := newTestCommands()
			returned := record
			if tt.wantErr != nil {
				returned = domain.LinkRecord{}
			}
			svc.On("ShortenURL", mock.Anything, in).Return(returned, tt.err)

			err := commands.Shorten(ctx, in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, out.String())
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
			if tt.wantWarning {
				assert.Contains(t, out.String(), "Warning: add link: changed in memory but not saved")
			} else {
				assert.NotContains(t, out.String(), "Warning")
			}
		})
	}
}

func TestCommands_CreateText(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		in := service.TextInput{Content: "hello", Title: "greeting", Type: domain.TextTypeMarkdown}
		svc.On("CreateText", mock.Anything, in).Return(
			domain.NewTextRecord("https://p.s.ee/t1", "https://p.s.ee/t1", "p.s.ee", "t1", "greeting", "markdown", "hello"), nil)

		require.NoError(t, commands.CreateText(ctx, in))

		assert.Contains(t, out.String(), "Text URL: https://p.s.ee/t1")
		assert.NotContains(t, out.String(), "Page:")
		assert.Contains(t, out.String(), "Slug: t1")
	})

	t.Run("blank content is rejected locally", func(t *testing.T) {
		commands, svc, _ := newTestCommands()

		err := commands.CreateText(ctx, service.TextInput{Content: "  \n"})
		assert.ErrorIs(t, err, ErrNoContent)
		svc.AssertNotCalled(t, "CreateText", mock.Anything, mock.Anything)
	})
}

func TestCommands_Upload(t *testing.T) {
	commands, svc, out := newTestCommands()
	svc.On("UploadFile", mock.Anything, "/tmp/cat.png").Return(
		domain.NewFileRecord("https://i.s.ee/ab12.png", "https://i.s.ee/p/ab12", "i.s.ee", "ab12", "cat.png", 2_500_000, "image/png"), nil)

	require.NoError(t, commands.Upload(context.Background(), "/tmp/cat.png"))

	output := out.String()
	assert.Contains(t, output, "File URL: https://i.s.ee/ab12.png")
	assert.Contains(t, output, "Page: https://i.s.ee/p/ab12")
	assert.Contains(t, output, "Key: ab12")
	assert.Contains(t, output, "Size: 2.5 MB")
	assert.Contains(t, output, "Type: image/png")
}

func TestCommands_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(*mocks.Sharing, error)
		run        func(*Commands) error
		err        error
		wantOutput []string
		wantErr    bool
	}{
		{
			name: "link with local entry",
			setupMocks: func(m *mocks.Sharing, err error) {
				m.On("DeleteLink", mock.Anything, "s.ee", "abc").Return(1, err)
			},
			run:        func(c *Commands) error { return c.DeleteLink(ctx, "s.ee", "abc") },
			wantOutput: []string{"Deleted link s.ee/abc", "Removed 1 local history entry"},
		},
		{
			name: "text not in history",
			setupMocks: func(m *mocks.Sharing, err error) {
				m.On("DeleteText", mock.Anything, "p.s.ee", "t1").Return(0, err)
			},
			run:        func(c *Commands) error { return c.DeleteText(ctx, "p.s.ee", "t1") },
			wantOutput: []string{"Deleted text p.s.ee/t1", "It was not in local history"},
		},
		{
			name: "file with duplicates",
			setupMocks: func(m *mocks.Sharing, err error) {
				m.On("DeleteFile", mock.Anything, "i.s.ee", "ab12").Return(2, err)
			},
			run:        func(c *Commands) error { return c.DeleteFile(ctx, "i.s.ee", "ab12") },
			wantOutput: []string{"Deleted file i.s.ee/ab12", "Removed 2 local history entries"},
		},
		{
			name: "remote failure keeps history",
			setupMocks: func(m *mocks.Sharing, err error) {
				m.On("DeleteLink", mock.Anything, "s.ee", "gone").Return(0, err)
			},
			run:     func(c *Commands) error { return c.DeleteLink(ctx, "s.ee", "gone") },
			err:     &client.APIError{StatusCode: 404, Message: "not found"},
			wantErr: true,
		},
		{
			name: "local save failure is a warning",
			setupMocks: func(m *mocks.Sharing, err error) {
				m.On("DeleteLink", mock.Anything, "s.ee", "abc").Return(1, err)
			},
			run:        func(c *Commands) error { return c.DeleteLink(ctx, "s.ee", "abc") },
			err:        persistFailure("remove link"),
			wantOutput: []string{"Deleted link s.ee/abc", "Warning: remove link"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commands, svc, out := newTestCommands()
			tt.setupMocks(svc, tt.err)

			err := tt.run(commands)

			if tt.wantErr {
				assert.Error(t, err)
				assert.NotContains(t, out.String(), "Deleted")
				return
			}
			require.NoError(t, err)
			for _, want := range tt.wantOutput {
				assert.Contains(t, out.String(), want)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestCommands_Links(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		svc.On("Links", 0).Return(history.Page[domain.LinkRecord]{})

		commands.Links(1)
		assert.Equal(t, "No links found\n", out.String())
	})

	t.Run("page label is one-based", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		record := domain.NewLinkRecord("https://example.com/"+strings.Repeat("x", 80), "https://s.ee/abc", "s.ee", "abc", "")
		record.CreatedAt = time.Now().Add(-2 * time.Hour)
		svc.On("Links", 1).Return(history.Page[domain.LinkRecord]{
			Items: []domain.LinkRecord{record},
			Index: 1,
			Total: 3,
		})

		commands.Links(2)

		output := out.String()
		assert.Contains(t, output, "Short URL")
		assert.Contains(t, output, "https://s.ee/abc")
		assert.Contains(t, output, "...")
		assert.NotContains(t, output, strings.Repeat("x", 80))
		assert.Contains(t, output, "2 hours ago")
		assert.Contains(t, output, "Page 2 / 3")
	})
}

func TestCommands_Texts(t *testing.T) {
	commands, svc, out := newTestCommands()
	record := domain.NewTextRecord("https://p.s.ee/t1", "", "p.s.ee", "t1", "notes", "plain_text", "line one\nline two")
	svc.On("Texts", 0).Return(history.Page[domain.TextRecord]{Items: []domain.TextRecord{record}, Total: 1})

	commands.Texts(1)

	output := out.String()
	assert.Contains(t, output, "notes")
	assert.Contains(t, output, "line one line two")
	assert.Contains(t, output, "Page 1 / 1")
}

func TestCommands_Files(t *testing.T) {
	commands, svc, out := newTestCommands()
	record := domain.NewFileRecord("https://i.s.ee/ab12.pdf", "", "i.s.ee", "ab12", "report.pdf", 1024, "application/pdf")
	svc.On("Files", 0).Return(history.Page[domain.FileRecord]{Items: []domain.FileRecord{record}, Total: 1})

	commands.Files(1)

	output := out.String()
	assert.Contains(t, output, "report.pdf")
	assert.Contains(t, output, "1.0 kB")
	assert.Contains(t, output, "Page 1 / 1")
}

func TestCommands_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("each kind", func(t *testing.T) {
		commands, svc, out := newTestCommands()
		svc.On("ClearLinks", mock.Anything).Return(nil)
		svc.On("ClearTexts", mock.Anything).Return(nil)
		svc.On("ClearFiles", mock.Anything).Return(persistFailure("clear files"))

		require.NoError(t, commands.Clear(ctx, domain.CategoryLink))
		require.NoError(t, commands.Clear(ctx, domain.CategoryText))
		require.NoError(t, commands.Clear(ctx, domain.CategoryFile))

		output := out.String()
		assert.Contains(t, output, "Cleared local link history")
		assert.Contains(t, output, "Cleared local text history")
		assert.Contains(t, output, "Warning: clear files")
		svc.AssertExpectations(t)
	})

	t.Run("unknown kind", func(t *testing.T) {
		commands, _, _ := newTestCommands()
		assert.Error(t, commands.Clear(ctx, domain.Category("video")))
	})
}

func TestCommands_Config(t *testing.T) {
	t.Setenv("SEE_API_KEY", "")
	os.Unsetenv("SEE_API_KEY")

	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)

	commands, _, out := newTestCommands()

	t.Run("set saves the file", func(t *testing.T) {
		require.NoError(t, commands.SetConfig(cfg, "api-key", "secret-key"))
		require.NoError(t, commands.SetConfig(cfg, "default-link-domain", "ss.ee"))
		assert.Contains(t, out.String(), "Saved api-key to "+path)

		reloaded, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "secret-key", reloaded.API.APIKey)
		assert.Equal(t, "ss.ee", reloaded.Defaults.LinkDomain)
	})

	t.Run("unknown key", func(t *testing.T) {
		err := commands.SetConfig(cfg, "colour", "blue")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api-key")
	})

	t.Run("show hides the key", func(t *testing.T) {
		out.Reset()
		require.NoError(t, commands.ShowConfig(cfg))

		assert.Contains(t, out.String(), "# "+path)
		assert.Contains(t, out.String(), "link_domain: ss.ee")
		assert.NotContains(t, out.String(), "secret-key")
		assert.Contains(t, out.String(), "REDACTED")
	})
}

func TestReadContent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "note.md")
	require.NoError(t, os.WriteFile(file, []byte("# from file"), 0o600))

	tests := []struct {
		name    string
		args    []string
		path    string
		stdin   string
		want    string
		wantErr bool
	}{
		{name: "arguments joined", args: []string{"hello", "world"}, want: "hello world"},
		{name: "file", path: file, want: "# from file"},
		{name: "stdin", stdin: "piped", want: "piped"},
		{name: "both", args: []string{"x"}, path: file, wantErr: true},
		{name: "missing file", path: filepath.Join(t.TempDir(), "nope"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadContent(tt.args, tt.path, strings.NewReader(tt.stdin))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("nothing at all", func(t *testing.T) {
		_, err := ReadContent(nil, "", nil)
		assert.ErrorIs(t, err, ErrNoContent)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééééééé...", truncate(strings.Repeat("é", 20), 10))
}
