package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"short", "hello", "hello"},
		{"exactly the limit", strings.Repeat("a", PreviewLength), strings.Repeat("a", PreviewLength)},
		{"one over", strings.Repeat("a", PreviewLength+1), strings.Repeat("a", PreviewLength)},
		{"multibyte", strings.Repeat("é", 150), strings.Repeat("é", PreviewLength)},
		{"emoji", strings.Repeat("🦀", 101), strings.Repeat("🦀", PreviewLength)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Preview(tc.content)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestNewTextRecord_TruncatesContent(t *testing.T) {
	before := time.Now().UTC()
	r := NewTextRecord("https://p.s.ee/x", "https://p.s.ee/x", "p.s.ee", "x", "title", "markdown", strings.Repeat("z", 500))

	assert.Len(t, r.ContentPreview, PreviewLength)
	assert.Equal(t, "p.s.ee", r.Domain)
	assert.Equal(t, "markdown", r.Syntax)
	assert.False(t, r.CreatedAt.Before(before.Truncate(time.Second)))
	assert.Equal(t, time.UTC, r.CreatedAt.Location())
}

func TestRecords_URLs(t *testing.T) {
	link := NewLinkRecord("https://example.com", "https://s.ee/abc", "s.ee", "abc", "")
	assert.Equal(t, "https://s.ee/abc", link.PublicURL())
	assert.Equal(t, "https://s.ee/abc", link.ShareURL())
	link.PageURL = "https://s.ee/abc+"
	assert.Equal(t, "https://s.ee/abc+", link.ShareURL())

	file := NewFileRecord("https://i.s.ee/a.png", "https://i.s.ee/p/a", "i.s.ee", "a", "a.png", 10, "image/png")
	assert.Equal(t, "https://i.s.ee/a.png", file.PublicURL())
	assert.Equal(t, "https://i.s.ee/p/a", file.ShareURL())

	text := NewTextRecord("https://p.s.ee/t", "", "p.s.ee", "t", "", "", "body")
	assert.Equal(t, "https://p.s.ee/t", text.ShareURL())
}

func TestRecords_Matches(t *testing.T) {
	r := NewLinkRecord("https://example.com", "https://s.ee/abc", "s.ee", "abc", "")
	assert.True(t, r.Matches("s.ee", "abc"))
	assert.False(t, r.Matches("s.ee", "ABC"))
	assert.False(t, r.Matches("x.ee", "abc"))
}

func TestLinkRecord_JSONFieldNames(t *testing.T) {
	r := LinkRecord{
		OriginalURL: "https://example.com",
		ShortURL:    "https://s.ee/abc",
		Domain:      "s.ee",
		Slug:        "abc",
		CreatedAt:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"original_url": "https://example.com",
		"short_url": "https://s.ee/abc",
		"domain": "s.ee",
		"slug": "abc",
		"created_at": "2025-05-01T12:00:00Z"
	}`, string(data))
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		parsed, ok := ParseCategory(string(c))
		require.True(t, ok)
		assert.Equal(t, c, parsed)
	}

	_, ok := ParseCategory("video")
	assert.False(t, ok)
}

func TestParseTextType(t *testing.T) {
	tt, ok := ParseTextType("")
	require.True(t, ok)
	assert.Equal(t, TextTypePlain, tt)

	tt, ok = ParseTextType("markdown")
	require.True(t, ok)
	assert.Equal(t, TextTypeMarkdown, tt)

	_, ok = ParseTextType("html")
	assert.False(t, ok)
}
