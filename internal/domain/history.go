package domain

import (
	"time"
	"unicode/utf8"
)

// PreviewLength is the number of characters of a text kept in its history record
const PreviewLength = 100

// LinkRecord is a shortened URL kept in local history
type LinkRecord struct {
	OriginalURL string    `json:"original_url"`
	ShortURL    string    `json:"short_url"`
	PageURL     string    `json:"page_url,omitempty"`
	Domain      string    `json:"domain"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewLinkRecord stamps a new link record with the current time
func NewLinkRecord(originalURL, shortURL, domain, slug, title string) LinkRecord {
	return LinkRecord{
		OriginalURL: originalURL,
		ShortURL:    shortURL,
		Domain:      domain,
		Slug:        slug,
		Title:       title,
		CreatedAt:   time.Now().UTC(),
	}
}

// PublicURL is the address handed to other people
func (r LinkRecord) PublicURL() string { return r.ShortURL }

// ShareURL prefers the share page and falls back to the public URL
func (r LinkRecord) ShareURL() string { return firstNonEmpty(r.PageURL, r.ShortURL) }

// Matches reports whether the record is identified by domain and slug
func (r LinkRecord) Matches(domain, slug string) bool {
	return r.Domain == domain && r.Slug == slug
}

// TextRecord is a published text kept in local history
type TextRecord struct {
	URL            string    `json:"url"`
	PageURL        string    `json:"page_url,omitempty"`
	Domain         string    `json:"domain"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title,omitempty"`
	Syntax         string    `json:"syntax,omitempty"`
	ContentPreview string    `json:"content_preview"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewTextRecord stamps a new text record; only the head of content is kept
func NewTextRecord(url, pageURL, domain, slug, title, syntax, content string) TextRecord {
	return TextRecord{
		URL:            url,
		PageURL:        pageURL,
		Domain:         domain,
		Slug:           slug,
		Title:          title,
		Syntax:         syntax,
		ContentPreview: Preview(content),
		CreatedAt:      time.Now().UTC(),
	}
}

func (r TextRecord) PublicURL() string { return r.URL }

func (r TextRecord) ShareURL() string { return firstNonEmpty(r.PageURL, r.URL) }

func (r TextRecord) Matches(domain, slug string) bool {
	return r.Domain == domain && r.Slug == slug
}

// FileRecord is an uploaded file kept in local history
type FileRecord struct {
	URL       string    `json:"url"`
	PageURL   string    `json:"page_url,omitempty"`
	Domain    string    `json:"domain"`
	Slug      string    `json:"slug"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFileRecord stamps a new file record with the current time
func NewFileRecord(url, pageURL, domain, slug, filename string, size int64, mimeType string) FileRecord {
	return FileRecord{
		URL:       url,
		PageURL:   pageURL,
		Domain:    domain,
		Slug:      slug,
		Filename:  filename,
		Size:      size,
		MimeType:  mimeType,
		CreatedAt: time.Now().UTC(),
	}
}

func (r FileRecord) PublicURL() string { return r.URL }

func (r FileRecord) ShareURL() string { return firstNonEmpty(r.PageURL, r.URL) }

func (r FileRecord) Matches(domain, slug string) bool {
	return r.Domain == domain && r.Slug == slug
}

// Ledger holds every history record, each kind most-recent-first
type Ledger struct {
	Links []LinkRecord `json:"links"`
	Texts []TextRecord `json:"texts"`
	Files []FileRecord `json:"files"`
}

// Preview returns at most PreviewLength characters of content
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	n := 0
	for i := range content {
		if n == PreviewLength {
			return content[:i]
		}
		n++
	}
	return content
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
