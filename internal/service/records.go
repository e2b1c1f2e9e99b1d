package service

import (
	"net/url"
	"path/filepath"

	"github.com/sdotee/desktop/internal/domain"
)

// Fallback hosts when a response URL cannot be parsed
const (
	FallbackLinkDomain = "s.ee"
	FallbackTextDomain = "p.s.ee"
	FallbackFileDomain = "i.s.ee"
)

func hostOf(rawURL, fallback string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fallback
	}
	return u.Host
}

// linkRecord keeps the domain that was asked for; the short URL host is used
// only when none was
func linkRecord(in ShortenInput, requestedDomain string, resp *domain.ShortenResponse) domain.LinkRecord {
	domainName := requestedDomain
	if domainName == "" {
		domainName = hostOf(resp.ShortURL, FallbackLinkDomain)
	}
	return domain.NewLinkRecord(in.URL, resp.ShortURL, domainName, resp.Slug, in.Title)
}

// textRecord derives the share page from the host of the short URL
func textRecord(in TextInput, textType domain.TextType, resp *domain.CreateTextResponse) domain.TextRecord {
	domainName := hostOf(resp.ShortURL, FallbackTextDomain)
	pageURL := "https://" + domainName + "/" + resp.Slug
	return domain.NewTextRecord(resp.ShortURL, pageURL, domainName, resp.Slug, in.Title, string(textType), in.Content)
}

// fileRecord is keyed by the server hash, which is also the delete key
func fileRecord(path, mimeType string, resp *domain.FileUploadResponse) domain.FileRecord {
	filename := resp.Filename
	if filename == "" {
		filename = filepath.Base(path)
	}
	domainName := hostOf(resp.URL, FallbackFileDomain)
	return domain.NewFileRecord(resp.URL, resp.Page, domainName, resp.Hash, filename, resp.Size, mimeType)
}
