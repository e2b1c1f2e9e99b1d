package dispatch

import "github.com/sdotee/desktop/internal/domain"

// Kind identifies a remote operation and the outcome it produces
type Kind int

const (
	KindInvalid Kind = iota
	KindListLinkDomains
	KindListTextDomains
	KindListFileDomains
	KindShortenURL
	KindDeleteURL
	KindCreateText
	KindDeleteText
	KindUploadFile
	KindDeleteFile
)

// Kinds lists every valid operation kind
func Kinds() []Kind {
	return []Kind{
		KindListLinkDomains, KindListTextDomains, KindListFileDomains,
		KindShortenURL, KindDeleteURL,
		KindCreateText, KindDeleteText,
		KindUploadFile, KindDeleteFile,
	}
}

func (k Kind) String() string {
	switch k {
	case KindListLinkDomains:
		return "list_link_domains"
	case KindListTextDomains:
		return "list_text_domains"
	case KindListFileDomains:
		return "list_file_domains"
	case KindShortenURL:
		return "shorten_url"
	case KindDeleteURL:
		return "delete_url"
	case KindCreateText:
		return "create_text"
	case KindDeleteText:
		return "delete_text"
	case KindUploadFile:
		return "upload_file"
	case KindDeleteFile:
		return "delete_file"
	default:
		return "invalid"
	}
}

// Operation is one blocking request to the remote service. The set of
// operations is closed: only the types in this package implement it.
type Operation interface {
	Kind() Kind
	operation()
}

// ListLinkDomains lists the domains usable for short links
type ListLinkDomains struct{}

// ListTextDomains lists the domains usable for texts
type ListTextDomains struct{}

// ListFileDomains lists the domains usable for files
type ListFileDomains struct{}

// ShortenURL shortens URL, optionally on Domain with a custom Slug
type ShortenURL struct {
	URL    string
	Domain string
	Slug   string
}

// DeleteURL deletes a short link
type DeleteURL struct {
	Domain string
	Slug   string
}

// CreateText publishes Content. An empty Type means plain text.
type CreateText struct {
	Content string
	Title   string
	Domain  string
	Type    domain.TextType
}

// DeleteText deletes a published text
type DeleteText struct {
	Domain string
	Slug   string
}

// UploadFile uploads the local file at Path
type UploadFile struct {
	Path string
}

// DeleteFile deletes an upload by its key
type DeleteFile struct {
	Key string
}

func (ListLinkDomains) Kind() Kind { return KindListLinkDomains }
func (ListTextDomains) Kind() Kind { return KindListTextDomains }
func (ListFileDomains) Kind() Kind { return KindListFileDomains }
func (ShortenURL) Kind() Kind      { return KindShortenURL }
func (DeleteURL) Kind() Kind       { return KindDeleteURL }
func (CreateText) Kind() Kind      { return KindCreateText }
func (DeleteText) Kind() Kind      { return KindDeleteText }
func (UploadFile) Kind() Kind      { return KindUploadFile }
func (DeleteFile) Kind() Kind      { return KindDeleteFile }

func (ListLinkDomains) operation() {}
func (ListTextDomains) operation() {}
func (ListFileDomains) operation() {}
func (ShortenURL) operation()      {}
func (DeleteURL) operation()       {}
func (CreateText) operation()      {}
func (DeleteText) operation()      {}
func (UploadFile) operation()      {}
func (DeleteFile) operation()      {}
