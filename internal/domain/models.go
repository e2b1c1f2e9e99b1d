package domain

// Category selects which family of domains the remote service should list
type Category string

const (
	CategoryLink Category = "link"
	CategoryText Category = "text"
	CategoryFile Category = "file"
)

// Categories lists every category in display order
func Categories() []Category {
	return []Category{CategoryLink, CategoryText, CategoryFile}
}

// ParseCategory converts user input into a Category
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryLink, CategoryText, CategoryFile:
		return Category(s), true
	}
	return "", false
}

// TextType is the rendering hint for a published text
type TextType string

const (
	TextTypePlain      TextType = "plain_text"
	TextTypeSourceCode TextType = "source_code"
	TextTypeMarkdown   TextType = "markdown"
)

// ParseTextType converts user input into a TextType; empty input means plain text
func ParseTextType(s string) (TextType, bool) {
	switch TextType(s) {
	case "":
		return TextTypePlain, true
	case TextTypePlain, TextTypeSourceCode, TextTypeMarkdown:
		return TextType(s), true
	}
	return "", false
}

// Envelope is the response wrapper used by every endpoint of the remote API
type Envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// DomainList is the payload of the domain listing endpoints
type DomainList struct {
	Domains []string `json:"domains"`
}

// ShortenRequest represents the request to create a short URL
type ShortenRequest struct {
	Domain     string `json:"domain,omitempty"`
	TargetURL  string `json:"target_url" validate:"required,http_url"`
	CustomSlug string `json:"custom_slug,omitempty" validate:"omitempty,max=64"`
}

// ShortenResponse represents the response when creating a short URL
type ShortenResponse struct {
	ShortURL   string `json:"short_url"`
	Slug       string `json:"slug"`
	CustomSlug string `json:"custom_slug,omitempty"`
}

// DeleteRequest identifies a link or text on the remote service
type DeleteRequest struct {
	Domain string `json:"domain" validate:"required"`
	Slug   string `json:"slug" validate:"required"`
}

// CreateTextRequest represents the request to publish a text
type CreateTextRequest struct {
	Content    string   `json:"content" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Domain     string   `json:"domain,omitempty"`
	TextType   TextType `json:"text_type,omitempty" validate:"omitempty,oneof=plain_text source_code markdown"`
	CustomSlug string   `json:"custom_slug,omitempty"`
}

// CreateTextResponse represents the response when publishing a text
type CreateTextResponse struct {
	ShortURL   string `json:"short_url"`
	Slug       string `json:"slug"`
	CustomSlug string `json:"custom_slug,omitempty"`
}

// FileUploadResponse represents the response when uploading a file
type FileUploadResponse struct {
	FileID    int64  `json:"file_id"`
	Filename  string `json:"filename"`
	StoreName string `json:"storename,omitempty"`
	Size      int64  `json:"size"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	URL       string `json:"url"`
	Page      string `json:"page,omitempty"`
	Path      string `json:"path,omitempty"`
	Hash      string `json:"hash"`
	Delete    string `json:"delete,omitempty"`
}
