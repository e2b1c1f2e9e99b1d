package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/history"
	"github.com/sdotee/desktop/internal/service"
)

// ErrNoContent is returned when a text has nothing to publish
var ErrNoContent = errors.New("no text content given")

// Commands renders service results for the command line
type Commands struct {
	svc service.Sharing
	out io.Writer
}

// NewCommands creates a new commands handler writing to out
func NewCommands(svc service.Sharing, out io.Writer) *Commands {
	return &Commands{svc: svc, out: out}
}

// Domains lists the domains of one category, or of all of them when category is empty
func (c *Commands) Domains(ctx context.Context, category string) error {
	if category == "" {
		all, err := c.svc.ListAllDomains(ctx)
		if err != nil {
			return err
		}
		for _, cat := range domain.Categories() {
			c.printDomains(cat, all[cat])
		}
		return nil
	}

	cat, ok := domain.ParseCategory(category)
	if !ok {
		return fmt.Errorf("unknown category %q (want link, text or file)", category)
	}
	domains, err := c.svc.ListDomains(ctx, cat)
	if err != nil {
		return err
	}
	c.printDomains(cat, domains)
	return nil
}

func (c *Commands) printDomains(cat domain.Category, domains []string) {
	fmt.Fprintf(c.out, "%s domains:\n", cat)
	if len(domains) == 0 {
		fmt.Fprintln(c.out, "  (none)")
		return
	}
	for _, d := range domains {
		fmt.Fprintf(c.out, "  %s\n", d)
	}
}

// Shorten creates a short link
func (c *Commands) Shorten(ctx context.Context, in service.ShortenInput) error {
	record, err := c.svc.ShortenURL(ctx, in)
	if err := c.tolerate(err); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Short URL: %s\n", record.ShortURL)
	fmt.Fprintf(c.out, "Original URL: %s\n", record.OriginalURL)
	fmt.Fprintf(c.out, "Domain: %s\n", record.Domain)
	fmt.Fprintf(c.out, "Slug: %s\n", record.Slug)
	return c.warn(err)
}

// DeleteLink deletes a short link remotely and locally
func (c *Commands) DeleteLink(ctx context.Context, domainName, slug string) error {
	removed, err := c.svc.DeleteLink(ctx, domainName, slug)
	return c.deleted("link", domainName, slug, removed, err)
}

// CreateText publishes a text
func (c *Commands) CreateText(ctx context.Context, in service.TextInput) error {
	if strings.TrimSpace(in.Content) == "" {
		return ErrNoContent
	}

	record, err := c.svc.CreateText(ctx, in)
	if err := c.tolerate(err); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Text URL: %s\n", record.URL)
	if record.PageURL != "" && record.PageURL != record.URL {
		fmt.Fprintf(c.out, "Page: %s\n", record.PageURL)
	}
	fmt.Fprintf(c.out, "Domain: %s\n", record.Domain)
	fmt.Fprintf(c.out, "Slug: %s\n", record.Slug)
	return c.warn(err)
}

// DeleteText deletes a text remotely and locally
func (c *Commands) DeleteText(ctx context.Context, domainName, slug string) error {
	removed, err := c.svc.DeleteText(ctx, domainName, slug)
	return c.deleted("text", domainName, slug, removed, err)
}

// Upload uploads a file
func (c *Commands) Upload(ctx context.Context, path string) error {
	record, err := c.svc.UploadFile(ctx, path)
	if err := c.tolerate(err); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "File URL: %s\n", record.URL)
	if record.PageURL != "" {
		fmt.Fprintf(c.out, "Page: %s\n", record.PageURL)
	}
	fmt.Fprintf(c.out, "Key: %s\n", record.Slug)
	fmt.Fprintf(c.out, "Size: %s\n", humanize.Bytes(uint64(max(record.Size, 0))))
	if record.MimeType != "" {
		fmt.Fprintf(c.out, "Type: %s\n", record.MimeType)
	}
	return c.warn(err)
}

// DeleteFile deletes an upload remotely and locally
func (c *Commands) DeleteFile(ctx context.Context, domainName, key string) error {
	removed, err := c.svc.DeleteFile(ctx, domainName, key)
	return c.deleted("file", domainName, key, removed, err)
}

// Links prints one page of link history; page is one-based
func (c *Commands) Links(page int) {
	p := c.svc.Links(page - 1)
	if len(p.Items) == 0 {
		fmt.Fprintln(c.out, "No links found")
		return
	}

	fmt.Fprintf(c.out, "%-40s %-50s %-15s\n", "Short URL", "Original URL", "Created")
	fmt.Fprintln(c.out, strings.Repeat("-", 107))
	for _, r := range p.Items {
		fmt.Fprintf(c.out, "%-40s %-50s %-15s\n",
			truncate(r.ShortURL, 40), truncate(r.OriginalURL, 50), humanize.Time(r.CreatedAt))
	}
	c.pageLabel(p.Index, p.Total)
}

// Texts prints one page of text history; page is one-based
func (c *Commands) Texts(page int) {
	p := c.svc.Texts(page - 1)
	if len(p.Items) == 0 {
		fmt.Fprintln(c.out, "No texts found")
		return
	}

	fmt.Fprintf(c.out, "%-40s %-20s %-40s %-15s\n", "URL", "Title", "Preview", "Created")
	fmt.Fprintln(c.out, strings.Repeat("-", 118))
	for _, r := range p.Items {
		fmt.Fprintf(c.out, "%-40s %-20s %-40s %-15s\n",
			truncate(r.URL, 40), truncate(r.Title, 20), truncate(oneLine(r.ContentPreview), 40), humanize.Time(r.CreatedAt))
	}
	c.pageLabel(p.Index, p.Total)
}

// Files prints one page of file history; page is one-based
func (c *Commands) Files(page int) {
	p := c.svc.Files(page - 1)
	if len(p.Items) == 0 {
		fmt.Fprintln(c.out, "No files found")
		return
	}

	fmt.Fprintf(c.out, "%-40s %-25s %-10s %-15s\n", "URL", "Filename", "Size", "Created")
	fmt.Fprintln(c.out, strings.Repeat("-", 93))
	for _, r := range p.Items {
		fmt.Fprintf(c.out, "%-40s %-25s %-10s %-15s\n",
			truncate(r.URL, 40), truncate(r.Filename, 25), humanize.Bytes(uint64(max(r.Size, 0))), humanize.Time(r.CreatedAt))
	}
	c.pageLabel(p.Index, p.Total)
}

func (c *Commands) pageLabel(index, total int) {
	fmt.Fprintf(c.out, "\nPage %d / %d\n", index+1, total)
}

// Clear forgets the local history of one kind
func (c *Commands) Clear(ctx context.Context, kind domain.Category) error {
	var err error
	switch kind {
	case domain.CategoryLink:
		err = c.svc.ClearLinks(ctx)
	case domain.CategoryText:
		err = c.svc.ClearTexts(ctx)
	case domain.CategoryFile:
		err = c.svc.ClearFiles(ctx)
	default:
		return fmt.Errorf("unknown history kind %q", kind)
	}
	if err := c.tolerate(err); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Cleared local %s history\n", kind)
	return c.warn(err)
}

// ShowConfig prints the configuration with the API key hidden
func (c *Commands) ShowConfig(cfg *config.Config) error {
	data, err := yaml.Marshal(cfg.Redacted())
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	fmt.Fprintf(c.out, "# %s\n%s", cfg.Path(), data)
	return nil
}

// SetConfig changes one setting and saves the file
func (c *Commands) SetConfig(cfg *config.Config, key, value string) error {
	if !slices.Contains(config.Keys(), key) {
		return fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(config.Keys(), ", "))
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Saved %s to %s\n", key, cfg.Path())
	return nil
}

// ReadContent picks the text to publish: the argument, else the named file,
// else stdin when it is not a terminal
func ReadContent(args []string, path string, stdin io.Reader) (string, error) {
	switch {
	case len(args) > 0 && path != "":
		return "", errors.New("give the content either as an argument or with --file, not both")
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	case stdin != nil:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	return "", ErrNoContent
}

func (c *Commands) deleted(kind, domainName, slug string, removed int, err error) error {
	if err := c.tolerate(err); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Deleted %s %s/%s\n", kind, domainName, slug)
	if removed == 0 {
		fmt.Fprintln(c.out, "It was not in local history")
	} else {
		fmt.Fprintf(c.out, "Removed %d local history %s\n", removed, plural(removed, "entry", "entries"))
	}
	return c.warn(err)
}

// tolerate lets a history persistence failure through so the result is still shown
func (c *Commands) tolerate(err error) error {
	var persistErr *history.PersistError
	if err == nil || errors.As(err, &persistErr) {
		return nil
	}
	return err
}

func (c *Commands) warn(err error) error {
	if err != nil {
		fmt.Fprintf(c.out, "Warning: %v\n", err)
	}
	return nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
