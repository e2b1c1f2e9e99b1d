package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/logger"
	"github.com/sdotee/desktop/internal/validation"
	"github.com/sdotee/desktop/internal/version"
)

const (
	requestIDHeader = "X-Request-ID"

	// maxResponseBody bounds how much of a response is decoded
	maxResponseBody = 10 << 20
)

type requestIDKey struct{}

// WithRequestID attaches an operation ID that is sent as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the ID set by WithRequestID, if any
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Client talks to the S.EE v1 API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

var _ API = (*Client)(nil)

// New builds a client for one connection snapshot. The snapshot is validated
// first, so config.ErrNoAPIKey and config.ErrInvalid come back unchanged.
func New(conn config.Connection, log logger.Logger) (*Client, error) {
	if err := conn.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	var transport http.RoundTripper = http.DefaultTransport
	if conn.Verbose {
		transport = NewLoggingTransport(transport, log)
	}

	return &Client{
		baseURL: strings.TrimRight(conn.BaseURL, "/"),
		apiKey:  conn.APIKey,
		httpClient: &http.Client{
			Timeout:   conn.Timeout,
			Transport: transport,
		},
		logger: log,
	}, nil
}

func domainsPath(category domain.Category) (string, error) {
	switch category {
	case domain.CategoryLink:
		return "/domains", nil
	case domain.CategoryText:
		return "/text/domains", nil
	case domain.CategoryFile:
		return "/file/domains", nil
	}
	return "", fmt.Errorf("%w: unknown domain category %q", ErrValidation, category)
}

// ListDomains retrieves the domains available for category
func (c *Client) ListDomains(ctx context.Context, category domain.Category) ([]string, error) {
	path, err := domainsPath(category)
	if err != nil {
		return nil, err
	}

	list, err := do[domain.DomainList](ctx, c, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	if list.Domains == nil {
		return []string{}, nil
	}
	return list.Domains, nil
}

// ShortenURL creates a short URL
func (c *Client) ShortenURL(ctx context.Context, req domain.ShortenRequest) (*domain.ShortenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := do[domain.ShortenResponse](ctx, c, http.MethodPost, "/shorten", body, "application/json")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteURL deletes a short URL
func (c *Client) DeleteURL(ctx context.Context, req domain.DeleteRequest) error {
	return c.deleteByKey(ctx, "/shorten", req)
}

// CreateText publishes a text snippet
func (c *Client) CreateText(ctx context.Context, req domain.CreateTextRequest) (*domain.CreateTextResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}

	resp, err := do[domain.CreateTextResponse](ctx, c, http.MethodPost, "/text", body, "application/json")
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteText deletes a published text
func (c *Client) DeleteText(ctx context.Context, req domain.DeleteRequest) error {
	return c.deleteByKey(ctx, "/text", req)
}

func (c *Client) deleteByKey(ctx context.Context, path string, req domain.DeleteRequest) error {
	if err := validation.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	body, err := jsonBody(req)
	if err != nil {
		return err
	}

	_, err = do[json.RawMessage](ctx, c, http.MethodDelete, path, body, "application/json")
	return err
}

// UploadFile uploads the file at path
func (c *Client) UploadFile(ctx context.Context, path string) (*domain.FileUploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open file: %w", ErrValidation, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrValidation, path)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)

	go func() {
		defer f.Close()
		part, err := form.CreateFormFile("file", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	resp, err := do[domain.FileUploadResponse](ctx, c, http.MethodPost, "/file/upload", pr, form.FormDataContentType())
	// unblocks the writer if the request ended before the body was consumed
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteFile deletes an uploaded file by its delete key
func (c *Client) DeleteFile(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is required", ErrValidation)
	}

	_, err := do[json.RawMessage](ctx, c, http.MethodGet, "/file/delete/"+url.PathEscape(key), nil, "")
	return err
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do sends one request and decodes the data field of the response envelope
func do[T any](ctx context.Context, c *Client, method, path string, body io.Reader, contentType string) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return zero, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%w: failed to make request: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return zero, fmt.Errorf("%w: failed to read response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env domain.Envelope[json.RawMessage]
		if json.Unmarshal(data, &env) == nil {
			apiErr.Code = env.Code
			apiErr.Message = env.Message
		}
		return zero, apiErr
	}

	var env domain.Envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, fmt.Errorf("%w: failed to decode response: %w", ErrRemote, err)
	}

	if env.Code != 0 && env.Code != http.StatusOK {
		return zero, &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	return env.Data, nil
}

// IsConfigError reports whether err comes from validating a connection rather
// than from talking to the service
func IsConfigError(err error) bool {
	return errors.Is(err, config.ErrNoAPIKey) || errors.Is(err, config.ErrInvalid)
}
