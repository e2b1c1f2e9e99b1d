package client

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/sdotee/desktop/internal/logger"
)

// maxLoggedBody caps how much of an error body is copied into the log
const maxLoggedBody = 4 << 10

// LoggingTransport traces every request and response through a logger. It is
// installed only in verbose mode.
type LoggingTransport struct {
	next   http.RoundTripper
	logger logger.Logger
}

// NewLoggingTransport wraps next; a nil next means http.DefaultTransport
func NewLoggingTransport(next http.RoundTripper, log logger.Logger) *LoggingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &LoggingTransport{next: next, logger: log}
}

// RoundTrip implements http.RoundTripper
func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := t.logger.With(
		logger.String("method", req.Method),
		logger.String("url", req.URL.Redacted()),
		logger.String("request_id", req.Header.Get(requestIDHeader)),
	)

	log.Debug("http request")

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		log.Debug("http request failed", logger.Duration("duration", time.Since(start)), logger.Error(err))
		return nil, err
	}

	log.Debug("http response",
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest && resp.Body != nil {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
		if readErr == nil && len(body) > 0 {
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			log.Debug("http error body", logger.String("body", string(body)))
		}
	}

	return resp, nil
}
