package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/domain"
	"github.com/sdotee/desktop/internal/logger"
	"github.com/sdotee/desktop/internal/metrics"
	"github.com/sdotee/desktop/internal/transport/client"
)

var (
	// ErrNilOperation is carried by the InvalidOutcome answering a nil operation
	ErrNilOperation = errors.New("nil operation")

	// ErrPanic wraps a panic recovered while running an operation
	ErrPanic = errors.New("remote operation panicked")
)

// ClientFactory builds the remote client an operation runs against
type ClientFactory func(conn config.Connection, log logger.Logger) (client.API, error)

// NewHTTPClient is the default ClientFactory
func NewHTTPClient(conn config.Connection, log logger.Logger) (client.API, error) {
	c, err := client.New(conn, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Dispatcher runs each submitted operation on its own goroutine and delivers
// exactly one Outcome per submission. It keeps no state between operations.
type Dispatcher struct {
	newClient ClientFactory
	logger    logger.Logger
	metrics   *metrics.Collector
}

var _ Submitter = (*Dispatcher)(nil)

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithClientFactory replaces the HTTP client, mostly for tests
func WithClientFactory(f ClientFactory) Option {
	return func(d *Dispatcher) { d.newClient = f }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithMetrics records submissions and outcomes on c
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Dispatcher) { d.metrics = c }
}

// New creates a dispatcher
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		newClient: NewHTTPClient,
		logger:    logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Submit runs op with the connection snapshot conn and returns immediately.
// The returned channel receives exactly one Outcome and is then closed.
func (d *Dispatcher) Submit(conn config.Connection, op Operation) <-chan Outcome {
	return d.SubmitContext(context.Background(), conn, op)
}

// SubmitContext is Submit with a context handed to the remote client, which
// abandons in-flight I/O when ctx is done. The outcome is still delivered.
func (d *Dispatcher) SubmitContext(ctx context.Context, conn config.Connection, op Operation) <-chan Outcome {
	out := make(chan Outcome, 1)

	op = normalize(op)
	if op == nil {
		d.logger.Warn("nil operation submitted")
		out <- InvalidOutcome{Error: ErrNilOperation}
		close(out)
		return out
	}

	if d.metrics != nil {
		d.metrics.Submitted(op.Kind().String())
	}

	go d.run(ctx, conn, op, out)
	return out
}

func (d *Dispatcher) run(ctx context.Context, conn config.Connection, op Operation, out chan<- Outcome) {
	id := uuid.NewString()
	log := d.logger.With(
		logger.String("op_id", id),
		logger.String("kind", op.Kind().String()),
	)
	start := time.Now()

	var outcome Outcome
	defer func() {
		if r := recover(); r != nil {
			log.Error("remote operation panicked", logger.String("panic", fmt.Sprint(r)))
			outcome = failed(op, fmt.Errorf("%w: %v", ErrPanic, r))
		}

		result := resultOf(outcome.Err())
		elapsed := time.Since(start)
		if d.metrics != nil {
			d.metrics.Completed(op.Kind().String(), result, elapsed)
		}
		if err := outcome.Err(); err != nil {
			log.Debug("operation failed", logger.String("result", result), logger.Duration("duration", elapsed), logger.Error(err))
		} else {
			log.Debug("operation succeeded", logger.Duration("duration", elapsed))
		}

		out <- outcome
		close(out)
	}()

	log.Debug("operation started")

	if err := conn.Validate(); err != nil {
		outcome = failed(op, err)
		return
	}

	api, err := d.newClient(conn, log)
	if err != nil {
		outcome = failed(op, err)
		return
	}

	outcome = execute(client.WithRequestID(ctx, id), api, op)
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case client.IsConfigError(err):
		return metrics.ResultConfigError
	default:
		return metrics.ResultRemoteError
	}
}

// execute performs op against api and wraps the reply in the matching outcome
func execute(ctx context.Context, api client.API, op Operation) Outcome {
	switch o := op.(type) {
	case ListLinkDomains:
		domains, err := api.ListDomains(ctx, domain.CategoryLink)
		return ListLinkDomainsOutcome{Domains: domains, Error: err}

	case ListTextDomains:
		domains, err := api.ListDomains(ctx, domain.CategoryText)
		return ListTextDomainsOutcome{Domains: domains, Error: err}

	case ListFileDomains:
		domains, err := api.ListDomains(ctx, domain.CategoryFile)
		return ListFileDomainsOutcome{Domains: domains, Error: err}

	case ShortenURL:
		resp, err := api.ShortenURL(ctx, domain.ShortenRequest{
			Domain:     o.Domain,
			TargetURL:  o.URL,
			CustomSlug: o.Slug,
		})
		return ShortenURLOutcome{Response: resp, Error: err}

	case DeleteURL:
		err := api.DeleteURL(ctx, domain.DeleteRequest{Domain: o.Domain, Slug: o.Slug})
		return DeleteURLOutcome{Error: err}

	case CreateText:
		textType := o.Type
		if textType == "" {
			textType = domain.TextTypePlain
		}
		resp, err := api.CreateText(ctx, domain.CreateTextRequest{
			Content:  o.Content,
			Title:    o.Title,
			Domain:   o.Domain,
			TextType: textType,
		})
		return CreateTextOutcome{Response: resp, Error: err}

	case DeleteText:
		err := api.DeleteText(ctx, domain.DeleteRequest{Domain: o.Domain, Slug: o.Slug})
		return DeleteTextOutcome{Error: err}

	case UploadFile:
		resp, err := api.UploadFile(ctx, o.Path)
		return UploadFileOutcome{Response: resp, Error: err}

	case DeleteFile:
		err := api.DeleteFile(ctx, o.Key)
		return DeleteFileOutcome{Error: err}
	}

	return InvalidOutcome{Error: fmt.Errorf("unsupported operation %T", op)}
}

// normalize dereferences pointer operations so the outcome kind always
// matches; a nil pointer becomes a nil operation
func normalize(op Operation) Operation {
	switch o := op.(type) {
	case *ListLinkDomains:
		return deref(o)
	case *ListTextDomains:
		return deref(o)
	case *ListFileDomains:
		return deref(o)
	case *ShortenURL:
		return deref(o)
	case *DeleteURL:
		return deref(o)
	case *CreateText:
		return deref(o)
	case *DeleteText:
		return deref(o)
	case *UploadFile:
		return deref(o)
	case *DeleteFile:
		return deref(o)
	}
	return op
}

func deref[T Operation](p *T) Operation {
	if p == nil {
		return nil
	}
	return *p
}
