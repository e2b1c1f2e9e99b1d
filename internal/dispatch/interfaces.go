package dispatch

import (
	"context"

	"github.com/sdotee/desktop/internal/config"
)

// Submitter hands remote operations to background workers
type Submitter interface {
	Submit(conn config.Connection, op Operation) <-chan Outcome
	SubmitContext(ctx context.Context, conn config.Connection, op Operation) <-chan Outcome
}
