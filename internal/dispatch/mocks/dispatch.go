package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sdotee/desktop/internal/config"
	"github.com/sdotee/desktop/internal/dispatch"
)

// Submitter is a mock implementation of dispatch.Submitter
type Submitter struct {
	mock.Mock
}

// Submit mocks submission without a context
func (m *Submitter) Submit(conn config.Connection, op dispatch.Operation) <-chan dispatch.Outcome {
	args := m.Called(conn, op)
	return args.Get(0).(<-chan dispatch.Outcome)
}

// SubmitContext mocks submission with a context
func (m *Submitter) SubmitContext(ctx context.Context, conn config.Connection, op dispatch.Operation) <-chan dispatch.Outcome {
	args := m.Called(ctx, conn, op)
	return args.Get(0).(<-chan dispatch.Outcome)
}

// Deliver returns a closed channel holding outcome, as a Submitter would
func Deliver(outcome dispatch.Outcome) <-chan dispatch.Outcome {
	ch := make(chan dispatch.Outcome, 1)
	ch <- outcome
	close(ch)
	return ch
}

// Never returns a channel that never delivers
func Never() <-chan dispatch.Outcome {
	return make(chan dispatch.Outcome)
}
