package mock

import (
	"context"
	"sync/atomic"

	"oneprompt/internal/ai"
)

var _ ai.Backend = (*Backend)(nil)

// Backend is a test double for ai.Backend.
type Backend struct {
	CompleteFn func(ctx context.Context, req ai.Request) (string, error)

	calls atomic.Int32
}

func (b *Backend) Complete(ctx context.Context, req ai.Request) (string, error) {
	b.calls.Add(1)
	return b.CompleteFn(ctx, req)
}

// Calls returns how many times Complete was invoked.
func (b *Backend) Calls() int {
	return int(b.calls.Load())
}
