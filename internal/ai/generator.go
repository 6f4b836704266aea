package ai

import (
	"context"
	"strings"
	"time"

	"oneprompt/internal/types"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyPrompt is returned when a request carries no description.
	ErrEmptyPrompt = errors.New("prompt is required")
	// ErrCanceled is returned when the caller abandoned the request before
	// the reply was processed.
	ErrCanceled = errors.New("generation canceled")
	// ErrEmptyReply is returned when the backend answered with nothing.
	ErrEmptyReply = errors.New("generation backend returned empty response")
)

// Request is one website description, optionally with the conversation
// that preceded it.
type Request struct {
	Prompt   string          `json:"prompt"`
	Messages []types.Message `json:"messages,omitempty"`
}

// UserPrompt returns the description to generate from: the explicit prompt,
// or else the last user message.
func (r Request) UserPrompt() string {
	if p := strings.TrimSpace(r.Prompt); p != "" {
		return p
	}
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return strings.TrimSpace(r.Messages[i].Content)
		}
	}
	return ""
}

// Backend sends a request to a remote text generation service and returns
// its raw reply.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Generator turns website descriptions into extracted site code.
type Generator struct {
	backend    Backend
	timeout    time.Duration
	retryDelay time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithRetryDelay sets the pause before retrying a transient failure.
func WithRetryDelay(d time.Duration) Option {
	return func(g *Generator) { g.retryDelay = d }
}

// NewGenerator creates a Generator. A zero timeout leaves the call bounded
// only by the caller's context.
func NewGenerator(backend Backend, timeout time.Duration, opts ...Option) *Generator {
	g := &Generator{
		backend:    backend,
		timeout:    timeout,
		retryDelay: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}
