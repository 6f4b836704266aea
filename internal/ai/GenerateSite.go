package ai

import (
	"context"
	"strings"
	"time"

	"oneprompt/internal/extract"
	"oneprompt/internal/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Generation is the outcome of one successful generation request.
type Generation struct {
	ID     string               `json:"id"`
	Prompt string               `json:"prompt"`
	Result extract.ParsedResult `json:"result"`
}

// GenerateSite sends the request to the backend and extracts the site code
// from the reply. If ctx is canceled before the reply is processed the
// extractor is not run and ErrCanceled is returned.
func (g *Generator) GenerateSite(ctx context.Context, req Request) (*Generation, error) {
	prompt := req.UserPrompt()
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	req.Prompt = prompt

	id := uuid.New().String()
	zap.S().Infof("Generating site %s (%d chars, %d prior messages)", id, len(prompt), len(req.Messages))

	reply, err := g.complete(ctx, req)
	if ctx.Err() != nil {
		zap.S().Infof("Generation %s canceled by caller", id)
		return nil, ErrCanceled
	}
	if err != nil {
		return nil, errors.Wrapf(err, "generation %s failed", id)
	}
	if strings.TrimSpace(reply) == "" {
		return nil, ErrEmptyReply
	}
	zap.S().Debugf("LLM raw output for %s: %s", id, reply)

	result := extract.Extract(DecodeReply(reply))
	zap.S().Infof("Generation %s extracted: confidence=%s html=%d css=%d js=%d text=%d",
		id, result.Confidence, len(result.HTML), len(result.CSS), len(result.JS), len(result.Text))

	return &Generation{ID: id, Prompt: prompt, Result: result}, nil
}

// complete calls the backend, retrying once after a transient failure. An
// attempt that ran out its own timeout is not retried, so one call stays
// within the configured timeout.
func (g *Generator) complete(ctx context.Context, req Request) (string, error) {
	reply, err := g.attempt(ctx, req)
	if err == nil || !utils.ShouldRetry(err) || ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) {
		return reply, err
	}

	zap.S().Warnf("Generation backend call failed, retrying once after %s... Error: %v", g.retryDelay, err)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(g.retryDelay):
	}
	return g.attempt(ctx, req)
}

func (g *Generator) attempt(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return g.backend.Complete(ctx, req)
}
