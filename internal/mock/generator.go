package mock

import (
	"context"

	"oneprompt/internal/ai"
)

// SiteGenerator is a test double for api.SiteGenerator.
type SiteGenerator struct {
	GenerateSiteFn func(ctx context.Context, req ai.Request) (*ai.Generation, error)
}

func (g *SiteGenerator) GenerateSite(ctx context.Context, req ai.Request) (*ai.Generation, error) {
	return g.GenerateSiteFn(ctx, req)
}
