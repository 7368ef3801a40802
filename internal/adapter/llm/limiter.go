package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/charlietlamb/openai-hack/internal/port/inference"
)

var _ inference.Provider = (*LimitedProvider)(nil)

// LimitedProvider paces outgoing calls to stay under the provider's rate limit.
// Concurrency is capped separately by the orchestrator.
type LimitedProvider struct {
	inner   inference.Provider
	limiter *rate.Limiter
}

// NewLimitedProvider allows rps calls per second with a burst of burst.
func NewLimitedProvider(inner inference.Provider, rps float64, burst int) *LimitedProvider {
	if burst < 1 {
		burst = 1
	}
	return &LimitedProvider{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (p *LimitedProvider) Name() string { return p.inner.Name() }

func (p *LimitedProvider) Complete(ctx context.Context, req inference.Request) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for %s rate limit: %w", p.inner.Name(), err)
	}
	return p.inner.Complete(ctx, req)
}
